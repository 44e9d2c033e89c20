package tui

import (
	"context"
	"errors"
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/morph"
	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newSimScreen(t *testing.T) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(80, 24)
	t.Cleanup(s.Fini)
	return s
}

func newPreview(t *testing.T) (*Preview, *morph.Engine, tcell.SimulationScreen) {
	t.Helper()
	deck := &config.CardDeck{Cards: []config.Card{
		{Title: "Alpha"}, {Title: "Beta"}, {Title: "Gamma"},
	}}
	e, err := morph.NewEngine(nil, deck, morph.WithRand(rand.New(rand.NewPCG(3, 5))))
	require.NoError(t, err)
	t.Cleanup(e.Close)

	s := newSimScreen(t)
	return NewPreview(s, e, nil), e, s
}

func cellAt(s tcell.SimulationScreen, col, row int) string {
	cells, w, _ := s.GetContents()
	return string(cells[row*w+col].Bytes)
}

func rowText(s tcell.SimulationScreen, row int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for col := 0; col < w; col++ {
		b.Write(cells[row*w+col].Bytes)
	}
	return b.String()
}

func TestNewPreview_SyncsSize(t *testing.T) {
	p, e, _ := newPreview(t)

	cols, rows := p.Size()
	assert.Equal(t, 80, cols)
	assert.Equal(t, 24, rows)
	assert.Equal(t, components.ViewportComponent{Width: 800, Height: 480}, e.Viewport())
}

func TestHandleEvent_Resize(t *testing.T) {
	p, e, s := newPreview(t)

	s.SetSize(100, 30)
	assert.False(t, p.HandleEvent(tcell.NewEventResize(100, 30)))
	assert.Equal(t, components.ViewportComponent{Width: 1000, Height: 600}, e.Viewport())
}

func TestHandleEvent_Wheel(t *testing.T) {
	p, e, _ := newPreview(t)

	p.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelDown, tcell.ModNone))
	assert.Equal(t, 100.0, e.ScrollPosition())

	p.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, 0.0, e.ScrollPosition())

	// 下界继续向上滚动被让出并丢弃
	p.HandleEvent(tcell.NewEventMouse(0, 0, tcell.WheelUp, tcell.ModNone))
	assert.Equal(t, 0.0, e.ScrollPosition())
}

func TestHandleEvent_Keys(t *testing.T) {
	p, e, _ := newPreview(t)

	assert.False(t, p.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)))
	assert.Equal(t, 100.0, e.ScrollPosition())
	p.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone))
	assert.Equal(t, 200.0, e.ScrollPosition())
	p.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'k', tcell.ModNone))
	assert.Equal(t, 100.0, e.ScrollPosition())

	// 翻页按终端高度换算：24 行 × 20
	p.HandleEvent(tcell.NewEventKey(tcell.KeyPgDn, 0, tcell.ModNone))
	assert.Equal(t, 580.0, e.ScrollPosition())

	assert.Equal(t, components.PhaseHidden, e.Phase())
	assert.False(t, p.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, components.PhaseScatter, e.Phase())

	assert.True(t, p.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, p.HandleEvent(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone)))
}

func TestDraw_CircleLayout(t *testing.T) {
	p, e, s := newPreview(t)

	require.True(t, e.EnterViewport())
	for i := 0; i < 180; i++ {
		p.Step(1.0 / 30)
	}
	require.Equal(t, components.PhaseCircle, e.Phase())

	// 半径 min(480×0.35, 350)=168，第 0 张在圆的最右侧，纵向偏移 -60
	col, row := p.CellFor(e.Targets()[0])
	assert.Equal(t, 57, col)
	assert.Equal(t, 9, row)
	assert.Equal(t, "A", cellAt(s, col, row))

	assert.Contains(t, rowText(s, 0), "circle")
	assert.Contains(t, rowText(s, 23), "q quit")
}

func TestDraw_FeaturedTitle(t *testing.T) {
	p, e, s := newPreview(t)

	require.True(t, e.EnterViewport())
	for i := 0; i < 90; i++ {
		p.Step(1.0 / 30)
	}
	require.Equal(t, components.PhaseCircle, e.Phase())
	require.True(t, e.HandleWheel(600))
	for i := 0; i < 300; i++ {
		p.Step(1.0 / 30)
	}

	// 三张卡片铺成弧形后中间一张在弧顶
	index, card, ok := e.FeaturedCard()
	require.True(t, ok)
	assert.Equal(t, 1, index)
	title := rowText(s, 24/4)
	assert.Contains(t, title, card.Title)
	assert.NotContains(t, title, "Alpha")
}

func TestDraw_HiddenCardsNotDrawn(t *testing.T) {
	p, _, s := newPreview(t)

	p.Draw()
	for row := 1; row < 23; row++ {
		assert.Equal(t, "", strings.TrimSpace(rowText(s, row)), "row %d", row)
	}
}

func TestCardGlyph(t *testing.T) {
	assert.Equal(t, 'A', cardGlyph("Alpha", 0))
	assert.Equal(t, '东', cardGlyph("东京", 0))
	assert.Equal(t, 'c', cardGlyph("", 2))
	assert.Equal(t, 'b', cardGlyph(" padded", 27))
}

func TestRun_QuitKey(t *testing.T) {
	p, _, s := newPreview(t)
	p.SetFrame(5 * time.Millisecond)

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestRun_ContextCancel(t *testing.T) {
	p, e, _ := newPreview(t)
	p.SetFrame(5 * time.Millisecond)
	e.EnterViewport()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.Run(ctx) }()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestRun_AppliesConfigUpdates(t *testing.T) {
	p, e, s := newPreview(t)
	p.SetFrame(5 * time.Millisecond)

	updates := make(chan *config.MorphConfig)
	p.WatchConfig(updates)

	done := make(chan error, 1)
	go func() { done <- p.Run(context.Background()) }()

	cfg := config.DefaultMorphConfig()
	cfg.Scroll.MaxScroll = 1000
	select {
	case updates <- cfg:
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not receive the config")
	}

	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after q")
	}

	assert.Equal(t, 1000.0, e.Config().Scroll.MaxScroll)
}
