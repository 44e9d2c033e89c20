// Package tui 终端预览：把引擎状态画成字符，滚轮和方向键驱动虚拟滚动
//
// 终端里没有宿主页面，让回页面的滚动增量直接丢弃。
package tui

import (
	"context"
	"fmt"
	"math"
	"time"
	"unicode/utf8"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/morph"
	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"
)

const (
	// CellWidth / CellHeight 一个字符格对应的布局单位
	CellWidth  = 10.0
	CellHeight = 20.0

	// DefaultFrame 预览刷新间隔
	DefaultFrame = time.Second / 30

	// maxStep 单帧推进上限，终端被挂起后恢复不会一步跳到终点
	maxStep = 0.1

	// 卡片透明度低于该值不绘制
	minVisibleOpacity = 0.05
)

var (
	styleHeader = tcell.StyleDefault.Foreground(tcell.ColorWhite).Bold(true)
	styleHint   = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleCard   = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleFaded  = tcell.StyleDefault.Foreground(tcell.ColorOlive).Dim(true)
	styleTitle  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// Preview 终端预览
type Preview struct {
	screen tcell.Screen
	engine *morph.Engine
	logger *zap.Logger
	frame  time.Duration

	// updates 热加载的新配置，为 nil 时不监听
	updates <-chan *config.MorphConfig

	cols, rows int
}

// NewPreview 创建预览，screen 需已经 Init
func NewPreview(screen tcell.Screen, engine *morph.Engine, logger *zap.Logger) *Preview {
	if logger == nil {
		logger = zap.NewNop()
	}
	p := &Preview{
		screen: screen,
		engine: engine,
		logger: logger.Named("tui"),
		frame:  DefaultFrame,
	}
	p.syncSize()
	return p
}

// SetFrame 修改刷新间隔，需在 Run 之前调用
func (p *Preview) SetFrame(d time.Duration) {
	if d > 0 {
		p.frame = d
	}
}

// WatchConfig 在帧循环里应用 ch 送来的新配置，需在 Run 之前调用
func (p *Preview) WatchConfig(ch <-chan *config.MorphConfig) {
	p.updates = ch
}

// Size 当前终端尺寸（字符格）
func (p *Preview) Size() (cols, rows int) {
	return p.cols, p.rows
}

// Run 事件循环，ctx 取消或按下 q / Esc 时返回
func (p *Preview) Run(ctx context.Context) error {
	p.screen.EnableMouse()
	defer p.screen.DisableMouse()

	events := make(chan tcell.Event, 64)
	quit := make(chan struct{})
	go p.screen.ChannelEvents(events, quit)
	defer func() {
		close(quit)
		// ChannelEvents 退出时关闭 events
		for range events {
		}
	}()

	ticker := time.NewTicker(p.frame)
	defer ticker.Stop()

	p.logger.Info("terminal preview started", zap.Int("cols", p.cols), zap.Int("rows", p.rows))
	p.Draw()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return nil
			}
			if p.HandleEvent(ev) {
				p.logger.Info("terminal preview closed")
				return nil
			}

		case cfg := <-p.updates:
			if err := p.engine.ApplyConfig(cfg); err != nil {
				p.logger.Warn("config update rejected", zap.Error(err))
			}

		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			p.Step(dt)
		}
	}
}

// HandleEvent 处理单个终端事件，返回 true 表示退出
func (p *Preview) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return p.handleKey(ev)

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		line := p.engine.Config().Scroll.WheelLineHeight
		if buttons&tcell.WheelDown != 0 {
			p.engine.HandleWheel(line)
		}
		if buttons&tcell.WheelUp != 0 {
			p.engine.HandleWheel(-line)
		}

	case *tcell.EventResize:
		p.screen.Sync()
		p.syncSize()
	}
	return false
}

func (p *Preview) handleKey(ev *tcell.EventKey) bool {
	line := p.engine.Config().Scroll.WheelLineHeight
	page := float64(p.rows) * CellHeight

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyEnter:
		p.engine.EnterViewport()
	case tcell.KeyDown:
		p.engine.HandleWheel(line)
	case tcell.KeyUp:
		p.engine.HandleWheel(-line)
	case tcell.KeyPgDn:
		p.engine.HandleWheel(page)
	case tcell.KeyPgUp:
		p.engine.HandleWheel(-page)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return true
		case ' ':
			p.engine.EnterViewport()
		case 'j':
			p.engine.HandleWheel(line)
		case 'k':
			p.engine.HandleWheel(-line)
		}
	}
	return false
}

// Step 推进引擎并重绘
func (p *Preview) Step(dt float64) {
	if dt > maxStep {
		dt = maxStep
	}
	p.engine.Update(dt)
	p.Draw()
}

// syncSize 终端尺寸换算为布局尺寸
func (p *Preview) syncSize() {
	p.cols, p.rows = p.screen.Size()
	p.engine.Resize(float64(p.cols)*CellWidth, float64(p.rows)*CellHeight)
}

// CellFor 容器坐标（原点在中心）换算为字符格
func (p *Preview) CellFor(pose components.Pose) (col, row int) {
	col = p.cols/2 + int(math.Round(pose.X/CellWidth))
	row = p.rows/2 + int(math.Round(pose.Y/CellHeight))
	return col, row
}

// Draw 绘制一帧
func (p *Preview) Draw() {
	p.screen.Clear()

	cards := p.engine.Cards()
	for i, pose := range p.engine.Poses() {
		if pose.Opacity < minVisibleOpacity || i >= len(cards) {
			continue
		}
		col, row := p.CellFor(pose)
		if col < 0 || col >= p.cols || row < 1 || row >= p.rows-1 {
			continue
		}
		style := styleCard
		if pose.Opacity < 0.5 {
			style = styleFaded
		}
		p.screen.SetContent(col, row, cardGlyph(cards[i].Title, i), nil, style)
	}

	signals := p.engine.Signals()
	if _, featured, ok := p.engine.FeaturedCard(); ok && signals.ContentOpacity > 0.5 {
		title := featured.Title
		p.drawText((p.cols-utf8.RuneCountInString(title))/2, p.rows/4, title, styleTitle)
	}

	header := fmt.Sprintf("%-8s scroll %4.0f/%-4.0f morph %.2f rotate %4.0f",
		p.engine.Phase(), p.engine.ScrollPosition(), p.engine.Config().Scroll.MaxScroll,
		signals.Morph, signals.Rotate)
	p.drawText(0, 0, header, styleHeader)
	p.drawText(0, p.rows-1, "wheel/j/k scroll  space enter  q quit", styleHint)

	p.screen.Show()
}

func (p *Preview) drawText(x, y int, text string, style tcell.Style) {
	if y < 0 || y >= p.rows {
		return
	}
	for _, r := range text {
		if x >= p.cols {
			return
		}
		if x >= 0 {
			p.screen.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

// cardGlyph 卡片标题首字母，没有标题时按索引取字母
func cardGlyph(title string, index int) rune {
	if r, _ := utf8.DecodeRuneInString(title); r != utf8.RuneError && r != ' ' {
		return r
	}
	return rune('a' + index%26)
}
