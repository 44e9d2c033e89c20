package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newScrollInput(t *testing.T, probe SectionProbe) (*ScrollInputSystem, *[]float64) {
	t.Helper()
	em := ecs.NewEntityManager()
	sys := NewScrollInputSystem(em, config.DefaultMorphConfig().Scroll, probe, nil)

	published := &[]float64{}
	sys.OnScroll().Subscribe(func(v float64) {
		*published = append(*published, v)
	})
	return sys, published
}

// TestScrollInput_Decisions 拦截决策表
func TestScrollInput_Decisions(t *testing.T) {
	tests := []struct {
		name        string
		start       float64
		delta       float64
		sectionTop  float64
		wantHandled bool
		wantPos     float64
	}{
		{name: "pinned scroll down from zero", start: 0, delta: 100, wantHandled: true, wantPos: 100},
		{name: "scroll up at lower bound", start: 0, delta: -50, wantHandled: false, wantPos: 0},
		{name: "scroll down at upper bound", start: 3000, delta: 10, wantHandled: false, wantPos: 3000},
		{name: "scroll up at upper bound", start: 3000, delta: -10, wantHandled: true, wantPos: 2990},
		{name: "clamped to upper bound", start: 2990, delta: 500, wantHandled: true, wantPos: 3000},
		{name: "clamped to lower bound", start: 40, delta: -500, wantHandled: true, wantPos: 0},
		{name: "section below viewport top", start: 0, delta: 100, sectionTop: 200, wantHandled: false, wantPos: 0},
		{name: "section within pin threshold", start: 0, delta: 100, sectionTop: 4, wantHandled: true, wantPos: 100},
		{name: "scroll up while section not pinned", start: 500, delta: -100, sectionTop: 200, wantHandled: true, wantPos: 400},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			top := 0.0
			sys, _ := newScrollInput(t, func() (float64, bool) { return top, true })
			if tt.start > 0 {
				require.True(t, sys.HandleWheel(tt.start))
			}
			top = tt.sectionTop

			handled := sys.HandleWheel(tt.delta)
			assert.Equal(t, tt.wantHandled, handled)
			assert.Equal(t, tt.wantPos, sys.Position())
		})
	}
}

// TestScrollInput_RandomSequencesStayInRange 任意增量序列下滚动值始终在 [0, MaxScroll]
func TestScrollInput_RandomSequencesStayInRange(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 1024))
	top := 0.0
	sys, published := newScrollInput(t, func() (float64, bool) { return top, true })

	touchY := 500.0
	sys.HandleTouchStart(touchY)
	for i := 0; i < 2000; i++ {
		if rng.IntN(4) == 0 {
			top = 300
		} else {
			top = 0
		}
		delta := (rng.Float64() - 0.5) * 1600
		if rng.IntN(2) == 0 {
			sys.HandleWheel(delta)
		} else {
			touchY -= delta
			sys.HandleTouchMove(touchY)
		}

		pos := sys.Position()
		require.GreaterOrEqual(t, pos, 0.0, "step %d", i)
		require.LessOrEqual(t, pos, 3000.0, "step %d", i)
	}

	for _, v := range *published {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.LessOrEqual(t, v, 3000.0)
	}
}

// TestScrollInput_PublishesSynchronously 拦截后立即发布新值，不拦截时不发布
func TestScrollInput_PublishesSynchronously(t *testing.T) {
	sys, published := newScrollInput(t, nil)

	assert.True(t, sys.HandleWheel(100))
	assert.Equal(t, []float64{100}, *published)

	assert.True(t, sys.HandleWheel(-100))
	assert.False(t, sys.HandleWheel(-1))
	assert.Equal(t, []float64{100, 0}, *published)
}

// TestScrollInput_ZeroDelta 零增量和 NaN 不拦截也不发布
func TestScrollInput_ZeroDelta(t *testing.T) {
	sys, published := newScrollInput(t, nil)
	require.True(t, sys.HandleWheel(50))

	assert.False(t, sys.HandleWheel(0))
	assert.False(t, sys.HandleWheel(math.NaN()))
	assert.Equal(t, 50.0, sys.Position())
	assert.Len(t, *published, 1)
}

// TestScrollInput_UnmeasuredSection 区块未测量时视为已固定
func TestScrollInput_UnmeasuredSection(t *testing.T) {
	sys, _ := newScrollInput(t, func() (float64, bool) { return 500, false })
	assert.True(t, sys.HandleWheel(100))
	assert.Equal(t, 100.0, sys.Position())
}

// TestScrollInput_Touch 手指上滑为向下滚动
func TestScrollInput_Touch(t *testing.T) {
	sys, _ := newScrollInput(t, nil)

	sys.HandleTouchStart(500)
	assert.True(t, sys.HandleTouchMove(400))
	assert.Equal(t, 100.0, sys.Position())

	assert.True(t, sys.HandleTouchMove(450))
	assert.Equal(t, 50.0, sys.Position())
	sys.HandleTouchEnd()
}

// TestScrollInput_TouchNoJumpAfterRelease 让出的手势片段同样更新 LastTouchY
func TestScrollInput_TouchNoJumpAfterRelease(t *testing.T) {
	sys, _ := newScrollInput(t, nil)

	sys.HandleTouchStart(300)
	// 位于下界，手指下滑（向上滚动）被让出
	assert.False(t, sys.HandleTouchMove(600))
	assert.Equal(t, 0.0, sys.Position())

	// 反向 50 像素只推进 50，而不是相对起点的 -250
	assert.True(t, sys.HandleTouchMove(550))
	assert.Equal(t, 50.0, sys.Position())
}

// TestScrollInput_TouchMoveWithoutStart 没有起点时第一次移动只记录位置
func TestScrollInput_TouchMoveWithoutStart(t *testing.T) {
	sys, published := newScrollInput(t, nil)

	assert.False(t, sys.HandleTouchMove(400))
	assert.Empty(t, *published)
	assert.True(t, sys.HandleTouchMove(380))
	assert.Equal(t, 20.0, sys.Position())
}

// TestScrollInput_SetConfigReclamps 上界变小时重新夹紧
func TestScrollInput_SetConfigReclamps(t *testing.T) {
	sys, published := newScrollInput(t, nil)
	require.True(t, sys.HandleWheel(2500))

	cfg := config.DefaultMorphConfig().Scroll
	cfg.MaxScroll = 2000
	sys.SetConfig(cfg)

	assert.Equal(t, 2000.0, sys.Position())
	assert.Equal(t, []float64{2500, 2000}, *published)

	cfg.MaxScroll = 4000
	sys.SetConfig(cfg)
	assert.Len(t, *published, 2, "raising the bound does not publish")
	assert.True(t, sys.HandleWheel(1500))
	assert.Equal(t, 3500.0, sys.Position())
}

// TestScrollInput_MissingEntity 实体被移除后所有输入都是空操作
func TestScrollInput_MissingEntity(t *testing.T) {
	em := ecs.NewEntityManager()
	sys := NewScrollInputSystem(em, config.DefaultMorphConfig().Scroll, nil, nil)
	em.Clear()

	assert.NotPanics(t, func() {
		sys.HandleTouchStart(10)
		assert.False(t, sys.HandleTouchMove(0))
		assert.False(t, sys.HandleWheel(100))
		sys.HandleTouchEnd()
	})
	assert.Equal(t, 0.0, sys.Position())
}
