package systems

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

var approxPose = cmpopts.EquateApprox(0, 1e-9)

func defaultLayout() *config.LayoutConfig {
	return &config.DefaultMorphConfig().Layout
}

func assertPose(t *testing.T, want, got components.Pose) {
	t.Helper()
	if diff := cmp.Diff(want, got, approxPose); diff != "" {
		t.Errorf("pose mismatch (-want +got):\n%s", diff)
	}
}

func assertFinite(t *testing.T, p components.Pose) {
	t.Helper()
	for name, v := range map[string]float64{
		"x": p.X, "y": p.Y, "rotation": p.Rotation, "scale": p.Scale, "opacity": p.Opacity,
	} {
		assert.False(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}
}

// TestCirclePose_FirstCard 1200x800 容器，20 张卡，索引 0
func TestCirclePose_FirstCard(t *testing.T) {
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	layout := defaultLayout()

	assert.InDelta(t, 280.0, CircleRadius(vp, layout.Circle), 1e-9)
	assertPose(t, components.Pose{X: 280, Y: -60, Rotation: 90, Scale: 1, Opacity: 1},
		CirclePose(0, 20, vp, layout.Circle))
}

// TestCircleRadius_Capped 大屏半径上限 350
func TestCircleRadius_Capped(t *testing.T) {
	vp := components.ViewportComponent{Width: 3000, Height: 2000}
	assert.Equal(t, 350.0, CircleRadius(vp, defaultLayout().Circle))
}

// TestCirclePose_Quarter 四分之一圆周处卡片在正下方
func TestCirclePose_Quarter(t *testing.T) {
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	p := CirclePose(5, 20, vp, defaultLayout().Circle)
	assert.InDelta(t, 0, p.X, 1e-9)
	assert.InDelta(t, 280-60, p.Y, 1e-9)
	assert.InDelta(t, 180, p.Rotation, 1e-9)
}

// TestLinePose 横排以 0 为中心
func TestLinePose(t *testing.T) {
	line := defaultLayout().Line
	assert.Equal(t, -800.0, LinePose(0, 20, line).X)
	assert.Equal(t, 0.0, LinePose(10, 20, line).X)
	assert.Equal(t, 720.0, LinePose(19, 20, line).X)

	p := LinePose(3, 20, line)
	assert.Equal(t, 0.0, p.Y)
	assert.Equal(t, 0.0, p.Rotation)
	assert.Equal(t, 1.0, p.Scale)
	assert.Equal(t, 1.0, p.Opacity)
}

// TestArcPose_Middle 弧形中间一张位于弧顶正下方，不旋转
func TestArcPose_Middle(t *testing.T) {
	tests := []struct {
		name  string
		vp    components.ViewportComponent
		wantY float64
		scale float64
	}{
		// R = min(1200, 1200) × 1.1 = 1320，圆心 = 200 + 1320
		{name: "wide", vp: components.ViewportComponent{Width: 1200, Height: 800}, wantY: -1320 + 1520 - 80, scale: 1.8},
		// R = min(600, 1200) × 1.4 = 840，圆心 = 280 + 840
		{name: "narrow", vp: components.ViewportComponent{Width: 600, Height: 800}, wantY: -840 + 1120 - 80, scale: 1.4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertPose(t, components.Pose{X: 0, Y: tt.wantY, Rotation: 0, Scale: tt.scale, Opacity: 1},
				ArcPose(1, 3, tt.vp, 0, defaultLayout()))
		})
	}
}

// TestComputeArcGeometry_Spread 展开角与洗牌旋转
func TestComputeArcGeometry_Spread(t *testing.T) {
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	layout := defaultLayout()

	g := ComputeArcGeometry(20, vp, 0, layout)
	assert.InDelta(t, -155, g.StartAngle, 1e-9)
	assert.InDelta(t, 130.0/19, g.Step, 1e-9)
	assert.Equal(t, 0.0, g.Rotation)

	half := ComputeArcGeometry(20, vp, 500, layout)
	assert.InDelta(t, -78, half.Rotation, 1e-9)

	full := ComputeArcGeometry(20, vp, 1000, layout)
	assert.InDelta(t, -156, full.Rotation, 1e-9)

	beyond := ComputeArcGeometry(20, vp, 1100, layout)
	assert.Equal(t, full.Rotation, beyond.Rotation, "shuffle progress saturates")

	narrow := ComputeArcGeometry(20, components.ViewportComponent{Width: 767, Height: 800}, 1000, layout)
	assert.InDelta(t, -120, narrow.Rotation, 1e-9)
}

// TestTargetPose_MorphEndpoints morph=0 等于圆形，morph=1 等于弧形
func TestTargetPose_MorphEndpoints(t *testing.T) {
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	layout := defaultLayout()

	for _, index := range []int{0, 7, 19} {
		in := MorphInput{Phase: components.PhaseCircle, Index: index, Count: 20, Viewport: vp, Rotate: 300}

		in.Morph = 0
		assertPose(t, CirclePose(index, 20, vp, layout.Circle), TargetPose(in, layout))

		in.Morph = 1
		assertPose(t, ArcPose(index, 20, vp, 300, layout), TargetPose(in, layout))
	}
}

// TestTargetPose_BlendIsLinear 中间值逐字段线性
func TestTargetPose_BlendIsLinear(t *testing.T) {
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	layout := defaultLayout()
	circle := CirclePose(4, 20, vp, layout.Circle)
	arc := ArcPose(4, 20, vp, 0, layout)

	in := MorphInput{Phase: components.PhaseCircle, Index: 4, Count: 20, Viewport: vp, Morph: 0.25}
	got := TargetPose(in, layout)

	assert.InDelta(t, circle.X+(arc.X-circle.X)*0.25, got.X, 1e-9)
	assert.InDelta(t, circle.Y+(arc.Y-circle.Y)*0.25, got.Y, 1e-9)
	assert.InDelta(t, circle.Rotation+(arc.Rotation-circle.Rotation)*0.25, got.Rotation, 1e-9)
	assert.InDelta(t, 1+(1.8-1)*0.25, got.Scale, 1e-9)
	assert.Equal(t, 1.0, got.Opacity)
}

// TestTargetPose_Phases 各阶段目标
func TestTargetPose_Phases(t *testing.T) {
	layout := defaultLayout()
	scatter := components.Pose{X: 120, Y: -40, Rotation: 33, Scale: 0.6, Opacity: 1}
	vp := components.ViewportComponent{Width: 1200, Height: 800}
	in := MorphInput{Index: 2, Count: 20, Scatter: scatter, Viewport: vp, Morph: 1, Rotate: 800}

	in.Phase = components.PhaseHidden
	hidden := scatter
	hidden.Opacity = 0
	assertPose(t, hidden, TargetPose(in, layout))

	in.Phase = components.PhaseScatter
	assertPose(t, scatter, TargetPose(in, layout))

	in.Phase = components.PhaseLine
	assertPose(t, LinePose(2, 20, layout.Line), TargetPose(in, layout))
}

// TestTargetPose_DegenerateViewport 零尺寸容器和单张卡片都返回有限值
func TestTargetPose_DegenerateViewport(t *testing.T) {
	layout := defaultLayout()
	tests := []struct {
		name  string
		vp    components.ViewportComponent
		count int
	}{
		{name: "zero container", vp: components.ViewportComponent{}, count: 20},
		{name: "single card", vp: components.ViewportComponent{Width: 1200, Height: 800}, count: 1},
		{name: "single card zero container", vp: components.ViewportComponent{}, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, morph := range []float64{0, 0.5, 1} {
				for i := 0; i < tt.count; i++ {
					in := MorphInput{Phase: components.PhaseCircle, Index: i, Count: tt.count, Viewport: tt.vp, Morph: morph, Rotate: 700}
					assertFinite(t, TargetPose(in, layout))
				}
			}
		})
	}

	p := CirclePose(0, 20, components.ViewportComponent{}, layout.Circle)
	assertPose(t, components.Pose{X: 0, Y: -60, Rotation: 90, Scale: 1, Opacity: 1}, p)
	assertFinite(t, CirclePose(0, 0, components.ViewportComponent{}, layout.Circle))
}

// TestRollScatterPose 散落位姿落在配置范围内，同一随机源可复现
func TestRollScatterPose(t *testing.T) {
	cfg := defaultLayout().Scatter

	rngA := rand.New(rand.NewPCG(1, 2))
	rngB := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		a := RollScatterPose(rngA, cfg)
		assert.Equal(t, a, RollScatterPose(rngB, cfg))

		assert.LessOrEqual(t, math.Abs(a.X), 750.0)
		assert.LessOrEqual(t, math.Abs(a.Y), 500.0)
		assert.LessOrEqual(t, math.Abs(a.Rotation), 90.0)
		assert.Equal(t, 0.6, a.Scale)
		assert.Equal(t, 1.0, a.Opacity)
	}

	other := RollScatterPose(rand.New(rand.NewPCG(3, 4)), cfg)
	assert.NotEqual(t, RollScatterPose(rand.New(rand.NewPCG(1, 2)), cfg), other)
}
