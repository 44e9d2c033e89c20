package systems

import (
	"math"
	"math/rand/v2"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/utils"
)

// 形变布局的纯几何函数
//
// 坐标系：原点为容器中心，X 向右，Y 向下，Rotation 为角度。
// 所有函数对零尺寸容器都返回有限值（半径退化为 0）。

// RollScatterPose 随机生成一个散落位姿
// X ∈ [-SpanX/2, SpanX/2]，Y ∈ [-SpanY/2, SpanY/2]，Rotation ∈ [-SpanRotation/2, SpanRotation/2]
func RollScatterPose(rng *rand.Rand, cfg config.ScatterConfig) components.Pose {
	return components.Pose{
		X:        (rng.Float64() - 0.5) * cfg.SpanX,
		Y:        (rng.Float64() - 0.5) * cfg.SpanY,
		Rotation: (rng.Float64() - 0.5) * cfg.SpanRotation,
		Scale:    cfg.Scale,
		Opacity:  1,
	}
}

// LinePose 横排布局：等间距，整行以 x=0 为中心
func LinePose(index, count int, cfg config.LineConfig) components.Pose {
	totalWidth := float64(count) * cfg.Spacing
	return components.Pose{
		X:        float64(index)*cfg.Spacing - totalWidth/2,
		Y:        0,
		Rotation: 0,
		Scale:    1,
		Opacity:  1,
	}
}

// CircleRadius 圆形布局半径 = min(较短边 × RadiusRatio, MaxRadius)
func CircleRadius(vp components.ViewportComponent, cfg config.CircleConfig) float64 {
	r := math.Min(vp.MinDimension()*cfg.RadiusRatio, cfg.MaxRadius)
	return math.Max(r, 0)
}

// CirclePose 圆形布局：卡片按索引均分圆周，旋转方向与圆相切
func CirclePose(index, count int, vp components.ViewportComponent, cfg config.CircleConfig) components.Pose {
	if count <= 0 {
		return components.Pose{Scale: 1, Opacity: 1}
	}
	radius := CircleRadius(vp, cfg)
	angle := float64(index) / float64(count) * 360
	rad := utils.DegToRad(angle)

	return components.Pose{
		X:        math.Cos(rad) * radius,
		Y:        math.Sin(rad)*radius + cfg.OffsetY,
		Rotation: angle + 90,
		Scale:    1,
		Opacity:  1,
	}
}

// ArcGeometry 一帧内所有卡片共享的弧形参数
type ArcGeometry struct {
	Radius     float64
	CenterY    float64
	StartAngle float64
	Step       float64
	Rotation   float64 // 整体刚体旋转（角度，非正）
	Scale      float64
	OffsetY    float64
}

// ComputeArcGeometry 计算弧形参数
//
// 基础半径 = min(宽, 高 × BaseHeightFactor)，再按宽窄屏放大；
// 弧顶位于 高 × ApexRatio，圆心在弧顶下方一个半径处。
// 洗牌进度 = clamp(rotate / RotateDivisor, 0, 1)，整体旋转 = -进度 × 展开角 × RotationFactor。
func ComputeArcGeometry(count int, vp components.ViewportComponent, rotate float64, layout *config.LayoutConfig) ArcGeometry {
	profile := layout.ArcProfileFor(vp.Width)
	arc := layout.Arc

	baseRadius := math.Max(math.Min(vp.Width, vp.Height*arc.BaseHeightFactor), 0)
	radius := baseRadius * profile.RadiusFactor
	apexY := vp.Height * profile.ApexRatio

	step := 0.0
	if count > 1 {
		step = profile.Spread / float64(count-1)
	}

	progress := utils.Clamp(rotate/arc.RotateDivisor, 0, 1)

	return ArcGeometry{
		Radius:     radius,
		CenterY:    apexY + radius,
		StartAngle: -90 - profile.Spread/2,
		Step:       step,
		Rotation:   -progress * profile.Spread * arc.RotationFactor,
		Scale:      profile.Scale,
		OffsetY:    arc.OffsetY,
	}
}

// Pose 弧形上第 index 张卡片的位姿
func (g ArcGeometry) Pose(index int) components.Pose {
	angle := g.StartAngle + float64(index)*g.Step + g.Rotation
	rad := utils.DegToRad(angle)
	return components.Pose{
		X:        math.Cos(rad) * g.Radius,
		Y:        math.Sin(rad)*g.Radius + g.CenterY + g.OffsetY,
		Rotation: angle + 90,
		Scale:    g.Scale,
		Opacity:  1,
	}
}

// ArcPose 底部弧形布局（单张卡片）
func ArcPose(index, count int, vp components.ViewportComponent, rotate float64, layout *config.LayoutConfig) components.Pose {
	return ComputeArcGeometry(count, vp, rotate, layout).Pose(index)
}

// BlendPose 按 t 在两个位姿之间逐字段线性插值（X、Y、Rotation、Scale），透明度固定为 1
// t=0 精确返回 a，t=1 精确返回 b
func BlendPose(a, b components.Pose, t float64) components.Pose {
	return components.Pose{
		X:        utils.Lerp(a.X, b.X, t),
		Y:        utils.Lerp(a.Y, b.Y, t),
		Rotation: utils.Lerp(a.Rotation, b.Rotation, t),
		Scale:    utils.Lerp(a.Scale, b.Scale, t),
		Opacity:  1,
	}
}

// MorphInput 计算目标位姿所需的全部输入
type MorphInput struct {
	Phase    components.IntroPhase
	Index    int
	Count    int
	Scatter  components.Pose
	Viewport components.ViewportComponent
	Morph    float64
	Rotate   float64
}

// TargetPose 按阶段计算卡片目标位姿
func TargetPose(in MorphInput, layout *config.LayoutConfig) components.Pose {
	switch in.Phase {
	case components.PhaseHidden:
		pose := in.Scatter
		pose.Opacity = 0
		return pose

	case components.PhaseScatter:
		pose := in.Scatter
		pose.Opacity = 1
		return pose

	case components.PhaseLine:
		return LinePose(in.Index, in.Count, layout.Line)

	default:
		circle := CirclePose(in.Index, in.Count, in.Viewport, layout.Circle)
		arc := ArcPose(in.Index, in.Count, in.Viewport, in.Rotate, layout)
		return BlendPose(circle, arc, in.Morph)
	}
}

// finiteSize 尺寸输入规整：NaN、无穷和负数都视为未测量
func finiteSize(v float64) float64 {
	return utils.Finite(v)
}
