package components

import "github.com/decker502/aeromorph/pkg/game"

// IntroPhase 开场编排阶段
// 数值只增不减：Hidden → Scatter → Line → Circle
type IntroPhase int

const (
	// PhaseHidden 卡片在散落位置上隐藏
	PhaseHidden IntroPhase = iota
	// PhaseScatter 卡片在随机散落位置显示
	PhaseScatter
	// PhaseLine 卡片排成一行
	PhaseLine
	// PhaseCircle 圆形布局，之后的变化全部由连续的形变信号驱动
	PhaseCircle
)

// String 返回阶段名称
func (p IntroPhase) String() string {
	switch p {
	case PhaseHidden:
		return "hidden"
	case PhaseScatter:
		return "scatter"
	case PhaseLine:
		return "line"
	case PhaseCircle:
		return "circle"
	default:
		return "unknown"
	}
}

// IntroPhaseComponent 开场阶段状态
type IntroPhaseComponent struct {
	// Phase 当前阶段
	Phase IntroPhase

	// Triggered 是否已触发过（每次挂载最多触发一次）
	Triggered bool

	// PendingTimers 尚未触发的阶段定时器，卸载时取消
	PendingTimers []game.TimerHandle
}
