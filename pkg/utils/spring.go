package utils

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// SpringParams 弹簧参数（与常见动画库的 stiffness/damping/mass 写法一致）
type SpringParams struct {
	Stiffness float64
	Damping   float64
	Mass      float64
}

// AngularFrequency 无阻尼角频率 ω = sqrt(k/m)
func (p SpringParams) AngularFrequency() float64 {
	if p.Stiffness <= 0 || p.Mass <= 0 {
		return 0
	}
	return math.Sqrt(p.Stiffness / p.Mass)
}

// DampingRatio 阻尼比 ζ = c / (2·sqrt(k·m))
// ζ >= 1 时没有回弹
func (p SpringParams) DampingRatio() float64 {
	if p.Stiffness <= 0 || p.Mass <= 0 {
		return 1
	}
	return p.Damping / (2 * math.Sqrt(p.Stiffness*p.Mass))
}

// SpringStep 推进一帧弹簧平滑
//
// 纯函数：输入上一帧的位置、速度、目标值和时间步长（秒），返回新的位置和速度。
// harmonica 使用解析解，任意 dt 下都保持稳定，位置连续变化不会跳变。
// dt <= 0 时原样返回。
func SpringStep(pos, vel, target, dt float64, p SpringParams) (float64, float64) {
	if dt <= 0 || math.IsNaN(dt) {
		return pos, vel
	}
	freq := p.AngularFrequency()
	if freq == 0 {
		// 刚度为 0 视为直接跟随
		return target, 0
	}
	spring := harmonica.NewSpring(dt, freq, p.DampingRatio())
	return spring.Update(pos, vel, target)
}

// SpringSettled 判断弹簧是否已稳定在目标附近
func SpringSettled(pos, vel, target, epsilon float64) bool {
	return math.Abs(pos-target) <= epsilon && math.Abs(vel) <= epsilon
}
