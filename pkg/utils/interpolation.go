package utils

import "math"

// 插值工具函数
//
// 滚动驱动动画的全部数值映射都经过这里：
// 虚拟滚动值 → 形变进度、旋转量，以及进度 → 叠加文案的透明度与位移。

// Lerp 线性插值
// 在 a 和 b 之间根据 t 插值
// t=0 返回 a，t=1 返回 b
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// Clamp 将 v 限制在 [lo, hi] 区间
// NaN 视为 lo，保证输出总是有限区间内的值
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// MapRange 分段线性映射，超出输入区间时夹紧到端点输出
//
// input 必须单调递增且与 output 等长（至少两个点），否则返回 output 的首元素（或 0）。
//
// 示例：
//
//	MapRange(300, []float64{0, 600}, []float64{0, 1})     // 0.5
//	MapRange(3500, []float64{600, 3000}, []float64{0, 1100}) // 1100
func MapRange(v float64, input, output []float64) float64 {
	if len(input) < 2 || len(input) != len(output) {
		if len(output) > 0 {
			return output[0]
		}
		return 0
	}

	if math.IsNaN(v) || v <= input[0] {
		return output[0]
	}
	last := len(input) - 1
	if v >= input[last] {
		return output[last]
	}

	for i := 1; i <= last; i++ {
		if v > input[i] {
			continue
		}
		span := input[i] - input[i-1]
		if span <= 0 {
			return output[i]
		}
		t := (v - input[i-1]) / span
		return Lerp(output[i-1], output[i], t)
	}
	return output[last]
}

// DegToRad 角度转弧度
func DegToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

// Finite 将 NaN/Inf/负数 规整为 0，用于尺寸类输入
func Finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}
