package components

import "math"

// ViewportComponent 引擎渲染容器尺寸
// 未测量时为 0，几何计算会退化为安全的零半径布局
type ViewportComponent struct {
	Width  float64
	Height float64
}

// MinDimension 宽高中较小者
func (v *ViewportComponent) MinDimension() float64 {
	return math.Min(v.Width, v.Height)
}

// Measured 是否已经测量过
func (v *ViewportComponent) Measured() bool {
	return v.Width > 0 && v.Height > 0
}
