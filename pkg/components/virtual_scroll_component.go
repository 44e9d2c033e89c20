package components

// VirtualScrollComponent 虚拟滚动状态
//
// Position 与页面原生滚动位置无关，只由被拦截的滚轮/触摸增量推进，
// 始终位于 [0, MaxScroll]。
type VirtualScrollComponent struct {
	// Position 当前虚拟滚动值
	Position float64

	// MaxScroll 上界（下界固定为 0）
	MaxScroll float64

	// LastTouchY 上一次触摸的 Y 坐标
	// 无论本次手势是否被拦截都会更新，避免恢复拦截时位置跳变
	LastTouchY float64

	// TouchActive 是否处于一次触摸过程中
	TouchActive bool
}

// AtLowerBound 是否位于下界
func (c *VirtualScrollComponent) AtLowerBound() bool {
	return c.Position <= 0
}

// AtUpperBound 是否位于上界
func (c *VirtualScrollComponent) AtUpperBound() bool {
	return c.Position >= c.MaxScroll
}
