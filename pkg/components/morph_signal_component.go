package components

// MorphSignalComponent 由虚拟滚动值派生的连续信号
type MorphSignalComponent struct {
	// RawMorph / RawRotate 分段映射后的原始目标值
	RawMorph  float64
	RawRotate float64

	// Morph 平滑后的形变进度，0 = 圆形，1 = 底部弧形
	Morph         float64
	MorphVelocity float64

	// Rotate 平滑后的洗牌旋转量
	Rotate         float64
	RotateVelocity float64

	// 供相邻 UI 使用的派生量
	ContentOpacity    float64 // 弧形文案透明度
	ContentOffsetY    float64 // 弧形文案纵向偏移
	IntroTitleOpacity float64 // 圆形阶段标题透明度
	HintOpacity       float64 // "滚动探索"提示透明度
}
