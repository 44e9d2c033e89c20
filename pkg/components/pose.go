package components

// Pose 单张卡片的二维变换
// Rotation 单位为角度，X/Y 相对容器中心
type Pose struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
	Scale    float64 `yaml:"scale"`
	Opacity  float64 `yaml:"opacity"`
}

// TargetPoseComponent 本帧推导出的目标位姿，不跨帧保存任何累积量
type TargetPoseComponent struct {
	Pose Pose
}

// MotionComponent 渲染用位姿
// 每个字段独立地以弹簧追踪目标位姿（卡片自身的过渡动画）
type MotionComponent struct {
	Pose     Pose
	Velocity Pose
	// Initialized 首帧直接对齐目标，避免从原点飞入
	Initialized bool
}
