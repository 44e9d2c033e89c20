package systems

import (
	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/decker502/aeromorph/pkg/utils"
)

// CardMotionSystem 渲染位姿以弹簧逐字段追踪目标位姿
// 阶段切换（散落 → 横排 → 圆形）时卡片平滑过渡而不是瞬移
type CardMotionSystem struct {
	entityManager *ecs.EntityManager
	cfg           config.MotionConfig
}

// NewCardMotionSystem 创建卡片运动系统
func NewCardMotionSystem(em *ecs.EntityManager, cfg config.MotionConfig) *CardMotionSystem {
	return &CardMotionSystem{entityManager: em, cfg: cfg}
}

// SetConfig 更新弹簧参数
func (s *CardMotionSystem) SetConfig(cfg config.MotionConfig) {
	s.cfg = cfg
}

// Update 推进所有卡片的渲染位姿
func (s *CardMotionSystem) Update(dt float64) {
	params := s.cfg.Spring.Params()
	ids := ecs.GetEntitiesWith2[*components.TargetPoseComponent, *components.MotionComponent](s.entityManager)

	for _, id := range ids {
		target, _ := ecs.GetComponent[*components.TargetPoseComponent](s.entityManager, id)
		motion, _ := ecs.GetComponent[*components.MotionComponent](s.entityManager, id)

		if !motion.Initialized {
			motion.Pose = target.Pose
			motion.Velocity = components.Pose{}
			motion.Initialized = true
			continue
		}

		p, v, goal := &motion.Pose, &motion.Velocity, target.Pose
		p.X, v.X = utils.SpringStep(p.X, v.X, goal.X, dt, params)
		p.Y, v.Y = utils.SpringStep(p.Y, v.Y, goal.Y, dt, params)
		p.Rotation, v.Rotation = utils.SpringStep(p.Rotation, v.Rotation, goal.Rotation, dt, params)
		p.Scale, v.Scale = utils.SpringStep(p.Scale, v.Scale, goal.Scale, dt, params)
		p.Opacity, v.Opacity = utils.SpringStep(p.Opacity, v.Opacity, goal.Opacity, dt, params)
		p.Opacity = utils.Clamp(p.Opacity, 0, 1)
	}
}
