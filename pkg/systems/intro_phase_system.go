package systems

import (
	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/decker502/aeromorph/pkg/game"
	"go.uber.org/zap"
)

// IntroPhaseSystem 开场阶段状态机
//
// 状态：Hidden → Scatter → Line → Circle，Circle 为终态。
// 触发条件是一次性的"进入视口"观察：
//   - 触发时立即进入 Scatter
//   - LineDelay 之后进入 Line
//   - CircleDelay 之后（同样从触发时刻起算）进入 Circle
//
// 阶段只前进不后退，重复触发被忽略；Cancel 取消尚未触发的定时器。
type IntroPhaseSystem struct {
	entityManager *ecs.EntityManager
	scheduler     *game.TimerScheduler
	phaseEntity   ecs.EntityID
	cfg           config.PhaseConfig
	onPhase       game.Signal[components.IntroPhase]
	logger        *zap.Logger
}

// NewIntroPhaseSystem 创建开场阶段系统，并创建阶段状态实体
func NewIntroPhaseSystem(em *ecs.EntityManager, scheduler *game.TimerScheduler, cfg config.PhaseConfig, logger *zap.Logger) *IntroPhaseSystem {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &IntroPhaseSystem{
		entityManager: em,
		scheduler:     scheduler,
		cfg:           cfg,
		logger:        logger.Named("intro_phase"),
	}

	s.phaseEntity = em.CreateEntity()
	ecs.AddComponent(em, s.phaseEntity, &components.IntroPhaseComponent{
		Phase: components.PhaseHidden,
	})
	return s
}

// Entity 阶段状态实体
func (s *IntroPhaseSystem) Entity() ecs.EntityID {
	return s.phaseEntity
}

// OnPhaseChange 阶段变化通知
func (s *IntroPhaseSystem) OnPhaseChange() *game.Signal[components.IntroPhase] {
	return &s.onPhase
}

// SetConfig 更新阶段计时，只影响之后的触发
func (s *IntroPhaseSystem) SetConfig(cfg config.PhaseConfig) {
	s.cfg = cfg
}

// Phase 当前阶段
func (s *IntroPhaseSystem) Phase() components.IntroPhase {
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	if !ok {
		return components.PhaseHidden
	}
	return phase.Phase
}

// Triggered 是否已经触发过
func (s *IntroPhaseSystem) Triggered() bool {
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	return ok && phase.Triggered
}

// Trigger 区块进入视口
// 返回 true 表示本次调用启动了开场编排
func (s *IntroPhaseSystem) Trigger() bool {
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	if !ok || phase.Triggered {
		return false
	}
	phase.Triggered = true

	s.logger.Info("intro triggered",
		zap.Duration("line_delay", s.cfg.LineDelay),
		zap.Duration("circle_delay", s.cfg.CircleDelay))

	s.advanceTo(phase, components.PhaseScatter)

	var lineTimer, circleTimer game.TimerHandle
	lineTimer = s.scheduler.After(s.cfg.LineDelay, func() {
		s.onTimer(lineTimer, components.PhaseLine)
	})
	circleTimer = s.scheduler.After(s.cfg.CircleDelay, func() {
		s.onTimer(circleTimer, components.PhaseCircle)
	})
	phase.PendingTimers = append(phase.PendingTimers, lineTimer, circleTimer)
	return true
}

// Cancel 取消所有未触发的阶段定时器
func (s *IntroPhaseSystem) Cancel() {
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	if !ok {
		return
	}
	for _, h := range phase.PendingTimers {
		s.scheduler.Cancel(h)
	}
	if len(phase.PendingTimers) > 0 {
		s.logger.Debug("pending phase timers cancelled", zap.Int("count", len(phase.PendingTimers)))
	}
	phase.PendingTimers = nil
}

// onTimer 定时器回调
// 实体已被移除（卸载）时什么都不做
func (s *IntroPhaseSystem) onTimer(h game.TimerHandle, next components.IntroPhase) {
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	if !ok {
		return
	}
	for i, pending := range phase.PendingTimers {
		if pending == h {
			phase.PendingTimers = append(phase.PendingTimers[:i], phase.PendingTimers[i+1:]...)
			break
		}
	}
	s.advanceTo(phase, next)
}

// advanceTo 只允许向前推进
func (s *IntroPhaseSystem) advanceTo(phase *components.IntroPhaseComponent, next components.IntroPhase) {
	if next <= phase.Phase {
		return
	}
	prev := phase.Phase
	phase.Phase = next
	s.logger.Info("intro phase", zap.Stringer("from", prev), zap.Stringer("to", next))
	s.onPhase.Publish(next)
}
