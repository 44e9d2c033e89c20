package systems

import (
	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/decker502/aeromorph/pkg/utils"
)

// MorphSignalSystem 把虚拟滚动值转换为平滑的驱动信号
//
// 原始目标：形变 = map(scroll, MorphInput → MorphOutput)，旋转 = map(scroll, RotateInput → RotateOutput)，
// 两者都在区间外夹紧。每帧再经过弹簧平滑，滚动值跳变时信号也只会连续变化。
//
// 目标值在滚动发布时同步更新（SetTarget），平滑只在 Update 中推进。
type MorphSignalSystem struct {
	entityManager *ecs.EntityManager
	signalEntity  ecs.EntityID
	phaseEntity   ecs.EntityID
	cfg           config.SignalsConfig
}

// NewMorphSignalSystem 创建信号系统，并创建信号实体
// phaseEntity 用于计算只在圆形阶段出现的标题和提示透明度
func NewMorphSignalSystem(em *ecs.EntityManager, phaseEntity ecs.EntityID, cfg config.SignalsConfig) *MorphSignalSystem {
	s := &MorphSignalSystem{
		entityManager: em,
		phaseEntity:   phaseEntity,
		cfg:           cfg,
	}

	s.signalEntity = em.CreateEntity()
	signal := &components.MorphSignalComponent{}
	s.setRaw(signal, 0)
	signal.Morph = signal.RawMorph
	signal.Rotate = signal.RawRotate
	s.deriveOverlays(signal)
	ecs.AddComponent(em, s.signalEntity, signal)
	return s
}

// Entity 信号实体
func (s *MorphSignalSystem) Entity() ecs.EntityID {
	return s.signalEntity
}

// SetConfig 更新映射和弹簧参数，原始目标按新映射重新计算
func (s *MorphSignalSystem) SetConfig(cfg config.SignalsConfig, scrollPosition float64) {
	s.cfg = cfg
	s.SetTarget(scrollPosition)
}

// SetTarget 由虚拟滚动值更新原始目标
func (s *MorphSignalSystem) SetTarget(scrollPosition float64) {
	signal, ok := ecs.GetComponent[*components.MorphSignalComponent](s.entityManager, s.signalEntity)
	if !ok {
		return
	}
	s.setRaw(signal, scrollPosition)
}

// Update 推进弹簧平滑并刷新派生信号
func (s *MorphSignalSystem) Update(dt float64) {
	signal, ok := ecs.GetComponent[*components.MorphSignalComponent](s.entityManager, s.signalEntity)
	if !ok {
		return
	}

	params := s.cfg.Spring.Params()
	signal.Morph, signal.MorphVelocity = utils.SpringStep(signal.Morph, signal.MorphVelocity, signal.RawMorph, dt, params)
	signal.Rotate, signal.RotateVelocity = utils.SpringStep(signal.Rotate, signal.RotateVelocity, signal.RawRotate, dt, params)

	s.deriveOverlays(signal)
}

// Signals 当前信号快照
func (s *MorphSignalSystem) Signals() components.MorphSignalComponent {
	signal, ok := ecs.GetComponent[*components.MorphSignalComponent](s.entityManager, s.signalEntity)
	if !ok {
		return components.MorphSignalComponent{}
	}
	return *signal
}

func (s *MorphSignalSystem) setRaw(signal *components.MorphSignalComponent, scrollPosition float64) {
	signal.RawMorph = utils.MapRange(scrollPosition, s.cfg.MorphInput, s.cfg.MorphOutput)
	signal.RawRotate = utils.MapRange(scrollPosition, s.cfg.RotateInput, s.cfg.RotateOutput)
}

// deriveOverlays 计算相邻 UI 的派生量
//   - 弧形文案：形变 0.8→1 时淡入并上移
//   - 圆形标题与滚动提示：只在圆形阶段且形变未过半时可见
func (s *MorphSignalSystem) deriveOverlays(signal *components.MorphSignalComponent) {
	if n := len(s.cfg.ContentInput); n >= 2 {
		fade := []float64{s.cfg.ContentInput[0], s.cfg.ContentInput[n-1]}
		signal.ContentOpacity = utils.MapRange(signal.Morph, fade, []float64{0, 1})
	}
	signal.ContentOffsetY = utils.MapRange(signal.Morph, s.cfg.ContentInput, s.cfg.ContentOffset)

	signal.IntroTitleOpacity = 0
	signal.HintOpacity = 0
	phase, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity)
	if ok && phase.Phase == components.PhaseCircle && signal.Morph < 0.5 {
		signal.IntroTitleOpacity = utils.Clamp(1-signal.Morph*2, 0, 1)
		signal.HintOpacity = utils.Clamp(s.cfg.HintOpacity-signal.Morph, 0, 1)
	}
}
