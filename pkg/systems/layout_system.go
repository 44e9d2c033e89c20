package systems

import (
	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
)

// LayoutSystem 每帧为所有卡片推导目标位姿
//
// 输入只有（阶段、平滑信号、容器尺寸、索引、散落位姿），
// 输出写入 TargetPoseComponent；卡片之间、帧与帧之间不共享可变状态。
type LayoutSystem struct {
	entityManager  *ecs.EntityManager
	phaseEntity    ecs.EntityID
	signalEntity   ecs.EntityID
	viewportEntity ecs.EntityID
	layout         config.LayoutConfig
}

// NewLayoutSystem 创建布局系统，并创建容器尺寸实体
func NewLayoutSystem(em *ecs.EntityManager, phaseEntity, signalEntity ecs.EntityID, layout config.LayoutConfig) *LayoutSystem {
	s := &LayoutSystem{
		entityManager: em,
		phaseEntity:   phaseEntity,
		signalEntity:  signalEntity,
		layout:        layout,
	}
	s.viewportEntity = em.CreateEntity()
	ecs.AddComponent(em, s.viewportEntity, &components.ViewportComponent{})
	return s
}

// SetConfig 更新布局参数
func (s *LayoutSystem) SetConfig(layout config.LayoutConfig) {
	s.layout = layout
}

// Layout 当前布局参数
func (s *LayoutSystem) Layout() *config.LayoutConfig {
	return &s.layout
}

// Resize 更新容器尺寸，非法值按 0 处理
func (s *LayoutSystem) Resize(width, height float64) {
	vp, ok := ecs.GetComponent[*components.ViewportComponent](s.entityManager, s.viewportEntity)
	if !ok {
		return
	}
	vp.Width = finiteSize(width)
	vp.Height = finiteSize(height)
}

// Viewport 当前容器尺寸
func (s *LayoutSystem) Viewport() components.ViewportComponent {
	vp, ok := ecs.GetComponent[*components.ViewportComponent](s.entityManager, s.viewportEntity)
	if !ok {
		return components.ViewportComponent{}
	}
	return *vp
}

// Update 重新计算所有卡片的目标位姿
func (s *LayoutSystem) Update() {
	phase := components.PhaseHidden
	if p, ok := ecs.GetComponent[*components.IntroPhaseComponent](s.entityManager, s.phaseEntity); ok {
		phase = p.Phase
	}

	var morph, rotate float64
	if sig, ok := ecs.GetComponent[*components.MorphSignalComponent](s.entityManager, s.signalEntity); ok {
		morph, rotate = sig.Morph, sig.Rotate
	}

	vp := s.Viewport()
	cards := ecs.GetEntitiesWith3[*components.CardComponent, *components.ScatterComponent, *components.TargetPoseComponent](s.entityManager)
	count := len(cards)

	for _, id := range cards {
		card, _ := ecs.GetComponent[*components.CardComponent](s.entityManager, id)
		scatter, _ := ecs.GetComponent[*components.ScatterComponent](s.entityManager, id)
		target, _ := ecs.GetComponent[*components.TargetPoseComponent](s.entityManager, id)

		target.Pose = TargetPose(MorphInput{
			Phase:    phase,
			Index:    card.Index,
			Count:    count,
			Scatter:  scatter.Pose,
			Viewport: vp,
			Morph:    morph,
			Rotate:   rotate,
		}, &s.layout)
	}
}
