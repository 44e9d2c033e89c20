package systems

import (
	"math"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/decker502/aeromorph/pkg/game"
	"github.com/decker502/aeromorph/pkg/utils"
	"go.uber.org/zap"
)

// SectionProbe 返回宿主区块顶边相对视口顶部的位置
// ok=false 表示区块尚未测量，此时不做"是否已固定"的判断
type SectionProbe func() (top float64, ok bool)

// PinnedSection 始终报告区块已固定在视口顶部
func PinnedSection() (float64, bool) {
	return 0, true
}

// ScrollInputSystem 虚拟滚动输入捕获
//
// 把滚轮/触摸增量转换为夹紧的虚拟滚动值，并决定何时把滚动让回给页面：
//  1. 向下滚动且区块顶边距视口顶部超过阈值：区块尚未固定，不拦截
//  2. 位于下界且向上滚动：不拦截，页面继续向上
//  3. 位于上界且向下滚动：不拦截，页面继续向下
//  4. 其余情况拦截，并更新 position = clamp(position + delta, 0, max)
//
// 拦截后的新值立即同步发布给所有订阅者。
// 返回值 true 表示事件被拦截，宿主应阻止默认滚动行为。
type ScrollInputSystem struct {
	entityManager *ecs.EntityManager
	scrollEntity  ecs.EntityID
	cfg           config.ScrollConfig
	probe         SectionProbe
	onScroll      game.Signal[float64]
	logger        *zap.Logger
}

// NewScrollInputSystem 创建虚拟滚动输入系统，并创建滚动状态实体
func NewScrollInputSystem(em *ecs.EntityManager, cfg config.ScrollConfig, probe SectionProbe, logger *zap.Logger) *ScrollInputSystem {
	if probe == nil {
		probe = PinnedSection
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &ScrollInputSystem{
		entityManager: em,
		cfg:           cfg,
		probe:         probe,
		logger:        logger.Named("scroll_input"),
	}

	s.scrollEntity = em.CreateEntity()
	ecs.AddComponent(em, s.scrollEntity, &components.VirtualScrollComponent{
		Position:  0,
		MaxScroll: cfg.MaxScroll,
	})
	return s
}

// Entity 滚动状态实体
func (s *ScrollInputSystem) Entity() ecs.EntityID {
	return s.scrollEntity
}

// OnScroll 虚拟滚动值变化通知
func (s *ScrollInputSystem) OnScroll() *game.Signal[float64] {
	return &s.onScroll
}

// SetProbe 替换区块位置探针，nil 表示始终固定
func (s *ScrollInputSystem) SetProbe(probe SectionProbe) {
	if probe == nil {
		probe = PinnedSection
	}
	s.probe = probe
}

// Position 当前虚拟滚动值
func (s *ScrollInputSystem) Position() float64 {
	scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity)
	if !ok {
		return 0
	}
	return scroll.Position
}

// SetConfig 更新配置；上界变小时当前值被重新夹紧并发布
func (s *ScrollInputSystem) SetConfig(cfg config.ScrollConfig) {
	s.cfg = cfg
	scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity)
	if !ok {
		return
	}
	scroll.MaxScroll = cfg.MaxScroll
	if clamped := utils.Clamp(scroll.Position, 0, cfg.MaxScroll); clamped != scroll.Position {
		scroll.Position = clamped
		s.onScroll.Publish(clamped)
	}
}

// HandleWheel 处理滚轮事件，deltaY > 0 为向下
func (s *ScrollInputSystem) HandleWheel(deltaY float64) bool {
	return s.apply(deltaY)
}

// HandleTouchStart 记录触摸起点
func (s *ScrollInputSystem) HandleTouchStart(y float64) {
	scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity)
	if !ok {
		return
	}
	scroll.LastTouchY = y
	scroll.TouchActive = true
}

// HandleTouchMove 处理触摸移动
//
// 增量 = 上次触摸 Y - 本次触摸 Y（手指上滑为向下滚动）。
// 无论是否拦截都会更新 LastTouchY，让出的手势片段不会在恢复拦截时造成跳变。
func (s *ScrollInputSystem) HandleTouchMove(y float64) bool {
	scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity)
	if !ok {
		return false
	}
	if !scroll.TouchActive {
		// 没有收到起点，把本次当作起点
		scroll.LastTouchY = y
		scroll.TouchActive = true
		return false
	}

	delta := scroll.LastTouchY - y
	scroll.LastTouchY = y
	return s.apply(delta)
}

// HandleTouchEnd 结束触摸
func (s *ScrollInputSystem) HandleTouchEnd() {
	if scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity); ok {
		scroll.TouchActive = false
	}
}

// apply 按决策规则处理一个增量
func (s *ScrollInputSystem) apply(delta float64) bool {
	scroll, ok := ecs.GetComponent[*components.VirtualScrollComponent](s.entityManager, s.scrollEntity)
	if !ok {
		return false
	}
	if delta == 0 || math.IsNaN(delta) {
		return false
	}

	down := delta > 0
	up := delta < 0

	if down {
		if top, measured := s.probe(); measured && top > s.cfg.PinThreshold {
			return false
		}
	}

	if (scroll.AtLowerBound() && up) || (scroll.AtUpperBound() && down) {
		return false
	}

	next := utils.Clamp(scroll.Position+delta, 0, scroll.MaxScroll)
	scroll.Position = next
	s.logger.Debug("virtual scroll", zap.Float64("delta", delta), zap.Float64("position", next))

	s.onScroll.Publish(next)
	return true
}
