// Package morph 组装滚动形变引擎
//
// Engine 是一次挂载的全部状态：ECS 世界、定时器队列、订阅和各个系统。
// 它是单线程、由帧驱动的：宿主在自己的循环里转发输入事件并调用 Update(dt)，
// 引擎本身不创建任何协程。
package morph

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/ecs"
	"github.com/decker502/aeromorph/pkg/game"
	"github.com/decker502/aeromorph/pkg/systems"
	"github.com/decker502/aeromorph/pkg/utils"
	"go.uber.org/zap"
)

// ErrEngineClosed 引擎已卸载
var ErrEngineClosed = errors.New("morph engine is closed")

// Option 引擎构造选项
type Option func(*Engine)

// WithRand 指定散落位姿的随机源
func WithRand(rng *rand.Rand) Option {
	return func(e *Engine) {
		if rng != nil {
			e.rng = rng
		}
	}
}

// WithLogger 指定日志
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithSectionProbe 指定区块位置探针，默认始终视为已固定
func WithSectionProbe(probe systems.SectionProbe) Option {
	return func(e *Engine) {
		e.probe = probe
	}
}

// Engine 滚动形变引擎
type Engine struct {
	cfg  *config.MorphConfig
	deck *config.CardDeck

	entityManager *ecs.EntityManager
	scheduler     *game.TimerScheduler
	subs          game.Subscriptions

	scroll  *systems.ScrollInputSystem
	phase   *systems.IntroPhaseSystem
	signals *systems.MorphSignalSystem
	layout  *systems.LayoutSystem
	motion  *systems.CardMotionSystem

	cards  []ecs.EntityID
	rng    *rand.Rand
	probe  systems.SectionProbe
	logger *zap.Logger
	closed bool
}

// NewEngine 挂载一个引擎
// cfg 为 nil 时使用默认配置；卡组不能为空
func NewEngine(cfg *config.MorphConfig, deck *config.CardDeck, opts ...Option) (*Engine, error) {
	if cfg == nil {
		cfg = config.DefaultMorphConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("morph config: %w", err)
	}
	if err := deck.Validate(); err != nil {
		return nil, fmt.Errorf("card deck: %w", err)
	}

	e := &Engine{
		cfg:           cfg,
		deck:          deck,
		entityManager: ecs.NewEntityManager(),
		scheduler:     game.NewTimerScheduler(),
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	em := e.entityManager
	e.scroll = systems.NewScrollInputSystem(em, cfg.Scroll, e.probe, e.logger)
	e.phase = systems.NewIntroPhaseSystem(em, e.scheduler, cfg.Phase, e.logger)
	e.signals = systems.NewMorphSignalSystem(em, e.phase.Entity(), cfg.Signals)
	e.layout = systems.NewLayoutSystem(em, e.phase.Entity(), e.signals.Entity(), cfg.Layout)
	e.motion = systems.NewCardMotionSystem(em, cfg.Motion)

	e.subs.Add(e.scroll.OnScroll().Subscribe(e.signals.SetTarget))

	for i, card := range deck.Cards {
		id := em.CreateEntity()
		ecs.AddComponent(em, id, &components.CardComponent{Index: i, Card: card})
		ecs.AddComponent(em, id, &components.ScatterComponent{Pose: systems.RollScatterPose(e.rng, cfg.Layout.Scatter)})
		ecs.AddComponent(em, id, &components.TargetPoseComponent{})
		ecs.AddComponent(em, id, &components.MotionComponent{})
		e.cards = append(e.cards, id)
	}
	e.layout.Update()

	e.logger.Debug("morph engine mounted", zap.Int("cards", len(e.cards)))
	return e, nil
}

// HandleWheel 转发滚轮增量，返回 true 表示宿主应阻止原生滚动
func (e *Engine) HandleWheel(deltaY float64) bool {
	if e.closed {
		return false
	}
	return e.scroll.HandleWheel(deltaY)
}

// HandleTouchStart 转发触摸起点
func (e *Engine) HandleTouchStart(y float64) {
	if e.closed {
		return
	}
	e.scroll.HandleTouchStart(y)
}

// HandleTouchMove 转发触摸移动，返回 true 表示宿主应阻止原生滚动
func (e *Engine) HandleTouchMove(y float64) bool {
	if e.closed {
		return false
	}
	return e.scroll.HandleTouchMove(y)
}

// HandleTouchEnd 转发触摸结束
func (e *Engine) HandleTouchEnd() {
	if e.closed {
		return
	}
	e.scroll.HandleTouchEnd()
}

// Resize 容器尺寸变化
func (e *Engine) Resize(width, height float64) {
	if e.closed {
		return
	}
	e.layout.Resize(width, height)
}

// EnterViewport 区块进入视口，只有第一次调用会启动开场编排
func (e *Engine) EnterViewport() bool {
	if e.closed {
		return false
	}
	return e.phase.Trigger()
}

// Update 推进 dt 秒：定时器、信号平滑、目标位姿、卡片运动
func (e *Engine) Update(dt float64) {
	if e.closed {
		return
	}
	dt = utils.Finite(dt)
	e.scheduler.Advance(dt)
	e.signals.Update(dt)
	e.layout.Update()
	e.motion.Update(dt)
}

// ApplyConfig 热更新可调参数
// 散落位姿和卡组保持不变；滚动上界变小时当前值会被重新夹紧
func (e *Engine) ApplyConfig(cfg *config.MorphConfig) error {
	if e.closed {
		return ErrEngineClosed
	}
	if cfg == nil {
		return fmt.Errorf("morph config: %w", config.ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("morph config: %w", err)
	}

	e.cfg = cfg
	e.scroll.SetConfig(cfg.Scroll)
	e.phase.SetConfig(cfg.Phase)
	e.signals.SetConfig(cfg.Signals, e.scroll.Position())
	e.layout.SetConfig(cfg.Layout)
	e.motion.SetConfig(cfg.Motion)
	e.layout.Update()

	e.logger.Info("morph config applied", zap.Float64("max_scroll", cfg.Scroll.MaxScroll))
	return nil
}

// Config 当前生效的配置
func (e *Engine) Config() *config.MorphConfig {
	return e.cfg
}

// Phase 当前开场阶段
func (e *Engine) Phase() components.IntroPhase {
	if e.closed {
		return components.PhaseHidden
	}
	return e.phase.Phase()
}

// ScrollPosition 当前虚拟滚动值
func (e *Engine) ScrollPosition() float64 {
	if e.closed {
		return 0
	}
	return e.scroll.Position()
}

// Signals 当前信号快照
func (e *Engine) Signals() components.MorphSignalComponent {
	if e.closed {
		return components.MorphSignalComponent{}
	}
	return e.signals.Signals()
}

// Viewport 当前容器尺寸
func (e *Engine) Viewport() components.ViewportComponent {
	if e.closed {
		return components.ViewportComponent{}
	}
	return e.layout.Viewport()
}

// Cards 卡组元数据，顺序即索引
func (e *Engine) Cards() []config.Card {
	return append([]config.Card(nil), e.deck.Cards...)
}

// Targets 按索引返回每张卡片本帧的目标位姿
func (e *Engine) Targets() []components.Pose {
	if e.closed {
		return nil
	}
	e.layout.Update()
	out := make([]components.Pose, len(e.cards))
	for i, id := range e.cards {
		if c, ok := ecs.GetComponent[*components.TargetPoseComponent](e.entityManager, id); ok {
			out[i] = c.Pose
		}
	}
	return out
}

// FeaturedCard 圆形阶段里位于弧顶的卡片（目标旋转最接近 0），其它阶段返回 false
func (e *Engine) FeaturedCard() (int, config.Card, bool) {
	if e.closed || e.Phase() != components.PhaseCircle {
		return -1, config.Card{}, false
	}
	best, bestRot := -1, math.Inf(1)
	for i, t := range e.Targets() {
		if r := math.Abs(math.Remainder(t.Rotation, 360)); r < bestRot {
			best, bestRot = i, r
		}
	}
	if best < 0 || best >= len(e.deck.Cards) {
		return -1, config.Card{}, false
	}
	return best, e.deck.Cards[best], true
}

// Poses 按索引返回每张卡片的渲染位姿
// 首次 Update 之前卡片尚未对齐，返回目标位姿
func (e *Engine) Poses() []components.Pose {
	if e.closed {
		return nil
	}
	out := make([]components.Pose, len(e.cards))
	for i, id := range e.cards {
		motion, ok := ecs.GetComponent[*components.MotionComponent](e.entityManager, id)
		if !ok {
			continue
		}
		if motion.Initialized {
			out[i] = motion.Pose
		} else if target, ok := ecs.GetComponent[*components.TargetPoseComponent](e.entityManager, id); ok {
			out[i] = target.Pose
		}
	}
	return out
}

// OnScroll 订阅虚拟滚动值变化，Close 时自动退订
func (e *Engine) OnScroll(fn func(float64)) *game.Subscription {
	if e.closed {
		return &game.Subscription{}
	}
	return e.subs.Add(e.scroll.OnScroll().Subscribe(fn))
}

// OnPhaseChange 订阅阶段变化，Close 时自动退订
func (e *Engine) OnPhaseChange(fn func(components.IntroPhase)) *game.Subscription {
	if e.closed {
		return &game.Subscription{}
	}
	return e.subs.Add(e.phase.OnPhaseChange().Subscribe(fn))
}

// Closed 是否已卸载
func (e *Engine) Closed() bool {
	return e.closed
}

// Close 卸载：取消定时器、释放订阅、清空世界，可重复调用
func (e *Engine) Close() {
	if e.closed {
		return
	}
	e.closed = true

	e.phase.Cancel()
	e.scheduler.CancelAll()
	e.subs.Dispose()
	e.entityManager.Clear()
	e.cards = nil

	e.logger.Debug("morph engine closed")
}
