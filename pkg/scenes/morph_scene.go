package scenes

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/decker502/aeromorph/pkg/components"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/game"
	"github.com/decker502/aeromorph/pkg/morph"
	"github.com/decker502/aeromorph/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"go.uber.org/zap"
)

// 页面配色
var (
	heroColor    = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	sectionColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	footerColor  = color.RGBA{R: 12, G: 12, B: 12, A: 255}
	targetColor  = color.RGBA{R: 0, G: 207, B: 255, A: 255}
)

// debugGlyphHeight ebitenutil 调试字体的行高
const debugGlyphHeight = 16

// MorphScene 落地页场景：首屏、形变区块、页脚
//
// 滚轮和触摸先交给引擎，引擎不拦截的部分推进页面原生滚动。
// 形变区块顶边第一次到达视口顶部时触发开场编排。
type MorphScene struct {
	engine   *morph.Engine
	page     *PageScroller
	settings *game.SettingsManager
	drag     *utils.DragManager
	logger   *zap.Logger

	width, height int

	// 图像在第一次 Draw 时创建
	tile      *ebiten.Image // 1x1 白色，缩放后作为卡片占位
	textLayer *ebiten.Image // 渐隐文字的离屏缓冲
}

// NewMorphScene 创建场景并挂载引擎
// settings 可为 nil（不显示 HUD，不叠加目标位姿）
func NewMorphScene(cfg *config.MorphConfig, deck *config.CardDeck, settings *game.SettingsManager, logger *zap.Logger, opts ...morph.Option) (*MorphScene, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	page := NewPageScroller()
	opts = append(opts, morph.WithLogger(logger), morph.WithSectionProbe(page.SectionProbe))
	engine, err := morph.NewEngine(cfg, deck, opts...)
	if err != nil {
		return nil, fmt.Errorf("挂载形变引擎失败: %w", err)
	}

	return &MorphScene{
		engine:   engine,
		page:     page,
		settings: settings,
		drag:     utils.NewDragManager(),
		logger:   logger.Named("morph_scene"),
	}, nil
}

// Engine 场景持有的引擎
func (s *MorphScene) Engine() *morph.Engine {
	return s.engine
}

// Page 页面滚动模型
func (s *MorphScene) Page() *PageScroller {
	return s.page
}

// Resize 视口尺寸变化，形变容器占满整个视口
func (s *MorphScene) Resize(width, height int) {
	s.width, s.height = width, height
	s.page.Resize(float64(height))
	s.engine.Resize(float64(width), float64(height))

	if s.textLayer != nil {
		s.textLayer.Deallocate()
		s.textLayer = nil
	}
}

// ApplyConfig 热更新引擎参数
func (s *MorphScene) ApplyConfig(cfg *config.MorphConfig) error {
	return s.engine.ApplyConfig(cfg)
}

// Update 轮询输入并推进引擎
func (s *MorphScene) Update(deltaTime float64) {
	s.handleKeys()

	lineHeight := s.engine.Config().Scroll.WheelLineHeight
	if _, dy := ebiten.Wheel(); dy != 0 {
		// ebiten 向上滚动为正，页面约定向下为正
		s.Scroll(-dy * lineHeight)
	}

	s.drag.Update(utils.MouseDragAsTouch())
	s.HandleDrag(s.drag)

	s.Step(deltaTime)
}

// handleKeys 键盘：方向键/翻页键模拟滚轮，H/T 切换调试显示
func (s *MorphScene) handleKeys() {
	lineHeight := s.engine.Config().Scroll.WheelLineHeight
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		s.Scroll(lineHeight)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		s.Scroll(-lineHeight)
	case inpututil.IsKeyJustPressed(ebiten.KeyPageDown), inpututil.IsKeyJustPressed(ebiten.KeySpace):
		s.Scroll(float64(s.height))
	case inpututil.IsKeyJustPressed(ebiten.KeyPageUp):
		s.Scroll(-float64(s.height))
	}

	if s.settings == nil {
		return
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		s.settings.ToggleHUD()
		s.saveSettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		s.settings.ToggleTargets()
		s.saveSettings()
	}
}

func (s *MorphScene) saveSettings() {
	if err := s.settings.Save(); err != nil {
		s.logger.Warn("saving viewer settings", zap.Error(err))
	}
}

// Scroll 一次滚轮增量：引擎不拦截时推进页面
// 返回 true 表示增量被引擎拦截
func (s *MorphScene) Scroll(delta float64) bool {
	handled := s.engine.HandleWheel(delta)
	if !handled {
		s.page.Scroll(delta)
	}
	s.checkEnter()
	return handled
}

// HandleDrag 把拖拽状态转换为引擎的触摸事件
func (s *MorphScene) HandleDrag(drag *utils.DragManager) {
	info := drag.GetInfo()
	switch {
	case drag.JustStarted():
		s.engine.HandleTouchStart(float64(info.CurrentY))

	case drag.Moved():
		if !s.engine.HandleTouchMove(float64(info.CurrentY)) {
			s.page.Scroll(float64(drag.FrameDeltaY()))
		}
		s.checkEnter()

	case drag.JustEnded():
		s.engine.HandleTouchEnd()
	}
}

// Step 推进引擎时间
func (s *MorphScene) Step(deltaTime float64) {
	s.checkEnter()
	s.engine.Update(deltaTime)
}

func (s *MorphScene) checkEnter() {
	if s.page.CheckEnter() && s.engine.EnterViewport() {
		s.logger.Info("morph section entered viewport", zap.Float64("page_offset", s.page.Offset()))
	}
}

// Close 卸载引擎并释放图像
func (s *MorphScene) Close() {
	s.engine.Close()
	if s.tile != nil {
		s.tile.Deallocate()
		s.tile = nil
	}
	if s.textLayer != nil {
		s.textLayer.Deallocate()
		s.textLayer = nil
	}
}

// Draw 绘制页面、卡片和叠加文字
func (s *MorphScene) Draw(screen *ebiten.Image) {
	if s.tile == nil {
		s.tile = ebiten.NewImage(1, 1)
		s.tile.Fill(color.White)
	}

	w := float32(s.width)
	h := float32(s.page.ViewportHeight())

	vector.DrawFilledRect(screen, 0, float32(s.page.HeroTop()), w, h, heroColor, false)
	vector.DrawFilledRect(screen, 0, float32(s.page.SectionTop()), w, h, sectionColor, false)
	vector.DrawFilledRect(screen, 0, float32(s.page.FooterTop()), w, h*footerScreens, footerColor, false)

	heroMid := int(s.page.HeroTop()) + s.height/2
	ebitenutil.DebugPrintAt(screen, "scroll down", s.width/2-33, heroMid)

	s.drawSection(screen)

	footerTop := int(s.page.FooterTop())
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("%d milestones", len(s.engine.Cards())), 24, footerTop+24)

	if s.settings != nil && s.settings.GetSettings().ShowHUD {
		s.drawHUD(screen)
	}
}

// drawSection 在区块范围内绘制卡片（超出区块的部分被裁剪）
func (s *MorphScene) drawSection(screen *ebiten.Image) {
	top := int(math.Round(s.page.SectionTop()))
	bounds := image.Rect(0, top, s.width, top+s.height).Intersect(screen.Bounds())
	if bounds.Empty() {
		return
	}
	section := screen.SubImage(bounds).(*ebiten.Image)

	cx := float64(s.width) / 2
	cy := float64(top) + float64(s.height)/2
	layout := s.engine.Config().Layout
	signals := s.engine.Signals()

	introY := float64(top) + float64(s.height)*0.44
	s.drawFadedText(section, fmt.Sprintf("%d milestones", len(s.engine.Cards())), cx, introY, 0, signals.IntroTitleOpacity)
	s.drawFadedText(section, "SCROLL TO EXPLORE", cx, introY+28, 0, signals.HintOpacity)

	for i, pose := range s.engine.Poses() {
		s.drawCard(section, i, pose, cx, cy, layout.CardWidth, layout.CardHeight)
	}

	if s.settings != nil && s.settings.GetSettings().ShowTargets {
		for _, t := range s.engine.Targets() {
			vector.DrawFilledRect(section, float32(cx+t.X-2), float32(cy+t.Y-2), 4, 4, targetColor, false)
		}
	}

	if _, featured, ok := s.engine.FeaturedCard(); ok {
		y := float64(top) + float64(s.height)*0.1
		s.drawFadedText(section, featured.Title, cx, y, signals.ContentOffsetY, signals.ContentOpacity)
		s.drawFadedText(section, featured.Description, cx, y+20, signals.ContentOffsetY, signals.ContentOpacity)
	}
}

// drawCard 以 1x1 图块缩放绘制一张卡片占位
func (s *MorphScene) drawCard(dst *ebiten.Image, index int, pose components.Pose, cx, cy, cardW, cardH float64) {
	if pose.Opacity <= 0 {
		return
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(cardW, cardH)
	op.GeoM.Translate(-cardW/2, -cardH/2)
	op.GeoM.Scale(pose.Scale, pose.Scale)
	op.GeoM.Rotate(utils.DegToRad(pose.Rotation))
	op.GeoM.Translate(cx+pose.X, cy+pose.Y)

	r, g, b := cardTint(index, len(s.engine.Cards()))
	op.ColorScale.Scale(r, g, b, 1)
	op.ColorScale.ScaleAlpha(float32(utils.Clamp(pose.Opacity, 0, 1)))
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(s.tile, op)
}

// drawFadedText 调试字体不支持透明度，先画到离屏缓冲再按透明度合成
func (s *MorphScene) drawFadedText(dst *ebiten.Image, str string, centerX, y, offsetY, alpha float64) {
	if alpha <= 0 || str == "" || s.width <= 0 {
		return
	}
	if s.textLayer == nil {
		s.textLayer = ebiten.NewImage(s.width, debugGlyphHeight)
	}
	s.textLayer.Clear()
	ebitenutil.DebugPrintAt(s.textLayer, str, 0, 0)

	textWidth := float64(len(str) * 6)
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(centerX-textWidth/2, y+offsetY)
	op.ColorScale.Scale(0.1, 0.1, 0.1, 1)
	op.ColorScale.ScaleAlpha(float32(utils.Clamp(alpha, 0, 1)))
	dst.DrawImage(s.textLayer, op)
}

// drawHUD 调试信息
func (s *MorphScene) drawHUD(screen *ebiten.Image) {
	sig := s.engine.Signals()
	vector.DrawFilledRect(screen, 4, 4, 330, 58, color.RGBA{A: 160}, false)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("phase %-7s scroll %6.0f page %6.0f",
		s.engine.Phase(), s.engine.ScrollPosition(), s.page.Offset()), 8, 6)
	ebitenutil.DebugPrintAt(screen, fmt.Sprintf("morph %.3f  rotate %7.1f  fps %.0f",
		sig.Morph, sig.Rotate, ebiten.ActualFPS()), 8, 22)
	ebitenutil.DebugPrintAt(screen, "[H] hud  [T] targets  [F11] fullscreen", 8, 40)
}

// cardTint 按索引在冷色调之间渐变
func cardTint(index, count int) (float32, float32, float32) {
	t := 0.0
	if count > 1 {
		t = float64(index) / float64(count-1)
	}
	r := utils.Lerp(0.15, 0.55, t)
	g := utils.Lerp(0.55, 0.35, t)
	b := utils.Lerp(0.85, 0.95, t)
	return float32(r), float32(g), float32(b)
}
