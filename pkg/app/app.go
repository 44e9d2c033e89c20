// Package app 提供展示窗口的核心包装器
//
// 该包把窗口初始化逻辑从 main 包提取出来，使其可以被桌面端和移动端共用。
// 桌面端通过 window 子命令调用 NewApp()，移动端通过 mobile/mobile.go 调用。
package app

import (
	"context"
	"fmt"

	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/embedded"
	"github.com/decker502/aeromorph/pkg/game"
	"github.com/decker502/aeromorph/pkg/scenes"
	"github.com/decker502/aeromorph/pkg/utils"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"go.uber.org/zap"
)

// 窗口默认参数
const (
	AppName             = "aeromorph"
	DefaultWindowWidth  = 1200
	DefaultWindowHeight = 800
)

// Config 定义应用启动配置
type Config struct {
	// ConfigPath morph.yaml 路径，为空时使用内置版本
	ConfigPath string
	// CardsPath cards.yaml 路径，为空时使用内置版本
	CardsPath string
	// Watch 监听 ConfigPath 并热加载
	Watch bool
	// Logger 为 nil 时不输出日志
	Logger *zap.Logger
}

// App 是展示窗口的核心包装器，实现 ebiten.Game 接口
type App struct {
	sceneManager *game.SceneManager
	scene        *scenes.MorphScene
	settings     *game.SettingsManager
	watcher      *config.Watcher
	cancel       context.CancelFunc
	logger       *zap.Logger

	pendingWindowSizeReset   bool // 延迟设置窗口大小标志
	windowSizeResetCountdown int  // 延迟帧数
}

// NewApp 创建并初始化展示应用
func NewApp(cfg Config) (*App, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("app")

	morphCfg, err := embedded.LoadMorphConfig(cfg.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("形变配置加载失败: %w", err)
	}
	deck, err := embedded.LoadCardDeck(cfg.CardsPath)
	if err != nil {
		return nil, fmt.Errorf("卡组加载失败: %w", err)
	}

	// 设置存储不可用时降级为仅内存
	storage, err := game.OpenStorage(AppName)
	if err != nil {
		logger.Warn("viewer settings will not persist", zap.Error(err))
	} else if path := utils.GetStoragePath(); path != "" {
		logger.Debug("settings storage", zap.String("path", path))
	}
	settings := game.NewSettingsManager(storage, logger)

	scene, err := scenes.NewMorphScene(morphCfg, deck, settings, logger)
	if err != nil {
		return nil, err
	}
	sceneManager := game.NewSceneManager(logger)
	sceneManager.SwitchTo(scene)

	a := &App{
		sceneManager: sceneManager,
		scene:        scene,
		settings:     settings,
		logger:       logger,
	}

	if cfg.Watch && cfg.ConfigPath != "" {
		if err := a.startWatcher(cfg.ConfigPath); err != nil {
			a.Close()
			return nil, err
		}
	}

	logger.Info("viewer ready", zap.Int("cards", deck.Len()), zap.Bool("watch", a.watcher != nil))
	return a, nil
}

func (a *App) startWatcher(path string) error {
	w, err := config.NewWatcher(path, a.logger)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	if err := w.Start(ctx); err != nil {
		cancel()
		w.Stop()
		return err
	}
	a.watcher = w
	a.cancel = cancel
	return nil
}

// Scene 当前的落地页场景
func (a *App) Scene() *scenes.MorphScene {
	return a.scene
}

// Settings 查看器设置
func (a *App) Settings() *game.SettingsManager {
	return a.settings
}

// ApplyPendingConfig 取出热加载的新配置（如果有）并交给引擎
// 只在帧循环线程上调用
func (a *App) ApplyPendingConfig() {
	if a.watcher == nil {
		return
	}
	select {
	case cfg := <-a.watcher.Updates():
		if err := a.scene.ApplyConfig(cfg); err != nil {
			a.logger.Warn("applying reloaded config", zap.Error(err))
		}
	default:
	}
}

// Update 更新窗口逻辑
// 每个 tick 调用一次（通常每秒 60 次）
func (a *App) Update() error {
	// 延迟设置窗口大小（退出全屏后需要等待几帧才能正确设置）
	if a.pendingWindowSizeReset {
		a.windowSizeResetCountdown--
		if a.windowSizeResetCountdown <= 0 {
			ebiten.SetWindowSize(DefaultWindowWidth, DefaultWindowHeight)
			a.pendingWindowSizeReset = false
		}
	}

	// F11 切换全屏
	if inpututil.IsKeyJustPressed(ebiten.KeyF11) {
		a.toggleFullscreen()
	}

	a.ApplyPendingConfig()

	deltaTime := 1.0 / float64(ebiten.TPS())
	a.sceneManager.Update(deltaTime)
	return nil
}

func (a *App) toggleFullscreen() {
	fullscreen := !ebiten.IsFullscreen()
	if !fullscreen {
		ebiten.SetFullscreen(false)
		if ebiten.IsWindowMaximized() || ebiten.IsWindowMinimized() {
			ebiten.RestoreWindow()
		}
		// 延迟几帧后设置窗口大小，让窗口管理器有时间处理
		a.pendingWindowSizeReset = true
		a.windowSizeResetCountdown = 3
	} else {
		ebiten.SetFullscreen(true)
	}

	a.settings.SetFullscreen(fullscreen)
	if err := a.settings.Save(); err != nil {
		a.logger.Warn("saving viewer settings", zap.Error(err))
	}
}

// Draw 绘制画面
func (a *App) Draw(screen *ebiten.Image) {
	a.sceneManager.Draw(screen)
}

// Layout 逻辑尺寸跟随窗口尺寸，同时作为容器尺寸的观察点
func (a *App) Layout(outsideWidth, outsideHeight int) (int, int) {
	a.sceneManager.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Close 停止热加载并卸载场景，可重复调用
func (a *App) Close() {
	if a.watcher != nil {
		a.watcher.Stop()
		a.watcher = nil
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.sceneManager.Close()
}

// Run 打开窗口并运行到窗口关闭
func Run(cfg Config) error {
	a, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ebiten.SetWindowSize(DefaultWindowWidth, DefaultWindowHeight)
	ebiten.SetWindowTitle("aeromorph")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(a.settings.GetSettings().Fullscreen)

	return ebiten.RunGame(a)
}
