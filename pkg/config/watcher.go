package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultReloadDebounce 连续保存合并为一次重载的时间窗口
const DefaultReloadDebounce = 150 * time.Millisecond

// Watcher 监听 morph.yaml 的修改并重新解析
//
// 监听的是文件所在目录，编辑器"写临时文件再改名"的保存方式也能被捕获。
// 新配置通过 Updates() 通道交付，只保留最新一份；
// 引擎是单线程的，宿主应在自己的帧循环里取出并调用 ApplyConfig。
type Watcher struct {
	mu       sync.Mutex
	path     string
	watcher  *fsnotify.Watcher
	updates  chan *MorphConfig
	debounce time.Duration
	logger   *zap.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	running  bool
	stopped  bool
}

// NewWatcher 创建配置监听器
func NewWatcher(path string, logger *zap.Logger) (*Watcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("解析配置路径失败: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("创建文件监听失败: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(abs),
		watcher:  fw,
		updates:  make(chan *MorphConfig, 1),
		debounce: DefaultReloadDebounce,
		logger:   logger.Named("config_watcher"),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// SetDebounce 修改合并窗口，需在 Start 之前调用
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if d > 0 {
		w.debounce = d
	}
}

// Updates 返回新配置通道
func (w *Watcher) Updates() <-chan *MorphConfig {
	return w.updates
}

// Start 开始监听（非阻塞）
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return fmt.Errorf("watcher already stopped")
	}
	if w.running {
		return nil
	}

	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		return fmt.Errorf("监听目录 %s 失败: %w", dir, err)
	}
	w.running = true

	w.logger.Info("watching morph config", zap.String("path", w.path))
	go w.run(ctx, w.debounce)
	return nil
}

// Stop 停止监听并等待后台协程退出，可重复调用
func (w *Watcher) Stop() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.stopped = true
	running := w.running
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	if running {
		<-w.doneCh
	}
	if err := w.watcher.Close(); err != nil {
		w.logger.Warn("closing fsnotify watcher", zap.Error(err))
	}
	w.logger.Debug("config watcher stopped")
}

// run 事件循环
func (w *Watcher) run(ctx context.Context, debounce time.Duration) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerC <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case <-w.stopCh:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.matches(event) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("fsnotify error", zap.Error(err))

		case <-timerC:
			timerC = nil
			w.reload()
		}
	}
}

// matches 只关心目标文件的写入和创建
func (w *Watcher) matches(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create) != 0
}

// reload 重新解析；失败时保留旧配置，只记录日志
func (w *Watcher) reload() {
	cfg, err := LoadMorphConfig(w.path)
	if err != nil {
		w.logger.Warn("morph config reload rejected", zap.Error(err))
		return
	}

	// 只保留最新的一份
	select {
	case <-w.updates:
	default:
	}
	w.updates <- cfg
	w.logger.Info("morph config reloaded", zap.String("path", w.path))
}
