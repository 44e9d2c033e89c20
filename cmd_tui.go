package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/decker502/aeromorph/internal/tui"
	"github.com/decker502/aeromorph/pkg/config"
	"github.com/decker502/aeromorph/pkg/embedded"
	"github.com/decker502/aeromorph/pkg/logging"
	"github.com/decker502/aeromorph/pkg/morph"
	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// tuiCmd 终端预览
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Preview the morph in the terminal",
	Long: `Draws every card as a glyph in the terminal. The mouse wheel, j/k and the
arrow keys drive the virtual scroll; space or Enter starts the intro; q quits.

The screen owns the terminal, so logs are discarded unless --log-file is set.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

var tuiLogFile string

func init() {
	tuiCmd.Flags().StringVar(&tuiLogFile, "log-file", "", "Write logs to this file while the preview owns the terminal")
}

// tuiLogger 终端预览的日志器：stderr 与屏幕共用终端，只能写文件或丢弃
func tuiLogger() (*zap.Logger, error) {
	if tuiLogFile == "" {
		return zap.NewNop(), nil
	}
	return logging.NewFile(tuiLogFile, verbose)
}

func runTUI(cmd *cobra.Command, args []string) error {
	log, err := tuiLogger()
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	engine, err := loadEngine(log)
	if err != nil {
		return err
	}
	defer engine.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	preview := tui.NewPreview(screen, engine, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if watch && configPath != "" {
		w, err := config.NewWatcher(configPath, log)
		if err != nil {
			return err
		}
		defer w.Stop()
		if err := w.Start(ctx); err != nil {
			return err
		}
		preview.WatchConfig(w.Updates())
	}

	if err := preview.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// loadEngine 按全局参数加载配置和卡组并创建引擎，引擎日志写到 l
func loadEngine(l *zap.Logger, opts ...morph.Option) (*morph.Engine, error) {
	cfg, err := embedded.LoadMorphConfig(configPath)
	if err != nil {
		return nil, err
	}
	deck, err := embedded.LoadCardDeck(cardsPath)
	if err != nil {
		return nil, err
	}
	l = logging.OrNop(l)
	l.Debug("engine inputs loaded",
		zap.String("config", orEmbedded(configPath)),
		zap.String("cards", orEmbedded(cardsPath)),
		zap.Int("card_count", deck.Len()))

	opts = append([]morph.Option{morph.WithLogger(l)}, opts...)
	return morph.NewEngine(cfg, deck, opts...)
}

func orEmbedded(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}
