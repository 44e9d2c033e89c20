package main

import (
	"fmt"
	"os"

	"github.com/decker502/aeromorph/pkg/app"
	"github.com/decker502/aeromorph/pkg/logging"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// 全局参数
	verbose    bool
	configPath string
	cardsPath  string
	watch      bool

	logger *zap.Logger
)

// rootCmd 不带子命令时打开窗口
var rootCmd = &cobra.Command{
	Use:   app.AppName,
	Short: "Scroll-driven card morph: scatter, line, circle, arc",
	Long: `aeromorph renders a deck of cards that assemble into a circle when the
section enters the viewport, then morph into a bottom arc and shuffle along it
as the virtual scroll advances.

Configuration and card deck default to the embedded YAML files; pass --config
and --cards to load your own, and --watch to hot-reload the config.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return err
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
	RunE: runWindow,
}

// windowCmd 图形窗口
var windowCmd = &cobra.Command{
	Use:   "window",
	Short: "Open the ebiten window",
	Args:  cobra.NoArgs,
	RunE:  runWindow,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to morph.yaml (default: embedded)")
	rootCmd.PersistentFlags().StringVar(&cardsPath, "cards", "", "Path to cards.yaml (default: embedded)")
	rootCmd.PersistentFlags().BoolVarP(&watch, "watch", "w", false, "Hot-reload --config when it changes")

	rootCmd.AddCommand(windowCmd, tuiCmd, dumpCmd)
}

func runWindow(cmd *cobra.Command, args []string) error {
	return app.Run(app.Config{
		ConfigPath: configPath,
		CardsPath:  cardsPath,
		Watch:      watch,
		Logger:     logger,
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
