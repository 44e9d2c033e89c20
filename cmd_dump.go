package main

import (
	"fmt"
	"math/rand/v2"

	"github.com/decker502/aeromorph/pkg/morph"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var (
	dumpScroll float64
	dumpWidth  float64
	dumpHeight float64
	dumpSettle float64
	dumpSeed   uint64
)

// dumpCmd 无界面运行引擎并输出 YAML 快照
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Run the engine headless and print a YAML snapshot",
	Long: `Enters the viewport, lets the intro settle, scrolls to --scroll and settles
again, then prints phase, signals and every card's target and current pose.

Example:
  aeromorph dump --scroll 600 --width 1200 --height 800`,
	Args: cobra.NoArgs,
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().Float64Var(&dumpScroll, "scroll", 0, "Virtual scroll position to reach")
	dumpCmd.Flags().Float64Var(&dumpWidth, "width", 1200, "Container width")
	dumpCmd.Flags().Float64Var(&dumpHeight, "height", 800, "Container height")
	dumpCmd.Flags().Float64Var(&dumpSettle, "settle", 4, "Seconds to simulate after each step")
	dumpCmd.Flags().Uint64Var(&dumpSeed, "seed", 1, "Seed for scatter poses")
}

func runDump(cmd *cobra.Command, args []string) error {
	engine, err := loadEngine(logger, morph.WithRand(rand.New(rand.NewPCG(dumpSeed, dumpSeed))))
	if err != nil {
		return err
	}
	defer engine.Close()

	const step = 1.0 / 60
	engine.Resize(dumpWidth, dumpHeight)
	engine.EnterViewport()
	engine.Settle(dumpSettle, step)
	if dumpScroll != 0 {
		engine.HandleWheel(dumpScroll)
		engine.Settle(dumpSettle, step)
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(engine.Snapshot()); err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return enc.Close()
}
