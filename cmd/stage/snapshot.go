package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/render"
	"github.com/vovakirdan/tui-stage/internal/sandbox"
)

var (
	flagSnapWidth  int
	flagSnapHeight int
	flagSnapFrames int
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Print a headless frame of the sandbox",
	Long: `Build the sandbox without a terminal UI, advance it a number of frames
and print the screen with one letter per color (see the render legend).

Examples:
  stage snapshot
  stage snapshot --width 40 --height 12 --frames 120`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	snapshotCmd.Flags().IntVar(&flagSnapWidth, "width", 80, "Screen width in cells")
	snapshotCmd.Flags().IntVar(&flagSnapHeight, "height", 23, "Screen height in cells")
	snapshotCmd.Flags().IntVar(&flagSnapFrames, "frames", 0, "Frames to advance before printing")
}

func runSnapshot(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	var opts []sandbox.Option
	if logger != nil {
		opts = append(opts, sandbox.WithLogger(logger))
	}

	rt := core.RuntimeConfig{
		ScreenW:  flagSnapWidth,
		ScreenH:  flagSnapHeight,
		TickRate: cfg.TickRate,
		Seed:     seed(),
	}
	s, err := sandbox.New(cfg, rt, opts...)
	if err != nil {
		return fmt.Errorf("cannot build stage: %w", err)
	}
	defer s.Close()

	for range flagSnapFrames {
		s.Tick()
	}
	fmt.Println(render.Legend(s.Render()))
	return nil
}
