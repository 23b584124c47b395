// stage is a terminal sandbox for the stage object engine: shapes in a
// store-backed scene and a live arena, clicks, collisions and a node graph.
//
// Usage:
//
//	stage play               - Run the sandbox in this terminal
//	stage serve              - Start SSH server, one sandbox per session
//	stage nodes              - List registered node definitions
//	stage journal [session]  - Show recorded sessions or one session's actions
//	stage snapshot           - Print a headless frame of the sandbox
//
// Global flags:
//
//	--fps <rate>     - Set tick rate (default: config's tick_rate)
//	--seed <value>   - Set RNG seed for reproducible colors
//	--db <path>      - Set journal path (default: ~/.stage/journal.db)
//	--log <path>     - Write debug logs to a file
//	--config <path>  - Use a custom stage config YAML
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/config"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var (
	// Global flags
	flagFPS     int
	flagSeed    int64
	flagDBPath  string
	flagLogPath string
	flagConfig  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "stage",
	Short: "Stage - a terminal sandbox for shapes, clicks and collisions",
	Long: `Stage runs a small interactive scene in your terminal: a sky and a
ground, a target circle and a player square you move with the arrow keys.
Every change goes through a reducer store; actions can be journaled to
SQLite and counted by Prometheus.

Available commands:
  play      - Run the sandbox
  serve     - Start SSH server for remote sessions
  nodes     - List node definitions
  journal   - Browse the action journal
  snapshot  - Print one frame without a terminal UI

Examples:
  stage play
  stage play --journal --seed 42
  stage serve --ssh :2222 --metrics :9109
  stage journal 3f2a9c1e`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second, 0 = config's tick_rate)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to the action journal database")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write debug logs to this file")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom stage config YAML")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(nodesCmd)
	rootCmd.AddCommand(journalCmd)
	rootCmd.AddCommand(snapshotCmd)
}

// loadConfig loads the stage config and applies the global flags to it.
func loadConfig() (config.StageConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.TickRate = flagFPS
	}
	return cfg, nil
}

// seed returns --seed, or the current time when it is unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// openLogger returns a debug logger writing to --log, or nil when the flag
// is empty. The terminal belongs to the UI, so logs never go to stderr here.
func openLogger() (*log.Logger, func(), error) {
	if flagLogPath == "" {
		return nil, func() {}, nil
	}
	f, err := os.OpenFile(flagLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot open log file: %w", err)
	}
	logger := log.NewWithOptions(f, log.Options{
		ReportTimestamp: true,
		Prefix:          "stage",
		Level:           log.DebugLevel,
	})
	return logger, func() { f.Close() }, nil
}
