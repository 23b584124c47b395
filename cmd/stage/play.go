package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-stage/internal/core"
	"github.com/vovakirdan/tui-stage/internal/platform/tui"
	"github.com/vovakirdan/tui-stage/internal/storage"
)

var flagJournal bool

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Run the sandbox",
	Long: `Run the stage sandbox fullscreen in this terminal.

Controls:
  Arrows/WASD  - Move the player
  Space        - Recolor the player (clicking it does too)
  N            - Spawn a shape node under the root node
  X            - Remove the last spawned node
  ?            - Toggle help
  Q/Ctrl+C     - Quit

The stage pauses while the terminal window is not focused.

Examples:
  stage play
  stage play --journal
  stage play --config ./my-stage.yaml --fps 30`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagJournal, "journal", false, "Record every dispatched action to the journal")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := openLogger()
	if err != nil {
		return err
	}
	defer closeLog()

	// Get terminal size
	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	rt := core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  max(height-1, 1), // Last row is the status bar
		TickRate: cfg.TickRate,
		Seed:     seed(),
	}

	obs := tui.Observers{Logger: logger}
	if flagJournal {
		journal, openErr := storage.Open(flagDBPath)
		if openErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not open journal: %v\n", openErr)
			// Continue without journaling
		} else {
			defer journal.Close()
			host, _ := os.Hostname()
			rec, recErr := journal.StartSession(host)
			if recErr != nil {
				return recErr
			}
			obs.Journal = rec
			defer fmt.Printf("Journal session %s\n", rec.Session())
		}
	}

	session, err := tui.NewSession(cfg, rt, obs)
	if err != nil {
		return fmt.Errorf("cannot build stage: %w", err)
	}
	defer session.Close()

	if err := tui.Run(session, rt.TickRate, width, height, logger); err != nil {
		return fmt.Errorf("error running stage: %w", err)
	}
	return nil
}
