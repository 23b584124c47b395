package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-stage/internal/platform/tui"
)

var (
	flagSSHAddr      string
	flagHostKey      string
	flagMetricsAddr  string
	flagIdleTimeout  int
	flagServeJournal bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the stage SSH server",
	Long: `Start an SSH server that gives every connection its own sandbox.

Sessions are independent: each has its own store, arena and node graph.
With --metrics, Prometheus metrics are served at /metrics:
  stage_actions_total{type}, stage_frames_total,
  stage_clicks_total, stage_sessions_active

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.stage/host_key

Examples:
  stage serve                           # Listen on :23235
  stage serve --ssh :2222 --metrics :9109
  stage serve --journal --db ./journal.db

Users can connect with:
  ssh localhost -p 23235`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23235", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().StringVar(&flagMetricsAddr, "metrics", "", "Serve Prometheus metrics on this address (e.g. :9109)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().BoolVar(&flagServeJournal, "journal", false, "Record every session's actions to the journal")
}

func runServe(_ *cobra.Command, _ []string) error {
	stageCfg, err := loadConfig()
	if err != nil {
		return err
	}

	cfg := tui.SSHServerConfig{
		Address:        flagSSHAddr,
		HostKeyPath:    flagHostKey,
		MetricsAddress: flagMetricsAddr,
		IdleTimeout:    time.Duration(flagIdleTimeout) * time.Minute,
		Stage:          stageCfg,
		Seed:           flagSeed,
	}
	if flagServeJournal {
		cfg.DBPath = flagDBPath
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		return fmt.Errorf("error creating server: %w", err)
	}

	fmt.Printf("Starting stage SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", port(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

func port(addr string) string {
	for i := len(addr) - 1; i >= 0; i-- {
		if addr[i] == ':' {
			return addr[i+1:]
		}
	}
	return addr
}
