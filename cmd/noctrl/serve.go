package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/noctrl/internal/platform/tui"
	"github.com/vovakirdan/noctrl/internal/platform/web"
	"github.com/vovakirdan/noctrl/internal/storage"
)

var (
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagHTTPAddr    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the NoCtrl SSH server",
	Long: `Start an SSH server that allows users to connect and play.

Each SSH connection gets its own session with a level picker.
Records are stored per-server and keyed by SSH user name.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.noctrl/host_key

Examples:
  noctrl serve                           # Listen on :23234 with auto-generated key
  noctrl serve --ssh :2222               # Listen on port 2222
  noctrl serve --host-key ./my_host_key  # Use specific host key
  noctrl serve --db ./records.db         # Use specific database
  noctrl serve --http :8080              # Also serve the JSON records API

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", ":23234", "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "Idle timeout in minutes before disconnecting")
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP API address (host:port), disabled if empty")
}

func runServe(_ *cobra.Command, _ []string) error {
	logger, err := newLogger(os.Stderr, "noctrl-ssh")
	if err != nil {
		return err
	}
	gameCfg, err := loadConfig()
	if err != nil {
		return err
	}
	loader, err := openPack(gameCfg)
	if err != nil {
		return err
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open records database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	cfg := tui.DefaultSSHServerConfig()
	cfg.Address = flagSSHAddr
	cfg.HostKeyPath = flagHostKey
	cfg.IdleTimeout = time.Duration(flagIdleTimeout) * time.Minute
	cfg.TickRate = flagFPS
	cfg.Game = gameCfg

	server, err := tui.NewSSHServer(cfg, loader, store, logger)
	if err != nil {
		return fmt.Errorf("cannot create server: %w", err)
	}

	if flagHTTPAddr != "" {
		api := web.NewServer(flagHTTPAddr, loader, store, logger.WithPrefix("noctrl-http"))
		if err := api.Start(); err != nil {
			return fmt.Errorf("cannot start HTTP API: %w", err)
		}
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := api.Shutdown(ctx); err != nil {
				logger.Error("HTTP API shutdown failed", "error", err)
			}
		}()
		fmt.Printf("Serving records API on %s\n", flagHTTPAddr)
	}

	fmt.Printf("Starting NoCtrl SSH server on %s\n", cfg.Address)
	fmt.Println("Connect with:", connectCommand(cfg.Address))
	fmt.Println("Press Ctrl+C to stop")

	return server.ListenAndServe()
}

// connectCommand returns the ssh command line that reaches addr.
func connectCommand(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "ssh " + addr
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	if port == "22" {
		return "ssh " + host
	}
	return fmt.Sprintf("ssh %s -p %s", host, port)
}
