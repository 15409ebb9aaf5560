package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/zataralive/seraph-ultimo-login/internal/platform/tui"
	"github.com/zataralive/seraph-ultimo-login/internal/spectate"
)

var (
	flagSSHAddr     string
	flagWSAddr      string
	flagHostKey     string
	flagIdleTimeout time.Duration
	flagServeConfig string
	flagServeDiff   string
	flagServeDir    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Seraph SSH server",
	Long: `Start an SSH server where every connection plays its own run, plus an
HTTP server where anyone can watch live runs over a websocket.

All users share the same hall of fame. Sound is never played on the server.

Host key handling:
  - If --host-key is provided, uses that key file
  - Otherwise, auto-generates a key at ~/.seraph/host_key

Spectating:
  GET /sessions          - JSON list of live runs
  GET /spectate?id=<id>  - websocket with the run's frames at 10 Hz
  Set --ws "" to disable.

Examples:
  seraph serve                           # SSH on :23234, spectators on :8080
  seraph serve --ssh :2222 --ws :9090
  seraph serve --host-key ./my_host_key
  seraph serve --idle-timeout 10m

Users can connect with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	Run:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", envCfg.SSHAddr, "SSH server address (host:port)")
	serveCmd.Flags().StringVar(&flagWSAddr, "ws", envCfg.WSAddr, "Spectator HTTP address (empty to disable)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to host key file (auto-generated if not specified)")
	serveCmd.Flags().DurationVar(&flagIdleTimeout, "idle-timeout", 30*time.Minute, "Idle time before disconnecting")
	serveCmd.Flags().StringVar(&flagServeConfig, "config", envCfg.ConfigPath, "Path to custom tuning YAML")
	serveCmd.Flags().StringVar(&flagServeDiff, "difficulty", envCfg.Difficulty, "Difficulty preset for every session")
	serveCmd.Flags().StringVar(&flagServeDir, "content", envCfg.ContentDir, "Directory with content tables")
}

func runServe(_ *cobra.Command, _ []string) {
	template, err := runTemplate(flagServeConfig, flagServeDiff, flagServeDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	var hub *spectate.Hub
	var httpSrv *http.Server
	if flagWSAddr != "" {
		logger := newLogger("seraph-spectate")
		hub = spectate.NewHub(spectate.DefaultInterval, logger)
		httpSrv = &http.Server{
			Addr:              flagWSAddr,
			Handler:           spectate.NewHandler(hub).Routes(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("starting spectator server", "address", flagWSAddr)
			if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("spectator server error", "error", err)
			}
		}()
	}

	cfg := tui.SSHServerConfig{
		Address:     flagSSHAddr,
		HostKeyPath: flagHostKey,
		DBPath:      flagDBPath,
		IdleTimeout: flagIdleTimeout,
		TickRate:    flagFPS,
		Game:        template,
		Hub:         hub,
	}

	server, err := tui.NewSSHServer(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating server: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting Seraph SSH server on %s\n", cfg.Address)
	fmt.Printf("Connect with: ssh localhost -p %s\n", portOf(cfg.Address))
	if httpSrv != nil {
		fmt.Printf("Watch live runs: http://localhost:%s/sessions\n", portOf(flagWSAddr))
	}
	fmt.Println("Press Ctrl+C to stop")

	serveErr := server.ListenAndServe()

	if httpSrv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = httpSrv.Shutdown(ctx)
		cancel()
	}

	if serveErr != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", serveErr)
		os.Exit(1)
	}
}

// portOf returns the port of a host:port address.
func portOf(addr string) string {
	if _, port, err := net.SplitHostPort(addr); err == nil {
		return port
	}
	return addr
}
