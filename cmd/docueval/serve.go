package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/mbenito/docueval/internal/config"
	"github.com/mbenito/docueval/internal/home"
	"github.com/mbenito/docueval/internal/server"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the docueval server",
	Long: `Start the docueval HTTP server.

The server provides:
  - /health - Basic server health check
  - /ready  - Readiness check

Examples:
  docueval serve                    # Start on default port 9180
  docueval serve --port 3000        # Start on custom port
  docueval serve --host 0.0.0.0     # Bind to all interfaces`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}
		if err := h.EnsureExists(); err != nil {
			return err
		}

		// Load configuration with hot-reload support
		path := cfgFile
		if path == "" && h.ConfigExists() {
			path = h.ConfigPath()
		}
		var configMgr *config.Manager
		if path != "" {
			configMgr, err = config.NewManager(path)
			if err != nil {
				return err
			}
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          serveHost,
			Port:          servePort,
			Home:          h,
			ConfigManager: configMgr,
			Logger:        logger,
		})
		if err != nil {
			return err
		}

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind to")
	serveCmd.Flags().StringVar(&servePort, "port", "9180", "Port to listen on")

	rootCmd.AddCommand(serveCmd)
}
