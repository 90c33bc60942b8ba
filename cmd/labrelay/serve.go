package main

import (
	"log/slog"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/labrelay/internal/config"
	"github.com/jackzampolin/labrelay/internal/home"
	"github.com/jackzampolin/labrelay/internal/server"
)

var (
	serveHost  string
	servePort  string
	serveDebug bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the labrelay server",
	Long: `Start the labrelay HTTP server.

Configuration is read from --config, ./config.yaml or ~/.labrelay/config.yaml,
with LABRELAY_* environment overrides. The vendor API key defaults to
${CARDINAL_API_KEY}; the server refuses to start without it.

Edits to the config file are picked up while running: the extraction client
is rebuilt with the new vendor settings.

The server provides:
  - /        - Liveness banner
  - /health  - Health check
  - /upload  - Lab report upload (multipart field "file")
  - /ui/     - Browser upload page
  - /swagger - API documentation

Examples:
  labrelay serve                   # Start on the configured port (8000)
  labrelay serve --port 9000       # Start on custom port
  labrelay serve --host 127.0.0.1  # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Set up logger
		level := slog.LevelInfo
		if serveDebug {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		}))

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		cfgMgr, err := config.NewManager(cfgFile, h.Path())
		if err != nil {
			return err
		}
		cfg := cfgMgr.Get()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if used := cfgMgr.ConfigFileUsed(); used != "" {
			logger.Info("loaded config", "file", used)
			cfgMgr.WatchConfig()
		}

		// Without flags the server listens on the config's server section.
		var host, port string
		if cmd.Flags().Changed("host") || cmd.Flags().Changed("port") {
			host, port = cfg.Server.Host, strconv.Itoa(cfg.Server.Port)
			if cmd.Flags().Changed("host") {
				host = serveHost
			}
			if cmd.Flags().Changed("port") {
				port = servePort
			}
		}

		// Create server
		srv, err := server.New(server.Config{
			Host:          host,
			Port:          port,
			ConfigManager: cfgMgr,
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
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8000", "Port to listen on (overrides server.port)")
	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Log raw vendor replies")

	rootCmd.AddCommand(serveCmd)
}
