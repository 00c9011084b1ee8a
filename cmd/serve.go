package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"cosmos-mcp/internal/app"
	"cosmos-mcp/internal/config"

	"github.com/spf13/cobra"
)

var (
	serveDebug      bool
	serveConfigPath string
	serveTransport  string
	serveHost       string
	servePort       int
	serveLogFormat  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway",
	Long: `Starts the cosmos-mcp gateway.

At startup the gateway enumerates the COSMOS script API, applies the
exposure policy and registers one MCP tool per remaining function, plus
hand-written tools for commands, telemetry and checks. The backend is not
contacted until a tool is called.

Transports:
  streamable-http  MCP over HTTP at /mcp (default)
  sse              MCP over server-sent events at /sse and /message
  stdio            MCP over stdin/stdout; logs go to stderr

Configuration is read from config.yaml in --config-path, then from
OPENC3_* and MCP_* environment variables, then from the flags below.
The process stops cleanly on SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := app.NewConfig(serveDebug, serveConfigPath)
	cfg.Transport = serveTransport
	cfg.Host = serveHost
	cfg.Port = servePort
	cfg.LogFormat = serveLogFormat
	cfg.Version = GetVersion()

	application, err := app.NewApplication(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return application.Run(ctx)
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().BoolVar(&serveDebug, "debug", false, "Enable debug logging")
	serveCmd.Flags().StringVar(&serveConfigPath, "config-path", config.DefaultConfigPath(), "Directory containing config.yaml")
	serveCmd.Flags().StringVar(&serveTransport, "transport", "", "MCP transport: streamable-http, sse or stdio (env: MCP_TRANSPORT)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Address to listen on (env: MCP_HOST)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (env: MCP_PORT)")
	serveCmd.Flags().StringVar(&serveLogFormat, "log-format", "", "Log format: text or json")
}
