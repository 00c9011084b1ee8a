package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"cosmos-mcp/pkg/logging"

	"github.com/coreos/go-systemd/v22/daemon"
)

const metricsShutdownTimeout = 5 * time.Second

// swapped out in tests
var (
	lookupEnv           = os.LookupEnv
	logOutput io.Writer = os.Stderr
)

// Application bootstraps and runs one gateway process.
//
// Initialization happens in two phases:
//  1. NewApplication loads configuration, sets up logging and builds the
//     registry, the gateway and the MCP server
//  2. Run serves the configured transport until ctx is cancelled
//
// Example usage:
//
//	cfg := app.NewConfig(false, "")
//	application, err := app.NewApplication(cfg)
//	if err != nil {
//	    return fmt.Errorf("failed to create application: %w", err)
//	}
//	return application.Run(ctx)
type Application struct {
	config   *Config
	services *Services
}

// NewApplication loads the configuration (unless cfg.Gateway is already
// set), configures logging and initializes the services.
//
// Logs go to stderr: with the stdio transport stdout carries the protocol.
func NewApplication(cfg *Config) (*Application, error) {
	level := logging.LevelInfo
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.InitForCLI(level, logOutput)

	if cfg.Gateway == nil {
		gc, err := LoadGatewayConfig(cfg)
		if err != nil {
			logging.Error("Bootstrap", err, "Failed to load configuration")
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg.Gateway = &gc
	}
	level = logging.ParseLevel(cfg.Gateway.Logging.Level)
	if cfg.Debug {
		level = logging.LevelDebug
	}
	logging.Init(level, logging.Format(cfg.Gateway.Logging.Format), logOutput)

	services, err := InitializeServices(cfg)
	if err != nil {
		logging.Error("Bootstrap", err, "Failed to initialize services")
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	return &Application{
		config:   cfg,
		services: services,
	}, nil
}

// Services returns the initialized services.
func (a *Application) Services() *Services {
	return a.services
}

// Run serves until ctx is cancelled, then tells systemd the process is
// stopping and flushes metrics.
func (a *Application) Run(ctx context.Context) error {
	runErr := a.services.Server.Run(ctx)
	if errors.Is(runErr, context.Canceled) {
		runErr = nil
	}

	if _, err := daemon.SdNotify(false, daemon.SdNotifyStopping); err != nil {
		logging.Debug("Bootstrap", "Failed to notify systemd: %v", err)
	}

	if a.services.Metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
		defer cancel()
		if err := a.services.Metrics.Shutdown(shutdownCtx); err != nil {
			logging.Warn("Bootstrap", "Failed to shut down metrics: %v", err)
		}
	}
	return runErr
}
