package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"cosmos-mcp/internal/config"
	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/internal/metrics"
	"cosmos-mcp/internal/server"
	"cosmos-mcp/internal/tools"
	"cosmos-mcp/pkg/logging"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Services holds everything a running gateway process owns.
//
// Initialization order:
//  1. Metrics provider (when enabled), so the gateway can report to it
//  2. Backend client with its token provider
//  3. Registration pipeline over the script namespace
//  4. Gateway and the MCP server in front of it
type Services struct {
	Client   *cosmos.Client
	Report   *gateway.Report
	Gateway  *gateway.Gateway
	Server   *server.Server
	Metrics  *metrics.Provider
	Registry *gateway.Registry
}

// NewAuth picks the token provider for the configured auth mode.
func NewAuth(c config.AuthConfig, httpClient *http.Client) cosmos.TokenProvider {
	if c.EffectiveMode() == config.AuthModeKeycloak {
		var opts []cosmos.KeycloakOption
		if c.ClientID != "" {
			opts = append(opts, cosmos.WithKeycloakClientID(c.ClientID))
		}
		if httpClient != nil {
			opts = append(opts, cosmos.WithKeycloakHTTPClient(httpClient))
		}
		return cosmos.NewKeycloakAuth(c.KeycloakURL, c.Realm, c.User, c.Password, opts...)
	}
	return cosmos.PasswordAuth{Password: c.Password}
}

// NewClient creates the JSON-RPC client for the backend's API endpoint.
func NewClient(c config.BackendConfig, auth cosmos.TokenProvider) *cosmos.Client {
	endpoint := cosmos.Endpoint(c.API.Schema, c.API.Hostname, c.API.Port)
	return cosmos.NewClient(endpoint, auth,
		cosmos.WithScope(c.Scope),
		cosmos.WithHTTPClient(&http.Client{Timeout: c.Timeout}),
	)
}

// NewPipeline wires the registration pipeline: built-ins, the policy with
// the configured denylist additions, the generic builder and the override
// table bound to api.
func NewPipeline(c config.GatewayConfig, api cosmos.Caller, now tools.Clock) *gateway.Pipeline {
	builder := gateway.NewBuilder()
	if c.Prefix != "" {
		builder.Prefix = c.Prefix
	}
	return gateway.NewPipeline(builder, tools.Builtins(now), tools.Overrides(api, builder.Prefix), c.ExtraDenied)
}

// InitializeServices builds the gateway for cfg. Nothing is contacted yet:
// the backend is first called when a tool runs, and the listener opens in
// Application.Run.
func InitializeServices(cfg *Config) (*Services, error) {
	gc := cfg.Gateway
	if gc == nil {
		return nil, fmt.Errorf("gateway configuration not loaded")
	}
	services := &Services{}

	var observer gateway.Observer
	if gc.Metrics.Enabled {
		provider, err := metrics.InitProvider(metrics.ProviderConfig{ServiceVersion: cfg.Version})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize metrics: %w", err)
		}
		services.Metrics = provider
		observer = provider.Metrics
	}

	auth := NewAuth(gc.Auth, nil)
	services.Client = NewClient(gc.Backend, auth)
	logging.Info("Services", "Backend API %s (scope %s, auth %s)",
		services.Client.Endpoint(), services.Client.Scope(), gc.Auth.EffectiveMode())
	script := gc.Backend.ScriptAPIEndpoint()
	logging.Debug("Services", "Script API %s", cosmos.Endpoint(script.Schema, script.Hostname, script.Port))

	pipeline := NewPipeline(gc.Gateway, services.Client, time.Now)
	reg, report, err := pipeline.Run(cosmos.ScriptNamespace(services.Client, gc.Backend.Scope))
	if err != nil {
		return nil, fmt.Errorf("failed to build tool registry: %w", err)
	}
	services.Registry = reg
	services.Report = report

	normalizer, err := gateway.NewNormalizer(gc.Gateway.SuccessTemplate)
	if err != nil {
		return nil, fmt.Errorf("invalid success template: %w", err)
	}
	services.Gateway = gateway.New(reg, gateway.Options{
		CallTimeout: gc.Gateway.CallTimeout,
		Normalizer:  normalizer,
		Observer:    observer,
	})
	if services.Metrics != nil {
		services.Metrics.Metrics.SetRegistryTools(context.Background(), reg.Len())
	}

	serverCfg := server.Config{
		Version:     cfg.Version,
		Transport:   gc.Server.Transport,
		Host:        gc.Server.Host,
		Port:        gc.Server.Port,
		BaseURL:     gc.Server.BaseURL,
		MetricsPath: gc.Metrics.Path,
		OnReady:     notifyReady,
	}
	if services.Metrics != nil {
		serverCfg.MetricsHandler = services.Metrics.Handler
	}
	srv, err := server.New(services.Gateway, serverCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create MCP server: %w", err)
	}
	services.Server = srv
	return services, nil
}

// notifyReady tells systemd the listener is up. Outside systemd it is a no-op.
func notifyReady() {
	sent, err := daemon.SdNotify(false, daemon.SdNotifyReady)
	if err != nil {
		logging.Warn("Services", "Failed to notify systemd: %v", err)
		return
	}
	if sent {
		logging.Debug("Services", "Notified systemd: ready")
	}
}
