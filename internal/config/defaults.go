package config

import (
	"time"

	"cosmos-mcp/internal/gateway"
)

const (
	DefaultHostname = "localhost"
	DefaultAPIPort  = 443
	DefaultSchema   = "https"
	DefaultScope    = "DEFAULT"
	DefaultRealm    = "openc3"
	DefaultClientID = "api"
	DefaultUser     = "admin"

	DefaultServerHost = "localhost"
	DefaultServerPort = 3443

	DefaultMetricsPath = "/metrics"
)

// DefaultBackendTimeout bounds a single JSON-RPC request.
const DefaultBackendTimeout = 30 * time.Second

// GetDefaultConfig returns the configuration used before any file or
// environment is applied.
func GetDefaultConfig() Config {
	return Config{
		Backend: BackendConfig{
			API: Endpoint{
				Schema:   DefaultSchema,
				Hostname: DefaultHostname,
				Port:     DefaultAPIPort,
			},
			Scope:   DefaultScope,
			Timeout: DefaultBackendTimeout,
		},
		Auth: AuthConfig{
			Mode:     AuthModeAuto,
			User:     DefaultUser,
			Realm:    DefaultRealm,
			ClientID: DefaultClientID,
		},
		Gateway: GatewayConfig{
			Prefix:          gateway.DefaultPrefix,
			CallTimeout:     gateway.DefaultCallTimeout,
			SuccessTemplate: gateway.DefaultSuccessTemplate,
		},
		Server: ServerConfig{
			Transport: TransportStreamableHTTP,
			Host:      DefaultServerHost,
			Port:      DefaultServerPort,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Path:    DefaultMetricsPath,
		},
	}
}

// ScriptAPIEndpoint returns the script runner endpoint, falling back
// field by field to the API endpoint.
func (b BackendConfig) ScriptAPIEndpoint() Endpoint {
	ep := b.ScriptAPI
	if ep.Schema == "" {
		ep.Schema = b.API.Schema
	}
	if ep.Hostname == "" {
		ep.Hostname = b.API.Hostname
	}
	if ep.Port == 0 {
		ep.Port = b.API.Port
	}
	return ep
}
