package config

import "time"

// Config is the top-level configuration for cosmos-mcp.
type Config struct {
	Backend BackendConfig `yaml:"backend"`
	Auth    AuthConfig    `yaml:"auth"`
	Gateway GatewayConfig `yaml:"gateway"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

const (
	// TransportStreamableHTTP is the streamable HTTP transport.
	TransportStreamableHTTP = "streamable-http"
	// TransportSSE is the Server-Sent Events transport.
	TransportSSE = "sse"
	// TransportStdio is the standard I/O transport.
	TransportStdio = "stdio"
)

const (
	// AuthModeAuto picks keycloak when a keycloak URL is set, password otherwise.
	AuthModeAuto = "auto"
	// AuthModePassword sends the password as the token (open-source COSMOS).
	AuthModePassword = "password"
	// AuthModeKeycloak logs in against keycloak with the resource-owner grant.
	AuthModeKeycloak = "keycloak"
)

// Endpoint is a schema/host/port triple.
type Endpoint struct {
	Schema   string `yaml:"schema,omitempty"`
	Hostname string `yaml:"hostname,omitempty"`
	Port     int    `yaml:"port,omitempty"`
}

// BackendConfig describes the COSMOS instance the gateway fronts.
type BackendConfig struct {
	API       Endpoint      `yaml:"api"`
	ScriptAPI Endpoint      `yaml:"scriptApi,omitempty"` // Script runner API; defaults to API
	Scope     string        `yaml:"scope,omitempty"`     // COSMOS scope (default: DEFAULT)
	Timeout   time.Duration `yaml:"timeout,omitempty"`   // HTTP timeout per JSON-RPC request
}

// AuthConfig holds backend credentials. These authenticate the gateway to
// COSMOS, not MCP clients to the gateway.
type AuthConfig struct {
	Mode        string `yaml:"mode,omitempty"`
	User        string `yaml:"user,omitempty"`
	Password    string `yaml:"password,omitempty"`
	KeycloakURL string `yaml:"keycloakUrl,omitempty"`
	Realm       string `yaml:"realm,omitempty"`
	ClientID    string `yaml:"clientId,omitempty"`
}

// EffectiveMode resolves AuthModeAuto.
func (a AuthConfig) EffectiveMode() string {
	if a.Mode == "" || a.Mode == AuthModeAuto {
		if a.KeycloakURL != "" {
			return AuthModeKeycloak
		}
		return AuthModePassword
	}
	return a.Mode
}

// GatewayConfig controls registration and dispatch.
type GatewayConfig struct {
	Prefix          string        `yaml:"prefix,omitempty"`          // Prefix for generic tool names (default: openc3_)
	ExtraDenied     []string      `yaml:"extraDenied,omitempty"`     // Names excluded in addition to the built-in denylist
	CallTimeout     time.Duration `yaml:"callTimeout,omitempty"`     // Per-call deadline; 0 disables
	SuccessTemplate string        `yaml:"successTemplate,omitempty"` // Text for calls that return nothing
}

// ServerConfig controls the MCP listener.
type ServerConfig struct {
	Transport string `yaml:"transport,omitempty"` // streamable-http, sse or stdio
	Host      string `yaml:"host,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	BaseURL   string `yaml:"baseUrl,omitempty"` // Public URL advertised by the SSE transport
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`
	Format string `yaml:"format,omitempty"` // text or json
}

// MetricsConfig controls the Prometheus scrape endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}
