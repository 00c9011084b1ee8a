package app

import (
	"cosmos-mcp/internal/config"
)

// Config holds the command-line settings for one gateway process. Zero
// values leave the file and environment settings in place.
type Config struct {
	// Debug forces debug logging.
	Debug bool

	// ConfigPath is the directory holding config.yaml.
	ConfigPath string

	LogFormat string
	Transport string
	Host      string
	Port      int

	// Version is reported to MCP clients and as service.version.
	Version string

	// Gateway is the loaded configuration. NewApplication fills it in when
	// it is nil.
	Gateway *config.Config
}

// NewConfig creates a new application configuration
func NewConfig(debug bool, configPath string) *Config {
	return &Config{
		Debug:      debug,
		ConfigPath: configPath,
	}
}

// ApplyFlags copies the flag overrides onto c. Flags win over the file and
// the environment.
func (a *Config) ApplyFlags(c *config.Config) {
	if a.Debug {
		c.Logging.Level = "debug"
	}
	if a.LogFormat != "" {
		c.Logging.Format = a.LogFormat
	}
	if a.Transport != "" {
		c.Server.Transport = a.Transport
	}
	if a.Host != "" {
		c.Server.Host = a.Host
	}
	if a.Port != 0 {
		c.Server.Port = a.Port
	}
}

// LoadGatewayConfig reads the file layer, applies the environment and the
// flags, and validates the result.
func LoadGatewayConfig(a *Config) (config.Config, error) {
	cfg, err := config.LoadConfig(a.ConfigPath)
	if err != nil {
		return config.Config{}, err
	}
	if err := config.ApplyEnv(&cfg, lookupEnv); err != nil {
		return config.Config{}, err
	}
	a.ApplyFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}
