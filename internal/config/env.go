package config

import (
	"fmt"

	"github.com/spf13/cast"
)

// LookupFunc has the signature of os.LookupEnv.
type LookupFunc func(key string) (string, bool)

type envBinding struct {
	key   string
	apply func(c *Config, v string) error
}

func str(set func(c *Config, v string)) func(*Config, string) error {
	return func(c *Config, v string) error {
		set(c, v)
		return nil
	}
}

func integer(set func(c *Config, v int)) func(*Config, string) error {
	return func(c *Config, v string) error {
		n, err := cast.ToIntE(v)
		if err != nil {
			return err
		}
		set(c, n)
		return nil
	}
}

// envBindings are the variables the COSMOS tooling and the gateway's own
// deployment scripts set.
var envBindings = []envBinding{
	{"OPENC3_API_HOSTNAME", str(func(c *Config, v string) { c.Backend.API.Hostname = v })},
	{"OPENC3_API_PORT", integer(func(c *Config, v int) { c.Backend.API.Port = v })},
	{"OPENC3_API_SCHEMA", str(func(c *Config, v string) { c.Backend.API.Schema = v })},
	{"OPENC3_SCRIPT_API_HOSTNAME", str(func(c *Config, v string) { c.Backend.ScriptAPI.Hostname = v })},
	{"OPENC3_SCRIPT_API_PORT", integer(func(c *Config, v int) { c.Backend.ScriptAPI.Port = v })},
	{"OPENC3_SCRIPT_API_SCHEMA", str(func(c *Config, v string) { c.Backend.ScriptAPI.Schema = v })},
	{"OPENC3_SCOPE", str(func(c *Config, v string) { c.Backend.Scope = v })},
	{"OPENC3_API_USER", str(func(c *Config, v string) { c.Auth.User = v })},
	{"OPENC3_API_PASSWORD", str(func(c *Config, v string) { c.Auth.Password = v })},
	{"OPENC3_KEYCLOAK_URL", str(func(c *Config, v string) { c.Auth.KeycloakURL = v })},
	{"KEYCLOAK_REALM", str(func(c *Config, v string) { c.Auth.Realm = v })},
	{"MCP_TRANSPORT", str(func(c *Config, v string) { c.Server.Transport = v })},
	{"MCP_HOST", str(func(c *Config, v string) { c.Server.Host = v })},
	{"MCP_PORT", integer(func(c *Config, v int) { c.Server.Port = v })},
	{"MCP_BASE_URL", str(func(c *Config, v string) { c.Server.BaseURL = v })},
	{"MCP_TOOL_PREFIX", str(func(c *Config, v string) { c.Gateway.Prefix = v })},
	{"MCP_CALL_TIMEOUT", func(c *Config, v string) error {
		d, err := cast.ToDurationE(v)
		if err != nil {
			return err
		}
		c.Gateway.CallTimeout = d
		return nil
	}},
	{"MCP_LOG_LEVEL", str(func(c *Config, v string) { c.Logging.Level = v })},
}

// EnvKeys lists the recognised environment variables in application order.
func EnvKeys() []string {
	keys := make([]string, len(envBindings))
	for i, b := range envBindings {
		keys[i] = b.key
	}
	return keys
}

// ApplyEnv overlays set environment variables onto c. Unparsable values
// are reported together.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	var errs ValidationErrors
	for _, b := range envBindings {
		v, ok := lookup(b.key)
		if !ok || v == "" {
			continue
		}
		if err := b.apply(c, v); err != nil {
			errs.Add(b.key, fmt.Sprintf("invalid value %q: %v", v, err), v)
		}
	}
	if errs.HasErrors() {
		return errs
	}
	return nil
}
