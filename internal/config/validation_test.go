package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(c *Config)
		wantFields []string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name: "bad endpoint",
			mutate: func(c *Config) {
				c.Backend.API.Schema = "ftp"
				c.Backend.API.Port = 0
			},
			wantFields: []string{"backend.api.schema", "backend.api.port", "backend.scriptApi.schema", "backend.scriptApi.port"},
		},
		{
			name: "keycloak without url",
			mutate: func(c *Config) {
				c.Auth.Mode = AuthModeKeycloak
			},
			wantFields: []string{"auth.keycloakUrl"},
		},
		{
			name: "relative keycloak url",
			mutate: func(c *Config) {
				c.Auth.KeycloakURL = "cosmos/auth"
			},
			wantFields: []string{"auth.keycloakUrl"},
		},
		{
			name: "unknown transport and auth mode",
			mutate: func(c *Config) {
				c.Server.Transport = "websocket"
				c.Auth.Mode = "token"
			},
			wantFields: []string{"auth.mode", "server.transport"},
		},
		{
			name: "stdio ignores port",
			mutate: func(c *Config) {
				c.Server.Transport = TransportStdio
				c.Server.Port = 0
			},
		},
		{
			name: "gateway settings",
			mutate: func(c *Config) {
				c.Gateway.Prefix = "open c3"
				c.Gateway.CallTimeout = -1
			},
			wantFields: []string{"gateway.prefix", "gateway.callTimeout"},
		},
		{
			name: "metrics path",
			mutate: func(c *Config) {
				c.Metrics.Path = "metrics"
			},
			wantFields: []string{"metrics.path"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := GetDefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}
			var errs ValidationErrors
			require.ErrorAs(t, err, &errs)
			var fields []string
			for _, e := range errs {
				fields = append(fields, e.Field)
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	var errs ValidationErrors
	assert.Equal(t, "no validation errors", errs.Error())

	errs.Add("server.port", "must be between 1 and 65535", 0)
	assert.Equal(t, "field 'server.port': must be between 1 and 65535", errs.Error())

	errs.Add("", "something else")
	assert.Equal(t, "validation failed: field 'server.port': must be between 1 and 65535; something else", errs.Error())
}

func TestEffectiveMode(t *testing.T) {
	assert.Equal(t, AuthModePassword, AuthConfig{}.EffectiveMode())
	assert.Equal(t, AuthModeKeycloak, AuthConfig{Mode: AuthModeAuto, KeycloakURL: "https://x/auth"}.EffectiveMode())
	assert.Equal(t, AuthModePassword, AuthConfig{Mode: AuthModePassword, KeycloakURL: "https://x/auth"}.EffectiveMode())
}
