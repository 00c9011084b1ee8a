package config

import (
	"fmt"
	"net/url"
	"strings"

	"cosmos-mcp/pkg/logging"
)

// ValidationError represents a validation error with context
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (ve ValidationError) Error() string {
	if ve.Field == "" {
		return ve.Message
	}
	return fmt.Sprintf("field '%s': %s", ve.Field, ve.Message)
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface for multiple validation errors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	if len(ve) == 1 {
		return ve[0].Error()
	}

	messages := make([]string, 0, len(ve))
	for _, err := range ve {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(messages, "; "))
}

// HasErrors returns true if there are any validation errors
func (ve ValidationErrors) HasErrors() bool {
	return len(ve) > 0
}

// Add adds a new validation error
func (ve *ValidationErrors) Add(field, message string, value ...any) {
	var val any
	if len(value) > 0 {
		val = value[0]
	}
	*ve = append(*ve, ValidationError{
		Field:   field,
		Value:   val,
		Message: message,
	})
}

// ValidateOneOf checks if a value is in a list of allowed values
func ValidateOneOf(field, value string, allowed []string) error {
	for _, allowedValue := range allowed {
		if value == allowedValue {
			return nil
		}
	}
	return ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", ")),
	}
}

func validatePort(errs *ValidationErrors, field string, port int) {
	if port < 1 || port > 65535 {
		errs.Add(field, "must be between 1 and 65535", port)
	}
}

func validateEndpoint(errs *ValidationErrors, prefix string, ep Endpoint) {
	if err := ValidateOneOf(prefix+".schema", ep.Schema, []string{"http", "https"}); err != nil {
		*errs = append(*errs, err.(ValidationError))
	}
	if strings.TrimSpace(ep.Hostname) == "" {
		errs.Add(prefix+".hostname", "is required")
	}
	validatePort(errs, prefix+".port", ep.Port)
}

// Validate checks the whole configuration and returns every problem found
// as ValidationErrors.
func (c Config) Validate() error {
	var errs ValidationErrors

	validateEndpoint(&errs, "backend.api", c.Backend.API)
	validateEndpoint(&errs, "backend.scriptApi", c.Backend.ScriptAPIEndpoint())
	if strings.TrimSpace(c.Backend.Scope) == "" {
		errs.Add("backend.scope", "is required")
	}
	if c.Backend.Timeout < 0 {
		errs.Add("backend.timeout", "must not be negative", c.Backend.Timeout)
	}

	if err := ValidateOneOf("auth.mode", c.Auth.Mode, []string{AuthModeAuto, AuthModePassword, AuthModeKeycloak}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	switch c.Auth.EffectiveMode() {
	case AuthModeKeycloak:
		if c.Auth.KeycloakURL == "" {
			errs.Add("auth.keycloakUrl", "is required for keycloak auth")
		} else if u, err := url.Parse(c.Auth.KeycloakURL); err != nil || u.Scheme == "" || u.Host == "" {
			errs.Add("auth.keycloakUrl", "must be an absolute URL", c.Auth.KeycloakURL)
		}
		if c.Auth.User == "" {
			errs.Add("auth.user", "is required for keycloak auth")
		}
		if c.Auth.Realm == "" {
			errs.Add("auth.realm", "is required for keycloak auth")
		}
	case AuthModePassword:
		if c.Auth.Password == "" {
			logging.Warn("Config", "No COSMOS password configured; backend calls will be unauthenticated")
		}
	}

	if c.Gateway.Prefix == "" {
		errs.Add("gateway.prefix", "is required")
	} else if strings.ContainsAny(c.Gateway.Prefix, " \t/") {
		errs.Add("gateway.prefix", "cannot contain spaces or slashes", c.Gateway.Prefix)
	}
	if c.Gateway.CallTimeout < 0 {
		errs.Add("gateway.callTimeout", "must not be negative", c.Gateway.CallTimeout)
	}

	if err := ValidateOneOf("server.transport", c.Server.Transport, []string{TransportStreamableHTTP, TransportSSE, TransportStdio}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if c.Server.Transport != TransportStdio {
		validatePort(&errs, "server.port", c.Server.Port)
	}

	if err := ValidateOneOf("logging.format", c.Logging.Format, []string{"text", "json"}); err != nil {
		errs = append(errs, err.(ValidationError))
	}
	if c.Metrics.Enabled && !strings.HasPrefix(c.Metrics.Path, "/") {
		errs.Add("metrics.path", "must start with '/'", c.Metrics.Path)
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
