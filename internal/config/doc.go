// Package config loads cosmos-mcp configuration.
//
// Values are layered in this order, later layers winning:
//
//  1. built-in defaults (GetDefaultConfig)
//  2. config.yaml in the configuration directory (default ~/.config/cosmos-mcp,
//     overridable with --config-path)
//  3. environment variables (OPENC3_* for the backend, MCP_* for the gateway)
//  4. command-line flags, applied by the cmd package
//
// # Example config.yaml
//
//	backend:
//	  api:
//	    schema: https
//	    hostname: cosmos.example.com
//	    port: 443
//	  scope: DEFAULT
//	auth:
//	  mode: keycloak
//	  user: operator
//	  keycloakUrl: https://cosmos.example.com/auth
//	gateway:
//	  prefix: openc3_
//	  callTimeout: 60s
//	  extraDenied: [cmd_no_hazardous_check]
//	server:
//	  transport: streamable-http
//	  port: 3443
//
// Validate reports every problem at once as ValidationErrors.
package config
