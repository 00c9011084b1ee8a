// Package app wires a cosmos-mcp process together: it loads the layered
// configuration, sets up logging and metrics, builds the tool registry from
// the COSMOS script namespace and puts the MCP server in front of it.
//
// # Bootstrap
//
// NewApplication runs in this order:
//
//  1. Logging to stderr at the level implied by --debug
//  2. Configuration: config.yaml, then OPENC3_* and MCP_* variables, then
//     command-line flags, then validation
//  3. InitializeServices: metrics provider, backend client, registration
//     pipeline, gateway, MCP server
//
// Run serves the configured transport until the context is cancelled. Under
// systemd the process reports READY=1 once the listener accepts requests
// and STOPPING=1 on the way out.
//
// # Registration
//
// NewPipeline is also used offline by the check-policy command, which
// classifies the namespace without contacting the backend.
package app
