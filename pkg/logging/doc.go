// Package logging provides the structured logger used throughout cosmos-mcp.
//
// It is a thin layer over the standard slog package that tags every entry
// with a subsystem name, so log lines from the registration pipeline, the
// MCP transport and the COSMOS client can be filtered independently.
//
// # Usage
//
//	logging.Init(logging.LevelInfo, logging.FormatText, os.Stderr)
//
//	logging.Info("Gateway", "Registered %d tools", n)
//	logging.Debug("Cosmos", "POST %s method=%s", url, method)
//	logging.Warn("Policy", "Skipping %s: %s", name, reason)
//	logging.Error("Server", err, "Transport stopped")
//
// # Subsystems
//
//   - Bootstrap: configuration loading and startup
//   - Pipeline: namespace enumeration, filtering and registration
//   - Gateway: call dispatch and session lifecycle
//   - Server: MCP transports
//   - Cosmos: backend JSON-RPC client
//
// When the stdio transport is active, stdout carries the MCP protocol, so the
// logger must be initialized with os.Stderr as its output.
package logging
