// Package server exposes the gateway over the Model Context Protocol.
//
// Every descriptor in the sealed registry becomes an MCP tool whose input
// schema is derived from the descriptor's parameters. Tool results are
// always a single text content item.
//
// Three transports are supported:
//   - streamable-http (default), mounted at /mcp
//   - sse, with the event stream at /sse and posts at /message
//   - stdio
//
// The HTTP transports share one mux that also serves /healthz and, when a
// handler is configured, the Prometheus scrape endpoint.
//
// # Sessions
//
// MCP session hooks drive the gateway's session table: a session is opened
// when the transport registers it, marked initialized after the initialize
// handshake, and closed when the transport unregisters it or the client
// sends DELETE on the streamable endpoint. Requests that arrive without a
// transport session (stateless HTTP, in-process clients) share one
// implicitly initialized session.
//
// tools/list and tools/call on a session the transport announced are
// rejected until its initialize handshake completes. tools/list is answered
// from the session's view of the registry, in registration order. A call for
// a name outside the registry is routed to a hidden tool so the answer is the
// gateway's not-found text rather than a protocol error.
//
// # Streaming
//
// When a tools/call request carries a progress token, each chunk a streaming
// tool emits is forwarded as a notifications/progress message whose message
// field holds the chunk. The final result still carries the full text.
package server
