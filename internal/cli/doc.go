// Package cli holds the client side of the cosmos-mcp command line: the
// ToolExecutor that connects to a running gateway over streamable HTTP, and
// the formatters for tool lists, tool results and policy reports.
//
// # Output formats
//
// Every command accepts --output:
//   - table: plain columns without borders, easy to pipe into grep or awk
//   - wide: table with extra columns
//   - json and yaml: machine-readable
//
// Tool results are text. When the text is JSON it is re-rendered in the
// requested format; otherwise it is printed verbatim.
//
// # Streaming
//
// Each call carries a fresh progress token. Chunks from streaming tools
// arrive as progress notifications and are printed as they come in.
package cli
