package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"
)

const (
	TransportStreamableHTTP = "streamable-http"
	TransportSSE            = "sse"
	TransportStdio          = "stdio"

	// implicitSessionID names the shared session for requests that carry no
	// transport session.
	implicitSessionID = "implicit"

	shutdownTimeout = 5 * time.Second
)

// Config configures the MCP front end.
type Config struct {
	Name      string
	Version   string
	Transport string
	Host      string
	Port      int

	// BaseURL is advertised to SSE clients; defaults to http://host:port.
	BaseURL string

	// MetricsPath and MetricsHandler mount a scrape endpoint when both are set.
	MetricsPath    string
	MetricsHandler http.Handler

	// Stdin and Stdout default to the process streams.
	Stdin  io.Reader
	Stdout io.Writer

	// OnReady is called once the transport accepts requests.
	OnReady func()
}

// Server binds a gateway to an MCP server and its transports.
type Server struct {
	cfg      Config
	gw       *gateway.Gateway
	sessions *gateway.Sessions
	mcp      *mcpserver.MCPServer

	// parent context for gateway sessions; outlives individual requests
	baseCtx    context.Context
	baseCancel context.CancelFunc

	streamable *mcpserver.StreamableHTTPServer
	sse        *mcpserver.SSEServer
}

// New creates the MCP server and registers every tool in the gateway's
// registry.
func New(gw *gateway.Gateway, cfg Config) (*Server, error) {
	if cfg.Name == "" {
		cfg.Name = "cosmos-mcp"
	}
	if cfg.Transport == "" {
		cfg.Transport = TransportStreamableHTTP
	}

	baseCtx, cancel := context.WithCancel(context.Background())
	s := &Server{
		cfg:        cfg,
		gw:         gw,
		sessions:   gateway.NewSessions(gw),
		baseCtx:    baseCtx,
		baseCancel: cancel,
	}

	s.mcp = mcpserver.NewMCPServer(
		cfg.Name,
		cfg.Version,
		mcpserver.WithToolCapabilities(false),
		mcpserver.WithHooks(s.hooks()),
		mcpserver.WithToolFilter(s.listTools),
	)

	tools, err := s.serverTools()
	if err != nil {
		cancel()
		return nil, err
	}
	s.mcp.AddTools(tools...)
	s.mcp.AddTool(mcp.NewTool(unknownToolName), s.unknownToolHandler)
	logging.Info("Server", "Registered %d MCP tools", len(tools))

	return s, nil
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// Sessions returns the gateway session table.
func (s *Server) Sessions() *gateway.Sessions {
	return s.sessions
}

func (s *Server) addr() string {
	return net.JoinHostPort(s.cfg.Host, fmt.Sprint(s.cfg.Port))
}

func (s *Server) baseURL() string {
	if s.cfg.BaseURL != "" {
		return strings.TrimSuffix(s.cfg.BaseURL, "/")
	}
	return "http://" + s.addr()
}

// Handler returns the HTTP mux for the configured transport. It is only
// meaningful for the HTTP transports.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealth)
	if s.cfg.MetricsHandler != nil && s.cfg.MetricsPath != "" {
		mux.Handle(s.cfg.MetricsPath, s.cfg.MetricsHandler)
	}

	switch s.cfg.Transport {
	case TransportSSE:
		s.sse = mcpserver.NewSSEServer(
			s.mcp,
			mcpserver.WithBaseURL(s.baseURL()),
			mcpserver.WithSSEEndpoint("/sse"),
			mcpserver.WithMessageEndpoint("/message"),
			mcpserver.WithKeepAlive(true),
			mcpserver.WithKeepAliveInterval(30*time.Second),
		)
		mux.Handle("/sse", s.sse.SSEHandler())
		mux.Handle("/message", s.sse.MessageHandler())
	default:
		s.streamable = mcpserver.NewStreamableHTTPServer(s.mcp, mcpserver.WithEndpointPath("/mcp"))
		mux.Handle("/mcp", s.closeOnDelete(s.streamable))
	}

	return mux
}

// closeOnDelete ends the gateway session when a streamable client
// terminates it, which the transport does not report through the
// unregister hook.
func (s *Server) closeOnDelete(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if r.Method != http.MethodDelete {
			return
		}
		if id := r.Header.Get(mcpserver.HeaderKeySessionID); id != "" {
			s.mcp.UnregisterSession(r.Context(), id)
			s.sessions.Close(id)
		}
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":   "ok",
		"tools":    s.gw.Registry().Len(),
		"sessions": s.sessions.Len(),
	})
}

// Run serves the configured transport until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.Transport == TransportStdio {
		return s.serveStdio(ctx)
	}

	ln, err := net.Listen("tcp", s.addr())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves the HTTP transports on ln until ctx is cancelled, then
// shuts down gracefully and closes all sessions.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return s.baseCtx },
	}

	logging.Info("Server", "Serving MCP over %s on %s", s.cfg.Transport, ln.Addr())
	if s.cfg.OnReady != nil {
		s.cfg.OnReady()
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		return s.shutdown(httpServer)
	})
	return g.Wait()
}

func (s *Server) shutdown(httpServer *http.Server) error {
	logging.Info("Server", "Stopping MCP server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Cancelling the base context ends open event streams and in-flight
	// calls so Shutdown does not wait on them.
	s.sessions.CloseAll()
	s.baseCancel()

	if s.sse != nil {
		if err := s.sse.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down SSE server")
		}
	}
	if s.streamable != nil {
		if err := s.streamable.Shutdown(shutdownCtx); err != nil {
			logging.Error("Server", err, "Error shutting down streamable HTTP server")
		}
	}
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return httpServer.Close()
		}
		return err
	}
	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	in, out := s.cfg.Stdin, s.cfg.Stdout
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}

	stdio := mcpserver.NewStdioServer(s.mcp)
	logging.Info("Server", "Serving MCP over stdio")
	if s.cfg.OnReady != nil {
		s.cfg.OnReady()
	}

	err := stdio.Listen(ctx, in, out)
	s.sessions.CloseAll()
	s.baseCancel()
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// Close releases every session without serving. It is used when Run was
// never called.
func (s *Server) Close() {
	s.sessions.CloseAll()
	s.baseCancel()
}

// textResult wraps gateway text in the single-text-item result shape.
func textResult(text string) *mcp.CallToolResult {
	return mcp.NewToolResultText(text)
}
