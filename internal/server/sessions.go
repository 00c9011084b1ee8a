package server

import (
	"context"
	"encoding/json"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func sessionID(ctx context.Context) string {
	if cs := mcpserver.ClientSessionFromContext(ctx); cs != nil && cs.SessionID() != "" {
		return cs.SessionID()
	}
	return implicitSessionID
}

// sessionFor returns the gateway session for the request. Sessions the
// transport never announced are opened and initialized on first use.
func (s *Server) sessionFor(ctx context.Context) *gateway.Session {
	id := sessionID(ctx)
	if session, ok := s.sessions.Get(id); ok {
		return session
	}
	session := s.sessions.Open(s.baseCtx, id)
	if session.State() == gateway.StateUninitialized {
		if err := session.Handshake(); err == nil {
			logging.Debug("Server", "Implicitly initialized session %s", logging.TruncateSessionID(id))
		}
	}
	return session
}

func (s *Server) hooks() *mcpserver.Hooks {
	hooks := &mcpserver.Hooks{}

	hooks.AddOnRegisterSession(func(ctx context.Context, cs mcpserver.ClientSession) {
		s.sessions.Open(s.baseCtx, cs.SessionID())
	})

	hooks.AddAfterInitialize(func(ctx context.Context, id any, req *mcp.InitializeRequest, res *mcp.InitializeResult) {
		sid := sessionID(ctx)
		session := s.sessions.Open(s.baseCtx, sid)
		if err := session.Handshake(); err != nil {
			logging.Debug("Server", "Handshake for session %s: %v", logging.TruncateSessionID(sid), err)
			return
		}
		logging.Info("Server", "Session %s initialized by %s %s",
			logging.TruncateSessionID(sid), req.Params.ClientInfo.Name, req.Params.ClientInfo.Version)
	})

	hooks.AddOnUnregisterSession(func(ctx context.Context, cs mcpserver.ClientSession) {
		s.sessions.Close(cs.SessionID())
	})

	hooks.AddOnRequestInitialization(func(ctx context.Context, id any, message any) error {
		return s.checkSession(ctx, message)
	})

	hooks.AddBeforeCallTool(func(ctx context.Context, id any, req *mcp.CallToolRequest) {
		logging.Debug("Server", "tools/call %s id=%v session=%s",
			req.Params.Name, id, logging.TruncateSessionID(sessionID(ctx)))
		s.routeUnknownTool(req)
	})

	hooks.AddOnError(func(ctx context.Context, id any, method mcp.MCPMethod, message any, err error) {
		logging.Debug("Server", "%s id=%v failed: %v", method, id, err)
	})

	return hooks
}

// checkSession rejects discovery and calls on a session the transport
// announced but that has not completed the handshake, or has closed.
// Requests without an announced session use the implicit one.
func (s *Server) checkSession(ctx context.Context, message any) error {
	raw, ok := message.(json.RawMessage)
	if !ok {
		return nil
	}
	var req struct {
		Method mcp.MCPMethod `json:"method"`
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil
	}
	switch req.Method {
	case mcp.MethodToolsList, mcp.MethodToolsCall:
	default:
		return nil
	}

	session, ok := s.sessions.Get(sessionID(ctx))
	if !ok {
		return nil
	}
	return session.Ready()
}
