package server

import (
	"context"
	"encoding/json"
	"fmt"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/pkg/logging"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

const methodProgress = "notifications/progress"

// serverTools converts the registry into mcp-go tools, preserving
// registration order.
func (s *Server) serverTools() ([]mcpserver.ServerTool, error) {
	descriptors := s.gw.Registry().Descriptors()
	tools := make([]mcpserver.ServerTool, 0, len(descriptors))

	for _, d := range descriptors {
		schema, err := json.Marshal(d.InputSchema())
		if err != nil {
			return nil, fmt.Errorf("failed to encode input schema for %s: %w", d.Name, err)
		}
		tools = append(tools, mcpserver.ServerTool{
			Tool:    mcp.NewToolWithRawSchema(d.Name, d.Documentation, schema),
			Handler: s.toolHandler(d.Name),
		})
	}
	return tools, nil
}

// unknownToolName is the hidden tool that calls to unregistered names are
// routed to, so they are answered with the gateway's not-found text.
// Registry names never start with an underscore.
const (
	unknownToolName = "_unknown_tool"
	unknownToolArg  = "name"
)

// toolHandler dispatches one tool through the caller's gateway session.
// Tool failures come back as text; only session lifecycle violations are
// returned as protocol errors.
func (s *Server) toolHandler(name string) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return s.dispatch(ctx, req, name, req.GetArguments())
	}
}

func (s *Server) unknownToolHandler(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, _ := req.GetArguments()[unknownToolArg].(string)
	if name == "" {
		name = unknownToolName
	}
	return s.dispatch(ctx, req, name, nil)
}

func (s *Server) dispatch(ctx context.Context, req mcp.CallToolRequest, name string, args map[string]any) (*mcp.CallToolResult, error) {
	session := s.sessionFor(ctx)

	if token := progressToken(req); token != nil {
		ctx = gateway.WithEmitter(ctx, s.progressEmitter(ctx, token))
	}

	res, err := session.Call(ctx, gateway.CallRequest{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, err
	}
	return textResult(res.Text), nil
}

// routeUnknownTool points a call for a name outside the registry at the
// hidden not-found tool, carrying the requested name as its argument.
func (s *Server) routeUnknownTool(req *mcp.CallToolRequest) {
	if _, err := s.gw.Registry().Lookup(req.Params.Name); err == nil {
		return
	}
	req.Params.Arguments = map[string]any{unknownToolArg: req.Params.Name}
	req.Params.Name = unknownToolName
}

// listTools replaces mcp-go's name-sorted listing with the session's view of
// the registry, in registration order. The hidden not-found tool is dropped.
func (s *Server) listTools(ctx context.Context, listed []mcp.Tool) []mcp.Tool {
	metas, err := s.sessionFor(ctx).List()
	if err != nil {
		return nil
	}
	byName := make(map[string]mcp.Tool, len(listed))
	for _, t := range listed {
		byName[t.Name] = t
	}
	tools := make([]mcp.Tool, 0, len(metas))
	for _, m := range metas {
		if t, ok := byName[m.Name]; ok {
			tools = append(tools, t)
		}
	}
	return tools
}

func progressToken(req mcp.CallToolRequest) mcp.ProgressToken {
	if req.Params.Meta == nil {
		return nil
	}
	return req.Params.Meta.ProgressToken
}

// progressEmitter forwards stream chunks as progress notifications. A
// client that cannot receive notifications still gets the joined text in
// the final result, so send failures are only logged.
func (s *Server) progressEmitter(ctx context.Context, token mcp.ProgressToken) gateway.Emitter {
	var progress int
	return func(chunk string) error {
		progress++
		err := s.mcp.SendNotificationToClient(ctx, methodProgress, map[string]any{
			"progressToken": token,
			"progress":      progress,
			"message":       chunk,
		})
		if err != nil {
			logging.Debug("Server", "Dropped progress notification %d: %v", progress, err)
		}
		return nil
	}
}
