package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/internal/namespace"
	"cosmos-mcp/internal/server"
	"cosmos-mcp/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startGateway serves a small gateway over streamable HTTP and returns its
// /mcp endpoint.
func startGateway(t *testing.T) string {
	t.Helper()
	ns := namespace.NewTable().
		Add("get_target_names", func(ctx context.Context, kwargs map[string]any) (any, error) {
			return []any{"INST", "EXAMPLE"}, nil
		}).
		Add("fails", func(ctx context.Context, kwargs map[string]any) (any, error) {
			return nil, errors.New("Target 'FOO' does not exist")
		})
	clock := func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }
	reg, _, err := gateway.NewPipeline(gateway.NewBuilder(), tools.Builtins(clock), nil, nil).Run(ns)
	require.NoError(t, err)

	srv, err := server.New(gateway.New(reg, gateway.Options{CallTimeout: 5 * time.Second}), server.Config{})
	require.NoError(t, err)
	t.Cleanup(srv.Close)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/mcp"
}

// syncBuffer is written from the notification goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestExecutor(t *testing.T, endpoint string, format OutputFormat) (*ToolExecutor, *syncBuffer) {
	t.Helper()
	out := &syncBuffer{}
	e, err := NewToolExecutor(ExecutorOptions{
		Endpoint: endpoint,
		Format:   format,
		Out:      out,
		ErrOut:   &syncBuffer{},
	})
	require.NoError(t, err)
	require.NoError(t, e.Connect(context.Background()))
	t.Cleanup(func() { _ = e.Close() })
	return e, out
}

func TestToolExecutor_ListTools(t *testing.T) {
	e, _ := newTestExecutor(t, startGateway(t), OutputFormatTable)

	tools, err := e.ListTools(context.Background())
	require.NoError(t, err)
	names := make([]string, len(tools))
	for i, tool := range tools {
		names[i] = tool.Name
	}
	assert.ElementsMatch(t, []string{"openc3_fails", "openc3_get_target_names", "ping", "stream_ping"}, names)

	tool, err := e.GetTool(context.Background(), "stream_ping")
	require.NoError(t, err)
	assert.Contains(t, tool.InputSchema.Properties, "count")

	_, err = e.GetTool(context.Background(), "nonexistent")
	assert.Error(t, err)
}

func TestToolExecutor_Execute(t *testing.T) {
	e, out := newTestExecutor(t, startGateway(t), OutputFormatTable)

	require.NoError(t, e.Execute(context.Background(), "openc3_get_target_names", nil))
	assert.Contains(t, out.String(), "  1. INST\n")
	assert.Contains(t, out.String(), "  2. EXAMPLE\n")
}

func TestToolExecutor_ExecuteReturnsToolError(t *testing.T) {
	e, _ := newTestExecutor(t, startGateway(t), OutputFormatTable)

	err := e.Execute(context.Background(), "openc3_fails", nil)
	var toolErr *ToolError
	require.ErrorAs(t, err, &toolErr)
	assert.Equal(t, "Error executing openc3_fails: Target 'FOO' does not exist", toolErr.Text)
}

func TestToolExecutor_StreamsChunks(t *testing.T) {
	e, out := newTestExecutor(t, startGateway(t), OutputFormatTable)

	require.NoError(t, e.Execute(context.Background(), "stream_ping", map[string]any{"count": 3, "delay": 0}))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3, "each chunk printed once, result not repeated")
	assert.Contains(t, lines[0], "Ping 1/3 at ")
	assert.Contains(t, lines[2], "Ping 3/3 at ")
}

func TestToolExecutor_CallCollectsChunks(t *testing.T) {
	e, _ := newTestExecutor(t, startGateway(t), OutputFormatTable)

	var mu sync.Mutex
	var chunks []string
	text, err := e.Call(context.Background(), "stream_ping", map[string]any{"count": 2, "delay": 0}, func(c string) {
		mu.Lock()
		defer mu.Unlock()
		chunks = append(chunks, c)
	})
	require.NoError(t, err)
	mu.Lock()
	defer mu.Unlock()
	require.Len(t, chunks, 2)
	assert.Equal(t, chunks[0]+chunks[1], text)
}

func TestToolExecutor_ConnectFailure(t *testing.T) {
	ts := httptest.NewServer(nil)
	endpoint := ts.URL + "/mcp"
	ts.Close()

	e, err := NewToolExecutor(ExecutorOptions{Endpoint: endpoint, Quiet: true})
	require.NoError(t, err)
	err = e.Connect(context.Background())
	var ce *ConnectionError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, ConnectionErrorNetwork, ce.Type)
}
