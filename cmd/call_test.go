package cmd

import (
	"bytes"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/internal/namespace"
	"cosmos-mcp/internal/server"
	"cosmos-mcp/internal/tools"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startTestGateway(t *testing.T) string {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, 3, 14, 15, 9, 26, 0, time.UTC) }
	reg, _, err := gateway.NewPipeline(gateway.NewBuilder(), tools.Builtins(clock), nil, nil).Run(namespace.NewTable())
	require.NoError(t, err)
	srv, err := server.New(gateway.New(reg, gateway.Options{}), server.Config{})
	require.NoError(t, err)
	t.Cleanup(srv.Close)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts.URL + "/mcp"
}

func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestCallCommand(t *testing.T) {
	endpoint := startTestGateway(t)

	out, err := executeRoot(t, "call", "ping", "host=groundstation", "--endpoint", endpoint, "-q")
	require.NoError(t, err)
	assert.Equal(t, "Pong from groundstation at 2025-03-14T15:09:26.000000\n", out)
}

func TestCallCommand_InvalidArgument(t *testing.T) {
	_, err := executeRoot(t, "call", "ping", "host", "--endpoint", "http://127.0.0.1:1/mcp", "-q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestListCommand(t *testing.T) {
	endpoint := startTestGateway(t)

	t.Cleanup(func() { listFilter, listFlags.NoHeaders = "", false })

	out, err := executeRoot(t, "list", "--endpoint", endpoint, "-q", "--no-headers", "--filter", "stream_*")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 1)
	assert.True(t, strings.HasPrefix(lines[0], "stream_ping"))
}
