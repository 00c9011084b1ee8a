package gateway

import (
	"context"
	"testing"

	"cosmos-mcp/internal/namespace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDescriptor_InputSchema(t *testing.T) {
	open := (&Descriptor{Name: "openc3_get_all_targets"}).InputSchema()
	assert.Equal(t, map[string]any{"type": "object", "additionalProperties": true}, open)

	d := NewHandwritten("stream_ping", "Stream pings", []namespace.Param{
		namespace.Optional("count", 5).Describe("integer", "Number of pings"),
		namespace.Required("target_name"),
	}, noop)
	schema := d.InputSchema()

	assert.Equal(t, []string{"target_name"}, schema["required"])
	props := schema["properties"].(map[string]any)
	assert.Equal(t, map[string]any{"type": "integer", "description": "Number of pings", "default": 5}, props["count"])
	assert.Equal(t, map[string]any{}, props["target_name"])
}

func TestDescriptor_InputSchemaNoRequired(t *testing.T) {
	d := NewHandwritten("ping", "Ping", []namespace.Param{namespace.Optional("host", "pong")}, noop)
	_, ok := d.InputSchema()["required"]
	assert.False(t, ok)
}

func TestGateway_ValidatesArguments(t *testing.T) {
	typed := NewHandwritten("typed", "Typed tool", []namespace.Param{
		namespace.Required("target_name").Describe("string", ""),
		namespace.Optional("count", 1).Describe("integer", ""),
	}, func(ctx context.Context, args map[string]any) (any, error) {
		return "ok", nil
	})
	gw := newTestGateway(t, Options{}, typed)
	ctx := context.Background()

	res := gw.Call(ctx, CallRequest{Name: "typed", Arguments: map[string]any{"target_name": "INST", "count": 3}})
	assert.Equal(t, "ok", res.Text)

	res = gw.Call(ctx, CallRequest{Name: "typed", Arguments: map[string]any{"count": 3}})
	assert.Contains(t, res.Text, "Error executing typed: invalid arguments")

	res = gw.Call(ctx, CallRequest{Name: "typed", Arguments: map[string]any{"target_name": "INST", "count": "many"}})
	assert.Contains(t, res.Text, "invalid arguments")

	// undeclared keys pass through
	res = gw.Call(ctx, CallRequest{Name: "typed", Arguments: map[string]any{"target_name": "INST", "scope": "OPS"}})
	require.Equal(t, "ok", res.Text)
}
