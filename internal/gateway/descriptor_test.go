package gateway

import (
	"context"
	"testing"

	"cosmos-mcp/internal/namespace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type panickySignature struct{}

func (panickySignature) Call(ctx context.Context, kwargs map[string]any) (any, error) {
	return nil, nil
}

func (panickySignature) Signature() ([]namespace.Param, error) {
	panic("cannot inspect")
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()

	fn := &namespace.Func{
		Name:   "get_target",
		Help:   "Returns a target definition.",
		Params: []namespace.Param{namespace.Required("target_name"), namespace.Optional("scope", "DEFAULT")},
		Fn: func(ctx context.Context, kwargs map[string]any) (any, error) {
			return kwargs["target_name"], nil
		},
	}

	d, err := b.Build(namespace.CandidateMember{Name: "get_target", Value: fn})
	require.NoError(t, err)
	assert.Equal(t, "openc3_get_target", d.Name)
	assert.Equal(t, "get_target", d.SourceName)
	assert.Equal(t, "Returns a target definition.", d.Documentation)
	assert.True(t, d.HasSignature)
	assert.Len(t, d.Parameters, 2)
	assert.Equal(t, KindGeneric, d.Kind)

	out, err := d.Adapter.Invoke(context.Background(), map[string]any{"target_name": "INST"})
	require.NoError(t, err)
	assert.Equal(t, "INST", out)
}

func TestBuilder_DocumentationFallback(t *testing.T) {
	b := NewBuilder()
	d, err := b.Build(namespace.CandidateMember{Name: "get_all_targets", Value: noop})
	require.NoError(t, err)
	assert.Equal(t, "OpenC3 function: get_all_targets", d.Documentation)
	assert.False(t, d.HasSignature)
	assert.Nil(t, d.Metadata().Parameters)

	blank := &namespace.Func{Name: "x", Help: "   ", Fn: noop}
	d, err = b.Build(namespace.CandidateMember{Name: "x", Value: blank})
	require.NoError(t, err)
	assert.Equal(t, "OpenC3 function: x", d.Documentation)
}

func TestBuilder_Failures(t *testing.T) {
	b := NewBuilder()

	tests := []struct {
		name  string
		value any
	}{
		{name: "unsupported func shape", value: func(a, b int) int { return a + b }},
		{name: "panicking signature", value: panickySignature{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := b.Build(namespace.CandidateMember{Name: "bad", Value: tt.value})
			assert.Nil(t, d)
			var regErr *RegistrationError
			require.ErrorAs(t, err, &regErr)
			assert.Equal(t, "bad", regErr.Name)
		})
	}
}

func TestBuilder_CustomPrefix(t *testing.T) {
	b := &Builder{Prefix: "cosmos_"}
	d, err := b.Build(namespace.CandidateMember{Name: "tlm", Value: noop})
	require.NoError(t, err)
	assert.Equal(t, "cosmos_tlm", d.Name)
	assert.Equal(t, "OpenC3 function: tlm", d.Documentation)
}

func TestStreamAdapter_InvokeCollects(t *testing.T) {
	s := StreamAdapter{Fn: func(ctx context.Context, args map[string]any, emit Emitter) error {
		for _, c := range []string{"a", "b", "c"} {
			if err := emit(c); err != nil {
				return err
			}
		}
		return nil
	}}
	out, err := s.Invoke(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, "abc", out)
}

func TestDescriptor_MetadataCopiesParams(t *testing.T) {
	d := NewHandwritten("openc3_cmd", "Send a command", []namespace.Param{namespace.Required("command_string")}, noop)
	md := d.Metadata()
	md.Parameters[0].Name = "changed"
	assert.Equal(t, "command_string", d.Parameters[0].Name)
	assert.False(t, d.Streaming())
}
