package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoerce(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{name: "object string", in: `{"a":1}`, want: map[string]any{"a": float64(1)}},
		{name: "array string", in: `[1,2]`, want: []any{float64(1), float64(2)}},
		{name: "malformed object stays string", in: "{not json", want: "{not json"},
		{name: "plain string", in: "INST", want: "INST"},
		{name: "leading space is not json", in: ` {"a":1}`, want: ` {"a":1}`},
		{name: "number untouched", in: 42, want: 42},
		{name: "nil untouched", in: nil, want: nil},
		{name: "map untouched", in: map[string]any{"x": "{"}, want: map[string]any{"x": "{"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := Coerce(map[string]any{"v": tt.in})
			assert.Equal(t, tt.want, out["v"])
		})
	}
}

func TestCoerce_DoesNotMutateInput(t *testing.T) {
	in := map[string]any{"params": `{"TYPE":"NORMAL"}`}
	out := Coerce(in)

	assert.Equal(t, `{"TYPE":"NORMAL"}`, in["params"])
	assert.Equal(t, map[string]any{"TYPE": "NORMAL"}, out["params"])
}

func TestCoerce_RoundTrip(t *testing.T) {
	values := []any{
		map[string]any{"a": float64(1), "b": []any{"x", true}},
		[]any{float64(1), map[string]any{"nested": nil}},
	}
	for _, v := range values {
		encoded, err := json.Marshal(v)
		require.NoError(t, err)
		out := Coerce(map[string]any{"k": string(encoded)})
		assert.Equal(t, v, out["k"])
	}
}

func TestCoerce_EmptyArgs(t *testing.T) {
	out := Coerce(nil)
	assert.NotNil(t, out)
	assert.Empty(t, out)
}
