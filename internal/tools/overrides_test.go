package tools

import (
	"context"
	"errors"
	"testing"

	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/gateway"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type apiCall struct {
	method string
	args   []any
	kwargs map[string]any
}

// fakeAPI answers COSMOS calls from a per-method table.
type fakeAPI struct {
	calls     []apiCall
	responses map[string]any
	telemetry map[string]any // "TGT PKT ITEM" -> value
	err       error
}

func (f *fakeAPI) Call(ctx context.Context, method string, args []any, kwargs map[string]any) (any, error) {
	f.calls = append(f.calls, apiCall{method: method, args: args, kwargs: kwargs})
	if f.err != nil {
		return nil, f.err
	}
	if len(args) == 3 && f.telemetry != nil {
		key := args[0].(string) + " " + args[1].(string) + " " + args[2].(string)
		if v, ok := f.telemetry[key]; ok {
			return v, nil
		}
	}
	return f.responses[method], nil
}

func (f *fakeAPI) last() apiCall {
	return f.calls[len(f.calls)-1]
}

func newOverrideGateway(t *testing.T, api *fakeAPI) *gateway.Gateway {
	t.Helper()
	ns := cosmos.ScriptNamespace(api, "")
	reg, _, err := gateway.NewPipeline(gateway.NewBuilder(), Builtins(fixedClock), Overrides(api, gateway.DefaultPrefix), nil).Run(ns)
	require.NoError(t, err)
	return gateway.New(reg, gateway.Options{})
}

func call(gw *gateway.Gateway, name string, args map[string]any) string {
	return gw.Call(context.Background(), gateway.CallRequest{Name: name, Arguments: args}).Text
}

func TestOverrides_ReplaceGeneric(t *testing.T) {
	api := &fakeAPI{}
	ns := cosmos.ScriptNamespace(api, "")
	overrides := Overrides(api, gateway.DefaultPrefix)
	reg, report, err := gateway.NewPipeline(gateway.NewBuilder(), Builtins(fixedClock), overrides, nil).Run(ns)
	require.NoError(t, err)

	for _, name := range []string{"cmd", "cmd_raw", "tlm", "tlm_raw", "tlm_formatted", "tlm_with_units",
		"check", "check_raw", "check_formatted", "check_with_units", "check_tolerance", "check_expression",
		"get_all_commands", "get_all_telemetry"} {
		assert.Contains(t, report.Overridden, name)
		d, err := reg.Lookup("openc3_" + name)
		require.NoError(t, err, name)
		assert.Equal(t, gateway.KindHandwritten, d.Kind, name)
	}

	_, err = reg.Lookup("openc3_get_target_list")
	assert.NoError(t, err)
	_, err = reg.Lookup("openc3_prompt")
	assert.True(t, gateway.IsNotFound(err))
	_, err = reg.Lookup("openc3_get_target_names")
	assert.NoError(t, err, "plain API functions stay generic")
}

func TestCmd(t *testing.T) {
	tests := []struct {
		name       string
		args       map[string]any
		wantArgs   []any
		wantKwargs map[string]any
		wantText   string
	}{
		{
			name:       "command string",
			args:       map[string]any{"command_string": "INST COLLECT with TYPE NORMAL"},
			wantArgs:   []any{"INST COLLECT with TYPE NORMAL"},
			wantKwargs: map[string]any{},
			wantText:   "Command sent successfully: None",
		},
		{
			name:       "target and command with params as json text",
			args:       map[string]any{"target_name": "INST", "command_name": "COLLECT", "command_params": `{"TYPE":"NORMAL"}`, "timeout": 5},
			wantArgs:   []any{"INST", "COLLECT", map[string]any{"TYPE": "NORMAL"}},
			wantKwargs: map[string]any{"timeout": 5},
			wantText:   "Command sent successfully: None",
		},
		{
			name:       "target and command without params",
			args:       map[string]any{"target_name": "INST", "command_name": "ABORT"},
			wantArgs:   []any{"INST", "ABORT"},
			wantKwargs: map[string]any{},
			wantText:   "Command sent successfully: None",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &fakeAPI{}
			gw := newOverrideGateway(t, api)

			assert.Equal(t, tt.wantText, call(gw, "openc3_cmd", tt.args))
			last := api.last()
			assert.Equal(t, "cmd", last.method)
			assert.Equal(t, tt.wantArgs, last.args)
			assert.Equal(t, tt.wantKwargs, last.kwargs)
		})
	}
}

func TestCmd_MissingShape(t *testing.T) {
	api := &fakeAPI{}
	gw := newOverrideGateway(t, api)
	text := call(gw, "openc3_cmd", map[string]any{"target_name": "INST"})
	assert.Equal(t, "Error executing openc3_cmd: must provide either command_string or target_name + command_name", text)
	assert.Empty(t, api.calls)
}

func TestCmdRaw_UsesRawMethod(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{"cmd_raw": map[string]any{"target_name": "INST"}}}
	gw := newOverrideGateway(t, api)
	text := call(gw, "openc3_cmd_raw", map[string]any{"command_string": "INST COLLECT"})
	assert.Equal(t, `Command sent successfully: {"target_name":"INST"}`, text)
	assert.Equal(t, "cmd_raw", api.last().method)
}

func TestTlm(t *testing.T) {
	api := &fakeAPI{telemetry: map[string]any{"INST HEALTH_STATUS TEMP1": 10.5}}
	gw := newOverrideGateway(t, api)

	text := call(gw, "openc3_tlm", map[string]any{"target_name": "INST", "packet_name": "HEALTH_STATUS", "item_name": "TEMP1", "value_type": "raw"})
	assert.Equal(t, "TEMP1: 10.5", text)
	assert.Equal(t, map[string]any{"type": "RAW"}, api.last().kwargs)

	text = call(gw, "openc3_tlm_formatted", map[string]any{"tlm_string": "INST HEALTH_STATUS TEMP1"})
	assert.Equal(t, "TEMP1: 10.5", text)
	assert.Equal(t, "tlm_formatted", api.last().method)
	assert.Equal(t, []any{"INST", "HEALTH_STATUS", "TEMP1"}, api.last().args)

	text = call(gw, "openc3_tlm", map[string]any{"tlm_string": "INST TEMP1"})
	assert.Contains(t, text, "Error executing openc3_tlm")
}

func TestGetTargetList(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{"get_target_names": []any{"INST", "INST2"}}}
	gw := newOverrideGateway(t, api)
	assert.Equal(t, "[\n  \"INST\",\n  \"INST2\"\n]", call(gw, "openc3_get_target_list", nil))
	assert.Nil(t, api.last().kwargs)

	call(gw, "openc3_get_target_list", map[string]any{"scope": "OPS"})
	assert.Equal(t, map[string]any{"scope": "OPS"}, api.last().kwargs)
}

func TestGetAllCommands(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{"get_all_cmd_names": []any{"ABORT", "COLLECT"}}}
	gw := newOverrideGateway(t, api)
	assert.Equal(t, "[\n  \"ABORT\",\n  \"COLLECT\"\n]", call(gw, "openc3_get_all_commands", map[string]any{"target_name": "INST"}))
	assert.Equal(t, []any{"INST"}, api.last().args)

	text := call(gw, "openc3_get_all_commands", nil)
	assert.Contains(t, text, "invalid arguments")
}

func TestGetAllTelemetry(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{"get_all_tlm": []any{
		map[string]any{"packet_name": "HEALTH_STATUS", "items": []any{map[string]any{"name": "TEMP1"}}},
	}}}
	gw := newOverrideGateway(t, api)
	text := call(gw, "openc3_get_all_telemetry", map[string]any{"target_name": "INST"})
	assert.Equal(t, "{\n  \"HEALTH_STATUS\": [\n    \"TEMP1\"\n  ]\n}", text)
}

func TestOverrides_BackendError(t *testing.T) {
	api := &fakeAPI{err: &cosmos.RPCError{Message: "Target 'FOO' does not exist", Class: "RuntimeError"}}
	gw := newOverrideGateway(t, api)
	text := call(gw, "openc3_get_all_commands", map[string]any{"target_name": "FOO"})
	assert.Equal(t, "Error executing openc3_get_all_commands: RuntimeError: Target 'FOO' does not exist", text)

	api.err = errors.New("connection refused")
	text = call(gw, "openc3_get_target_list", nil)
	assert.Equal(t, "Error executing openc3_get_target_list: connection refused", text)
}
