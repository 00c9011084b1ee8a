package cosmos

import (
	"context"
	"errors"

	"cosmos-mcp/internal/namespace"
)

var (
	// ErrInteractive is returned by script helpers that need an operator at a screen.
	ErrInteractive = errors.New("interactive script helpers are not available outside the script runner")

	// ErrBlocking is returned by wait primitives.
	ErrBlocking = errors.New("blocking waits are not available outside the script runner")
)

var (
	required = namespace.Required
	optional = namespace.Optional
)

// apiFunc describes one script function backed by a JSON-RPC method.
type apiFunc struct {
	name   string
	method string // defaults to name
	doc    string
	params []namespace.Param
}

// apiFuncs is the script surface forwarded to the API. Entries without
// params have no inspectable signature and forward keyword arguments only.
var apiFuncs = []apiFunc{
	// Commands
	{name: "cmd", doc: "Send a command."},
	{name: "cmd_raw", doc: "Send a command with raw parameter values."},
	{name: "cmd_no_range_check", params: []namespace.Param{required("command")}},
	{name: "cmd_no_hazardous_check", params: []namespace.Param{required("command")}},
	{name: "cmd_no_checks", params: []namespace.Param{required("command")}},
	{name: "cmd_raw_no_range_check", params: []namespace.Param{required("command")}},
	{name: "cmd_raw_no_hazardous_check", params: []namespace.Param{required("command")}},
	{name: "cmd_raw_no_checks", params: []namespace.Param{required("command")}},
	{name: "build_cmd", doc: "Build a command binary without sending it.", params: []namespace.Param{required("command")}},
	{name: "get_all_cmds", doc: "Returns all command definitions of a target.", params: []namespace.Param{required("target_name")}},
	{name: "get_all_cmd_names", doc: "Returns the command names of a target.", params: []namespace.Param{required("target_name")}},
	{name: "get_all_commands", method: "get_all_cmds", params: []namespace.Param{required("target_name")}},
	{name: "get_cmd", doc: "Returns a command definition.", params: []namespace.Param{required("target_name"), required("command_name")}},
	{name: "get_param", params: []namespace.Param{required("target_name"), required("command_name"), required("param_name")}},
	{name: "get_cmd_buffer", params: []namespace.Param{required("target_name"), required("command_name")}},
	{name: "get_cmd_hazardous", params: []namespace.Param{required("target_name"), required("command_name"), optional("params", map[string]any{})}},
	{name: "get_cmd_value", params: []namespace.Param{required("target_name"), required("command_name"), required("parameter_name"), optional("value_type", "CONVERTED")}},
	{name: "get_cmd_time", params: []namespace.Param{optional("target_name", nil), optional("command_name", nil)}},
	{name: "get_cmd_cnt", params: []namespace.Param{required("target_name"), required("command_name")}},
	{name: "critical_cmd_status", params: []namespace.Param{required("uuid")}},

	// Telemetry
	{name: "tlm", doc: "Read a telemetry item."},
	{name: "tlm_raw"},
	{name: "tlm_formatted"},
	{name: "tlm_with_units"},
	{name: "get_all_tlm", doc: "Returns all telemetry packet definitions of a target.", params: []namespace.Param{required("target_name")}},
	{name: "get_all_tlm_names", params: []namespace.Param{required("target_name")}},
	{name: "get_all_telemetry", method: "get_all_tlm", params: []namespace.Param{required("target_name")}},
	{name: "get_tlm", params: []namespace.Param{required("target_name"), required("packet_name")}},
	{name: "get_item", params: []namespace.Param{required("target_name"), required("packet_name"), required("item_name")}},
	{name: "get_tlm_packet", doc: "Returns all item values of a packet.", params: []namespace.Param{required("target_name"), required("packet_name"), optional("stale_time", 30), optional("type", "CONVERTED")}},
	{name: "get_tlm_values", params: []namespace.Param{required("items"), optional("stale_time", 30)}},
	{name: "get_tlm_buffer", params: []namespace.Param{required("target_name"), required("packet_name")}},
	{name: "get_tlm_cnt", params: []namespace.Param{required("target_name"), required("packet_name")}},
	{name: "get_packet_derived_items", params: []namespace.Param{required("target_name"), required("packet_name")}},
	{name: "set_tlm", params: []namespace.Param{required("command")}},
	{name: "inject_tlm", params: []namespace.Param{required("target_name"), required("packet_name"), optional("item_hash", nil), optional("type", "CONVERTED")}},
	{name: "override_tlm", params: []namespace.Param{required("command")}},
	{name: "normalize_tlm", params: []namespace.Param{required("command")}},
	{name: "get_overrides"},

	// Checks are evaluated client side
	{name: "check"},
	{name: "check_raw"},
	{name: "check_formatted"},
	{name: "check_with_units"},
	{name: "check_tolerance"},
	{name: "check_expression"},

	// Limits
	{name: "get_out_of_limits", doc: "Returns all items currently out of limits.", params: []namespace.Param{}},
	{name: "get_overall_limits_state", params: []namespace.Param{optional("ignored_items", nil)}},
	{name: "get_limits", params: []namespace.Param{required("target_name"), required("packet_name"), required("item_name")}},
	{name: "get_limits_groups", params: []namespace.Param{}},
	{name: "enable_limits_group", params: []namespace.Param{required("group_name")}},
	{name: "disable_limits_group", params: []namespace.Param{required("group_name")}},
	{name: "get_limits_sets", params: []namespace.Param{}},
	{name: "set_limits_set", params: []namespace.Param{required("limits_set")}},
	{name: "get_limits_set", params: []namespace.Param{}},
	{name: "get_limits_events", params: []namespace.Param{optional("offset", nil), optional("count", 100)}},
	{name: "enable_limits", params: []namespace.Param{required("command")}},
	{name: "disable_limits", params: []namespace.Param{required("command")}},
	{name: "limits_enabled", params: []namespace.Param{required("command")}},

	// Targets, interfaces and routers
	{name: "get_target_names", doc: "Returns the names of all targets.", params: []namespace.Param{}},
	{name: "get_target", params: []namespace.Param{required("target_name")}},
	{name: "get_target_interfaces", params: []namespace.Param{}},
	{name: "get_interface", params: []namespace.Param{required("interface_name")}},
	{name: "get_interface_names", params: []namespace.Param{}},
	{name: "connect_interface", params: []namespace.Param{required("interface_name")}},
	{name: "disconnect_interface", params: []namespace.Param{required("interface_name")}},
	{name: "start_raw_logging_interface", params: []namespace.Param{optional("interface_name", "ALL")}},
	{name: "stop_raw_logging_interface", params: []namespace.Param{optional("interface_name", "ALL")}},
	{name: "get_all_interface_info", params: []namespace.Param{}},
	{name: "map_target_to_interface", params: []namespace.Param{required("target_name"), required("interface_name")}},
	{name: "get_router", params: []namespace.Param{required("router_name")}},
	{name: "get_router_names", params: []namespace.Param{}},
	{name: "connect_router", params: []namespace.Param{required("router_name")}},
	{name: "disconnect_router", params: []namespace.Param{required("router_name")}},
	{name: "get_all_router_info", params: []namespace.Param{}},

	// Settings, stash and configs
	{name: "list_settings", params: []namespace.Param{}},
	{name: "get_all_settings", params: []namespace.Param{}},
	{name: "get_setting", params: []namespace.Param{required("name")}},
	{name: "set_setting", params: []namespace.Param{required("name"), required("data")}},
	{name: "stash_set", params: []namespace.Param{required("key"), required("value")}},
	{name: "stash_get", params: []namespace.Param{required("key")}},
	{name: "stash_keys", params: []namespace.Param{}},
	{name: "stash_all", params: []namespace.Param{}},
	{name: "stash_delete", params: []namespace.Param{required("key")}},
	{name: "list_configs", params: []namespace.Param{required("tool")}},
	{name: "load_config", params: []namespace.Param{required("tool"), required("name")}},
	{name: "save_config", params: []namespace.Param{required("tool"), required("name"), required("data")}},
	{name: "delete_config", params: []namespace.Param{required("tool"), required("name")}},
	{name: "get_metrics", params: []namespace.Param{}},

	// Screens exist on the API but drive the operator UI
	{name: "get_screen_list", params: []namespace.Param{}},
	{name: "get_screen_definition", params: []namespace.Param{required("target_name"), required("screen_name")}},
}

// local helpers only make sense inside a running script
var interactiveFuncs = []string{
	"ask", "ask_string", "combo_box", "message_box", "vertical_message_box",
	"prompt", "open_file_dialog", "open_files_dialog", "cosmos_calendar",
	"display_screen", "clear_screen", "clear_all_screens", "local_screen", "screen",
	"create_screen", "delete_screen",
	"start", "goto", "load_utility", "step_mode", "run_mode", "disconnect_script", "shutdown_script",
	"_file_dialog",
}

var blockingFuncs = []string{
	"wait", "wait_check", "wait_check_expression", "wait_check_packet", "wait_check_tolerance",
	"wait_expression", "wait_packet", "wait_tolerance", "openc3_script_sleep",
}

var textHelpers = []string{
	"extract_fields_from_check_text", "extract_fields_from_cmd_text",
	"extract_fields_from_set_tlm_text", "extract_fields_from_tlm_text",
	"extract_string_kwargs_to_args", "remove_quotes", "convert_to_value",
	"is_array", "is_float", "is_hex", "is_int", "hex_to_byte_string",
}

var reexportedModules = []string{
	"datetime", "io", "json", "os", "re", "requests", "sys", "tempfile", "threading", "time", "typing",
}

// ScriptNamespace builds the COSMOS script namespace over caller: every API
// function forwards to the JSON-RPC method of the same name, alongside the
// script-local helpers, modules, types and constants the script module carries.
func ScriptNamespace(caller Caller, scope string) *namespace.Table {
	if scope == "" {
		scope = DefaultScope
	}
	t := namespace.NewTable()

	for _, f := range apiFuncs {
		method := f.method
		if method == "" {
			method = f.name
		}
		t.Add(f.name, &namespace.Func{
			Name:   f.name,
			Help:   f.doc,
			Params: f.params,
			Fn:     forward(caller, method, f.params),
		})
	}

	for _, name := range interactiveFuncs {
		t.Add(name, unavailable(name, ErrInteractive))
	}
	for _, name := range blockingFuncs {
		t.Add(name, unavailable(name, ErrBlocking))
	}
	for _, name := range textHelpers {
		t.Add(name, unavailable(name, errors.New("text helper is internal to the script module")))
	}

	for _, name := range reexportedModules {
		t.Add(name, namespace.Module{Name: name})
	}

	t.Add("Packet", namespace.TypeOf[Packet]())
	t.Add("CheckError", namespace.TypeOf[CheckError]())

	t.Add("OPENC3_SCOPE", scope)
	t.Add("DISCONNECT", false)
	t.Add("DEFAULT_TLM_POLLING_RATE", 0.25)
	t.Add("LIMITS_METHODS", []string{"enable_limits", "disable_limits", "limits_enabled"})

	return t
}

func forward(caller Caller, method string, params []namespace.Param) namespace.CallFunc {
	return func(ctx context.Context, kwargs map[string]any) (any, error) {
		args, kw := SplitArgs(params, kwargs)
		return caller.Call(ctx, method, args, kw)
	}
}

// SplitArgs moves leading declared parameters from kwargs into a positional
// list, stopping at the first one the caller did not supply. Everything else,
// including scope, stays a keyword argument.
func SplitArgs(params []namespace.Param, kwargs map[string]any) ([]any, map[string]any) {
	kw := make(map[string]any, len(kwargs))
	for k, v := range kwargs {
		kw[k] = v
	}
	var args []any
	for _, p := range params {
		if p.Name == "scope" {
			break
		}
		v, ok := kw[p.Name]
		if !ok {
			break
		}
		args = append(args, v)
		delete(kw, p.Name)
	}
	return args, kw
}

func unavailable(name string, err error) *namespace.Func {
	return &namespace.Func{
		Name: name,
		Fn: func(ctx context.Context, kwargs map[string]any) (any, error) {
			return nil, err
		},
	}
}
