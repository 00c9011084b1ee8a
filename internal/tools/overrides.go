package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/gateway"
	"cosmos-mcp/internal/namespace"
)

var (
	required = namespace.Required
	optional = namespace.Optional
)

// commandOptions are the keyword options every command variant forwards.
var commandOptions = []namespace.Param{
	optional("timeout", nil).Describe("number", "Seconds to wait for the command to be sent"),
	optional("log_message", nil).Describe("boolean", "Whether to log the command"),
	optional("validate", nil).Describe("boolean", "Whether to run command validation"),
	optional("scope", nil).Describe("string", "COSMOS scope (default DEFAULT)"),
}

var itemParams = []namespace.Param{
	optional("target_name", nil).Describe("string", "Target name (e.g. INST)"),
	optional("packet_name", nil).Describe("string", "Packet name (e.g. HEALTH_STATUS)"),
	optional("item_name", nil).Describe("string", "Item name (e.g. TEMP1)"),
	optional("tlm_string", nil).Describe("string", "Alternative form: \"TARGET PACKET ITEM\""),
}

// telemetry value variants, keyed by the reserved tool name
var tlmMethods = []struct {
	name string
	doc  string
}{
	{"tlm", "Get a converted telemetry value from OpenC3 COSMOS"},
	{"tlm_raw", "Get a raw telemetry value from OpenC3 COSMOS"},
	{"tlm_formatted", "Get a formatted telemetry value from OpenC3 COSMOS"},
	{"tlm_with_units", "Get a formatted telemetry value with units from OpenC3 COSMOS"},
}

var checkMethods = []struct {
	name   string
	method string
}{
	{"check", "tlm"},
	{"check_raw", "tlm_raw"},
	{"check_formatted", "tlm_formatted"},
	{"check_with_units", "tlm_with_units"},
}

// Overrides returns the hand-written tools that replace the generic adapters
// of the command, telemetry and check functions, plus the target, command
// and telemetry listings. prefix is the exposed-name prefix.
func Overrides(api cosmos.Caller, prefix string) gateway.OverrideTable {
	var table gateway.OverrideTable
	add := func(source, doc string, params []namespace.Param, fn namespace.CallFunc) {
		d := gateway.NewHandwritten(prefix+source, doc, params, fn)
		d.SourceName = source
		table = append(table, d)
	}

	cmdParams := append([]namespace.Param{
		optional("target_name", nil).Describe("string", "Target name (e.g. INST)"),
		optional("command_name", nil).Describe("string", "Command name (e.g. COLLECT)"),
		optional("command_params", nil).Describe("object", "Command parameters, e.g. {\"TYPE\": \"NORMAL\"}"),
		optional("command_string", nil).Describe("string", "Alternative form: \"TARGET COMMAND with PARAM1 value, PARAM2 value\""),
	}, commandOptions...)

	add("cmd", "Send a command to OpenC3 COSMOS. Provide either command_string, or target_name and command_name with optional command_params.",
		cmdParams, sendCommand(api, "cmd"))
	add("cmd_raw", "Send a command with raw (unconverted) parameter values. Same argument forms as cmd.",
		cmdParams, sendCommand(api, "cmd_raw"))

	for _, m := range tlmMethods {
		params := append([]namespace.Param{}, itemParams...)
		if m.name == "tlm" {
			params = append(params, optional("value_type", nil).Describe("string", "RAW, CONVERTED, FORMATTED or WITH_UNITS"))
		}
		params = append(params, optional("scope", nil).Describe("string", "COSMOS scope"))
		add(m.name, m.doc+". Provide target_name, packet_name and item_name, or tlm_string.",
			params, readTelemetry(api, m.name))
	}

	checkParams := append(append([]namespace.Param{}, itemParams...),
		optional("comparison", nil).Describe("string", "Comparison operator: ==, !=, >, <, >= or <="),
		optional("value", nil).Describe("", "Expected value"),
		optional("check_string", nil).Describe("string", "Alternative form: \"TARGET PACKET ITEM > 10\""),
		optional("scope", nil).Describe("string", "COSMOS scope"),
	)
	for _, m := range checkMethods {
		add(m.name, fmt.Sprintf("Check a telemetry value (read with %s) against an expected value.", m.method),
			checkParams, checkTelemetry(api, m.method))
	}

	add("check_tolerance", "Check that a converted telemetry value is within tolerance of an expected value.",
		append(append([]namespace.Param{}, itemParams...),
			required("expected_value").Describe("number", "Expected value"),
			required("tolerance").Describe("number", "Allowed absolute deviation"),
			optional("scope", nil).Describe("string", "COSMOS scope"),
		), checkTolerance(api))

	add("check_expression", "Evaluate an expression such as \"tlm('INST HEALTH_STATUS TEMP1') > 0 and tlm('INST HEALTH_STATUS TEMP2') < 50\".",
		[]namespace.Param{
			required("expression").Describe("string", "Clauses tlm('TARGET PACKET ITEM') <op> <literal> joined with and / or"),
			optional("scope", nil).Describe("string", "COSMOS scope"),
		}, checkExpression(api))

	add("get_target_list", "Get list of all available targets in OpenC3 COSMOS",
		[]namespace.Param{optional("scope", nil).Describe("string", "COSMOS scope")},
		func(ctx context.Context, args map[string]any) (any, error) {
			return api.Call(ctx, "get_target_names", nil, scopeOnly(args))
		})

	add("get_all_commands", "Get all command names of a target",
		[]namespace.Param{
			required("target_name").Describe("string", "Target name to get commands for"),
			optional("scope", nil).Describe("string", "COSMOS scope"),
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			return api.Call(ctx, "get_all_cmd_names", []any{stringArg(args, "target_name")}, scopeOnly(args))
		})

	add("get_all_telemetry", "Get all telemetry packets of a target with their item names",
		[]namespace.Param{
			required("target_name").Describe("string", "Target name to get telemetry for"),
			optional("scope", nil).Describe("string", "COSMOS scope"),
		},
		func(ctx context.Context, args map[string]any) (any, error) {
			target := stringArg(args, "target_name")
			raw, err := api.Call(ctx, "get_all_tlm", []any{target}, scopeOnly(args))
			if err != nil {
				return nil, err
			}
			packets, err := cosmos.PacketsFromDefinitions(target, raw)
			if err != nil {
				return nil, err
			}
			out := make(map[string]any, len(packets))
			for _, p := range packets {
				out[p.Name] = p.Items
			}
			return out, nil
		})

	return table
}

func scopeOnly(args map[string]any) map[string]any {
	if scope := stringArg(args, "scope"); scope != "" {
		return map[string]any{"scope": scope}
	}
	return nil
}

func sendCommand(api cosmos.Caller, method string) namespace.CallFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		commandString := stringArg(args, "command_string")
		target := stringArg(args, "target_name")
		command := stringArg(args, "command_name")
		params, err := mapArg(args, "command_params")
		if err != nil {
			return nil, err
		}
		kw := without(args, "command_string", "target_name", "command_name", "command_params")

		var positional []any
		switch {
		case commandString != "":
			positional = []any{commandString}
		case target != "" && command != "":
			positional = []any{target, command}
			if len(params) > 0 {
				positional = append(positional, params)
			}
		default:
			return nil, errors.New("must provide either command_string or target_name + command_name")
		}

		result, err := api.Call(ctx, method, positional, kw)
		if err != nil {
			return nil, err
		}
		return "Command sent successfully: " + inline(result), nil
	}
}

// itemRef names one telemetry item.
type itemRef struct {
	Target, Packet, Item string
}

func (r itemRef) String() string {
	return r.Target + " " + r.Packet + " " + r.Item
}

func itemFromArgs(args map[string]any) (itemRef, error) {
	if s := stringArg(args, "tlm_string"); s != "" {
		fields := strings.Fields(s)
		if len(fields) != 3 {
			return itemRef{}, fmt.Errorf("tlm_string must be \"TARGET PACKET ITEM\", got %q", s)
		}
		return itemRef{fields[0], fields[1], fields[2]}, nil
	}
	ref := itemRef{
		Target: stringArg(args, "target_name"),
		Packet: stringArg(args, "packet_name"),
		Item:   stringArg(args, "item_name"),
	}
	if ref.Target == "" || ref.Packet == "" || ref.Item == "" {
		return itemRef{}, errors.New("must provide target_name, packet_name and item_name, or tlm_string")
	}
	return ref, nil
}

func readItem(ctx context.Context, api cosmos.Caller, method string, ref itemRef, kw map[string]any) (any, error) {
	return api.Call(ctx, method, []any{ref.Target, ref.Packet, ref.Item}, kw)
}

func readTelemetry(api cosmos.Caller, method string) namespace.CallFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		ref, err := itemFromArgs(args)
		if err != nil {
			return nil, err
		}
		kw := without(args, "target_name", "packet_name", "item_name", "tlm_string", "value_type")
		if vt := stringArg(args, "value_type"); vt != "" {
			kw["type"] = strings.ToUpper(vt)
		}
		value, err := readItem(ctx, api, method, ref, kw)
		if err != nil {
			return nil, err
		}
		return fmt.Sprintf("%s: %s", ref.Item, inline(value)), nil
	}
}
