package tools

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// stringArg returns args[name] as a trimmed string, or "" when absent.
func stringArg(args map[string]any, name string) string {
	v, ok := args[name]
	if !ok || v == nil {
		return ""
	}
	return strings.TrimSpace(cast.ToString(v))
}

func intArg(args map[string]any, name string, def int) (int, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	n, err := cast.ToIntE(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer, got %v", name, v)
	}
	return n, nil
}

func floatArg(args map[string]any, name string, def float64) (float64, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number, got %v", name, v)
	}
	return f, nil
}

func requiredFloat(args map[string]any, name string) (float64, error) {
	if v, ok := args[name]; !ok || v == nil {
		return 0, fmt.Errorf("%s is required", name)
	}
	return floatArg(args, name, 0)
}

func mapArg(args map[string]any, name string) (map[string]any, error) {
	v, ok := args[name]
	if !ok || v == nil {
		return nil, nil
	}
	m, err := cast.ToStringMapE(v)
	if err != nil {
		return nil, fmt.Errorf("%s must be an object, got %v", name, v)
	}
	return m, nil
}

// without returns a copy of args minus the named keys.
func without(args map[string]any, names ...string) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = v
	}
	for _, name := range names {
		delete(out, name)
	}
	return out
}

// parseLiteral interprets a check value written as text: an integer when it
// has no decimal point, a float when it has one, otherwise the string with
// surrounding quotes removed.
func parseLiteral(s string) any {
	s = strings.TrimSpace(s)
	if unquoted, ok := unquote(s); ok {
		return unquoted
	}
	switch s {
	case "true", "True", "TRUE":
		return true
	case "false", "False", "FALSE":
		return false
	}
	if strings.Contains(s, ".") {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return s
	}
	if n, err := strconv.ParseInt(s, 0, 64); err == nil {
		return n
	}
	return s
}

func unquote(s string) (string, bool) {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '\'' || first == '"') && first == last {
			return s[1 : len(s)-1], true
		}
	}
	return s, false
}

// inline renders v on one line: strings as-is, everything else as compact JSON.
func inline(v any) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(raw)
}
