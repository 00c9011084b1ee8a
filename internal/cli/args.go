package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseArguments turns key=value pairs into tool arguments. A value that
// parses as JSON keeps its JSON type, so count=3 is a number and
// items='["a","b"]' is a list; anything else is a string.
func ParseArguments(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok {
			return nil, fmt.Errorf("invalid argument %q: expected key=value", pair)
		}
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("invalid argument %q: empty key", pair)
		}
		if _, dup := args[key]; dup {
			return nil, fmt.Errorf("argument %q given more than once", key)
		}
		args[key] = parseValue(value)
	}
	return args, nil
}

func parseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err == nil {
		return v
	}
	return raw
}
