package gateway

import (
	"encoding/json"
	"strings"
)

// Coerce returns a copy of args where every string value that looks like a
// JSON object or array, and parses as one, is replaced by the decoded value.
// Anything else passes through untouched. It never fails.
func Coerce(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		out[k] = coerceValue(v)
	}
	return out
}

func coerceValue(v any) any {
	s, ok := v.(string)
	if !ok {
		return v
	}
	if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
		return v
	}
	var decoded any
	if err := json.Unmarshal([]byte(s), &decoded); err != nil {
		return v
	}
	return decoded
}
