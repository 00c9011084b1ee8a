package tools

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/namespace"

	"github.com/spf13/cast"
)

var comparisons = []string{"==", "!=", ">=", "<=", ">", "<"}

func isComparison(op string) bool {
	for _, c := range comparisons {
		if c == op {
			return true
		}
	}
	return false
}

// checkSpec is one parsed check: an item, and optionally a comparison.
type checkSpec struct {
	ref      itemRef
	op       string
	expected any
}

func (c checkSpec) String() string {
	if c.op == "" {
		return c.ref.String()
	}
	return fmt.Sprintf("%s %s %s", c.ref, c.op, inline(c.expected))
}

// parseCheckString parses "TARGET PACKET ITEM [op value]".
func parseCheckString(s string) (checkSpec, error) {
	fields := strings.Fields(s)
	if len(fields) < 3 {
		return checkSpec{}, fmt.Errorf("check_string must be \"TARGET PACKET ITEM [op value]\", got %q", s)
	}
	chk := checkSpec{ref: itemRef{fields[0], fields[1], fields[2]}}
	if len(fields) == 3 {
		return chk, nil
	}
	if len(fields) < 5 || !isComparison(fields[3]) {
		return checkSpec{}, fmt.Errorf("invalid comparison in %q", s)
	}
	chk.op = fields[3]
	chk.expected = parseLiteral(strings.Join(fields[4:], " "))
	return chk, nil
}

func checkFromArgs(args map[string]any) (checkSpec, error) {
	if s := stringArg(args, "check_string"); s != "" {
		return parseCheckString(s)
	}
	ref, err := itemFromArgs(args)
	if err != nil {
		return checkSpec{}, err
	}
	chk := checkSpec{ref: ref, op: stringArg(args, "comparison")}
	if chk.op == "" {
		return chk, nil
	}
	if !isComparison(chk.op) {
		return checkSpec{}, fmt.Errorf("unsupported comparison %q", chk.op)
	}
	v, ok := args["value"]
	if !ok {
		return checkSpec{}, errors.New("value is required with a comparison")
	}
	if s, isString := v.(string); isString {
		v = parseLiteral(s)
	}
	chk.expected = v
	return chk, nil
}

func checkTelemetry(api cosmos.Caller, method string) namespace.CallFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		chk, err := checkFromArgs(args)
		if err != nil {
			return nil, err
		}
		actual, err := readItem(ctx, api, method, chk.ref, scopeOnly(args))
		if err != nil {
			return nil, err
		}
		if chk.op == "" {
			return fmt.Sprintf("CHECK: %s == %s", chk.ref, inline(actual)), nil
		}
		ok, err := compare(actual, chk.op, chk.expected)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &cosmos.CheckError{Message: fmt.Sprintf("CHECK: %s failed with value == %s", chk, inline(actual))}
		}
		return fmt.Sprintf("CHECK: %s success with value == %s", chk, inline(actual)), nil
	}
}

func checkTolerance(api cosmos.Caller) namespace.CallFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		ref, err := itemFromArgs(args)
		if err != nil {
			return nil, err
		}
		expected, err := requiredFloat(args, "expected_value")
		if err != nil {
			return nil, err
		}
		tolerance, err := requiredFloat(args, "tolerance")
		if err != nil {
			return nil, err
		}
		raw, err := readItem(ctx, api, "tlm", ref, scopeOnly(args))
		if err != nil {
			return nil, err
		}
		actual, err := cast.ToFloat64E(raw)
		if err != nil {
			return nil, fmt.Errorf("%s is not numeric: %v", ref, raw)
		}

		low, high := expected-math.Abs(tolerance), expected+math.Abs(tolerance)
		rng := fmt.Sprintf("%s to %s", inline(low), inline(high))
		if actual < low || actual > high {
			return nil, &cosmos.CheckError{Message: fmt.Sprintf("CHECK: %s failed to be within range %s with value == %s", ref, rng, inline(actual))}
		}
		return fmt.Sprintf("CHECK: %s was within range %s with value == %s", ref, rng, inline(actual)), nil
	}
}

// compare applies op to actual and expected. Numbers compare numerically,
// including numeric strings; other values only support equality unless both
// are strings.
func compare(actual any, op string, expected any) (bool, error) {
	a, aNum := toNumber(actual)
	e, eNum := toNumber(expected)
	if aNum && eNum {
		switch op {
		case "==":
			return a == e, nil
		case "!=":
			return a != e, nil
		case ">":
			return a > e, nil
		case "<":
			return a < e, nil
		case ">=":
			return a >= e, nil
		case "<=":
			return a <= e, nil
		}
		return false, fmt.Errorf("unsupported comparison %q", op)
	}

	as, aStr := actual.(string)
	es, eStr := expected.(string)
	if aStr && eStr {
		switch op {
		case "==":
			return as == es, nil
		case "!=":
			return as != es, nil
		case ">":
			return as > es, nil
		case "<":
			return as < es, nil
		case ">=":
			return as >= es, nil
		case "<=":
			return as <= es, nil
		}
		return false, fmt.Errorf("unsupported comparison %q", op)
	}

	switch op {
	case "==":
		return inline(actual) == inline(expected), nil
	case "!=":
		return inline(actual) != inline(expected), nil
	}
	return false, fmt.Errorf("cannot compare %s with %s using %s", inline(actual), inline(expected), op)
}

func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case bool, nil:
		return 0, false
	case string:
		f, err := cast.ToFloat64E(strings.TrimSpace(n))
		return f, err == nil
	default:
		f, err := cast.ToFloat64E(n)
		return f, err == nil
	}
}
