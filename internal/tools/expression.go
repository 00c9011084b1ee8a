package tools

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"cosmos-mcp/internal/cosmos"
	"cosmos-mcp/internal/namespace"
)

var (
	clausePattern = regexp.MustCompile(`^tlm\(\s*['"]([^'"]+)['"]\s*\)\s*(==|!=|>=|<=|>|<)\s*(.+)$`)
	orPattern     = regexp.MustCompile(`\s+or\s+`)
	andPattern    = regexp.MustCompile(`\s+and\s+`)
)

// clause is one "tlm('T P I') op literal" comparison.
type clause struct {
	ref      itemRef
	op       string
	expected any
}

// expression is a disjunction of conjunctions of clauses.
type expression [][]clause

func parseExpression(s string) (expression, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("expression is empty")
	}
	var expr expression
	for _, group := range orPattern.Split(s, -1) {
		var conj []clause
		for _, part := range andPattern.Split(group, -1) {
			c, err := parseClause(strings.TrimSpace(part))
			if err != nil {
				return nil, err
			}
			conj = append(conj, c)
		}
		expr = append(expr, conj)
	}
	return expr, nil
}

func parseClause(s string) (clause, error) {
	m := clausePattern.FindStringSubmatch(s)
	if m == nil {
		return clause{}, fmt.Errorf("unsupported clause %q, expected tlm('TARGET PACKET ITEM') <op> <value>", s)
	}
	fields := strings.Fields(m[1])
	if len(fields) != 3 {
		return clause{}, fmt.Errorf("item must be \"TARGET PACKET ITEM\", got %q", m[1])
	}
	return clause{
		ref:      itemRef{fields[0], fields[1], fields[2]},
		op:       m[2],
		expected: parseLiteral(m[3]),
	}, nil
}

// items returns every distinct item the expression reads, in order.
func (e expression) items() []itemRef {
	seen := make(map[itemRef]bool)
	var refs []itemRef
	for _, conj := range e {
		for _, c := range conj {
			if !seen[c.ref] {
				seen[c.ref] = true
				refs = append(refs, c.ref)
			}
		}
	}
	return refs
}

func (e expression) eval(values map[itemRef]any) (bool, error) {
	for _, conj := range e {
		all := true
		for _, c := range conj {
			ok, err := compare(values[c.ref], c.op, c.expected)
			if err != nil {
				return false, err
			}
			if !ok {
				all = false
				break
			}
		}
		if all {
			return true, nil
		}
	}
	return false, nil
}

func checkExpression(api cosmos.Caller) namespace.CallFunc {
	return func(ctx context.Context, args map[string]any) (any, error) {
		text := stringArg(args, "expression")
		expr, err := parseExpression(text)
		if err != nil {
			return nil, err
		}

		values := make(map[itemRef]any)
		for _, ref := range expr.items() {
			v, err := readItem(ctx, api, "tlm", ref, scopeOnly(args))
			if err != nil {
				return nil, err
			}
			values[ref] = v
		}

		ok, err := expr.eval(values)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &cosmos.CheckError{Message: fmt.Sprintf("CHECK: %s is FALSE", text)}
		}
		return fmt.Sprintf("CHECK: %s is TRUE", text), nil
	}
}
