package gateway

import (
	"cosmos-mcp/internal/namespace"
)

// Verdict is the outcome class of a policy decision.
type Verdict int

const (
	Accepted Verdict = iota
	Overridden
	Excluded
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Overridden:
		return "overridden"
	case Excluded:
		return "excluded"
	default:
		return "unknown"
	}
}

// Reason explains an Excluded verdict.
type Reason string

const (
	ReasonPrivate     Reason = "private-convention"
	ReasonDenylisted  Reason = "denylisted"
	ReasonNotCallable Reason = "not-callable"
)

// Decision is the result of classifying one candidate member.
type Decision struct {
	Verdict Verdict
	Reason  Reason // set only for Excluded
}

// Policy decides which namespace members become generic tools. It holds the
// static denylist plus any configured additions, and the names claimed by
// the override table. A Policy is immutable once built.
type Policy struct {
	extra    map[string]bool
	reserved map[string]bool
}

// NewPolicy creates a policy. reserved are the names the override table
// claims; extraDenied are appended to the built-in denylist.
func NewPolicy(reserved []string, extraDenied []string) *Policy {
	p := &Policy{
		extra:    make(map[string]bool, len(extraDenied)),
		reserved: make(map[string]bool, len(reserved)),
	}
	for _, name := range reserved {
		p.reserved[name] = true
	}
	for _, name := range extraDenied {
		p.extra[name] = true
	}
	return p
}

// IsDenied reports whether name is on the built-in or configured denylist.
func (p *Policy) IsDenied(name string) bool {
	return isDeniedByDefault(name) || p.extra[name]
}

// IsReserved reports whether name is claimed by the override table.
func (p *Policy) IsReserved(name string) bool {
	return p.reserved[name]
}

// Classify applies the rules in order; the first match wins.
func (p *Policy) Classify(m namespace.CandidateMember) Decision {
	switch {
	case m.IsPrivate():
		return Decision{Verdict: Excluded, Reason: ReasonPrivate}
	case p.IsDenied(m.Name):
		return Decision{Verdict: Excluded, Reason: ReasonDenylisted}
	case p.IsReserved(m.Name):
		return Decision{Verdict: Overridden}
	case m.IsType() || !m.IsCallable():
		return Decision{Verdict: Excluded, Reason: ReasonNotCallable}
	default:
		return Decision{Verdict: Accepted}
	}
}
