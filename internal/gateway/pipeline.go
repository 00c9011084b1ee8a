package gateway

import (
	"errors"
	"fmt"
	"sort"

	"cosmos-mcp/internal/namespace"
	"cosmos-mcp/pkg/logging"
)

// OverrideTable is the set of hand-written descriptors that replace generic
// ones. Each entry's SourceName is reserved: the pipeline never builds a
// generic adapter for it.
type OverrideTable []*Descriptor

// Reserved returns the namespace names the table claims.
func (t OverrideTable) Reserved() []string {
	names := make([]string, 0, len(t))
	for _, d := range t {
		if d.SourceName != "" {
			names = append(names, d.SourceName)
		}
	}
	return names
}

// Report summarizes one pipeline run.
type Report struct {
	Registered []string
	Overridden []string
	Excluded   map[Reason][]string
	Failures   []*RegistrationError
}

// ExcludedCount returns the number of excluded members across all reasons.
func (r *Report) ExcludedCount() int {
	n := 0
	for _, names := range r.Excluded {
		n += len(names)
	}
	return n
}

// Reasons returns the exclusion reasons present in the report, sorted.
func (r *Report) Reasons() []Reason {
	reasons := make([]Reason, 0, len(r.Excluded))
	for reason := range r.Excluded {
		reasons = append(reasons, reason)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
	return reasons
}

// Pipeline runs registration: enumerate, classify, build, register, install
// overrides, seal.
type Pipeline struct {
	Policy    *Policy
	Builder   *Builder
	Builtins  []*Descriptor
	Overrides OverrideTable
}

// NewPipeline wires a pipeline whose policy reserves the override table's names.
func NewPipeline(builder *Builder, builtins []*Descriptor, overrides OverrideTable, extraDenied []string) *Pipeline {
	return &Pipeline{
		Policy:    NewPolicy(overrides.Reserved(), extraDenied),
		Builder:   builder,
		Builtins:  builtins,
		Overrides: overrides,
	}
}

// Classify returns the policy decision for every member of ns, in namespace order.
func (p *Pipeline) Classify(ns namespace.Namespace) ([]namespace.CandidateMember, []Decision) {
	members := namespace.Enumerate(ns)
	decisions := make([]Decision, len(members))
	for i, m := range members {
		decisions[i] = p.Policy.Classify(m)
	}
	return members, decisions
}

// Run builds and seals a registry from ns. Individual build failures are
// recorded in the report and skipped; a name collision aborts the run.
func (p *Pipeline) Run(ns namespace.Namespace) (*Registry, *Report, error) {
	reg := NewRegistry()
	report := &Report{Excluded: make(map[Reason][]string)}

	for _, d := range p.Builtins {
		if err := reg.Register(d); err != nil {
			return nil, report, fmt.Errorf("failed to register built-in tool: %w", err)
		}
		report.Registered = append(report.Registered, d.Name)
	}

	members, decisions := p.Classify(ns)
	for i, m := range members {
		decision := decisions[i]
		switch decision.Verdict {
		case Excluded:
			report.Excluded[decision.Reason] = append(report.Excluded[decision.Reason], m.Name)
			continue
		case Overridden:
			report.Overridden = append(report.Overridden, m.Name)
			continue
		}

		d, err := p.Builder.Build(m)
		if err != nil {
			var regErr *RegistrationError
			if !errors.As(err, &regErr) {
				regErr = &RegistrationError{Name: m.Name, Err: err}
			}
			logging.Warn("Pipeline", "Failed to register %s: %v", m.Name, regErr.Err)
			report.Failures = append(report.Failures, regErr)
			continue
		}
		if err := reg.Register(d); err != nil {
			return nil, report, fmt.Errorf("failed to register %s: %w", m.Name, err)
		}
		logging.Debug("Pipeline", "Registered: %s", d.Name)
		report.Registered = append(report.Registered, d.Name)
	}

	for _, d := range p.Overrides {
		if err := reg.Register(d); err != nil {
			return nil, report, fmt.Errorf("failed to install override: %w", err)
		}
		logging.Debug("Pipeline", "Installed override: %s", d.Name)
		report.Registered = append(report.Registered, d.Name)
	}

	reg.Seal()
	logging.Info("Pipeline", "Registered %d tools (%d overridden, %d excluded, %d failed)",
		reg.Len(), len(report.Overridden), report.ExcludedCount(), len(report.Failures))
	return reg, report, nil
}
