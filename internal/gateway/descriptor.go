package gateway

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"cosmos-mcp/internal/namespace"
)

// DefaultPrefix is prepended to every exposed tool name built from the namespace.
const DefaultPrefix = "openc3_"

// DefaultDocFormat is used when a host function carries no documentation.
const DefaultDocFormat = "OpenC3 function: %s"

// Kind tells generic and hand-written adapters apart.
type Kind int

const (
	KindGeneric Kind = iota
	KindHandwritten
	KindBuiltin
)

func (k Kind) String() string {
	switch k {
	case KindGeneric:
		return "generic"
	case KindHandwritten:
		return "handwritten"
	case KindBuiltin:
		return "builtin"
	default:
		return "unknown"
	}
}

// Adapter invokes the backend behind one tool.
type Adapter interface {
	Invoke(ctx context.Context, args map[string]any) (any, error)
}

// Emitter receives stream chunks as they are produced.
type Emitter func(chunk string) error

// StreamingAdapter produces its result incrementally. Invoke on a streaming
// adapter collects the whole stream into one string.
type StreamingAdapter interface {
	Adapter
	Stream(ctx context.Context, args map[string]any, emit Emitter) error
}

// Descriptor is everything the registry knows about one tool.
type Descriptor struct {
	Name          string // exposed name
	SourceName    string // name in the host namespace, empty for built-ins
	Documentation string
	Parameters    []namespace.Param
	HasSignature  bool
	Kind          Kind
	Adapter       Adapter
}

// Metadata is the discovery view of a descriptor.
type Metadata struct {
	Name          string
	Documentation string
	Parameters    []namespace.Param
	HasSignature  bool
}

// Metadata returns the discovery view of d.
func (d *Descriptor) Metadata() Metadata {
	var params []namespace.Param
	if d.HasSignature {
		params = make([]namespace.Param, len(d.Parameters))
		copy(params, d.Parameters)
	}
	return Metadata{
		Name:          d.Name,
		Documentation: d.Documentation,
		Parameters:    params,
		HasSignature:  d.HasSignature,
	}
}

// Streaming reports whether d produces its result incrementally.
func (d *Descriptor) Streaming() bool {
	_, ok := d.Adapter.(StreamingAdapter)
	return ok
}

// GenericAdapter forwards keyword arguments to a host callable unchanged.
type GenericAdapter struct {
	call namespace.CallFunc
}

// Invoke implements Adapter.
func (g *GenericAdapter) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return g.call(ctx, args)
}

// HandwrittenAdapter wraps a function with hand-written argument handling.
type HandwrittenAdapter struct {
	Fn namespace.CallFunc
}

// Invoke implements Adapter.
func (h HandwrittenAdapter) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return h.Fn(ctx, args)
}

// StreamFunc is the body of a StreamAdapter.
type StreamFunc func(ctx context.Context, args map[string]any, emit Emitter) error

// StreamAdapter is the StreamingAdapter built from a StreamFunc.
type StreamAdapter struct {
	Fn StreamFunc
}

// Stream implements StreamingAdapter.
func (s StreamAdapter) Stream(ctx context.Context, args map[string]any, emit Emitter) error {
	return s.Fn(ctx, args, emit)
}

// Invoke implements Adapter by collecting the stream.
func (s StreamAdapter) Invoke(ctx context.Context, args map[string]any) (any, error) {
	var sb strings.Builder
	err := s.Fn(ctx, args, func(chunk string) error {
		sb.WriteString(chunk)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return sb.String(), nil
}

// NewHandwritten builds the descriptor of a hand-written tool. name is the
// exposed name.
func NewHandwritten(name, doc string, params []namespace.Param, fn namespace.CallFunc) *Descriptor {
	return &Descriptor{
		Name:          name,
		Documentation: doc,
		Parameters:    params,
		HasSignature:  true,
		Kind:          KindHandwritten,
		Adapter:       HandwrittenAdapter{Fn: fn},
	}
}

// NewStreaming builds the descriptor of a streaming built-in tool.
func NewStreaming(name, doc string, params []namespace.Param, fn StreamFunc) *Descriptor {
	return &Descriptor{
		Name:          name,
		Documentation: doc,
		Parameters:    params,
		HasSignature:  true,
		Kind:          KindBuiltin,
		Adapter:       StreamAdapter{Fn: fn},
	}
}

// Builder turns accepted namespace members into generic descriptors.
type Builder struct {
	Prefix    string
	DocFormat string
}

// NewBuilder returns a builder with the default prefix and documentation format.
func NewBuilder() *Builder {
	return &Builder{Prefix: DefaultPrefix, DocFormat: DefaultDocFormat}
}

// ExposedName returns the tool name for a namespace member.
func (b *Builder) ExposedName(name string) string {
	return b.Prefix + name
}

// Build creates the descriptor for m. Introspection failures never escape as
// panics; they come back as a *RegistrationError.
func (b *Builder) Build(m namespace.CandidateMember) (d *Descriptor, err error) {
	defer func() {
		if r := recover(); r != nil {
			d = nil
			err = &RegistrationError{Name: m.Name, Err: fmt.Errorf("panic during introspection: %v", r)}
		}
	}()

	call, err := adaptCallable(m.Value)
	if err != nil {
		return nil, &RegistrationError{Name: m.Name, Err: err}
	}

	d = &Descriptor{
		Name:          b.ExposedName(m.Name),
		SourceName:    m.Name,
		Documentation: b.documentation(m),
		Kind:          KindGeneric,
		Adapter:       &GenericAdapter{call: call},
	}

	if in, ok := m.Value.(namespace.Introspectable); ok {
		params, sigErr := in.Signature()
		switch {
		case sigErr == nil:
			d.Parameters = params
			d.HasSignature = true
		case !errors.Is(sigErr, namespace.ErrNoSignature):
			return nil, &RegistrationError{Name: m.Name, Err: sigErr}
		}
	}
	return d, nil
}

func (b *Builder) documentation(m namespace.CandidateMember) string {
	if doc, ok := m.Value.(namespace.Documented); ok {
		if text := strings.TrimSpace(doc.Doc()); text != "" {
			return text
		}
	}
	format := b.DocFormat
	if format == "" {
		format = DefaultDocFormat
	}
	return fmt.Sprintf(format, m.Name)
}

func adaptCallable(v any) (namespace.CallFunc, error) {
	switch fn := v.(type) {
	case namespace.Callable:
		return fn.Call, nil
	case namespace.CallFunc:
		return fn, nil
	case func(context.Context, map[string]any) (any, error):
		return fn, nil
	default:
		return nil, fmt.Errorf("unsupported callable of type %T", v)
	}
}
