package gateway

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"cosmos-mcp/pkg/logging"
)

// DefaultCallTimeout bounds a single tool invocation.
const DefaultCallTimeout = 60 * time.Second

// CallRequest is one tool invocation. CorrelationID is echoed back verbatim.
type CallRequest struct {
	Name          string
	Arguments     map[string]any
	CorrelationID any
}

// CallResult is the text-only answer to a CallRequest.
type CallResult struct {
	CorrelationID any
	Text          string
}

// Status classifies an Outcome.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusNotFound Status = "not_found"
	StatusError    Status = "error"
)

// Outcome is the typed result of a dispatch before it is flattened to text.
type Outcome struct {
	Tool  string
	Value any
	Err   error
}

// Status returns the outcome class.
func (o Outcome) Status() Status {
	switch {
	case o.Err == nil:
		return StatusSuccess
	case IsNotFound(o.Err):
		return StatusNotFound
	default:
		return StatusError
	}
}

// Observer is notified after every dispatch.
type Observer interface {
	ObserveCall(ctx context.Context, tool string, status Status, elapsed time.Duration)
}

// Options configures a Gateway.
type Options struct {
	// CallTimeout bounds each invocation. Zero disables the deadline.
	CallTimeout time.Duration
	Normalizer  *Normalizer
	Observer    Observer
}

// Gateway dispatches tool calls against a sealed registry. It holds no
// per-call state and is safe for concurrent use.
type Gateway struct {
	registry    *Registry
	normalizer  *Normalizer
	callTimeout time.Duration
	observer    Observer
	validator   *argumentValidator
}

// New creates a gateway over reg.
func New(reg *Registry, opts Options) *Gateway {
	n := opts.Normalizer
	if n == nil {
		n = defaultNormalizer
	}
	return &Gateway{
		registry:    reg,
		normalizer:  n,
		callTimeout: opts.CallTimeout,
		observer:    opts.Observer,
		validator:   newArgumentValidator(reg.Descriptors()),
	}
}

// Registry returns the registry the gateway dispatches against.
func (g *Gateway) Registry() *Registry {
	return g.registry
}

// List returns the metadata of every registered tool.
func (g *Gateway) List() []Metadata {
	return g.registry.List()
}

// Call dispatches req and flattens the outcome to text. It never fails:
// lookup and invocation errors are reported in the text.
func (g *Gateway) Call(ctx context.Context, req CallRequest) CallResult {
	outcome := g.Dispatch(ctx, req.Name, req.Arguments)
	return CallResult{CorrelationID: req.CorrelationID, Text: g.Text(outcome)}
}

// Text flattens an outcome into the single text payload of a tool result.
func (g *Gateway) Text(o Outcome) string {
	switch o.Status() {
	case StatusSuccess:
		return g.normalizer.Normalize(o.Tool, o.Value)
	case StatusNotFound:
		return "Error: " + o.Err.Error()
	default:
		return fmt.Sprintf("Error executing %s: %s", o.Tool, errorMessage(o.Err))
	}
}

// Dispatch looks up name, coerces and validates args and invokes the adapter
// under the configured deadline. Streaming adapters forward chunks to the Emitter
// stored in ctx, if any.
func (g *Gateway) Dispatch(ctx context.Context, name string, args map[string]any) (out Outcome) {
	start := time.Now()
	out.Tool = name
	defer func() {
		if g.observer != nil {
			g.observer.ObserveCall(ctx, name, out.Status(), time.Since(start))
		}
	}()

	d, err := g.registry.Lookup(name)
	if err != nil {
		logging.Debug("Gateway", "Lookup failed for %s", name)
		out.Err = err
		return out
	}

	args = Coerce(args)
	if err := g.validator.validate(name, args); err != nil {
		out.Err = err
		return out
	}

	callCtx := ctx
	if g.callTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, g.callTimeout)
		defer cancel()
	}

	out.Value, out.Err = invoke(callCtx, d, args)
	if out.Err != nil {
		if errors.Is(out.Err, context.DeadlineExceeded) && callCtx.Err() != nil && ctx.Err() == nil {
			out.Err = fmt.Errorf("timed out after %s", g.callTimeout)
		}
		logging.Debug("Gateway", "Tool %s failed: %v", name, out.Err)
	}
	return out
}

func invoke(ctx context.Context, d *Descriptor, args map[string]any) (value any, err error) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Gateway", fmt.Errorf("%v", r), "Adapter for %s panicked\n%s", d.Name, debug.Stack())
			value = nil
			err = fmt.Errorf("%v", r)
		}
	}()

	if sa, ok := d.Adapter.(StreamingAdapter); ok {
		if emit := EmitterFromContext(ctx); emit != nil {
			var sb strings.Builder
			err = sa.Stream(ctx, args, func(chunk string) error {
				sb.WriteString(chunk)
				return emit(chunk)
			})
			if err != nil {
				return nil, err
			}
			return sb.String(), nil
		}
	}
	return d.Adapter.Invoke(ctx, args)
}

func errorMessage(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

type emitterKey struct{}

// WithEmitter returns a context whose streaming calls forward chunks to emit.
func WithEmitter(ctx context.Context, emit Emitter) context.Context {
	return context.WithValue(ctx, emitterKey{}, emit)
}

// EmitterFromContext returns the Emitter stored in ctx, or nil.
func EmitterFromContext(ctx context.Context) Emitter {
	emit, _ := ctx.Value(emitterKey{}).(Emitter)
	return emit
}
