package namespace

import "context"

// CallFunc is the body of a Func.
type CallFunc func(ctx context.Context, kwargs map[string]any) (any, error)

// Func is the standard Callable. Params may be nil, in which case the
// function behaves like a host function without an inspectable signature.
type Func struct {
	Name   string
	Help   string
	Params []Param
	Fn     CallFunc
}

// Call implements Callable.
func (f *Func) Call(ctx context.Context, kwargs map[string]any) (any, error) {
	return f.Fn(ctx, kwargs)
}

// Doc implements Documented.
func (f *Func) Doc() string {
	return f.Help
}

// Signature implements Introspectable.
func (f *Func) Signature() ([]Param, error) {
	if f.Params == nil {
		return nil, ErrNoSignature
	}
	out := make([]Param, len(f.Params))
	copy(out, f.Params)
	return out, nil
}
