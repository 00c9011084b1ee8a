package namespace

import (
	"context"
	"errors"
	"reflect"
	"sort"
	"strings"
)

// ErrNoSignature is returned by Introspectable values whose parameters
// cannot be determined.
var ErrNoSignature = errors.New("signature not inspectable")

// PrivatePrefix marks names that are internal to the host namespace.
const PrivatePrefix = "_"

// Namespace is a flat collection of named host values.
type Namespace interface {
	// Names returns every name in the namespace in a stable order.
	Names() []string

	// Lookup returns the value bound to name.
	Lookup(name string) (any, bool)
}

// Callable is a host value that can be invoked with keyword arguments.
type Callable interface {
	Call(ctx context.Context, kwargs map[string]any) (any, error)
}

// Documented values carry their own documentation text.
type Documented interface {
	Doc() string
}

// Introspectable values can report their declared parameters.
type Introspectable interface {
	Signature() ([]Param, error)
}

// Param is one declared parameter of a callable. Type and Description are
// optional hints; host functions discovered by introspection leave them empty.
type Param struct {
	Name        string
	Default     any
	HasDefault  bool
	Type        string // "string", "number", "integer", "boolean", "object", "array"
	Description string
}

// Describe returns a copy of p with the given type and description.
func (p Param) Describe(typ, description string) Param {
	p.Type = typ
	p.Description = description
	return p
}

// Required returns a parameter without a default value.
func Required(name string) Param {
	return Param{Name: name}
}

// Optional returns a parameter with a default value.
func Optional(name string, def any) Param {
	return Param{Name: name, Default: def, HasDefault: true}
}

// Module stands for a re-exported module binding. It is never invocable.
type Module struct {
	Name string
}

// IsCallable reports whether v can be invoked. Besides Callable
// implementations, any Go func value counts; whether it can actually be
// adapted is decided later when a descriptor is built.
func IsCallable(v any) bool {
	if v == nil {
		return false
	}
	if _, ok := v.(Callable); ok {
		return true
	}
	return reflect.ValueOf(v).Kind() == reflect.Func
}

// IsType reports whether v refers to a type rather than a value.
func IsType(v any) bool {
	_, ok := v.(reflect.Type)
	return ok
}

// TypeOf returns the reflect.Type binding for T, for registering type
// names in a Table.
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// CandidateMember is one name discovered while enumerating a namespace.
type CandidateMember struct {
	Name  string
	Value any
}

// IsPrivate reports whether the member follows the internal naming convention.
func (m CandidateMember) IsPrivate() bool {
	return strings.HasPrefix(m.Name, PrivatePrefix)
}

// IsType reports whether the member is a type binding.
func (m CandidateMember) IsType() bool {
	return IsType(m.Value)
}

// IsCallable reports whether the member is invocable.
func (m CandidateMember) IsCallable() bool {
	return IsCallable(m.Value)
}

// Enumerate lists all members of ns in the namespace's own order.
func Enumerate(ns Namespace) []CandidateMember {
	names := ns.Names()
	members := make([]CandidateMember, 0, len(names))
	for _, name := range names {
		v, ok := ns.Lookup(name)
		if !ok {
			continue
		}
		members = append(members, CandidateMember{Name: name, Value: v})
	}
	return members
}

// Table is an in-memory Namespace. Names are reported sorted, matching the
// order a directory listing of a module would produce.
type Table struct {
	values map[string]any
}

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{values: make(map[string]any)}
}

// Add binds name to v, replacing any previous binding.
func (t *Table) Add(name string, v any) *Table {
	t.values[name] = v
	return t
}

// Names implements Namespace.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.values))
	for name := range t.values {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup implements Namespace.
func (t *Table) Lookup(name string) (any, bool) {
	v, ok := t.values[name]
	return v, ok
}

// Len returns the number of bindings.
func (t *Table) Len() int {
	return len(t.values)
}
