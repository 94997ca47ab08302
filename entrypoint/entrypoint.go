// Package entrypoint models loadable entry point specs: a name, a dotted
// module path, and an ordered attribute chain to traverse after resolving
// the module. Specs are immutable once built; binding one to a distribution
// produces a copy.
package entrypoint

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// Dist identifies the distribution an entry point is registered under.
// It is satisfied by workingset.Distribution; the interface lives here so
// the dependency points from the working set to the spec, not back.
type Dist interface {
	Key() string
	Location() string
}

// EntryPoint is the normalized description of a loadable reference.
type EntryPoint struct {
	name   string
	module string
	attrs  []string
	dist   Dist
	value  any
}

// New builds a spec from explicit name, module and attribute fields.
func New(name, module string, attrs ...string) *EntryPoint {
	return &EntryPoint{
		name:   name,
		module: module,
		attrs:  append([]string(nil), attrs...),
	}
}

// FromFunc builds a spec from a live function value. The module and
// attribute are inferred from the function's runtime symbol name; name
// defaults to the function's own name when empty. The value is retained so
// loading the spec yields the original function.
func FromFunc(fn any, name string) (*EntryPoint, error) {
	v := reflect.ValueOf(fn)
	if !v.IsValid() || v.Kind() != reflect.Func || v.IsNil() {
		return nil, fmt.Errorf("entrypoint is not callable: %v", fn)
	}

	symbol := runtime.FuncForPC(v.Pointer()).Name()
	dot := strings.LastIndex(symbol, ".")
	if dot < 0 {
		return nil, fmt.Errorf("can't infer module from function symbol %q", symbol)
	}
	module, attr := symbol[:dot], symbol[dot+1:]
	if name == "" {
		name = attr
	}

	return &EntryPoint{
		name:   name,
		module: module,
		attrs:  []string{attr},
		value:  fn,
	}, nil
}

// Name returns the entry point's name, unique within a group and scope.
func (e *EntryPoint) Name() string { return e.name }

// Module returns the dotted module path the entry point references.
func (e *EntryPoint) Module() string { return e.module }

// Attrs returns a copy of the attribute chain traversed after resolving
// the module.
func (e *EntryPoint) Attrs() []string { return append([]string(nil), e.attrs...) }

// Dist returns the distribution the spec is bound to, or nil.
func (e *EntryPoint) Dist() Dist { return e.dist }

// Bound returns a copy of the spec attached to the given distribution.
func (e *EntryPoint) Bound(d Dist) *EntryPoint {
	bound := *e
	bound.dist = d
	return &bound
}

// String renders the spec in declaration form, e.g. "name = module:attr".
func (e *EntryPoint) String() string {
	if len(e.attrs) == 0 {
		return fmt.Sprintf("%s = %s", e.name, e.module)
	}
	return fmt.Sprintf("%s = %s:%s", e.name, e.module, strings.Join(e.attrs, "."))
}
