package entrypoint

import (
	"fmt"
	"reflect"
	"sync"
)

// Resolver resolves a dotted module path to the module's root object.
type Resolver interface {
	ResolveModule(path string) (any, error)
}

// Load resolves the entry point to a live object: the module is looked up
// through the resolver (Modules when nil) and the attribute chain is then
// traversed. Specs built from a live function return that function directly.
func (e *EntryPoint) Load(r Resolver) (any, error) {
	if e.value != nil {
		return e.value, nil
	}
	if r == nil {
		r = Modules
	}

	obj, err := r.ResolveModule(e.module)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", e, err)
	}
	for _, attr := range e.attrs {
		obj, err = attrOf(obj, attr)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", e, err)
		}
	}
	return obj, nil
}

// attrOf looks one attribute up on obj: a string-keyed map entry, an
// exported struct field, or a method, in that order.
func attrOf(obj any, attr string) (any, error) {
	if m, ok := obj.(map[string]any); ok {
		val, ok := m[attr]
		if !ok {
			return nil, fmt.Errorf("no attribute %q", attr)
		}
		return val, nil
	}

	v := reflect.ValueOf(obj)
	if !v.IsValid() {
		return nil, fmt.Errorf("no attribute %q on nil object", attr)
	}
	if method := v.MethodByName(attr); method.IsValid() {
		return method.Interface(), nil
	}
	for v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() == reflect.Struct {
		if field := v.FieldByName(attr); field.IsValid() && field.CanInterface() {
			return field.Interface(), nil
		}
	}
	return nil, fmt.Errorf("no attribute %q on %T", attr, obj)
}

// ModuleIndex maps dotted module paths to their root objects. It is the
// in-process stand-in for an import system: test code registers the module
// objects its entry points reference, and Load resolves against the index.
type ModuleIndex struct {
	mu      sync.RWMutex
	modules map[string]any
}

// Modules is the process-wide default index, mirroring the default working
// set.
var Modules = NewModuleIndex()

// NewModuleIndex creates an empty, isolated module index.
func NewModuleIndex() *ModuleIndex {
	return &ModuleIndex{modules: make(map[string]any)}
}

// Register adds a module root object under the given path. Registering a
// path twice is an error.
func (x *ModuleIndex) Register(path string, root any) error {
	x.mu.Lock()
	defer x.mu.Unlock()

	if _, exists := x.modules[path]; exists {
		return fmt.Errorf("module %q already registered", path)
	}
	x.modules[path] = root
	return nil
}

// Deregister removes the module registered under path, if any.
func (x *ModuleIndex) Deregister(path string) {
	x.mu.Lock()
	defer x.mu.Unlock()
	delete(x.modules, path)
}

// ResolveModule implements Resolver.
func (x *ModuleIndex) ResolveModule(path string) (any, error) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	root, ok := x.modules[path]
	if !ok {
		return nil, fmt.Errorf("module %q is not registered", path)
	}
	return root, nil
}
