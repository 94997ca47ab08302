package prybar

import (
	"fmt"

	"github.com/h4l/prybar/entrypoint"
	"github.com/h4l/prybar/workingset"
)

// Source selects one of the ways a caller can describe the entry point to
// register. Exactly one shape is used per construction; nil selects the
// explicit-fields shape driven by WithName, WithModule and WithAttribute.
type Source interface {
	sourceTag()
}

type funcSource struct{ fn any }
type declSource struct{ decl string }
type specSource struct{ ep *entrypoint.EntryPoint }

func (funcSource) sourceTag() {}
func (declSource) sourceTag() {}
func (specSource) sourceTag() {}

// Func describes the entry point by a live function. Name and module are
// inferred from the function's runtime symbol; WithName may override the
// name, but WithModule and WithAttribute must not be supplied.
func Func(fn any) Source { return funcSource{fn: fn} }

// Decl describes the entry point by a textual declaration in the form
// "name = module:attr.path".
func Decl(text string) Source { return declSource{decl: text} }

// Spec describes the entry point by a pre-built spec, which must not
// already be bound to a distribution.
func Spec(ep *entrypoint.EntryPoint) Source { return specSource{ep: ep} }

// Option configures construction of a ScopedEntryPoint.
type Option func(*options)

type options struct {
	name     string
	module   string
	attrs    []string
	attrsSet bool
	scope    string
	ws       *workingset.WorkingSet
}

// WithName sets the entry point name.
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithModule sets the dotted module path the entry point references.
func WithModule(module string) Option {
	return func(o *options) { o.module = module }
}

// WithAttribute sets the attribute chain traversed after resolving the
// module. It defaults to the single-element path (name).
func WithAttribute(attrs ...string) Option {
	return func(o *options) {
		o.attrs = attrs
		o.attrsSet = true
	}
}

// WithScope places the registration in the given scope instead of
// DefaultScope. (group, name) pairs must be unique per scope.
func WithScope(scope string) Option {
	return func(o *options) { o.scope = scope }
}

// WithWorkingSet registers into the given working set instead of the
// process-wide default.
func WithWorkingSet(ws *workingset.WorkingSet) Option {
	return func(o *options) { o.ws = ws }
}

// normalize collapses the four construction shapes into one spec,
// enforcing the mutual-exclusion rules between a source and the
// explicit-field options.
func normalize(source Source, o *options) (*entrypoint.EntryPoint, error) {
	switch src := source.(type) {
	case nil:
		if o.name == "" || o.module == "" {
			return nil, &ArgumentError{
				Reason: "name and module must be specified when no entrypoint source is given",
			}
		}
		attrs := o.attrs
		if len(attrs) == 0 {
			attrs = []string{o.name}
		}
		return entrypoint.New(o.name, o.module, attrs...), nil

	case funcSource:
		if o.module != "" || o.attrsSet {
			return nil, &ArgumentError{
				Reason: "can't specify module or attribute alongside a callable entrypoint",
			}
		}
		ep, err := entrypoint.FromFunc(src.fn, o.name)
		if err != nil {
			return nil, &ArgumentError{Reason: err.Error()}
		}
		return ep, nil

	case declSource:
		ep, err := entrypoint.Parse(src.decl)
		if err != nil {
			return nil, &ArgumentError{Reason: err.Error()}
		}
		// The parsed spec carries a bound identity, so extra fields are
		// rejected the same way a pre-built spec rejects them.
		return prebuilt(ep, o)

	case specSource:
		if src.ep == nil {
			return nil, &ArgumentError{Reason: "entrypoint spec must not be nil"}
		}
		return prebuilt(src.ep, o)

	default:
		return nil, &ArgumentError{
			Reason: fmt.Sprintf("unsupported entrypoint source: %T", source),
		}
	}
}

func prebuilt(ep *entrypoint.EntryPoint, o *options) (*entrypoint.EntryPoint, error) {
	if ep.Dist() != nil {
		return nil, &ArgumentError{
			Reason: "can't specify a pre-built entrypoint with a distribution already attached",
		}
	}
	if o.name != "" || o.module != "" || o.attrsSet {
		return nil, &ArgumentError{
			Reason: "can't specify name, module or attribute when entrypoint is pre-built",
		}
	}
	return ep, nil
}
