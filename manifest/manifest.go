// Package manifest loads temporary entry point declarations from HCL files
// and activates them as a unit.
//
// A manifest holds entrypoint blocks labelled by group and name:
//
//	entrypoint "greeters" "hello" {
//	  module    = "example.greeters"
//	  attribute = ["nested", "hello"]
//	  scope     = "my-tests"
//	}
//
// attribute accepts a single string or a list of strings and defaults to
// the entry point's name; scope defaults to prybar.DefaultScope.
package manifest

import (
	"context"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"

	"github.com/h4l/prybar"
	"github.com/h4l/prybar/internal/ctxlog"
)

// file is the top-level structure of a manifest file.
type file struct {
	EntryPoints []*block `hcl:"entrypoint,block"`
}

// block is a single entrypoint declaration.
type block struct {
	Group     string         `hcl:"group,label"`
	Name      string         `hcl:"name,label"`
	Module    string         `hcl:"module"`
	Attribute hcl.Expression `hcl:"attribute,optional"`
	Scope     string         `hcl:"scope,optional"`
}

// Set is a group of scoped entry points declared by one manifest, activated
// and deactivated together via the manual protocol.
type Set struct {
	eps []*prybar.ScopedEntryPoint
}

// Load reads and decodes a manifest file. The returned Set is not yet
// started. Options are forwarded to each entry point's construction, so
// callers can target an isolated working set with prybar.WithWorkingSet;
// block-level scope declarations override a caller-supplied scope.
func Load(ctx context.Context, path string, opts ...prybar.Option) (*Set, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return LoadBytes(ctx, path, src, opts...)
}

// LoadBytes decodes manifest source. filename is used in diagnostics only.
func LoadBytes(ctx context.Context, filename string, src []byte, opts ...prybar.Option) (*Set, error) {
	logger := ctxlog.FromContext(ctx)

	f, diags := hclparse.NewParser().ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing manifest %s: %w", filename, diags)
	}

	var cfg file
	if diags := gohcl.DecodeBody(f.Body, nil, &cfg); diags.HasErrors() {
		return nil, fmt.Errorf("decoding manifest %s: %w", filename, diags)
	}

	set := &Set{}
	for _, b := range cfg.EntryPoints {
		attrs, err := attributePath(b.Attribute)
		if err != nil {
			return nil, fmt.Errorf("entrypoint %q in group %q: %w", b.Name, b.Group, err)
		}

		epOpts := make([]prybar.Option, 0, len(opts)+4)
		epOpts = append(epOpts, opts...)
		epOpts = append(epOpts, prybar.WithName(b.Name), prybar.WithModule(b.Module))
		if len(attrs) > 0 {
			epOpts = append(epOpts, prybar.WithAttribute(attrs...))
		}
		if b.Scope != "" {
			epOpts = append(epOpts, prybar.WithScope(b.Scope))
		}

		ep, err := prybar.New(b.Group, nil, epOpts...)
		if err != nil {
			return nil, fmt.Errorf("entrypoint %q in group %q: %w", b.Name, b.Group, err)
		}
		set.eps = append(set.eps, ep)
		logger.Debug("Loaded entry point declaration.",
			"file", filename, "group", b.Group, "name", b.Name)
	}
	return set, nil
}

// attributePath evaluates an attribute expression into an attribute chain.
// It accepts a single string or anything convertible to a list of strings.
func attributePath(expr hcl.Expression) ([]string, error) {
	if expr == nil {
		return nil, nil
	}

	val, diags := expr.Value(nil)
	if diags.HasErrors() {
		return nil, fmt.Errorf("evaluating attribute: %w", diags)
	}
	if val.IsNull() {
		return nil, nil
	}
	if val.Type() == cty.String {
		return []string{val.AsString()}, nil
	}

	listVal, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("attribute must be a string or list of strings: %w", err)
	}
	var attrs []string
	for it := listVal.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		attrs = append(attrs, elem.AsString())
	}
	return attrs, nil
}

// Start registers every declared entry point, in declaration order. If any
// registration fails, the ones already started are stopped before the
// error is returned.
func (s *Set) Start(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	for i, ep := range s.eps {
		if err := ep.Start(); err != nil {
			for j := i - 1; j >= 0; j-- {
				_ = s.eps[j].Stop()
			}
			return fmt.Errorf("starting entry point in group %q: %w", ep.Group(), err)
		}
	}
	logger.Debug("Started manifest entry points.", "count", len(s.eps))
	return nil
}

// Stop removes every entry point in reverse declaration order. Stopping an
// already-stopped set is a no-op. The first error is returned but does not
// halt the unwind.
func (s *Set) Stop(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)

	var firstErr error
	for i := len(s.eps) - 1; i >= 0; i-- {
		if err := s.eps[i].Stop(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	logger.Debug("Stopped manifest entry points.", "count", len(s.eps))
	return firstErr
}

// EntryPoints returns the declared entry points in declaration order.
func (s *Set) EntryPoints() []*prybar.ScopedEntryPoint {
	return append([]*prybar.ScopedEntryPoint(nil), s.eps...)
}
