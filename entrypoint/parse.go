package entrypoint

import (
	"fmt"
	"regexp"
	"strings"
)

// declPattern matches "name = module" with an optional ":attr.chain" suffix.
// Module paths may contain slashes so Go package paths parse as modules.
var declPattern = regexp.MustCompile(
	`^(?P<name>[A-Za-z0-9_.-]+)\s*=\s*(?P<module>[^\s:]+)` +
		`(?::(?P<attrs>[A-Za-z0-9_]+(?:\.[A-Za-z0-9_]+)*))?$`)

// Parse reads a textual entry point declaration of the form
// "name = module:attr.path". The attribute chain is optional.
func Parse(decl string) (*EntryPoint, error) {
	m := declPattern.FindStringSubmatch(strings.TrimSpace(decl))
	if m == nil {
		return nil, fmt.Errorf("invalid entry point declaration: %q", decl)
	}

	name := m[declPattern.SubexpIndex("name")]
	module := m[declPattern.SubexpIndex("module")]

	var attrs []string
	if chain := m[declPattern.SubexpIndex("attrs")]; chain != "" {
		attrs = strings.Split(chain, ".")
	}

	return &EntryPoint{name: name, module: module, attrs: attrs}, nil
}
