package prybar

import "fmt"

// ArgumentError reports malformed or contradictory construction inputs.
type ArgumentError struct {
	Reason string
}

func (e *ArgumentError) Error() string { return e.Reason }

// UsageError reports misuse of the activation protocol, such as exiting
// without a matching enter or mixing Enter/Exit with Start/Stop.
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return e.Reason }

// CollisionError reports that a scope's normalized key is already taken:
// either by a distribution at a foreign location, or by one of this
// package's own distributions registered under a different raw scope
// string.
type CollisionError struct {
	// Scope is the requested raw scope string.
	Scope string
	// Key is the normalized working-set key both scopes map to.
	Key string
	// Existing is the raw scope already holding the key, when the key
	// belongs to one of this package's own distributions.
	Existing string
	// Location is the foreign location holding the key, otherwise.
	Location string
}

func (e *CollisionError) Error() string {
	if e.Existing != "" {
		return fmt.Sprintf("scope %q conflicts with existing scope %q: both normalize to key %q",
			e.Scope, e.Existing, e.Key)
	}
	return fmt.Sprintf("scope %s already exists in working set at location %s",
		formatScope(e.Scope, e.Key), e.Location)
}

// DuplicateNameError reports that (group, name) is already registered
// within the resolved scope.
type DuplicateNameError struct {
	Name  string
	Group string
	Scope string
	Key   string
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%q is already registered under %q in scope %s",
		e.Name, e.Group, formatScope(e.Scope, e.Key))
}

// formatScope prints a raw scope, adding the normalized key when the two
// differ.
func formatScope(scope, key string) string {
	if scope != key {
		return fmt.Sprintf("%q (%q)", scope, key)
	}
	return fmt.Sprintf("%q", scope)
}
