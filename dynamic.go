package prybar

import (
	"log/slog"

	"github.com/h4l/prybar/entrypoint"
	"github.com/h4l/prybar/workingset"
)

const (
	// DefaultScope is the namespace registrations land in when the caller
	// does not choose one.
	DefaultScope = "prybar.dynamic"

	// Location marks distributions created by this package. A working-set
	// key held by a distribution at any other location belongs to someone
	// else and causes a CollisionError.
	Location = "go://github.com/h4l/prybar"
)

// activationState tracks which protocol, if any, a ScopedEntryPoint is
// currently active under.
type activationState int

const (
	stateIdle activationState = iota
	stateEntered
	stateStarted
)

// ScopedEntryPoint registers one entry point into a working set for a
// caller-controlled extent. Construction validates and normalizes but never
// touches the working set; registration happens on activation and is fully
// unwound on deactivation.
//
// An instance may be activated and deactivated repeatedly, but only
// sequentially. Instances are not safe for concurrent use.
type ScopedEntryPoint struct {
	group string
	spec  *entrypoint.EntryPoint
	scope string
	ws    *workingset.WorkingSet

	state  activationState
	active *entrypoint.EntryPoint
	dist   *workingset.Distribution
}

// New builds a ScopedEntryPoint for the given group from one of the four
// construction shapes (see Source). Contradictory inputs fail with an
// ArgumentError.
func New(group string, source Source, opts ...Option) (*ScopedEntryPoint, error) {
	if group == "" {
		return nil, &ArgumentError{Reason: "group must not be empty"}
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	spec, err := normalize(source, &o)
	if err != nil {
		return nil, err
	}

	scope := o.scope
	if scope == "" {
		scope = DefaultScope
	}
	ws := o.ws
	if ws == nil {
		ws = workingset.Default()
	}

	return &ScopedEntryPoint{group: group, spec: spec, scope: scope, ws: ws}, nil
}

// Group returns the group the entry point registers under.
func (s *ScopedEntryPoint) Group() string { return s.group }

// Scope returns the scope the entry point registers in.
func (s *ScopedEntryPoint) Scope() string { return s.scope }

// Enter registers the entry point, beginning a block-scoped activation
// that must be ended by a matching Exit. Entering an already-entered
// instance, or one active via Start, is a UsageError.
func (s *ScopedEntryPoint) Enter() error {
	switch s.state {
	case stateEntered:
		return &UsageError{Reason: "enter called while already entered"}
	case stateStarted:
		return &UsageError{Reason: "can't enter while active via Start"}
	}
	if err := s.register(); err != nil {
		return err
	}
	s.state = stateEntered
	return nil
}

// Exit removes the entry point registered by the matching Enter. Exiting
// an idle instance is a hard error, not a no-op.
func (s *ScopedEntryPoint) Exit() error {
	switch s.state {
	case stateIdle:
		return &UsageError{Reason: "exit called more than enter"}
	case stateStarted:
		return &UsageError{Reason: "can't exit while active via Start"}
	}
	s.deregister()
	return nil
}

// Start registers the entry point until Stop is called. Start is
// idempotent while started, but a UsageError while block-entered.
func (s *ScopedEntryPoint) Start() error {
	switch s.state {
	case stateStarted:
		return nil
	case stateEntered:
		return &UsageError{Reason: "can't start while entered"}
	}
	if err := s.register(); err != nil {
		return err
	}
	s.state = stateStarted
	return nil
}

// Stop removes the entry point registered by Start. Stop is idempotent
// while idle, but a UsageError while block-entered.
func (s *ScopedEntryPoint) Stop() error {
	switch s.state {
	case stateIdle:
		return nil
	case stateEntered:
		return &UsageError{Reason: "can't stop while entered"}
	}
	s.deregister()
	return nil
}

// Do runs fn with the entry point registered, removing it on every exit
// path: normal return, error return, and panic.
func (s *ScopedEntryPoint) Do(fn func() error) (err error) {
	if err := s.Enter(); err != nil {
		return err
	}
	defer func() {
		if exitErr := s.Exit(); exitErr != nil && err == nil {
			err = exitErr
		}
	}()
	return fn()
}

// Wrap decorates fn so each invocation runs with the entry point
// registered. The wrapper is sugar over Do, so calling it while the
// instance is active via Start fails the same way Enter would.
func (s *ScopedEntryPoint) Wrap(fn func() error) func() error {
	return func() error {
		return s.Do(fn)
	}
}

// register resolves or creates the scope's distribution, checks for
// collisions and duplicate names, and inserts a bound copy of the spec.
func (s *ScopedEntryPoint) register() error {
	key := workingset.Key(s.scope)

	dist, ok := s.ws.Find(key)
	switch {
	case !ok:
		dist = workingset.NewDistribution(s.scope, Location)
		s.ws.Add(dist)
	case dist.Location() != Location:
		return &CollisionError{Scope: s.scope, Key: key, Location: dist.Location()}
	case dist.ProjectName() != s.scope:
		return &CollisionError{Scope: s.scope, Key: key, Existing: dist.ProjectName()}
	}

	if _, exists := dist.Get(s.group, s.spec.Name()); exists {
		return &DuplicateNameError{Name: s.spec.Name(), Group: s.group, Scope: s.scope, Key: key}
	}

	bound := s.spec.Bound(dist)
	dist.Insert(s.group, bound.Name(), bound)
	s.active = bound
	s.dist = dist
	slog.Debug("Registered dynamic entry point.",
		"group", s.group, "name", bound.Name(), "scope", s.scope)
	return nil
}

// deregister unwinds the registration: the entry, the group if now empty,
// and the distribution (with its location bookkeeping) if now empty.
func (s *ScopedEntryPoint) deregister() {
	s.dist.Remove(s.group, s.active.Name())
	if s.dist.IsEmpty() {
		s.ws.Remove(s.dist)
	}
	slog.Debug("Removed dynamic entry point.",
		"group", s.group, "name", s.active.Name(), "scope", s.scope)
	s.active = nil
	s.dist = nil
	s.state = stateIdle
}
