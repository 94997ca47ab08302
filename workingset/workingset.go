package workingset

import (
	"log/slog"
	"sync"

	"github.com/h4l/prybar/entrypoint"
)

// WorkingSet holds the distributions known to this process, keyed by
// normalized project name, together with the location bookkeeping needed to
// remove a distribution without leaving residue.
type WorkingSet struct {
	mu        sync.Mutex
	byKey     map[string]*Distribution
	entries   []string
	entryKeys map[string][]string
}

var defaultSet = New()

// Default returns the process-wide working set.
func Default() *WorkingSet { return defaultSet }

// New creates an empty, isolated working set.
func New() *WorkingSet {
	return &WorkingSet{
		byKey:     make(map[string]*Distribution),
		entryKeys: make(map[string][]string),
	}
}

// Add registers a distribution under its key and records its location.
func (ws *WorkingSet) Add(d *Distribution) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	if _, known := ws.entryKeys[d.Location()]; !known {
		ws.entries = append(ws.entries, d.Location())
	}
	ws.entryKeys[d.Location()] = append(ws.entryKeys[d.Location()], d.Key())
	ws.byKey[d.Key()] = d
	slog.Debug("Added distribution to working set.", "key", d.Key(), "location", d.Location())
}

// Find returns the distribution registered under the given normalized key.
func (ws *WorkingSet) Find(key string) (*Distribution, bool) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	d, ok := ws.byKey[key]
	return d, ok
}

// Remove deletes a distribution and unwinds its location bookkeeping: the
// key leaves the location's key list, and the location itself is dropped
// once its last key is gone.
func (ws *WorkingSet) Remove(d *Distribution) {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	delete(ws.byKey, d.Key())

	keys := ws.entryKeys[d.Location()]
	for i, k := range keys {
		if k == d.Key() {
			keys = append(keys[:i], keys[i+1:]...)
			break
		}
	}
	if len(keys) == 0 {
		delete(ws.entryKeys, d.Location())
		for i, loc := range ws.entries {
			if loc == d.Location() {
				ws.entries = append(ws.entries[:i], ws.entries[i+1:]...)
				break
			}
		}
	} else {
		ws.entryKeys[d.Location()] = keys
	}
	slog.Debug("Removed distribution from working set.", "key", d.Key(), "location", d.Location())
}

// EntryPoints returns every entry point registered under the group, across
// all distributions, in registration order.
func (ws *WorkingSet) EntryPoints(group string) []*entrypoint.EntryPoint {
	ws.mu.Lock()
	defer ws.mu.Unlock()

	var eps []*entrypoint.EntryPoint
	for _, loc := range ws.entries {
		for _, key := range ws.entryKeys[loc] {
			if d, ok := ws.byKey[key]; ok {
				eps = append(eps, d.EntryPoints(group)...)
			}
		}
	}
	return eps
}

// Locations returns the known distribution locations in insertion order.
func (ws *WorkingSet) Locations() []string {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]string(nil), ws.entries...)
}
