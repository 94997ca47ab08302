package workingset

import (
	"github.com/h4l/prybar/entrypoint"
)

// Distribution is a unit of ownership in a working set: a project name, the
// location it was loaded from, and the entry points it provides. Group
// tables preserve insertion order so entry points iterate in the order they
// were registered.
type Distribution struct {
	projectName string
	key         string
	location    string
	groups      map[string]*group
}

type group struct {
	names  []string
	byName map[string]*entrypoint.EntryPoint
}

// NewDistribution creates an empty distribution for the given project name
// and location. The working-set key is derived from the project name.
func NewDistribution(projectName, location string) *Distribution {
	return &Distribution{
		projectName: projectName,
		key:         Key(projectName),
		location:    location,
		groups:      make(map[string]*group),
	}
}

// ProjectName returns the raw, unnormalized project name.
func (d *Distribution) ProjectName() string { return d.projectName }

// Key returns the normalized working-set key.
func (d *Distribution) Key() string { return d.key }

// Location returns where the distribution was loaded from.
func (d *Distribution) Location() string { return d.location }

// Get returns the entry point registered under (group, name).
func (d *Distribution) Get(groupName, name string) (*entrypoint.EntryPoint, bool) {
	g, ok := d.groups[groupName]
	if !ok {
		return nil, false
	}
	ep, ok := g.byName[name]
	return ep, ok
}

// Insert registers an entry point under (group, name), creating the group
// if needed. An existing entry under the same name is overwritten; callers
// check Get first when overwriting is an error.
func (d *Distribution) Insert(groupName, name string, ep *entrypoint.EntryPoint) {
	g, ok := d.groups[groupName]
	if !ok {
		g = &group{byName: make(map[string]*entrypoint.EntryPoint)}
		d.groups[groupName] = g
	}
	if _, exists := g.byName[name]; !exists {
		g.names = append(g.names, name)
	}
	g.byName[name] = ep
}

// Remove deletes the entry under (group, name), dropping the group when it
// becomes empty. It reports whether an entry was removed.
func (d *Distribution) Remove(groupName, name string) bool {
	g, ok := d.groups[groupName]
	if !ok {
		return false
	}
	if _, exists := g.byName[name]; !exists {
		return false
	}

	delete(g.byName, name)
	for i, n := range g.names {
		if n == name {
			g.names = append(g.names[:i], g.names[i+1:]...)
			break
		}
	}
	if len(g.byName) == 0 {
		delete(d.groups, groupName)
	}
	return true
}

// EntryPoints returns the group's entry points in registration order.
func (d *Distribution) EntryPoints(groupName string) []*entrypoint.EntryPoint {
	g, ok := d.groups[groupName]
	if !ok {
		return nil
	}
	eps := make([]*entrypoint.EntryPoint, 0, len(g.names))
	for _, name := range g.names {
		eps = append(eps, g.byName[name])
	}
	return eps
}

// IsEmpty reports whether the distribution provides no entry points.
func (d *Distribution) IsEmpty() bool { return len(d.groups) == 0 }
