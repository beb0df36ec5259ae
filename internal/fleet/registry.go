package fleet

import (
	"fmt"
	"sort"
	"strings"
)

// Registry is the closed set of known device identities.
//
// The set is fixed at construction and never grows or shrinks at runtime;
// unknown identities are inert input everywhere downstream. Lookups are
// read-only after construction, so no locking is needed.
type Registry struct {
	names []string
	known map[string]bool
}

// NewRegistry builds a registry from the configured identity list.
//
// Identities must be non-empty, free of topic separators, and unique.
func NewRegistry(names []string) (*Registry, error) {
	if len(names) == 0 {
		return nil, ErrNoDevices
	}

	r := &Registry{
		names: make([]string, 0, len(names)),
		known: make(map[string]bool, len(names)),
	}
	for _, name := range names {
		if name == "" {
			return nil, fmt.Errorf("fleet: device identity cannot be empty")
		}
		if strings.ContainsAny(name, "/#+") {
			return nil, fmt.Errorf("fleet: device identity %q contains topic separator characters", name)
		}
		if r.known[name] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateDevice, name)
		}
		r.known[name] = true
		r.names = append(r.names, name)
	}

	sort.Strings(r.names)
	return r, nil
}

// Known reports whether name is in the identity set.
func (r *Registry) Known(name string) bool {
	return r.known[name]
}

// Names returns the identity set in sorted order. The returned slice is a
// copy; callers may modify it freely.
func (r *Registry) Names() []string {
	out := make([]string, len(r.names))
	copy(out, r.names)
	return out
}

// Size returns the number of known identities.
func (r *Registry) Size() int {
	return len(r.names)
}
