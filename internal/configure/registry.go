package configure

import (
	"io"
	"slices"
	"sync"

	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
)

// Registry is a set of descriptors keyed by structural identity.
//
// Add is safe for concurrent use. Serialize takes a point-in-time snapshot;
// callers must make sure producers are finished before flushing if the
// output has to contain everything they discovered.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]Descriptor
}

// NewRegistry returns an empty registry
func NewRegistry() *Registry {
	return &Registry{entries: make(map[string]Descriptor)}
}

// Add inserts d unless a structurally equal descriptor is already present.
// It reports whether d was inserted. Adding nil, including a typed nil
// pointer, is a no-op.
func (r *Registry) Add(d Descriptor) bool {
	if IsNil(d) {
		return false
	}
	key := identityKey(d)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[key]; exists {
		return false
	}
	r.entries[key] = d
	return true
}

// AddAll adds every descriptor and returns how many were new.
func (r *Registry) AddAll(descriptors ...Descriptor) int {
	added := 0
	for _, d := range descriptors {
		if r.Add(d) {
			added++
		}
	}
	return added
}

// Contains reports whether a descriptor structurally equal to d is present.
func (r *Registry) Contains(d Descriptor) bool {
	if IsNil(d) {
		return false
	}
	key := identityKey(d)

	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[key]
	return ok
}

// Len returns the number of distinct descriptors
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// All returns the descriptors in unspecified order.
func (r *Registry) All() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Descriptor, 0, len(r.entries))
	for _, d := range r.entries {
		all = append(all, d)
	}
	return all
}

// Sorted returns the descriptors ordered by Compare.
func (r *Registry) Sorted() []Descriptor {
	all := r.All()
	Sort(all)
	return all
}

// QualifiedNames returns the sorted union of AllQualifiedNames over every
// descriptor.
func (r *Registry) QualifiedNames() []string {
	seen := make(map[string]struct{})
	for _, d := range r.All() {
		for _, name := range d.AllQualifiedNames() {
			seen[name] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// WriteJSON writes the sorted descriptors as a JSON array.
func (r *Registry) WriteJSON(w *jsonwriter.Writer) error {
	return jsonwriter.PrintCollection(w, r.Sorted(), func(w *jsonwriter.Writer, d Descriptor) error {
		return d.WriteJSON(w)
	})
}

// Serialize writes the registry to w as a JSON document terminated by a
// newline. The output depends only on the set of descriptors, never on the
// order they were added in.
func (r *Registry) Serialize(w io.Writer, opts ...jsonwriter.Option) error {
	jw := jsonwriter.New(w, opts...)
	if err := r.WriteJSON(jw); err != nil {
		return err
	}
	jw.Append("\n")
	return jw.Flush()
}
