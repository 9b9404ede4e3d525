// Package configure models the type descriptors an ahead-of-time build
// records for types that need synthesized runtime support, and the
// registry that deduplicates, orders and serializes them.
//
// Descriptors are immutable and validated on construction: a value that
// exists has passed CheckQualifiedName for every name it holds. The set of
// variants is closed; Descriptor carries an unexported method so only this
// package can implement it, and every dispatch site switches over the
// concrete types.
package configure

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
)

// Descriptor is the capability set shared by all descriptor variants.
type Descriptor interface {
	// Kind returns the variant tag
	Kind() Kind
	// AllQualifiedNames returns the distinct names this descriptor denotes,
	// sorted. The result is a fresh slice.
	AllQualifiedNames() []string
	// IsType reports whether the descriptor denotes a type, as opposed to a
	// member-level entry.
	IsType() bool
	// Compare orders descriptors: by Kind first, then by the variant rule.
	Compare(other Descriptor) int
	// WriteJSON writes the descriptor as a JSON object.
	WriteJSON(w *jsonwriter.Writer) error
	// String returns a human-readable label for diagnostics.
	String() string

	sealed()
}

// Compare returns a negative number when a sorts before b, zero when they
// are structurally equal and a positive number otherwise.
func Compare(a, b Descriptor) int {
	switch x := a.(type) {
	case *NamedDescriptor:
		if y, ok := b.(*NamedDescriptor); ok {
			return strings.Compare(x.name, y.name)
		}
	case *ProxyDescriptor:
		if y, ok := b.(*ProxyDescriptor); ok {
			return slices.Compare(x.interfaces, y.interfaces)
		}
	default:
		panic(fmt.Sprintf("configure: unknown descriptor type %T", a))
	}
	return cmp.Compare(a.Kind(), b.Kind())
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Descriptor) bool {
	return Compare(a, b) == 0
}

// Sort orders descriptors in place using Compare.
func Sort(descriptors []Descriptor) {
	slices.SortFunc(descriptors, Compare)
}

// identityKey returns a string that is equal for two descriptors exactly
// when they are structurally equal. Validated names never contain NUL.
func identityKey(d Descriptor) string {
	switch x := d.(type) {
	case *NamedDescriptor:
		return "N\x00" + x.name
	case *ProxyDescriptor:
		return "P\x00" + strings.Join(x.interfaces, "\x00")
	default:
		panic(fmt.Sprintf("configure: unknown descriptor type %T", d))
	}
}

// IsNil reports whether d is nil or a nil pointer to one of the variants.
func IsNil(d Descriptor) bool {
	switch x := d.(type) {
	case nil:
		return true
	case *NamedDescriptor:
		return x == nil
	case *ProxyDescriptor:
		return x == nil
	default:
		return false
	}
}

// IdentityKey exposes the structural identity of d for use as a map or
// cache key.
func IdentityKey(d Descriptor) string {
	return identityKey(d)
}

// New constructs a descriptor of the given kind from raw names. Named
// descriptors take exactly one name.
func New(kind Kind, names ...string) (Descriptor, error) {
	switch kind {
	case KindNamed:
		if len(names) != 1 {
			return nil, fmt.Errorf("%s descriptor takes exactly one name, got %d", kind, len(names))
		}
		d, err := NewNamed(names[0])
		if err != nil {
			return nil, err
		}
		return d, nil
	case KindProxy:
		d, err := NewProxy(names...)
		if err != nil {
			return nil, err
		}
		return d, nil
	default:
		return nil, fmt.Errorf("unknown descriptor kind %s", kind)
	}
}
