package configure

import (
	"slices"
	"strings"

	"github.com/conduit-lang/aotcfg/internal/jsonwriter"
)

// ProxyDescriptor identifies a synthesized dynamic-proxy class by the
// ordered list of interfaces it implements.
//
// Identity is the ordered list: [A B] and [B A] are distinct descriptors
// even though they usually denote the same runtime proxy class.
type ProxyDescriptor struct {
	interfaces []string
}

// NewProxy validates every interface name and returns a descriptor holding
// them in the given order. It fails with ErrEmptyProxyInterfaceSet when no
// interfaces are given and with a *NameError naming the first invalid entry.
func NewProxy(interfaces ...string) (*ProxyDescriptor, error) {
	if len(interfaces) == 0 {
		return nil, ErrEmptyProxyInterfaceSet
	}
	checked := make([]string, len(interfaces))
	for i, name := range interfaces {
		valid, err := checkQualifiedName(name, i)
		if err != nil {
			return nil, err
		}
		checked[i] = valid
	}
	return &ProxyDescriptor{interfaces: checked}, nil
}

// Interfaces returns a copy of the interface names in stored order
func (d *ProxyDescriptor) Interfaces() []string {
	return slices.Clone(d.interfaces)
}

func (d *ProxyDescriptor) Kind() Kind {
	return KindProxy
}

func (d *ProxyDescriptor) AllQualifiedNames() []string {
	names := slices.Clone(d.interfaces)
	slices.Sort(names)
	return slices.Compact(names)
}

func (d *ProxyDescriptor) IsType() bool {
	return true
}

func (d *ProxyDescriptor) Compare(other Descriptor) int {
	return Compare(d, other)
}

// WriteJSON writes {"proxy":[...]} with the interfaces in stored order.
func (d *ProxyDescriptor) WriteJSON(w *jsonwriter.Writer) error {
	w.Append("{").Indent().Newline()
	w.Member(KindProxy.Member())
	if err := jsonwriter.PrintCollection(w, d.interfaces, func(w *jsonwriter.Writer, name string) error {
		return w.Quote(name).Err()
	}); err != nil {
		return err
	}
	return w.Unindent().Newline().Append("}").Err()
}

// String returns the label used by the proxy-class naming convention.
func (d *ProxyDescriptor) String() string {
	return ProxyLabel(d.interfaces...)
}

func (*ProxyDescriptor) sealed() {}

// ProxyLabel joins interface names the way synthesized proxy classes are
// labelled in diagnostics.
func ProxyLabel(interfaces ...string) string {
	return "$Proxy[" + strings.Join(interfaces, ", ") + "]"
}
