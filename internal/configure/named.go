package configure

import "github.com/conduit-lang/aotcfg/internal/jsonwriter"

// NamedDescriptor identifies a single type by its qualified name.
type NamedDescriptor struct {
	name string
}

// NewNamed validates name and wraps it in a descriptor.
func NewNamed(name string) (*NamedDescriptor, error) {
	checked, err := CheckQualifiedName(name)
	if err != nil {
		return nil, err
	}
	return &NamedDescriptor{name: checked}, nil
}

// Name returns the qualified type name
func (d *NamedDescriptor) Name() string {
	return d.name
}

func (d *NamedDescriptor) Kind() Kind {
	return KindNamed
}

func (d *NamedDescriptor) AllQualifiedNames() []string {
	return []string{d.name}
}

func (d *NamedDescriptor) IsType() bool {
	return true
}

func (d *NamedDescriptor) Compare(other Descriptor) int {
	return Compare(d, other)
}

// WriteJSON writes {"type":"<name>"}.
func (d *NamedDescriptor) WriteJSON(w *jsonwriter.Writer) error {
	w.Append("{").Indent().Newline()
	w.Member(KindNamed.Member()).Quote(d.name)
	return w.Unindent().Newline().Append("}").Err()
}

func (d *NamedDescriptor) String() string {
	return d.name
}

func (*NamedDescriptor) sealed() {}
