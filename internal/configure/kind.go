package configure

import "fmt"

// Kind distinguishes descriptor variants. The numeric order is the outer
// tie-break of Compare and is part of the serialized ordering, so new kinds
// are only ever appended.
type Kind int

const (
	// KindNamed marks a NamedDescriptor
	KindNamed Kind = iota
	// KindProxy marks a ProxyDescriptor
	KindProxy
)

var kindNames = [...]string{
	KindNamed: "named",
	KindProxy: "proxy",
}

// JSON member keys; part of the compatibility contract with downstream
// tooling.
var kindMembers = [...]string{
	KindNamed: "type",
	KindProxy: "proxy",
}

// Kinds returns every known kind in order.
func Kinds() []Kind {
	return []Kind{KindNamed, KindProxy}
}

func (k Kind) valid() bool {
	return k >= 0 && int(k) < len(kindNames)
}

func (k Kind) String() string {
	if !k.valid() {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

// Member returns the JSON member key a descriptor of this kind is written
// under.
func (k Kind) Member() string {
	if !k.valid() {
		return ""
	}
	return kindMembers[k]
}

// KindForMember maps a JSON member key back to its kind.
func KindForMember(member string) (Kind, bool) {
	for _, k := range Kinds() {
		if kindMembers[k] == member {
			return k, true
		}
	}
	return 0, false
}
