package configure

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// CheckQualifiedName returns name unchanged if it is a syntactically legal
// fully-qualified type name, and a *NameError otherwise.
//
// A qualified name is one or more identifiers separated by single dots.
// Identifiers follow the host type system's rules: the first rune is a
// letter, '_', '$', a currency symbol, connecting punctuation or a letter
// number; later runes may additionally be digits or combining marks.
// Nothing is trimmed or otherwise repaired.
func CheckQualifiedName(name string) (string, error) {
	return checkQualifiedName(name, -1)
}

// IsQualifiedName reports whether name passes CheckQualifiedName.
func IsQualifiedName(name string) bool {
	return validateQualifiedName(name) == ""
}

func checkQualifiedName(name string, index int) (string, error) {
	if reason := validateQualifiedName(name); reason != "" {
		return "", &NameError{Name: name, Index: index, Reason: reason}
	}
	return name, nil
}

// validateQualifiedName returns an empty string for valid names and the
// reason for rejection otherwise.
func validateQualifiedName(name string) string {
	if name == "" {
		return "name is empty"
	}
	if !utf8.ValidString(name) {
		return "name is not valid UTF-8"
	}

	rest := name
	for {
		segment, tail, more := strings.Cut(rest, ".")
		if reason := validateIdentifier(segment); reason != "" {
			return reason
		}
		if !more {
			return ""
		}
		rest = tail
	}
}

func validateIdentifier(segment string) string {
	if segment == "" {
		return "empty segment"
	}
	for i, r := range segment {
		if i == 0 {
			if !isIdentifierStart(r) {
				return "segment " + quoteSegment(segment) + " has an invalid leading character"
			}
			continue
		}
		if !isIdentifierPart(r) {
			return "segment " + quoteSegment(segment) + " contains an invalid character"
		}
	}
	return ""
}

func isIdentifierStart(r rune) bool {
	switch {
	case r == '_' || r == '$':
		return true
	case unicode.IsLetter(r):
		return true
	case unicode.Is(unicode.Sc, r), unicode.Is(unicode.Pc, r), unicode.Is(unicode.Nl, r):
		return true
	}
	return false
}

// isIdentifierPart also admits format characters (Cf) such as U+200B,
// which are ignorable inside identifiers. The ignorable ISO control
// characters stay rejected: NUL separates names in identity keys.
func isIdentifierPart(r rune) bool {
	if isIdentifierStart(r) {
		return true
	}
	return unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Cf)
}

func quoteSegment(s string) string {
	return "'" + s + "'"
}
