// Package configfile reads and writes the JSON configuration artifacts that
// hold type descriptors.
//
// Reading is split in two steps. Decode checks the document shape and
// returns raw entries; Entry.Descriptor then runs the names through the
// descriptor constructors, which are the only validation gate. This lets
// callers decide per entry whether a bad name aborts the whole file.
package configfile

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/conduit-lang/aotcfg/internal/configure"
)

// ErrMalformed is returned for documents that are not a JSON array of
// single-member descriptor objects.
var ErrMalformed = errors.New("malformed configuration")

// Entry is one undecoded element of a configuration document
type Entry struct {
	// Index is the position of the entry in its document
	Index int
	// Kind is derived from the member key
	Kind configure.Kind
	// Names holds the raw type name (named) or interface names (proxy)
	Names []string
}

// Descriptor validates the entry and constructs its descriptor.
func (e Entry) Descriptor() (configure.Descriptor, error) {
	return configure.New(e.Kind, e.Names...)
}

// Label is a human-readable rendering for diagnostics
func (e Entry) Label() string {
	if e.Kind == configure.KindProxy {
		return configure.ProxyLabel(e.Names...)
	}
	return strings.Join(e.Names, ", ")
}

// Decode reads a configuration document from r. The document is read
// token by token so duplicate members within an entry are caught rather
// than collapsed.
func Decode(r io.Reader) ([]Entry, error) {
	dec := json.NewDecoder(r)
	if err := expectDelim(dec, '['); err != nil {
		return nil, fmt.Errorf("%w: top level: %v", ErrMalformed, err)
	}

	var entries []Entry
	for i := 0; dec.More(); i++ {
		entry, err := decodeEntry(dec)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %v", ErrMalformed, i, err)
		}
		entry.Index = i
		entries = append(entries, entry)
	}
	if err := expectDelim(dec, ']'); err != nil {
		return nil, fmt.Errorf("%w: top level: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after top-level array", ErrMalformed)
	}

	if entries == nil {
		entries = []Entry{}
	}
	return entries, nil
}

// expectDelim consumes the next token and checks that it is want
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if got, ok := tok.(json.Delim); !ok || got != want {
		return fmt.Errorf("expected %q, got %s", want, describeToken(tok))
	}
	return nil
}

func describeToken(tok json.Token) string {
	switch v := tok.(type) {
	case nil:
		return "null"
	case json.Delim:
		return fmt.Sprintf("%q", v)
	case string:
		return fmt.Sprintf("string %q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func decodeEntry(dec *json.Decoder) (Entry, error) {
	if err := expectDelim(dec, '{'); err != nil {
		return Entry{}, err
	}

	var (
		member string
		value  json.RawMessage
		count  int
		seen   = make(map[string]struct{}, 1)
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return Entry{}, err
		}
		key, ok := tok.(string)
		if !ok {
			return Entry{}, fmt.Errorf("expected member name, got %s", describeToken(tok))
		}
		if _, dup := seen[key]; dup {
			return Entry{}, fmt.Errorf("duplicate member %q", key)
		}
		seen[key] = struct{}{}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return Entry{}, err
		}
		member, value = key, raw
		count++
	}
	if err := expectDelim(dec, '}'); err != nil {
		return Entry{}, err
	}
	if count != 1 {
		return Entry{}, fmt.Errorf("expected exactly one member, got %d", count)
	}

	kind, ok := configure.KindForMember(member)
	if !ok {
		return Entry{}, fmt.Errorf("unknown member %q", member)
	}
	if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
		return Entry{}, fmt.Errorf("member %q must not be null", member)
	}

	switch kind {
	case configure.KindNamed:
		var name string
		if err := json.Unmarshal(value, &name); err != nil {
			return Entry{}, fmt.Errorf("member %q must be a string", member)
		}
		return Entry{Kind: kind, Names: []string{name}}, nil
	case configure.KindProxy:
		var elements []json.RawMessage
		if err := json.Unmarshal(value, &elements); err != nil {
			return Entry{}, fmt.Errorf("member %q must be an array of strings", member)
		}
		names := make([]string, len(elements))
		for i, element := range elements {
			if bytes.Equal(bytes.TrimSpace(element), []byte("null")) {
				return Entry{}, fmt.Errorf("member %q element %d must not be null", member, i)
			}
			if err := json.Unmarshal(element, &names[i]); err != nil {
				return Entry{}, fmt.Errorf("member %q must be an array of strings", member)
			}
		}
		return Entry{Kind: kind, Names: names}, nil
	default:
		panic(fmt.Sprintf("configfile: no decoder for kind %s", kind))
	}
}

// Read loads and decodes a configuration file. Files ending in .gz are
// decompressed first.
func Read(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if strings.HasSuffix(path, GzipSuffix) {
		data, err = Decompress(data)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
	}

	entries, err := Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
