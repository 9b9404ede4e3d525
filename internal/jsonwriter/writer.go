// Package jsonwriter provides a small streaming JSON writer with explicit
// indentation control. Configuration artifacts are diffed by humans and
// compared byte-for-byte by the build cache, so layout is decided by the
// caller rather than by encoding/json.
package jsonwriter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"strings"
)

// DefaultIndent is the number of spaces per indentation level.
const DefaultIndent = 2

// Option configures a Writer
type Option func(*Writer)

// WithIndent sets the number of spaces per indentation level.
// Zero disables indentation but keeps newlines.
func WithIndent(spaces int) Option {
	return func(w *Writer) {
		if spaces >= 0 {
			w.unit = strings.Repeat(" ", spaces)
		}
	}
}

// Writer writes JSON tokens to an underlying io.Writer.
//
// The first write error is sticky: once it happens every later call is a
// no-op and Flush/Err report it. This lets printers chain calls and check
// the error once at the end.
type Writer struct {
	out   *bufio.Writer
	unit  string
	depth int
	err   error

	scratch bytes.Buffer
	enc     *json.Encoder
}

// New creates a Writer on top of w
func New(w io.Writer, opts ...Option) *Writer {
	jw := &Writer{
		out:  bufio.NewWriter(w),
		unit: strings.Repeat(" ", DefaultIndent),
	}
	jw.enc = json.NewEncoder(&jw.scratch)
	jw.enc.SetEscapeHTML(false)
	for _, opt := range opts {
		opt(jw)
	}
	return jw
}

// Append writes s verbatim.
func (w *Writer) Append(s string) *Writer {
	if w.err != nil {
		return w
	}
	_, w.err = w.out.WriteString(s)
	return w
}

// Quote writes s as a JSON string literal.
func (w *Writer) Quote(s string) *Writer {
	if w.err != nil {
		return w
	}
	w.scratch.Reset()
	if err := w.enc.Encode(s); err != nil {
		w.err = err
		return w
	}
	// Encoder terminates every value with '\n'
	_, w.err = w.out.Write(bytes.TrimSuffix(w.scratch.Bytes(), []byte{'\n'}))
	return w
}

// Member writes a quoted key followed by a colon.
func (w *Writer) Member(key string) *Writer {
	return w.Quote(key).Append(":")
}

// Indent increases the indentation level used by subsequent newlines.
func (w *Writer) Indent() *Writer {
	w.depth++
	return w
}

// Unindent decreases the indentation level used by subsequent newlines.
func (w *Writer) Unindent() *Writer {
	if w.depth > 0 {
		w.depth--
	}
	return w
}

// Newline writes a line break followed by the current indentation.
func (w *Writer) Newline() *Writer {
	w.Append("\n")
	for i := 0; i < w.depth; i++ {
		w.Append(w.unit)
	}
	return w
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.out.Flush()
	return w.err
}

// PrintCollection writes items as a JSON array, one element per line.
// An empty slice is written as [].
func PrintCollection[T any](w *Writer, items []T, printElem func(*Writer, T) error) error {
	if len(items) == 0 {
		return w.Append("[]").Err()
	}
	w.Append("[").Indent().Newline()
	for i, item := range items {
		if i > 0 {
			w.Append(",").Newline()
		}
		if err := w.Err(); err != nil {
			return err
		}
		if err := printElem(w, item); err != nil {
			return err
		}
	}
	return w.Unindent().Newline().Append("]").Err()
}
