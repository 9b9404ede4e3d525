// Package ui renders terminal diagnostics for the aotcfg command line.
package ui

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/conduit-lang/aotcfg/internal/configure"
)

// ErrorLevel represents the severity of a diagnostic
type ErrorLevel int

const (
	ErrorLevelError ErrorLevel = iota
	ErrorLevelWarning
	ErrorLevelInfo
)

// ErrorOptions configures diagnostic formatting
type ErrorOptions struct {
	Level        ErrorLevel
	Context      string
	Problem      string
	Detail       string
	Suggestions  []string
	HelpCommands []string
	NoColor      bool
}

// FormatError renders a diagnostic block.
//
// Example output:
//
//	❌ INVALID NAME: com.example..Foo
//	   proxy-config.json, entry 3: empty segment
//
//	   Did you mean: com.example.Foo?
//
//	   → Validate again: aotcfg check proxy-config.json
func FormatError(opts ErrorOptions) string {
	var b strings.Builder

	var headerColor, bodyColor *color.Color
	var symbol string

	switch opts.Level {
	case ErrorLevelWarning:
		headerColor = color.New(color.FgYellow, color.Bold)
		bodyColor = color.New(color.FgYellow)
		symbol = "⚠️"
	case ErrorLevelInfo:
		headerColor = color.New(color.FgCyan, color.Bold)
		bodyColor = color.New(color.FgCyan)
		symbol = "ℹ️"
	default:
		headerColor = color.New(color.FgRed, color.Bold)
		bodyColor = color.New(color.FgRed)
		symbol = "❌"
	}

	hint := color.New(color.FgYellow)
	help := color.New(color.FgCyan)
	if opts.NoColor {
		for _, c := range []*color.Color{headerColor, bodyColor, hint, help} {
			c.DisableColor()
		}
	}

	if opts.Context != "" {
		headerColor.Fprintf(&b, "%s %s: %s\n", symbol, strings.ToUpper(opts.Context), opts.Problem)
	} else {
		headerColor.Fprintf(&b, "%s %s\n", symbol, opts.Problem)
	}

	if opts.Detail != "" {
		bodyColor.Fprintf(&b, "   %s\n", opts.Detail)
	}

	if len(opts.Suggestions) > 0 {
		b.WriteString("\n")
		hint.Fprintf(&b, "   Did you mean: %s?\n", strings.Join(opts.Suggestions, ", "))
	}

	if len(opts.HelpCommands) > 0 {
		b.WriteString("\n")
		for _, cmd := range opts.HelpCommands {
			help.Fprintf(&b, "   → %s\n", cmd)
		}
	}

	return b.String()
}

// WriteError writes a formatted diagnostic to w
func WriteError(w io.Writer, opts ErrorOptions) {
	fmt.Fprint(w, FormatError(opts))
}

// FormatSuccess creates a success message
func FormatSuccess(message string, noColor bool) string {
	green := color.New(color.FgGreen, color.Bold)
	if noColor {
		green.DisableColor()
	}
	return green.Sprintf("✓ %s", message)
}

// WriteSuccess writes a success message to the writer
func WriteSuccess(w io.Writer, message string, noColor bool) {
	fmt.Fprintln(w, FormatSuccess(message, noColor))
}

// RejectedEntry describes a configuration entry that failed validation.
//
// source names the analysis step or file that produced it; known holds
// names already accepted in the same pass and feeds the suggestions.
func RejectedEntry(source string, err error, known []string, noColor bool) string {
	opts := ErrorOptions{
		Level:   ErrorLevelError,
		NoColor: noColor,
	}

	var nameErr *configure.NameError
	switch {
	case errors.As(err, &nameErr):
		opts.Context = "INVALID NAME"
		opts.Problem = quoteName(nameErr.Name)
		opts.Detail = fmt.Sprintf("%s: %s", source, nameErr.Reason)
		if nameErr.Index >= 0 {
			opts.Detail = fmt.Sprintf("%s: interface %d: %s", source, nameErr.Index, nameErr.Reason)
		}
		opts.Suggestions = FindSimilar(nameErr.Name, known, nil)
	case errors.Is(err, configure.ErrEmptyProxyInterfaceSet):
		opts.Context = "EMPTY PROXY"
		opts.Problem = "proxy entry lists no interfaces"
		opts.Detail = source
	default:
		opts.Context = "REJECTED"
		opts.Problem = err.Error()
		opts.Detail = source
	}
	opts.HelpCommands = []string{
		"Names must be dot-separated identifiers, e.g. com.example.Foo",
	}

	return FormatError(opts)
}

// ConfigError creates a standardized configuration error
func ConfigError(message string, noColor bool) string {
	return FormatError(ErrorOptions{
		Level:   ErrorLevelError,
		Context: "CONFIGURATION ERROR",
		Problem: message,
		HelpCommands: []string{
			"View config: cat aotcfg.yaml",
			"Get help: aotcfg --help",
		},
		NoColor: noColor,
	})
}

func quoteName(name string) string {
	if name == "" {
		return `""`
	}
	return name
}
