// Copyright © 2026 The apexls authors

// Package diagnostic renders annotated source snippets for problems found
// in Apex files, in the style of the Rust compiler. The CLI uses it to
// print syntax errors.
package diagnostic

import (
	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/parser/token"
)

// Severity indicates the severity level of a diagnostic.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityNote
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	case SeverityNote:
		return "note"
	default:
		return "unknown"
	}
}

// Span identifies a region of source code to highlight.
type Span struct {
	File   string // path for reading source; display name if unreadable
	Line   int    // 1-based line number
	Col    int    // 1-based start column
	EndCol int    // 1-based end column (0 = end of the token at Col)
	Label  string // text shown under the underline
}

// Diagnostic is a single error, warning or note with optional source
// annotations and trailing notes.
type Diagnostic struct {
	Severity Severity
	Message  string
	Spans    []Span
	Notes    []string
}

// FromSyntaxErrors converts parser errors to error diagnostics pointing at
// the offending token.
func FromSyntaxErrors(errs []*token.LocationError) []Diagnostic {
	diags := make([]Diagnostic, 0, len(errs))
	for _, e := range errs {
		d := Diagnostic{Severity: SeverityError, Message: syntaxMessage(e)}
		if loc := e.Source; loc != nil && loc.Line > 0 {
			d.Spans = []Span{{File: loc.File, Line: loc.Line, Col: loc.Col}}
		}
		diags = append(diags, d)
	}
	return diags
}

// syntaxMessage returns the innermost message of a located error, since
// the span already carries the location.
func syntaxMessage(e *token.LocationError) string {
	if e.Err == nil {
		return e.Error()
	}
	var inner *token.LocationError
	if errors.As(e.Err, &inner) {
		return syntaxMessage(inner)
	}
	return e.Err.Error()
}
