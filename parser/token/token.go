// Copyright © 2026 The apexls authors

// Package token defines the lexical tokens of Apex source and a scanner
// that produces them with byte offsets and line/column locations.
package token

import (
	"fmt"
	"strings"
)

type Token struct {
	Type   Type
	Text   string
	Source *Location
}

// End returns the byte offset just past the token.
func (tok *Token) End() int {
	return tok.Source.Pos + len(tok.Text)
}

// Is reports whether tok is the given punctuation or, for identifiers,
// the given keyword compared case-insensitively (Apex keywords are not
// case sensitive).
func (tok *Token) Is(text string) bool {
	if tok.Type == IDENT {
		return strings.EqualFold(tok.Text, text)
	}
	return tok.Text == text
}

type Type uint

// Type constants used by the Apex scanner and parser.
const (
	INVALID Type = iota
	ERROR
	EOF

	IDENT
	INT
	FLOAT
	STRING

	COMMENT

	// OPERATOR covers every operator and punctuation sequence; the exact
	// operator is found in Token.Text.
	OPERATOR

	// Delimiters
	PAREN_L
	PAREN_R
	BRACE_L
	BRACE_R
	BRACKET_L
	BRACKET_R
	SEMI
	COMMA
	DOT
	SAFE_DOT
	AT

	numTokenTypes
)

func (typ Type) String() string {
	typeStrings := [numTokenTypes]string{
		INVALID:   "invalid",
		ERROR:     "error",
		EOF:       "EOF",
		IDENT:     "identifier",
		INT:       "int",
		FLOAT:     "float",
		STRING:    "string",
		COMMENT:   "comment",
		OPERATOR:  "operator",
		PAREN_L:   "(",
		PAREN_R:   ")",
		BRACE_L:   "{",
		BRACE_R:   "}",
		BRACKET_L: "[",
		BRACKET_R: "]",
		SEMI:      ";",
		COMMA:     ",",
		DOT:       ".",
		SAFE_DOT:  "?.",
		AT:        "@",
	}
	if typ >= numTokenTypes {
		return typeStrings[INVALID]
	}
	return typeStrings[typ]
}

type Location struct {
	File string // a name representing the source stream
	Pos  int    // byte offset (starting at 0)
	Line int    // line number (starting at 1 when tracked)
	Col  int    // line column number (starting at 1 when tracked)
}

func (loc *Location) String() string {
	switch {
	case loc.Pos < 0:
		return loc.File
	case loc.Line == 0:
		return fmt.Sprintf("%s[%d]", loc.File, loc.Pos)
	case loc.Col == 0:
		return fmt.Sprintf("%s:%d", loc.File, loc.Line)
	default:
		return fmt.Sprintf("%s:%d:%d", loc.File, loc.Line, loc.Col)
	}
}

type LocationError struct {
	Err    error
	Source *Location
}

func (err *LocationError) Error() string {
	return fmt.Sprintf("%v: %v", err.Source, err.Err)
}

func (err *LocationError) Unwrap() error {
	return err.Err
}
