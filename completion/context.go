// Copyright © 2026 The apexls authors

package completion

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/parser/token"
)

// ErrUnsupported is returned when the cursor is in a position the engine
// deliberately does not complete: constructor names after "new", and
// members of receivers that are not plain identifiers (call results,
// literals, casts) or that name a method or constructor.
var ErrUnsupported = errors.New("unsupported completion context")

// ContextKind classifies the cursor position.
type ContextKind int

const (
	None     ContextKind = iota // nothing to complete
	TopLevel                    // a bare identifier
	Member                      // an identifier after "." or "?."
)

func (k ContextKind) String() string {
	switch k {
	case None:
		return "none"
	case TopLevel:
		return "top-level"
	case Member:
		return "member"
	default:
		return "unknown"
	}
}

// Context describes what is being completed at Offset.
type Context struct {
	Kind ContextKind
	// Prefix is the partial identifier immediately before the cursor.
	Prefix string
	// ObjectName is the receiver text before the dot (Member only).
	ObjectName string
	// TypeName is the resolved static type of the receiver (Member only).
	TypeName string
	// StaticAccess is set when the receiver names a type rather than a
	// value, so only static members apply. A value receiver is static access
	// only when its text equals TypeName exactly; "account" of type Account
	// is instance access.
	StaticAccess bool
	Offset       int
}

const selfKeyword = "this"

// Detect classifies the cursor at offset in text. decls should already be
// expanded for offset (see analysis.Expand) so that locals and members are
// found. Detect is deterministic and never panics on malformed input.
func Detect(text string, offset int, decls []analysis.Declaration) (Context, error) {
	none := Context{Kind: None, Offset: offset}
	if offset < 0 || offset > len(text) || inCommentOrString(text, offset) {
		return none, nil
	}
	start := offset
	for start > 0 && token.IsIdentChar(text[start-1]) {
		start--
	}
	prefix := text[start:offset]
	c := Context{Kind: TopLevel, Prefix: prefix, Offset: offset}

	dot := findDot(text, start)
	if dot < 0 {
		if precededByNew(text, start) {
			return Context{Kind: None, Prefix: prefix, Offset: offset}, ErrUnsupported
		}
		return c, nil
	}

	c.Kind = Member
	object, ok := receiver(text, dot)
	if !ok {
		return c, ErrUnsupported
	}
	c.ObjectName = object

	if strings.EqualFold(object, selfKeyword) {
		t := analysis.EnclosingType(decls, offset)
		if t == nil {
			return c, ErrUnsupported
		}
		c.TypeName = t.Name
		return c, nil
	}

	d := analysis.Lookup(decls, object, offset)
	qualified := false
	if d == nil {
		d = analysis.LookupQualified(decls, object)
		qualified = true
	}
	if d == nil {
		// Unknown here; the resolver may still find it in the workspace.
		c.TypeName = object
		c.StaticAccess = true
		return c, nil
	}
	switch d.Kind() {
	case analysis.KindType:
		c.TypeName = d.Info().Name
		if qualified {
			c.TypeName = d.(*analysis.TypeDecl).QualifiedName()
		}
		c.StaticAccess = true
	case analysis.KindField, analysis.KindProperty, analysis.KindLocal, analysis.KindEnumValue:
		c.TypeName = analysis.DeclaredType(d)
		// "Account." still names the type when a local "account" shadows it.
		c.StaticAccess = object == c.TypeName
	case analysis.KindMethod, analysis.KindConstructor:
		return c, ErrUnsupported
	}
	return c, nil
}

// findDot returns the offset of the "." (or the "?" of "?.") immediately
// before start, skipping whitespace, or -1.
func findDot(text string, start int) int {
	i := skipSpaceBack(text, start)
	if i == 0 || text[i-1] != '.' {
		return -1
	}
	if i >= 2 && text[i-2] == '?' {
		return i - 2
	}
	return i - 1
}

// receiver extracts the qualified identifier ending just before dot. It
// reports false when the receiver is not a plain qualified identifier.
func receiver(text string, dot int) (string, bool) {
	end := skipSpaceBack(text, dot)
	i := end
scan:
	for i > 0 {
		c := text[i-1]
		switch {
		case token.IsIdentChar(c), c == '.':
		case c == '?' && i < end && text[i] == '.':
		default:
			break scan
		}
		i--
	}
	// The chain continues through a call, index or cast: "foo().bar".
	if i < end && (text[i] == '.' || text[i] == '?') {
		return "", false
	}
	if j := skipSpaceBack(text, i); j > 0 && text[j-1] == '.' {
		return "", false
	}
	object := strings.Trim(strings.ReplaceAll(text[i:end], "?.", "."), ".")
	if object == "" || strings.Contains(object, "..") || isDigit(object[0]) {
		return "", false
	}
	return object, true
}

func precededByNew(text string, start int) bool {
	i := skipSpaceBack(text, start)
	if i == start || i < 3 || !strings.EqualFold(text[i-3:i], "new") {
		return false
	}
	return i == 3 || !token.IsIdentChar(text[i-4])
}

func skipSpaceBack(text string, i int) int {
	for i > 0 {
		switch text[i-1] {
		case ' ', '\t', '\r', '\n', '\f', '\v':
			i--
		default:
			return i
		}
	}
	return i
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

// inCommentOrString reports whether offset falls inside a comment or a
// string literal. A cursor right after a line comment is still inside it;
// a cursor right after a closing quote or "*/" is not.
func inCommentOrString(text string, offset int) bool {
	s := token.NewScanner("", []byte(text))
	s.KeepComments = true
	for {
		tok := s.Next()
		if tok.Type == token.EOF || tok.Source.Pos >= offset {
			return false
		}
		end := tok.End()
		switch tok.Type {
		case token.COMMENT:
			if strings.HasPrefix(tok.Text, "//") {
				if offset <= end {
					return true
				}
			} else if offset < end {
				return true
			}
		case token.STRING:
			if offset < end {
				return true
			}
		case token.ERROR:
			// Unterminated string or block comment.
			if (strings.HasPrefix(tok.Text, "'") || strings.HasPrefix(tok.Text, "/*")) && offset <= end {
				return true
			}
		}
	}
}
