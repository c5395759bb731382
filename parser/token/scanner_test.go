// Copyright © 2026 The apexls authors

package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scanAll(src string) []*Token {
	return NewScanner("test.cls", []byte(src)).All()
}

func tokenTexts(toks []*Token) []string {
	texts := make([]string, len(toks))
	for i, tok := range toks {
		texts[i] = tok.Text
	}
	return texts
}

func TestScannerBasic(t *testing.T) {
	toks := scanAll("public class Foo { Integer x = 42; }")
	assert.Equal(t,
		[]string{"public", "class", "Foo", "{", "Integer", "x", "=", "42", ";", "}"},
		tokenTexts(toks))
	assert.Equal(t, IDENT, toks[0].Type)
	assert.Equal(t, BRACE_L, toks[3].Type)
	assert.Equal(t, INT, toks[7].Type)
	assert.Equal(t, SEMI, toks[8].Type)
}

func TestScannerOffsets(t *testing.T) {
	toks := scanAll("a\n  bb.cc")
	require.Len(t, toks, 4)
	assert.Equal(t, 0, toks[0].Source.Pos)
	assert.Equal(t, 4, toks[1].Source.Pos)
	assert.Equal(t, 2, toks[1].Source.Line)
	assert.Equal(t, 3, toks[1].Source.Col)
	assert.Equal(t, 6, toks[1].End())
	assert.Equal(t, DOT, toks[2].Type)
}

func TestScannerSafeNavigation(t *testing.T) {
	toks := scanAll("acc?.Name")
	assert.Equal(t, []string{"acc", "?.", "Name"}, tokenTexts(toks))
	assert.Equal(t, SAFE_DOT, toks[1].Type)
}

func TestScannerComments(t *testing.T) {
	toks := scanAll("a // line\n/* block\n comment */ b")
	assert.Equal(t, []string{"a", "b"}, tokenTexts(toks))
	assert.Equal(t, 3, toks[1].Source.Line)

	s := NewScanner("test.cls", []byte("// keep"))
	s.KeepComments = true
	tok := s.Next()
	assert.Equal(t, COMMENT, tok.Type)
	assert.Equal(t, "// keep", tok.Text)
}

func TestScannerStrings(t *testing.T) {
	toks := scanAll(`x = 'it\'s';`)
	require.Len(t, toks, 4)
	assert.Equal(t, STRING, toks[2].Type)
	assert.Equal(t, `'it\'s'`, toks[2].Text)

	toks = scanAll("x = 'open\ny")
	require.Len(t, toks, 4)
	assert.Equal(t, ERROR, toks[2].Type)
	assert.Equal(t, "y", toks[3].Text)
}

func TestScannerNumbers(t *testing.T) {
	toks := scanAll("1 2.5 3L 4d 5.x")
	assert.Equal(t, []string{"1", "2.5", "3L", "4d", "5", ".", "x"}, tokenTexts(toks))
	assert.Equal(t, FLOAT, toks[1].Type)
	assert.Equal(t, INT, toks[2].Type)
	assert.Equal(t, FLOAT, toks[3].Type)
}

func TestScannerOperators(t *testing.T) {
	toks := scanAll("a >>>= b != c => d ++")
	assert.Equal(t, []string{"a", ">>>=", "b", "!=", "c", "=>", "d", "++"}, tokenTexts(toks))
}

func TestScannerEOFRepeats(t *testing.T) {
	s := NewScanner("test.cls", []byte("x"))
	assert.Equal(t, IDENT, s.Next().Type)
	assert.Equal(t, EOF, s.Next().Type)
	assert.Equal(t, EOF, s.Next().Type)
}

func TestScannerUnterminatedComment(t *testing.T) {
	toks := scanAll("a /* never closed")
	require.Len(t, toks, 2)
	assert.Equal(t, ERROR, toks[1].Type)
}
