// Copyright © 2026 The apexls authors

package token

import (
	"errors"
	"unicode/utf8"
)

// operators lists multi-byte operators longest first so that the scanner
// can take the longest match.
var operators = []string{
	">>>=", "<<=", ">>=", ">>>", "===", "!==",
	"&&", "||", "==", "!=", "<=", ">=", "++", "--", "+=", "-=", "*=", "/=",
	"&=", "|=", "^=", "=>", "<<", "??",
}

var (
	errUnterminatedString  = errors.New("unterminated string literal")
	errUnterminatedComment = errors.New("unterminated block comment")
	errInvalidUTF8         = errors.New("invalid utf-8 sequence")
)

// Scanner produces Apex tokens from an in-memory buffer. Documents are
// always held in memory by the language server, so unlike a streaming
// lexer the scanner works directly on the byte slice and reports exact
// byte offsets.
type Scanner struct {
	file string
	buf  []byte

	start     int // offset of the current token
	pos       int // offset of the next unread byte
	line      int // line number at pos
	linePos   int // offset of the first byte of line
	startLine int
	startCol  int

	// KeepComments makes Next return COMMENT tokens instead of skipping
	// them.
	KeepComments bool
}

// NewScanner initializes and returns a new Scanner over src.
func NewScanner(file string, src []byte) *Scanner {
	return &Scanner{
		file: file,
		buf:  src,
		line: 1,
	}
}

// Next scans and returns the next token. At the end of input it returns an
// EOF token forever. Lexical errors produce ERROR tokens and scanning
// continues after the offending input.
func (s *Scanner) Next() *Token {
	for {
		s.skipSpace()
		s.mark()
		if s.pos >= len(s.buf) {
			return s.emit(EOF)
		}
		c := s.buf[s.pos]
		switch {
		case c == '/' && s.peekAt(1) == '/':
			s.skipLineComment()
			if s.KeepComments {
				return s.emit(COMMENT)
			}
			continue
		case c == '/' && s.peekAt(1) == '*':
			if !s.skipBlockComment() {
				return s.emitError(errUnterminatedComment)
			}
			if s.KeepComments {
				return s.emit(COMMENT)
			}
			continue
		case isIdentStart(c):
			for s.pos < len(s.buf) && IsIdentChar(s.buf[s.pos]) {
				s.pos++
			}
			return s.emit(IDENT)
		case isDigit(c):
			return s.scanNumber()
		case c == '\'':
			return s.scanString()
		}
		return s.scanPunct()
	}
}

// All scans the remaining input and returns every token, excluding the
// trailing EOF.
func (s *Scanner) All() []*Token {
	var toks []*Token
	for {
		tok := s.Next()
		if tok.Type == EOF {
			return toks
		}
		toks = append(toks, tok)
	}
}

func (s *Scanner) scanNumber() *Token {
	typ := INT
	for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
		s.pos++
	}
	if s.peekAt(0) == '.' && isDigit(s.peekAt(1)) {
		typ = FLOAT
		s.pos++
		for s.pos < len(s.buf) && isDigit(s.buf[s.pos]) {
			s.pos++
		}
	}
	switch s.peekAt(0) {
	case 'l', 'L':
		s.pos++
	case 'd', 'D':
		typ = FLOAT
		s.pos++
	}
	return s.emit(typ)
}

func (s *Scanner) scanString() *Token {
	s.pos++ // opening quote
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case '\\':
			s.pos += 2
			continue
		case '\'':
			s.pos++
			return s.emit(STRING)
		case '\n':
			// Apex strings cannot span lines; stop at the newline so a
			// missing quote does not swallow the rest of the file.
			return s.emitError(errUnterminatedString)
		}
		s.pos++
	}
	if s.pos > len(s.buf) {
		s.pos = len(s.buf)
	}
	return s.emitError(errUnterminatedString)
}

func (s *Scanner) scanPunct() *Token {
	c := s.buf[s.pos]
	switch c {
	case '(':
		s.pos++
		return s.emit(PAREN_L)
	case ')':
		s.pos++
		return s.emit(PAREN_R)
	case '{':
		s.pos++
		return s.emit(BRACE_L)
	case '}':
		s.pos++
		return s.emit(BRACE_R)
	case '[':
		s.pos++
		return s.emit(BRACKET_L)
	case ']':
		s.pos++
		return s.emit(BRACKET_R)
	case ';':
		s.pos++
		return s.emit(SEMI)
	case ',':
		s.pos++
		return s.emit(COMMA)
	case '@':
		s.pos++
		return s.emit(AT)
	case '.':
		s.pos++
		return s.emit(DOT)
	case '?':
		if s.peekAt(1) == '.' {
			s.pos += 2
			return s.emit(SAFE_DOT)
		}
	}
	for _, op := range operators {
		if s.hasPrefix(op) {
			s.pos += len(op)
			return s.emit(OPERATOR)
		}
	}
	if c >= utf8.RuneSelf {
		r, n := utf8.DecodeRune(s.buf[s.pos:])
		if r == utf8.RuneError && n <= 1 {
			s.pos++
			return s.emitError(errInvalidUTF8)
		}
		s.pos += n
		return s.emit(OPERATOR)
	}
	s.pos++
	return s.emit(OPERATOR)
}

func (s *Scanner) skipSpace() {
	for s.pos < len(s.buf) {
		switch s.buf[s.pos] {
		case '\n':
			s.pos++
			s.line++
			s.linePos = s.pos
		case ' ', '\t', '\r', '\f', '\v':
			s.pos++
		default:
			return
		}
	}
}

func (s *Scanner) skipLineComment() {
	for s.pos < len(s.buf) && s.buf[s.pos] != '\n' {
		s.pos++
	}
}

func (s *Scanner) skipBlockComment() bool {
	s.pos += 2
	for s.pos < len(s.buf) {
		if s.buf[s.pos] == '*' && s.peekAt(1) == '/' {
			s.pos += 2
			return true
		}
		if s.buf[s.pos] == '\n' {
			s.line++
			s.linePos = s.pos + 1
		}
		s.pos++
	}
	return false
}

func (s *Scanner) mark() {
	s.start = s.pos
	s.startLine = s.line
	s.startCol = s.pos - s.linePos + 1
}

func (s *Scanner) emit(typ Type) *Token {
	return &Token{
		Type: typ,
		Text: string(s.buf[s.start:s.pos]),
		Source: &Location{
			File: s.file,
			Pos:  s.start,
			Line: s.startLine,
			Col:  s.startCol,
		},
	}
}

func (s *Scanner) emitError(err error) *Token {
	tok := s.emit(ERROR)
	if tok.Text == "" {
		tok.Text = err.Error()
	}
	return tok
}

func (s *Scanner) peekAt(n int) byte {
	if s.pos+n < len(s.buf) {
		return s.buf[s.pos+n]
	}
	return 0
}

func (s *Scanner) hasPrefix(op string) bool {
	if s.pos+len(op) > len(s.buf) {
		return false
	}
	return string(s.buf[s.pos:s.pos+len(op)]) == op
}

// IsIdentChar reports whether c may appear in an identifier. The dollar
// sign is accepted so that generated and namespaced names are scanned as a
// single token.
func IsIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}
