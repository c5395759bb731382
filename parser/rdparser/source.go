// Copyright © 2026 The apexls authors

package rdparser

import (
	"github.com/luthersystems/apexls/parser/token"
)

// TokenSource is a fully buffered token stream with arbitrary lookahead.
// Apex needs more than one token of lookahead to tell a local variable
// declaration from an expression statement, so the whole document is
// scanned up front. Comments are dropped and lexical errors are collected
// separately.
type TokenSource struct {
	toks   []*token.Token
	i      int
	Errors []*token.Token
}

// NewTokenSource scans every token from scanner.
func NewTokenSource(scanner *token.Scanner) *TokenSource {
	s := &TokenSource{}
	for {
		tok := scanner.Next()
		switch tok.Type {
		case token.COMMENT:
			continue
		case token.ERROR:
			s.Errors = append(s.Errors, tok)
			continue
		}
		s.toks = append(s.toks, tok)
		if tok.Type == token.EOF {
			return s
		}
	}
}

// Peek returns the current (unconsumed) token.
func (s *TokenSource) Peek() *token.Token {
	return s.PeekN(0)
}

// PeekN returns the token n positions after the current one. Past the end
// of input it returns the EOF token.
func (s *TokenSource) PeekN(n int) *token.Token {
	j := s.i + n
	if j >= len(s.toks) {
		return s.toks[len(s.toks)-1]
	}
	return s.toks[j]
}

// Scan consumes the current token and returns it. Scanning at EOF is a
// no-op that keeps returning the EOF token.
func (s *TokenSource) Scan() *token.Token {
	tok := s.Peek()
	if tok.Type != token.EOF {
		s.i++
	}
	return tok
}

// IsEOF reports whether all tokens have been consumed.
func (s *TokenSource) IsEOF() bool {
	return s.Peek().Type == token.EOF
}

// Mark returns the current position for use with Reset.
func (s *TokenSource) Mark() int {
	return s.i
}

// Reset rewinds the stream to a position returned by Mark.
func (s *TokenSource) Reset(mark int) {
	s.i = mark
}

// LastEnd returns the byte offset just past the most recently consumed
// token, or 0 when nothing has been consumed.
func (s *TokenSource) LastEnd() int {
	if s.i == 0 {
		return 0
	}
	return s.toks[s.i-1].End()
}
