// Copyright © 2026 The apexls authors

// Package rdparser implements an error tolerant recursive descent parser
// for the declaration structure of Apex source.
//
// The parser recognizes type, member and statement structure (classes,
// interfaces, enums, fields, properties, methods, constructors, blocks,
// local variables and loops). Expressions are not parsed; they are kept
// as opaque "expression" nodes spanning their tokens. The produced tree
// uses tree-sitter-sfapex node kinds and field names.
package rdparser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luthersystems/apexls/parser/token"
	"github.com/luthersystems/apexls/syntax"
)

// Field names used on produced nodes.
const (
	FieldName        = syntax.FieldName
	FieldType        = syntax.FieldType
	FieldBody        = syntax.FieldBody
	FieldValue       = syntax.FieldValue
	FieldDeclarator  = syntax.FieldDeclarator
	FieldParameters  = syntax.FieldParameters
	FieldSuperclass  = syntax.FieldSuperclass
	FieldInterfaces  = syntax.FieldInterfaces
	FieldExtends     = syntax.FieldExtends
	FieldInit        = syntax.FieldInit
	FieldCondition   = syntax.FieldCondition
	FieldUpdate      = syntax.FieldUpdate
	FieldConsequence = syntax.FieldConsequence
	FieldAlternative = syntax.FieldAlternative
	FieldAccessor    = syntax.FieldAccessor
)

var modifierWords = map[string]bool{
	"public": true, "private": true, "protected": true, "global": true,
	"static": true, "final": true, "abstract": true, "virtual": true,
	"override": true, "transient": true, "webservice": true, "testmethod": true,
}

// statementKeywords start statements that can never be a local variable
// declaration even though they are followed by an identifier.
var statementKeywords = map[string]bool{
	"return": true, "throw": true, "new": true, "insert": true, "update": true,
	"upsert": true, "delete": true, "undelete": true, "merge": true, "else": true,
	"this": true, "super": true, "break": true, "continue": true,
}

// ErrorList collects the syntax errors encountered while parsing. The tree
// returned alongside it is still usable.
type ErrorList []*token.LocationError

func (l ErrorList) Error() string {
	switch len(l) {
	case 0:
		return "no errors"
	case 1:
		return l[0].Error()
	}
	return fmt.Sprintf("%v (and %d more errors)", l[0], len(l)-1)
}

// Parser parses Apex source into a syntax tree. It implements
// syntax.Parser.
type Parser struct {
	File string
}

// New returns a parser that attributes locations to file.
func New(file string) *Parser {
	return &Parser{File: file}
}

// Parse implements syntax.Parser. It always returns a tree; the error is
// an ErrorList when the source contains syntax errors.
func (p *Parser) Parse(src []byte) (*syntax.Node, error) {
	s := &state{
		src:  src,
		toks: NewTokenSource(token.NewScanner(p.File, src)),
	}
	for _, tok := range s.toks.Errors {
		s.errs = append(s.errs, &token.LocationError{
			Err:    fmt.Errorf("invalid token %q", tok.Text),
			Source: tok.Source,
		})
	}
	root := s.parseProgram()
	if len(s.errs) > 0 {
		return root, s.errs
	}
	return root, nil
}

// ParseString is a convenience wrapper which discards syntax errors.
func ParseString(src string) *syntax.Node {
	root, _ := New("").Parse([]byte(src))
	return root
}

// SyntaxErrors extracts the individual errors from an error returned by
// Parse.
func SyntaxErrors(err error) []*token.LocationError {
	var list ErrorList
	if errors.As(err, &list) {
		return list
	}
	return nil
}

type state struct {
	src  []byte
	toks *TokenSource
	errs ErrorList
}

func (s *state) peek() *token.Token { return s.toks.Peek() }

func (s *state) peekN(n int) *token.Token { return s.toks.PeekN(n) }

func (s *state) next() *token.Token { return s.toks.Scan() }

func (s *state) atEOF() bool { return s.toks.IsEOF() }

func (s *state) is(text string) bool { return s.peek().Is(text) }

func (s *state) isType(typ token.Type) bool { return s.peek().Type == typ }

func (s *state) accept(text string) bool {
	if s.is(text) {
		s.next()
		return true
	}
	return false
}

func (s *state) acceptType(typ token.Type) bool {
	if s.isType(typ) {
		s.next()
		return true
	}
	return false
}

// expectType consumes a token of the given type or records an error.
func (s *state) expectType(typ token.Type) bool {
	if s.acceptType(typ) {
		return true
	}
	s.errorf("expected %v but found %q", typ, s.peek().Text)
	return false
}

func (s *state) errorf(format string, args ...any) {
	s.errs = append(s.errs, &token.LocationError{
		Err:    fmt.Errorf(format, args...),
		Source: s.peek().Source,
	})
}

// open starts a node at the current token.
func (s *state) open(kind, field string) *syntax.Node {
	return &syntax.Node{Kind: kind, Field: field, Start: s.peek().Source.Pos}
}

// close ends n at the last consumed token. A node that consumed nothing
// is given an empty range at its start.
func (s *state) close(n *syntax.Node) *syntax.Node {
	n.End = s.toks.LastEnd()
	if n.End < n.Start {
		n.End = n.Start
	}
	return n
}

// closeUnterminated ends n at the end of the source. It is used for
// bracketed constructs cut off by EOF, which is the normal state of a
// document while the user is typing inside it.
func (s *state) closeUnterminated(n *syntax.Node) *syntax.Node {
	n.End = len(s.src)
	return n
}

func add(parent, child *syntax.Node) {
	if child != nil {
		parent.Children = append(parent.Children, child)
	}
}

func (s *state) ident(field string) *syntax.Node {
	if !s.isType(token.IDENT) {
		s.errorf("expected identifier but found %q", s.peek().Text)
		return nil
	}
	n := s.open(syntax.KindIdentifier, field)
	s.next()
	return s.close(n)
}

func (s *state) parseProgram() *syntax.Node {
	root := &syntax.Node{Kind: syntax.KindSource, Start: 0, End: len(s.src)}
	for !s.atEOF() {
		mark := s.toks.Mark()
		if decl := s.parseTypeDecl(); decl != nil {
			add(root, decl)
			continue
		}
		s.toks.Reset(mark)
		s.errorf("expected type declaration but found %q", s.peek().Text)
		add(root, s.skipStatement(syntax.KindError))
	}
	return root
}

// parseTypeDecl parses modifiers followed by a class, interface or enum.
// It returns nil, without consuming the keyword, when no type follows.
func (s *state) parseTypeDecl() *syntax.Node {
	start := s.peek().Source.Pos
	mods := s.parseModifiers()
	switch {
	case s.is("class"):
		return s.parseClass(start, mods)
	case s.is("interface"):
		return s.parseInterface(start, mods)
	case s.is("enum"):
		return s.parseEnum(start, mods)
	}
	return nil
}

func (s *state) parseModifiers() *syntax.Node {
	n := s.open(syntax.KindModifiers, "")
	for {
		switch {
		case s.isType(token.AT):
			a := s.open(syntax.KindAnnotation, "")
			s.next()
			s.ident(FieldName)
			if s.isType(token.PAREN_L) {
				s.skipBalanced()
			}
			add(n, s.close(a))
		case s.isType(token.IDENT) && modifierWords[strings.ToLower(s.peek().Text)]:
			m := s.open(syntax.KindModifier, "")
			s.next()
			add(n, s.close(m))
		case (s.is("with") || s.is("without") || s.is("inherited")) && s.peekN(1).Is("sharing"):
			m := s.open(syntax.KindModifier, "")
			s.next()
			s.next()
			add(n, s.close(m))
		default:
			if len(n.Children) == 0 {
				return nil
			}
			return s.close(n)
		}
	}
}

func (s *state) parseClass(start int, mods *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindClass, Start: start}
	add(n, mods)
	s.next() // class
	name := s.ident(FieldName)
	add(n, name)
	if s.accept("extends") {
		sc := s.open(syntax.KindSuperclass, FieldSuperclass)
		add(sc, s.parseType(""))
		add(n, s.close(sc))
	}
	if s.accept("implements") {
		add(n, s.parseTypeList(syntax.KindInterfaces, FieldInterfaces))
	}
	className := ""
	if name != nil {
		className = name.Text(s.src)
	}
	body := s.parseClassBody(className)
	add(n, body)
	if body == nil {
		return s.close(n)
	}
	n.End = body.End
	return n
}

func (s *state) parseInterface(start int, mods *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindInterface, Start: start}
	add(n, mods)
	s.next() // interface
	add(n, s.ident(FieldName))
	if s.accept("extends") {
		add(n, s.parseTypeList(syntax.KindExtendsInterfaces, FieldExtends))
	}
	if !s.isType(token.BRACE_L) {
		s.errorf("expected interface body but found %q", s.peek().Text)
		return s.close(n)
	}
	body := s.open(syntax.KindInterfaceBody, FieldBody)
	s.next()
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		mark := s.toks.Mark()
		if m := s.parseMember(""); m != nil {
			add(body, m)
			continue
		}
		s.toks.Reset(mark)
		add(body, s.recoverMember())
	}
	if s.acceptType(token.BRACE_R) {
		s.close(body)
	} else {
		s.closeUnterminated(body)
	}
	add(n, body)
	n.End = body.End
	return n
}

func (s *state) parseEnum(start int, mods *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindEnum, Start: start}
	add(n, mods)
	s.next() // enum
	add(n, s.ident(FieldName))
	if !s.isType(token.BRACE_L) {
		s.errorf("expected enum body but found %q", s.peek().Text)
		return s.close(n)
	}
	body := s.open(syntax.KindEnumBody, FieldBody)
	s.next()
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		switch {
		case s.isType(token.IDENT):
			c := s.open(syntax.KindEnumConstant, "")
			add(c, s.ident(FieldName))
			add(body, s.close(c))
		case s.acceptType(token.COMMA), s.acceptType(token.SEMI):
		default:
			s.errorf("unexpected %q in enum body", s.peek().Text)
			s.next()
		}
	}
	if s.acceptType(token.BRACE_R) {
		s.close(body)
	} else {
		s.closeUnterminated(body)
	}
	add(n, body)
	n.End = body.End
	return n
}

func (s *state) parseTypeList(kind, field string) *syntax.Node {
	n := s.open(kind, field)
	list := s.open(syntax.KindTypeList, "")
	for {
		t := s.parseType("")
		if t == nil {
			break
		}
		add(list, t)
		if !s.acceptType(token.COMMA) {
			break
		}
	}
	add(n, s.close(list))
	return s.close(n)
}

func (s *state) parseClassBody(className string) *syntax.Node {
	if !s.isType(token.BRACE_L) {
		s.errorf("expected class body but found %q", s.peek().Text)
		return nil
	}
	body := s.open(syntax.KindClassBody, FieldBody)
	s.next()
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		if s.acceptType(token.SEMI) {
			continue
		}
		mark := s.toks.Mark()
		if m := s.parseMember(className); m != nil {
			add(body, m)
			continue
		}
		s.toks.Reset(mark)
		add(body, s.recoverMember())
	}
	if s.acceptType(token.BRACE_R) {
		return s.close(body)
	}
	return s.closeUnterminated(body)
}

// parseMember parses one class or interface member. It returns nil when
// the tokens do not form a recognizable member; the caller then rewinds
// and recovers.
func (s *state) parseMember(className string) *syntax.Node {
	start := s.peek().Source.Pos
	if s.is("static") && s.peekN(1).Type == token.BRACE_L {
		n := &syntax.Node{Kind: syntax.KindStaticInitializer, Start: start}
		s.next()
		blk := s.parseBlock("")
		add(n, blk)
		n.End = blk.End
		return n
	}
	if s.isType(token.BRACE_L) {
		// Instance initializer.
		return s.parseBlock("")
	}
	mods := s.parseModifiers()
	switch {
	case s.is("class"):
		return s.parseClass(start, mods)
	case s.is("interface"):
		return s.parseInterface(start, mods)
	case s.is("enum"):
		return s.parseEnum(start, mods)
	}
	if s.isType(token.IDENT) && s.peekN(1).Type == token.PAREN_L &&
		(className == "" || strings.EqualFold(s.peek().Text, className)) {
		return s.parseConstructor(start, mods)
	}
	typ := s.parseType(FieldType)
	if typ == nil || !s.isType(token.IDENT) {
		return nil
	}
	switch s.peekN(1).Type {
	case token.PAREN_L:
		return s.parseMethod(start, mods, typ)
	case token.BRACE_L:
		return s.parseProperty(start, mods, typ)
	}
	n := &syntax.Node{Kind: syntax.KindField, Start: start}
	add(n, mods)
	add(n, typ)
	s.parseDeclarators(n)
	s.expectType(token.SEMI)
	return s.close(n)
}

func (s *state) parseConstructor(start int, mods *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindConstructor, Start: start}
	add(n, mods)
	add(n, s.ident(FieldName))
	add(n, s.parseParameters())
	if s.isType(token.BRACE_L) {
		body := s.parseBlock(FieldBody)
		body.Kind = syntax.KindConstructorBody
		add(n, body)
		n.End = body.End
		return n
	}
	s.expectType(token.SEMI)
	return s.close(n)
}

func (s *state) parseMethod(start int, mods, typ *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindMethod, Start: start}
	add(n, mods)
	add(n, typ)
	add(n, s.ident(FieldName))
	add(n, s.parseParameters())
	if s.isType(token.BRACE_L) {
		body := s.parseBlock(FieldBody)
		add(n, body)
		n.End = body.End
		return n
	}
	s.expectType(token.SEMI)
	return s.close(n)
}

// parseProperty parses "Type name { get; set { ... } }" into a
// field_declaration carrying an accessor_list.
func (s *state) parseProperty(start int, mods, typ *syntax.Node) *syntax.Node {
	n := &syntax.Node{Kind: syntax.KindField, Start: start}
	add(n, mods)
	add(n, typ)
	decl := s.open(syntax.KindVariableDeclarator, FieldDeclarator)
	add(decl, s.ident(FieldName))
	add(n, s.close(decl))

	list := s.open(syntax.KindAccessorList, "")
	s.next() // {
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		acc := s.open(syntax.KindAccessor, "")
		add(acc, s.parseModifiers())
		if !s.is("get") && !s.is("set") {
			add(list, s.recoverMember())
			continue
		}
		add(acc, s.ident(FieldAccessor))
		if s.isType(token.BRACE_L) {
			add(acc, s.parseBlock(FieldBody))
		} else {
			s.expectType(token.SEMI)
		}
		add(list, s.close(acc))
	}
	if s.acceptType(token.BRACE_R) {
		s.close(list)
	} else {
		s.closeUnterminated(list)
	}
	add(n, list)
	n.End = list.End
	return n
}

func (s *state) parseParameters() *syntax.Node {
	n := s.open(syntax.KindFormalParameters, FieldParameters)
	if !s.expectType(token.PAREN_L) {
		return s.close(n)
	}
	for !s.isType(token.PAREN_R) && !s.atEOF() {
		p := s.open(syntax.KindFormalParameter, "")
		add(p, s.parseModifiers())
		typ := s.parseType(FieldType)
		if typ == nil {
			s.errorf("expected parameter type but found %q", s.peek().Text)
			s.skipUntil(token.PAREN_R, token.BRACE_L)
			break
		}
		add(p, typ)
		add(p, s.ident(FieldName))
		add(n, s.close(p))
		if !s.acceptType(token.COMMA) {
			break
		}
	}
	s.expectType(token.PAREN_R)
	return s.close(n)
}

// parseDeclarators parses "a = 1, b, c = f(x)" appending a
// variable_declarator per name.
func (s *state) parseDeclarators(parent *syntax.Node) {
	for {
		d := s.open(syntax.KindVariableDeclarator, FieldDeclarator)
		name := s.ident(FieldName)
		if name == nil {
			return
		}
		add(d, name)
		if s.accept("=") {
			add(d, s.parseExpression(FieldValue, token.COMMA, token.SEMI))
		}
		add(parent, s.close(d))
		if !s.acceptType(token.COMMA) {
			return
		}
	}
}

// parseType consumes a type reference: a dotted name with optional generic
// arguments and array suffixes.
func (s *state) parseType(field string) *syntax.Node {
	end := scanType(s.toks, 0)
	if end < 0 {
		return nil
	}
	n := s.open(syntax.KindType, field)
	for i := 0; i < end; i++ {
		s.next()
	}
	return s.close(n)
}

// scanType looks ahead from offset n and returns the number of tokens
// forming a type reference, or -1 if none starts there.
func scanType(toks *TokenSource, n int) int {
	if toks.PeekN(n).Type != token.IDENT {
		return -1
	}
	i := n + 1
	for {
		tok := toks.PeekN(i)
		switch {
		case tok.Type == token.DOT && toks.PeekN(i+1).Type == token.IDENT:
			i += 2
		case tok.Type == token.OPERATOR && tok.Text == "<":
			j := scanTypeArgs(toks, i)
			if j < 0 {
				return i - n
			}
			i = j
		case tok.Type == token.BRACKET_L && toks.PeekN(i+1).Type == token.BRACKET_R:
			i += 2
		default:
			return i - n
		}
	}
}

// scanTypeArgs matches a generic argument list starting at the "<" at
// offset i and returns the offset after it, or -1.
func scanTypeArgs(toks *TokenSource, i int) int {
	depth := 0
	for {
		tok := toks.PeekN(i)
		switch tok.Type {
		case token.OPERATOR:
			switch tok.Text {
			case "<":
				depth++
			case ">":
				depth--
			case ">>":
				depth -= 2
			case ">>>":
				depth -= 3
			default:
				return -1
			}
			if depth < 0 {
				return -1
			}
			if depth == 0 {
				return i + 1
			}
		case token.IDENT, token.COMMA, token.DOT, token.BRACKET_L, token.BRACKET_R:
		default:
			return -1
		}
		i++
	}
}

func (s *state) parseBlock(field string) *syntax.Node {
	n := s.open(syntax.KindBlock, field)
	if !s.expectType(token.BRACE_L) {
		return s.close(n)
	}
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		add(n, s.parseStatement(""))
	}
	if s.acceptType(token.BRACE_R) {
		return s.close(n)
	}
	return s.closeUnterminated(n)
}

func (s *state) parseStatement(field string) *syntax.Node {
	switch {
	case s.isType(token.BRACE_L):
		return s.parseBlock(field)
	case s.isType(token.SEMI):
		n := s.open(syntax.KindExpressionStatement, field)
		s.next()
		return s.close(n)
	case s.is("for"):
		return s.parseFor(field)
	case s.is("if"):
		return s.parseIf(field)
	case s.is("while"):
		n := s.open(syntax.KindWhile, field)
		s.next()
		add(n, s.parseCondition())
		add(n, s.parseStatement(FieldBody))
		return s.close(n)
	case s.is("do"):
		n := s.open(syntax.KindDo, field)
		s.next()
		add(n, s.parseStatement(FieldBody))
		if s.accept("while") {
			add(n, s.parseCondition())
		}
		s.acceptType(token.SEMI)
		return s.close(n)
	case s.is("try"):
		return s.parseTry(field)
	case s.is("switch") && s.peekN(1).Is("on"):
		return s.parseSwitch(field)
	case s.is("return"):
		return s.skipStatement(syntax.KindReturn)
	case s.is("final") || s.isLocalDecl():
		return s.parseLocalDecl(field)
	}
	n := s.skipStatement(syntax.KindExpressionStatement)
	n.Field = field
	return n
}

// isLocalDecl reports whether the upcoming tokens look like
// "Type name" followed by "=", ";", "," or ":".
func (s *state) isLocalDecl() bool {
	first := s.peek()
	if first.Type != token.IDENT || statementKeywords[strings.ToLower(first.Text)] {
		return false
	}
	n := scanType(s.toks, 0)
	if n < 0 || s.peekN(n).Type != token.IDENT {
		return false
	}
	after := s.peekN(n + 1)
	switch after.Type {
	case token.SEMI, token.COMMA, token.EOF:
		return true
	case token.OPERATOR:
		return after.Text == "=" || after.Text == ":"
	}
	return false
}

func (s *state) parseLocalDecl(field string) *syntax.Node {
	n := s.open(syntax.KindLocalVariable, field)
	add(n, s.parseModifiers())
	typ := s.parseType(FieldType)
	if typ == nil {
		s.errorf("expected type but found %q", s.peek().Text)
		return s.finishSkip(n)
	}
	add(n, typ)
	s.parseDeclarators(n)
	s.expectType(token.SEMI)
	return s.close(n)
}

func (s *state) parseFor(field string) *syntax.Node {
	start := s.peek().Source.Pos
	s.next() // for
	if !s.expectType(token.PAREN_L) {
		n := s.skipStatement(syntax.KindFor)
		n.Start = start
		n.Field = field
		return n
	}
	// Enhanced for: for (Type name : expr)
	if n := scanType(s.toks, 0); n > 0 && s.peekN(n).Type == token.IDENT && s.peekN(n+1).Is(":") {
		node := &syntax.Node{Kind: syntax.KindEnhancedFor, Field: field, Start: start}
		add(node, s.parseType(FieldType))
		add(node, s.ident(FieldName))
		s.next() // :
		add(node, s.parseExpression(FieldValue, token.PAREN_R))
		s.expectType(token.PAREN_R)
		add(node, s.parseStatement(FieldBody))
		return s.close(node)
	}
	node := &syntax.Node{Kind: syntax.KindFor, Field: field, Start: start}
	if s.isLocalDecl() {
		decl := s.open(syntax.KindLocalVariable, FieldInit)
		add(decl, s.parseType(FieldType))
		s.parseDeclarators(decl)
		add(node, s.close(decl))
	} else if !s.isType(token.SEMI) {
		add(node, s.parseExpression(FieldInit, token.SEMI))
	}
	s.expectType(token.SEMI)
	if !s.isType(token.SEMI) {
		add(node, s.parseExpression(FieldCondition, token.SEMI))
	}
	s.expectType(token.SEMI)
	if !s.isType(token.PAREN_R) {
		add(node, s.parseExpression(FieldUpdate, token.PAREN_R))
	}
	s.expectType(token.PAREN_R)
	add(node, s.parseStatement(FieldBody))
	return s.close(node)
}

func (s *state) parseIf(field string) *syntax.Node {
	n := s.open(syntax.KindIf, field)
	s.next() // if
	add(n, s.parseCondition())
	add(n, s.parseStatement(FieldConsequence))
	if s.accept("else") {
		add(n, s.parseStatement(FieldAlternative))
	}
	return s.close(n)
}

// parseCondition parses a parenthesized expression.
func (s *state) parseCondition() *syntax.Node {
	if !s.isType(token.PAREN_L) {
		s.errorf("expected ( but found %q", s.peek().Text)
		return nil
	}
	n := s.open(syntax.KindExpression, FieldCondition)
	s.skipBalanced()
	return s.close(n)
}

func (s *state) parseTry(field string) *syntax.Node {
	n := s.open(syntax.KindTry, field)
	s.next() // try
	add(n, s.parseBlock(FieldBody))
	for s.is("catch") {
		c := s.open(syntax.KindCatch, "")
		s.next()
		if s.acceptType(token.PAREN_L) {
			p := s.open(syntax.KindCatchParameter, "")
			add(p, s.parseModifiers())
			add(p, s.parseType(FieldType))
			add(p, s.ident(FieldName))
			add(c, s.close(p))
			s.expectType(token.PAREN_R)
		}
		add(c, s.parseBlock(FieldBody))
		add(n, s.close(c))
	}
	if s.is("finally") {
		f := s.open(syntax.KindFinally, "")
		s.next()
		add(f, s.parseBlock(FieldBody))
		add(n, s.close(f))
	}
	return s.close(n)
}

// parseSwitch parses "switch on expr { when ... { } }". Each when arm
// becomes a switch_rule holding its block.
func (s *state) parseSwitch(field string) *syntax.Node {
	n := s.open(syntax.KindSwitch, field)
	s.next() // switch
	s.next() // on
	add(n, s.parseExpression(FieldCondition, token.BRACE_L))
	blk := s.open(syntax.KindSwitchBlock, FieldBody)
	if !s.expectType(token.BRACE_L) {
		return s.close(n)
	}
	for !s.isType(token.BRACE_R) && !s.atEOF() {
		if !s.is("when") {
			s.errorf("expected when but found %q", s.peek().Text)
			s.next()
			continue
		}
		rule := s.open(syntax.KindSwitchRule, "")
		s.next()
		add(rule, s.parseExpression(FieldValue, token.BRACE_L))
		add(rule, s.parseBlock(FieldBody))
		add(blk, s.close(rule))
	}
	if s.acceptType(token.BRACE_R) {
		s.close(blk)
	} else {
		s.closeUnterminated(blk)
	}
	add(n, blk)
	return s.close(n)
}

// parseExpression consumes tokens up to (not including) one of the stop
// token types at nesting depth zero, or an unmatched closing bracket.
func (s *state) parseExpression(field string, stops ...token.Type) *syntax.Node {
	n := s.open(syntax.KindExpression, field)
	depth := 0
	for !s.atEOF() {
		typ := s.peek().Type
		if depth == 0 {
			for _, stop := range stops {
				if typ == stop {
					return s.close(n)
				}
			}
		}
		if s.is("new") {
			// The type after new may hold commas in its generic arguments.
			s.next()
			for i := scanType(s.toks, 0); i > 0; i-- {
				s.next()
			}
			continue
		}
		switch typ {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			if depth == 0 {
				return s.close(n)
			}
			depth--
		case token.SEMI:
			if depth == 0 {
				return s.close(n)
			}
		}
		s.next()
	}
	return s.close(n)
}

// skipStatement consumes an unparsed statement up to and including its
// terminating semicolon. It stops before a closing brace that would end
// the enclosing block.
func (s *state) skipStatement(kind string) *syntax.Node {
	n := s.open(kind, "")
	return s.finishSkip(n)
}

func (s *state) finishSkip(n *syntax.Node) *syntax.Node {
	if s.isType(token.BRACE_R) && n.Kind == syntax.KindError {
		// Stray closing brace at top level.
		s.next()
		return s.close(n)
	}
	add(n, s.parseExpression("", token.SEMI))
	if !s.acceptType(token.SEMI) && n.Start == s.peek().Source.Pos && !s.atEOF() {
		// No progress possible; drop one token so the caller advances.
		s.next()
	}
	return s.close(n)
}

// recoverMember skips an unrecognized member: up to a semicolon or a
// balanced brace block at depth zero.
func (s *state) recoverMember() *syntax.Node {
	n := s.open(syntax.KindError, "")
	s.errorf("unexpected %q in type body", s.peek().Text)
	for !s.atEOF() {
		switch s.peek().Type {
		case token.SEMI:
			s.next()
			return s.close(n)
		case token.BRACE_R:
			if s.toks.LastEnd() <= n.Start {
				s.next()
			}
			return s.close(n)
		case token.BRACE_L, token.PAREN_L, token.BRACKET_L:
			open := s.peek().Type
			s.skipBalanced()
			if open == token.BRACE_L {
				return s.close(n)
			}
			continue
		}
		s.next()
	}
	return s.close(n)
}

// skipUntil consumes tokens until one of the given types (not consumed).
func (s *state) skipUntil(types ...token.Type) {
	for !s.atEOF() {
		for _, typ := range types {
			if s.isType(typ) {
				return
			}
		}
		s.next()
	}
}

// skipBalanced consumes a bracketed group starting at the current opening
// bracket, including its closing bracket.
func (s *state) skipBalanced() {
	depth := 0
	for !s.atEOF() {
		switch s.peek().Type {
		case token.PAREN_L, token.BRACKET_L, token.BRACE_L:
			depth++
		case token.PAREN_R, token.BRACKET_R, token.BRACE_R:
			depth--
		}
		s.next()
		if depth <= 0 {
			return
		}
	}
}
