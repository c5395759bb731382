// Copyright © 2026 The apexls authors

// Package syntax defines the concrete syntax tree consumed by the indexer.
//
// Trees are produced by a Parser (the built-in recursive descent parser in
// parser/rdparser, or a tree-sitter grammar through TreeSitterParser) and
// are read-only once built. Node kinds and field names follow the
// tree-sitter-sfapex grammar so that both producers are interchangeable.
package syntax

import "strings"

// Node kinds recognized by the indexer.
const (
	KindSource               = "parser_output"
	KindClass                = "class_declaration"
	KindInterface            = "interface_declaration"
	KindEnum                 = "enum_declaration"
	KindClassBody            = "class_body"
	KindInterfaceBody        = "interface_body"
	KindEnumBody             = "enum_body"
	KindEnumConstant         = "enum_constant"
	KindField                = "field_declaration"
	KindAccessorList         = "accessor_list"
	KindAccessor             = "accessor_declaration"
	KindMethod               = "method_declaration"
	KindConstructor          = "constructor_declaration"
	KindConstructorBody      = "constructor_body"
	KindStaticInitializer    = "static_initializer"
	KindFormalParameters     = "formal_parameters"
	KindFormalParameter      = "formal_parameter"
	KindModifiers            = "modifiers"
	KindModifier             = "modifier"
	KindAnnotation           = "annotation"
	KindSuperclass           = "superclass"
	KindInterfaces           = "interfaces"
	KindExtendsInterfaces    = "extends_interfaces"
	KindTypeList             = "type_list"
	KindType                 = "type_identifier"
	KindIdentifier           = "identifier"
	KindVariableDeclarator   = "variable_declarator"
	KindBlock                = "block"
	KindLocalVariable        = "local_variable_declaration"
	KindFor                  = "for_statement"
	KindEnhancedFor          = "enhanced_for_statement"
	KindIf                   = "if_statement"
	KindWhile                = "while_statement"
	KindDo                   = "do_statement"
	KindTry                  = "try_statement"
	KindCatch                = "catch_clause"
	KindCatchParameter       = "catch_formal_parameter"
	KindFinally              = "finally_clause"
	KindSwitch               = "switch_expression"
	KindSwitchBlock          = "switch_block"
	KindSwitchRule           = "switch_rule"
	KindExpressionStatement  = "expression_statement"
	KindReturn               = "return_statement"
	KindStatement            = "statement"
	KindExpression           = "expression"
	KindError                = "ERROR"
)

// Field names under which children hang off their parent.
const (
	FieldName        = "name"
	FieldType        = "type"
	FieldBody        = "body"
	FieldValue       = "value"
	FieldDeclarator  = "declarator"
	FieldParameters  = "parameters"
	FieldSuperclass  = "superclass"
	FieldInterfaces  = "interfaces"
	FieldExtends     = "extends"
	FieldInit        = "init"
	FieldCondition   = "condition"
	FieldUpdate      = "update"
	FieldConsequence = "consequence"
	FieldAlternative = "alternative"
	FieldAccessor    = "accessor"
)

// Node is a single node in a concrete syntax tree. Start and End are byte
// offsets into the parsed source (End exclusive). Field is the name under
// which the node hangs off its parent, or "" for unnamed children.
type Node struct {
	Kind     string
	Start    int
	End      int
	Field    string
	Children []*Node
}

// ChildByField returns the first child registered under the given field
// name. It returns nil if n is nil or no such child exists.
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Field == name {
			return c
		}
	}
	return nil
}

// ChildrenByField returns every child registered under the field name, in
// source order.
func (n *Node) ChildrenByField(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for _, c := range n.Children {
		if c.Field == name {
			out = append(out, c)
		}
	}
	return out
}

// ChildOfKind returns the first direct child of the given kind.
func (n *Node) ChildOfKind(kind string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}
	return nil
}

// Text returns the source text spanned by n. Out of range offsets are
// clamped so a stale tree never panics.
func (n *Node) Text(src []byte) string {
	if n == nil {
		return ""
	}
	start, end := n.Start, n.End
	if start < 0 {
		start = 0
	}
	if end > len(src) {
		end = len(src)
	}
	if start >= end {
		return ""
	}
	return string(src[start:end])
}

// Contains reports whether offset lies within n. The end byte is included
// so that a cursor placed right after a node still belongs to it.
func (n *Node) Contains(offset int) bool {
	return n != nil && n.Start <= offset && offset <= n.End
}

// String renders the tree as an s-expression of kinds, which is handy in
// tests and debugging output.
func (n *Node) String() string {
	var sb strings.Builder
	n.writeTo(&sb)
	return sb.String()
}

func (n *Node) writeTo(sb *strings.Builder) {
	if n == nil {
		sb.WriteString("()")
		return
	}
	sb.WriteByte('(')
	if n.Field != "" {
		sb.WriteString(n.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(n.Kind)
	for _, c := range n.Children {
		sb.WriteByte(' ')
		c.writeTo(sb)
	}
	sb.WriteByte(')')
}

// Parser turns source bytes into a concrete syntax tree. Implementations
// must be error tolerant: a tree is returned even for incomplete input, and
// the error (if any) only reports what could not be parsed.
type Parser interface {
	Parse(src []byte) (*Node, error)
}
