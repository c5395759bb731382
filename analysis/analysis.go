// Copyright © 2026 The apexls authors

// Package analysis extracts the declarations of an Apex document from its
// syntax tree.
//
// Index walks the tree once and returns the top-level type declarations.
// Members, parameters and locals hang off their owning declarations and
// are tagged with the byte interval over which they may be suggested; see
// Expand for bringing the ones reachable at a cursor into view.
package analysis

import (
	"strings"

	"github.com/luthersystems/apexls/parser/rdparser"
	"github.com/luthersystems/apexls/syntax"
)

// Index returns the top-level type declarations found under root. src is
// the text root was parsed from. Index never fails: missing names become
// empty strings, which consumers filter.
func Index(root *syntax.Node, src []byte) []Declaration {
	if root == nil {
		return nil
	}
	ix := &indexer{src: src}
	var decls []Declaration
	for _, n := range root.Children {
		if t := ix.typeDecl(n, nil); t != nil {
			decls = append(decls, t)
		}
	}
	return decls
}

// IndexSource parses src with the built-in parser and indexes the result.
// Syntax errors are tolerated.
func IndexSource(src string) []Declaration {
	b := []byte(src)
	root, _ := rdparser.New("").Parse(b)
	return Index(root, b)
}

type indexer struct {
	src []byte
}

func (ix *indexer) text(n *syntax.Node) string {
	return n.Text(ix.src)
}

func rangeOf(n *syntax.Node) *Range {
	if n == nil {
		return nil
	}
	return &Range{Start: n.Start, End: n.End}
}

func (ix *indexer) info(n *syntax.Node, nameNode *syntax.Node, vis Visibility, parent *TypeDecl) DeclInfo {
	return DeclInfo{
		Name:       ix.text(nameNode),
		Range:      rangeOf(n),
		NameRange:  rangeOf(nameNode),
		Visibility: vis,
		Parent:     parent,
		Modifiers:  ix.modifiers(n),
	}
}

func (ix *indexer) modifiers(n *syntax.Node) []string {
	mods := n.ChildOfKind(syntax.KindModifiers)
	if mods == nil {
		return nil
	}
	var out []string
	for _, m := range mods.Children {
		switch m.Kind {
		case syntax.KindModifier:
			out = append(out, strings.ToLower(strings.Join(strings.Fields(ix.text(m)), " ")))
		case syntax.KindAnnotation:
			a := ix.text(m)
			if i := strings.IndexByte(a, '('); i >= 0 {
				a = a[:i]
			}
			out = append(out, strings.ToLower(strings.TrimSpace(a)))
		}
	}
	return out
}

func (ix *indexer) typeDecl(n *syntax.Node, parent *TypeDecl) *TypeDecl {
	var kind TypeKind
	switch n.Kind {
	case syntax.KindClass:
		kind = TypeClass
	case syntax.KindInterface:
		kind = TypeInterface
	case syntax.KindEnum:
		kind = TypeEnum
	default:
		return nil
	}
	t := &TypeDecl{
		DeclInfo: ix.info(n, n.ChildByField(syntax.FieldName), Always(), parent),
		TypeKind: kind,
	}
	if sc := n.ChildByField(syntax.FieldSuperclass); sc != nil && len(sc.Children) > 0 {
		t.Super = ix.text(sc.Children[0])
	}
	for _, field := range []string{syntax.FieldInterfaces, syntax.FieldExtends} {
		list := n.ChildByField(field).ChildOfKind(syntax.KindTypeList)
		if list == nil {
			continue
		}
		for _, c := range list.Children {
			t.Interfaces = append(t.Interfaces, ix.text(c))
		}
	}
	body := n.ChildByField(syntax.FieldBody)
	if body == nil {
		return t
	}
	for _, c := range body.Children {
		ix.member(t, c)
	}
	return t
}

func (ix *indexer) member(t *TypeDecl, n *syntax.Node) {
	switch n.Kind {
	case syntax.KindClass, syntax.KindInterface, syntax.KindEnum:
		t.Members = append(t.Members, ix.typeDecl(n, t))
	case syntax.KindField:
		if list := n.ChildOfKind(syntax.KindAccessorList); list != nil {
			t.Members = append(t.Members, ix.property(t, n, list))
			return
		}
		typ := ix.text(n.ChildByField(syntax.FieldType))
		for _, d := range n.ChildrenByField(syntax.FieldDeclarator) {
			f := &FieldDecl{
				DeclInfo: ix.info(n, d.ChildByField(syntax.FieldName), Always(), t),
				Type:     typ,
			}
			f.Range = rangeOf(d)
			f.Static = f.HasModifier("static")
			t.Members = append(t.Members, f)
		}
	case syntax.KindMethod:
		m := &MethodDecl{
			DeclInfo:   ix.info(n, n.ChildByField(syntax.FieldName), Always(), t),
			ReturnType: ix.text(n.ChildByField(syntax.FieldType)),
		}
		m.Static = m.HasModifier("static")
		body := n.ChildByField(syntax.FieldBody)
		m.Params = ix.params(n, body)
		if body != nil {
			m.Body = ix.block(body)
		}
		t.Members = append(t.Members, m)
	case syntax.KindConstructor:
		c := &ConstructorDecl{
			DeclInfo: ix.info(n, n.ChildByField(syntax.FieldName), Never(), t),
		}
		body := n.ChildByField(syntax.FieldBody)
		c.Params = ix.params(n, body)
		if body != nil {
			c.Body = ix.block(body)
		}
		t.Members = append(t.Members, c)
	case syntax.KindStaticInitializer:
		if blk := n.ChildOfKind(syntax.KindBlock); blk != nil {
			t.StaticInits = append(t.StaticInits, ix.block(blk))
		}
	case syntax.KindBlock:
		t.InstanceInits = append(t.InstanceInits, ix.block(n))
	case syntax.KindEnumConstant:
		t.Members = append(t.Members, &EnumValueDecl{
			DeclInfo: ix.info(n, n.ChildByField(syntax.FieldName), Always(), t),
			Enum:     t.Name,
		})
	}
}

func (ix *indexer) property(t *TypeDecl, n, list *syntax.Node) *PropertyDecl {
	decl := n.ChildByField(syntax.FieldDeclarator)
	p := &PropertyDecl{
		DeclInfo: ix.info(n, decl.ChildByField(syntax.FieldName), Always(), t),
		Type:     ix.text(n.ChildByField(syntax.FieldType)),
	}
	p.Static = p.HasModifier("static")
	for _, acc := range list.Children {
		if acc.Kind != syntax.KindAccessor {
			continue
		}
		name := strings.ToLower(ix.text(acc.ChildByField(syntax.FieldAccessor)))
		if name == "" {
			continue
		}
		p.Accessors = append(p.Accessors, name)
		body := acc.ChildByField(syntax.FieldBody)
		if body == nil {
			continue
		}
		switch name {
		case "get":
			p.Getter = ix.block(body)
		case "set":
			p.Setter = ix.block(body)
		}
	}
	return p
}

// params indexes the formal parameters of a method or constructor. They
// are scoped to the body when there is one.
func (ix *indexer) params(n, body *syntax.Node) []*LocalDecl {
	scopeEnd := -1
	if body != nil {
		scopeEnd = body.End
	}
	params := n.ChildByField(syntax.FieldParameters)
	if params == nil {
		return nil
	}
	var out []*LocalDecl
	for _, p := range params.Children {
		if p.Kind != syntax.KindFormalParameter {
			continue
		}
		out = append(out, &LocalDecl{
			DeclInfo: ix.info(p, p.ChildByField(syntax.FieldName), scoped(scopeEnd), nil),
			Type:     ix.text(p.ChildByField(syntax.FieldType)),
			Param:    true,
		})
	}
	return out
}

func (ix *indexer) block(body *syntax.Node) *Block {
	b := &Block{Range: Range{Start: body.Start, End: body.End}}
	ix.locals(body, body.End, &b.Decls)
	return b
}

// locals collects the local declarations below n. scopeEnd is the end of
// the innermost enclosing scope and is threaded down by value; scope
// introducing nodes replace it with their own end for their children.
func (ix *indexer) locals(n *syntax.Node, scopeEnd int, out *[]*LocalDecl) {
	for _, c := range n.Children {
		switch c.Kind {
		case syntax.KindLocalVariable:
			typ := ix.text(c.ChildByField(syntax.FieldType))
			for _, d := range c.ChildrenByField(syntax.FieldDeclarator) {
				*out = append(*out, &LocalDecl{
					DeclInfo: ix.info(d, d.ChildByField(syntax.FieldName), scoped(scopeEnd), nil),
					Type:     typ,
				})
			}
		case syntax.KindEnhancedFor:
			name := c.ChildByField(syntax.FieldName)
			at := name
			if at == nil {
				at = c
			}
			*out = append(*out, &LocalDecl{
				DeclInfo: ix.info(at, name, InScope(c.End), nil),
				Type:     ix.text(c.ChildByField(syntax.FieldType)),
			})
		case syntax.KindCatchParameter:
			*out = append(*out, &LocalDecl{
				DeclInfo: ix.info(c, c.ChildByField(syntax.FieldName), scoped(scopeEnd), nil),
				Type:     ix.text(c.ChildByField(syntax.FieldType)),
			})
		case syntax.KindClass, syntax.KindInterface, syntax.KindEnum:
			// Local types are not indexed.
			continue
		}
		end := scopeEnd
		switch c.Kind {
		case syntax.KindBlock, syntax.KindConstructorBody, syntax.KindFor,
			syntax.KindEnhancedFor, syntax.KindCatch, syntax.KindSwitchBlock:
			end = c.End
		}
		ix.locals(c, end, out)
	}
}
