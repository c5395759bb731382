// Copyright © 2026 The apexls authors

package syntax

import (
	"github.com/cockroachdb/errors"
	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_java "github.com/tree-sitter/tree-sitter-java/bindings/go"
)

// GrammarJava names the tree-sitter-java grammar.
const GrammarJava = "java"

// Grammar returns the tree-sitter language registered under name. The
// Java grammar parses the Java-compatible subset of Apex: case-sensitive
// keywords and no property accessors.
func Grammar(name string) (*tree_sitter.Language, error) {
	switch name {
	case GrammarJava:
		return tree_sitter.NewLanguage(tree_sitter_java.Language()), nil
	}
	return nil, errors.Newf("unknown tree-sitter grammar %q", name)
}

// ErrSyntax is reported alongside a tree that contains ERROR nodes.
var ErrSyntax = errors.New("source contains syntax errors")

// TreeSitterParser adapts a tree-sitter grammar to the Parser interface.
// The language comes from Grammar or from an embedder supplied binding such
// as tree-sitter-sfapex.
//
// The native tree is materialized into *Node values and released before
// Parse returns; callers never hold cgo memory.
type TreeSitterParser struct {
	lang *tree_sitter.Language
}

// NewTreeSitterParser returns a parser for the given language.
func NewTreeSitterParser(lang *tree_sitter.Language) *TreeSitterParser {
	return &TreeSitterParser{lang: lang}
}

// Parse implements Parser.
func (p *TreeSitterParser) Parse(src []byte) (*Node, error) {
	if p.lang == nil {
		return nil, errors.New("tree-sitter: no language configured")
	}
	parser := tree_sitter.NewParser()
	defer parser.Close()
	if err := parser.SetLanguage(p.lang); err != nil {
		return nil, errors.Wrap(err, "tree-sitter: set language")
	}

	// The C library may retain the buffer while parsing; hand it a copy.
	buf := make([]byte, len(src))
	copy(buf, src)
	tree := parser.Parse(buf, nil)
	if tree == nil {
		return nil, errors.New("tree-sitter: parse returned no tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	out := convertNode(root, "")
	out.Kind = KindSource
	if root.HasError() {
		return out, ErrSyntax
	}
	return out, nil
}

// convertNode copies a tree-sitter node and its named descendants.
// Anonymous tokens (punctuation, keywords) are dropped; their text is still
// reachable through the byte range of the enclosing named node. Keywords
// directly under a modifiers node are kept as modifier nodes, since some
// grammars leave them anonymous.
func convertNode(n *tree_sitter.Node, field string) *Node {
	out := &Node{
		Kind:  n.Kind(),
		Start: int(n.StartByte()),
		End:   int(n.EndByte()),
		Field: field,
	}
	count := n.ChildCount()
	for i := uint(0); i < count; i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if !child.IsNamed() {
			if out.Kind == KindModifiers {
				out.Children = append(out.Children, &Node{
					Kind:  KindModifier,
					Start: int(child.StartByte()),
					End:   int(child.EndByte()),
				})
			}
			continue
		}
		out.Children = append(out.Children, convertNode(child, n.FieldNameForChild(uint32(i))))
	}
	return out
}
