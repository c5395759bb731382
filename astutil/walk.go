// Copyright © 2026 The apexls authors

// Package astutil provides shared walking utilities for syntax trees.
//
// These helpers are used by the analysis and lsp packages for traversing
// trees produced by any syntax.Parser.
package astutil

import "github.com/luthersystems/apexls/syntax"

// Walk calls fn for every node in the tree, depth-first in source order.
// parent is nil for the root. Returning false from fn skips the children
// of node.
func Walk(root *syntax.Node, fn func(node, parent *syntax.Node, depth int) bool) {
	walkNode(root, nil, 0, fn)
}

func walkNode(node, parent *syntax.Node, depth int, fn func(*syntax.Node, *syntax.Node, int) bool) {
	if node == nil {
		return
	}
	if !fn(node, parent, depth) {
		return
	}
	for _, child := range node.Children {
		walkNode(child, node, depth+1, fn)
	}
}

// Find returns every node whose kind is one of kinds, in source order.
func Find(root *syntax.Node, kinds ...string) []*syntax.Node {
	var out []*syntax.Node
	Walk(root, func(node, _ *syntax.Node, _ int) bool {
		if hasKind(node, kinds) {
			out = append(out, node)
		}
		return true
	})
	return out
}

// Path returns the chain of nodes containing offset, outermost first. The
// result is empty when root does not contain offset.
func Path(root *syntax.Node, offset int) []*syntax.Node {
	var path []*syntax.Node
	for n := root; n.Contains(offset); {
		path = append(path, n)
		var next *syntax.Node
		for _, c := range n.Children {
			// Adjacent siblings share a boundary byte; prefer the later one
			// only when the earlier one ends before offset.
			if c.Contains(offset) && (next == nil || next.End <= offset) {
				next = c
			}
		}
		if next == nil {
			break
		}
		n = next
	}
	return path
}

// Errors returns the ERROR nodes of the tree. Parsers that do not report
// syntax errors directly still mark unparsable regions this way.
func Errors(root *syntax.Node) []*syntax.Node {
	return Find(root, syntax.KindError)
}

func hasKind(n *syntax.Node, kinds []string) bool {
	for _, k := range kinds {
		if n.Kind == k {
			return true
		}
	}
	return false
}
