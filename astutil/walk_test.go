// Copyright © 2026 The apexls authors

package astutil

import (
	"testing"

	"github.com/luthersystems/apexls/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tree builds:
//
//	source[0,20]
//	  class[0,20]
//	    body[5,20]
//	      field[6,10]
//	      method[10,19]
//	        block[15,19]
//	  ERROR[20,20]
func tree() *syntax.Node {
	block := &syntax.Node{Kind: syntax.KindBlock, Start: 15, End: 19}
	method := &syntax.Node{Kind: syntax.KindMethod, Start: 10, End: 19, Children: []*syntax.Node{block}}
	field := &syntax.Node{Kind: syntax.KindField, Start: 6, End: 10}
	body := &syntax.Node{Kind: syntax.KindClassBody, Start: 5, End: 20, Children: []*syntax.Node{field, method}}
	class := &syntax.Node{Kind: syntax.KindClass, Start: 0, End: 20, Children: []*syntax.Node{body}}
	errNode := &syntax.Node{Kind: syntax.KindError, Start: 20, End: 20}
	return &syntax.Node{Kind: syntax.KindSource, Start: 0, End: 20, Children: []*syntax.Node{class, errNode}}
}

func TestWalk(t *testing.T) {
	var kinds []string
	var depths []int
	Walk(tree(), func(node, parent *syntax.Node, depth int) bool {
		kinds = append(kinds, node.Kind)
		depths = append(depths, depth)
		if depth == 0 {
			assert.Nil(t, parent)
		}
		return true
	})
	assert.Equal(t, []string{
		syntax.KindSource, syntax.KindClass, syntax.KindClassBody,
		syntax.KindField, syntax.KindMethod, syntax.KindBlock, syntax.KindError,
	}, kinds)
	assert.Equal(t, []int{0, 1, 2, 3, 3, 4, 1}, depths)
}

func TestWalk_SkipChildren(t *testing.T) {
	n := 0
	Walk(tree(), func(node, _ *syntax.Node, _ int) bool {
		n++
		return node.Kind != syntax.KindClass
	})
	assert.Equal(t, 3, n)
}

func TestWalk_Nil(t *testing.T) {
	Walk(nil, func(*syntax.Node, *syntax.Node, int) bool {
		t.Fatal("unexpected call")
		return true
	})
}

func TestFind(t *testing.T) {
	found := Find(tree(), syntax.KindField, syntax.KindBlock)
	require.Len(t, found, 2)
	assert.Equal(t, syntax.KindField, found[0].Kind)
	assert.Equal(t, syntax.KindBlock, found[1].Kind)
	assert.Len(t, Errors(tree()), 1)
}

func TestPath(t *testing.T) {
	tests := []struct {
		name   string
		offset int
		last   string
		depth  int
	}{
		{"in block", 16, syntax.KindBlock, 5},
		{"boundary prefers later sibling", 10, syntax.KindMethod, 4},
		{"in field", 7, syntax.KindField, 4},
		{"class header", 2, syntax.KindClass, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := Path(tree(), tt.offset)
			require.Len(t, path, tt.depth)
			assert.Equal(t, tt.last, path[len(path)-1].Kind)
		})
	}
	assert.Empty(t, Path(tree(), 50))
}

