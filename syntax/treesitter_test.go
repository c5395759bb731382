// Copyright © 2026 The apexls authors

package syntax

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func javaParser(t *testing.T) Parser {
	t.Helper()
	lang, err := Grammar(GrammarJava)
	require.NoError(t, err)
	return NewTreeSitterParser(lang)
}

func TestTreeSitterParser_NoLanguage(t *testing.T) {
	var p Parser = NewTreeSitterParser(nil)
	root, err := p.Parse([]byte("class A { }"))
	require.Error(t, err)
	assert.Nil(t, root)
	assert.NotErrorIs(t, err, ErrSyntax)
}

func TestGrammar_Unknown(t *testing.T) {
	_, err := Grammar("cobol")
	assert.ErrorContains(t, err, "cobol")
}

func TestTreeSitterParser_Java(t *testing.T) {
	src := []byte(`public class Calc {
    public static int MAX = 1;
    int total;
    int add(int a) { int b = a; return b; }
}`)
	root, err := javaParser(t).Parse(src)
	require.NoError(t, err)
	assert.Equal(t, KindSource, root.Kind)
	assert.Equal(t, 0, root.Start)

	class := root.ChildOfKind(KindClass)
	require.NotNil(t, class)
	assert.Equal(t, "Calc", class.ChildByField(FieldName).Text(src))

	body := class.ChildByField(FieldBody)
	require.NotNil(t, body)
	fields := 0
	var methods []*Node
	for _, c := range body.Children {
		switch c.Kind {
		case KindField:
			fields++
		case KindMethod:
			methods = append(methods, c)
		}
	}
	assert.Equal(t, 2, fields)
	require.Len(t, methods, 1)
	assert.Equal(t, "add", methods[0].ChildByField(FieldName).Text(src))
	assert.Equal(t, KindFormalParameters, methods[0].ChildByField(FieldParameters).Kind)

	mods := body.ChildOfKind(KindField).ChildOfKind(KindModifiers)
	require.NotNil(t, mods)
	var words []string
	for _, m := range mods.Children {
		assert.Equal(t, KindModifier, m.Kind)
		words = append(words, m.Text(src))
	}
	assert.Equal(t, []string{"public", "static"}, words)
}

func TestTreeSitterParser_JavaSyntaxError(t *testing.T) {
	src := []byte("class Broken { int x = ; }")
	root, err := javaParser(t).Parse(src)
	require.ErrorIs(t, err, ErrSyntax)
	require.NotNil(t, root)
	assert.Equal(t, KindSource, root.Kind)
	assert.NotNil(t, root.ChildOfKind(KindClass))
}
