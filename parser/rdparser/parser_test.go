// Copyright © 2026 The apexls authors

package rdparser

import (
	"testing"

	"github.com/luthersystems/apexls/syntax"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// collect returns every node of the given kind in document order.
func collect(root *syntax.Node, kind string) []*syntax.Node {
	var out []*syntax.Node
	var visit func(n *syntax.Node)
	visit = func(n *syntax.Node) {
		if n.Kind == kind {
			out = append(out, n)
		}
		for _, c := range n.Children {
			visit(c)
		}
	}
	visit(root)
	return out
}

func names(src string, nodes []*syntax.Node) []string {
	var out []string
	for _, n := range nodes {
		out = append(out, n.ChildByField(FieldName).Text([]byte(src)))
	}
	return out
}

func parse(t *testing.T, src string) *syntax.Node {
	t.Helper()
	root, err := New("test.cls").Parse([]byte(src))
	require.NoError(t, err)
	require.NotNil(t, root)
	return root
}

func TestParseClassMembers(t *testing.T) {
	src := `public with sharing class Foo extends Base implements Runnable, Comparable {
    private Integer x = 1, y;
    public String name { get; private set; }
    public void run(Integer a, List<String> b) {
        Integer c = a;
    }
}`
	root := parse(t, src)
	require.Len(t, root.Children, 1)
	class := root.Children[0]
	assert.Equal(t, syntax.KindClass, class.Kind)
	assert.Equal(t, "Foo", class.ChildByField(FieldName).Text([]byte(src)))
	assert.Equal(t, "Base", class.ChildByField(FieldSuperclass).Children[0].Text([]byte(src)))
	ifaces := class.ChildByField(FieldInterfaces).ChildOfKind(syntax.KindTypeList)
	assert.Len(t, ifaces.Children, 2)

	body := class.ChildByField(FieldBody)
	require.NotNil(t, body)
	var kinds []string
	for _, c := range body.Children {
		kinds = append(kinds, c.Kind)
	}
	assert.Equal(t, []string{syntax.KindField, syntax.KindField, syntax.KindMethod}, kinds)

	decls := body.Children[0].ChildrenByField(FieldDeclarator)
	assert.Equal(t, []string{"x", "y"}, names(src, decls))

	prop := body.Children[1]
	accessors := prop.ChildOfKind(syntax.KindAccessorList)
	require.NotNil(t, accessors)
	require.Len(t, accessors.Children, 2)
	assert.Equal(t, "get", accessors.Children[0].ChildByField(FieldAccessor).Text([]byte(src)))
	assert.Equal(t, "set", accessors.Children[1].ChildByField(FieldAccessor).Text([]byte(src)))

	method := body.Children[2]
	assert.Equal(t, "run", method.ChildByField(FieldName).Text([]byte(src)))
	assert.Equal(t, "void", method.ChildByField(FieldType).Text([]byte(src)))
	params := collect(method, syntax.KindFormalParameter)
	assert.Equal(t, []string{"a", "b"}, names(src, params))
	assert.Equal(t, "List<String>", params[1].ChildByField(FieldType).Text([]byte(src)))
	locals := collect(method, syntax.KindLocalVariable)
	require.Len(t, locals, 1)
	assert.Equal(t, "Integer", locals[0].ChildByField(FieldType).Text([]byte(src)))
}

func TestParseEnum(t *testing.T) {
	src := `public enum Season { WINTER, SPRING, SUMMER, FALL }`
	root := parse(t, src)
	consts := collect(root, syntax.KindEnumConstant)
	assert.Equal(t, []string{"WINTER", "SPRING", "SUMMER", "FALL"}, names(src, consts))
	assert.Equal(t, len(src), root.Children[0].End)
}

func TestParseInterface(t *testing.T) {
	src := `global interface Shape extends Named, Sized {
    Double area();
    String describe(Integer depth);
}`
	root := parse(t, src)
	iface := root.Children[0]
	assert.Equal(t, syntax.KindInterface, iface.Kind)
	ext := iface.ChildByField(FieldExtends).ChildOfKind(syntax.KindTypeList)
	assert.Len(t, ext.Children, 2)
	methods := collect(iface, syntax.KindMethod)
	assert.Equal(t, []string{"area", "describe"}, names(src, methods))
	assert.Nil(t, methods[0].ChildByField(FieldBody))
}

func TestParseConstructorAndStaticInit(t *testing.T) {
	src := `class Counter {
    static Integer total;
    static {
        Integer seed = 4;
        total = seed;
    }
    Counter(Integer start) {
        Integer n = start;
    }
    Integer next() { return total; }
}`
	root := parse(t, src)
	body := root.Children[0].ChildByField(FieldBody)
	require.Len(t, body.Children, 4)
	assert.Equal(t, syntax.KindStaticInitializer, body.Children[1].Kind)
	assert.Len(t, collect(body.Children[1], syntax.KindLocalVariable), 1)

	ctor := body.Children[2]
	assert.Equal(t, syntax.KindConstructor, ctor.Kind)
	assert.Equal(t, syntax.KindConstructorBody, ctor.ChildByField(FieldBody).Kind)
	assert.Equal(t, []string{"start"}, names(src, collect(ctor, syntax.KindFormalParameter)))

	assert.Equal(t, syntax.KindMethod, body.Children[3].Kind)
	assert.Len(t, collect(body.Children[3], syntax.KindReturn), 1)
}

func TestParseStatements(t *testing.T) {
	src := `class Loops {
    void run(List<Account> accounts) {
        for (Integer i = 0; i < 10; i++) {
            Integer sq = i * i;
        }
        for (Account a : accounts) {
            String n = a.Name;
        }
        try {
            Integer x;
        } catch (DmlException e) {
            String msg = e.getMessage();
        } finally {
            Integer done;
        }
        switch on accounts.size() {
            when 0 { Integer empty; }
            when else { Integer some; }
        }
        Map<String, List<Integer>> m = new Map<String, List<Integer>>();
        if (m.isEmpty()) { Integer z; } else { Integer w; }
        while (true) { break; }
    }
}`
	root := parse(t, src)

	fors := collect(root, syntax.KindFor)
	require.Len(t, fors, 1)
	init := fors[0].ChildByField(FieldInit)
	require.NotNil(t, init)
	assert.Equal(t, syntax.KindLocalVariable, init.Kind)
	assert.NotNil(t, fors[0].ChildByField(FieldCondition))
	assert.NotNil(t, fors[0].ChildByField(FieldUpdate))

	each := collect(root, syntax.KindEnhancedFor)
	require.Len(t, each, 1)
	assert.Equal(t, "a", each[0].ChildByField(FieldName).Text([]byte(src)))
	assert.Equal(t, "Account", each[0].ChildByField(FieldType).Text([]byte(src)))

	catches := collect(root, syntax.KindCatch)
	require.Len(t, catches, 1)
	param := catches[0].ChildOfKind(syntax.KindCatchParameter)
	assert.Equal(t, "e", param.ChildByField(FieldName).Text([]byte(src)))
	assert.Len(t, collect(root, syntax.KindFinally), 1)

	assert.Len(t, collect(root, syntax.KindSwitchRule), 2)

	locals := collect(root, syntax.KindLocalVariable)
	var types []string
	for _, l := range locals {
		types = append(types, l.ChildByField(FieldType).Text([]byte(src)))
	}
	assert.Contains(t, types, "Map<String, List<Integer>>")
	assert.Len(t, collect(root, syntax.KindIf), 1)
	assert.Len(t, collect(root, syntax.KindWhile), 1)
}

func TestParseCaseInsensitiveKeywords(t *testing.T) {
	src := `PUBLIC Class Foo { PRIVATE STATIC Integer x; }`
	root := parse(t, src)
	require.Len(t, root.Children, 1)
	assert.Equal(t, syntax.KindClass, root.Children[0].Kind)
	assert.Len(t, collect(root, syntax.KindField), 1)
}

func TestParseNestedTypes(t *testing.T) {
	src := `class Outer { class Inner { Integer v; } enum Mode { ON, OFF } }`
	root := parse(t, src)
	assert.Len(t, collect(root, syntax.KindClass), 2)
	assert.Len(t, collect(root, syntax.KindEnum), 1)
}

func TestParseUnterminated(t *testing.T) {
	src := `public class Foo {
    void run() {
        Integer x = `
	root, err := New("test.cls").Parse([]byte(src))
	require.Error(t, err)
	require.NotNil(t, root)
	class := root.Children[0]
	assert.Equal(t, len(src), class.End)
	methods := collect(root, syntax.KindMethod)
	require.Len(t, methods, 1)
	assert.Equal(t, len(src), methods[0].ChildByField(FieldBody).End)
	locals := collect(root, syntax.KindLocalVariable)
	require.Len(t, locals, 1)
	assert.Equal(t, []string{"x"}, names(src, locals[0].ChildrenByField(FieldDeclarator)))
}

func TestParseRecovery(t *testing.T) {
	src := `class A {
    123;
    Integer ok;
}
garbage here;
class B {}`
	root, err := New("test.cls").Parse([]byte(src))
	require.Error(t, err)
	errs := SyntaxErrors(err)
	require.NotEmpty(t, errs)
	assert.Equal(t, 2, errs[0].Source.Line)
	assert.Equal(t, "test.cls", errs[0].Source.File)

	assert.Len(t, collect(root, syntax.KindClass), 2)
	assert.Len(t, collect(root, syntax.KindField), 1)
	assert.NotEmpty(t, collect(root, syntax.KindError))
}

func TestParseStringIgnoresErrors(t *testing.T) {
	root := ParseString(`class {`)
	require.NotNil(t, root)
	assert.Equal(t, syntax.KindSource, root.Kind)
}

func TestErrorList(t *testing.T) {
	_, err := New("").Parse([]byte(`class A { 1; 2; }`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "more errors")
	assert.Nil(t, SyntaxErrors(nil))
}
