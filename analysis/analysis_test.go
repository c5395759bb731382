// Copyright © 2026 The apexls authors

package analysis

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func singleType(t *testing.T, src string) *TypeDecl {
	t.Helper()
	decls := IndexSource(src)
	require.Len(t, decls, 1)
	typ, ok := decls[0].(*TypeDecl)
	require.True(t, ok)
	return typ
}

func method(t *testing.T, typ *TypeDecl, name string) *MethodDecl {
	t.Helper()
	m, ok := typ.Member(name).(*MethodDecl)
	require.True(t, ok, "method %s", name)
	return m
}

func localsNamed(block *Block, name string) []*LocalDecl {
	var out []*LocalDecl
	for _, l := range block.Decls {
		if l.Name == name {
			out = append(out, l)
		}
	}
	return out
}

func TestIndex_EnumRoundTrip(t *testing.T) {
	typ := singleType(t, `public enum Season { WINTER, SUMMER, FALL }`)
	assert.Equal(t, "Season", typ.Name)
	assert.Equal(t, TypeEnum, typ.TypeKind)
	require.Len(t, typ.Members, 3)
	for i, want := range []string{"WINTER", "SUMMER", "FALL"} {
		v, ok := typ.Members[i].(*EnumValueDecl)
		require.True(t, ok)
		assert.Equal(t, want, v.Name)
		assert.Equal(t, "Season", v.Enum)
		assert.Equal(t, AlwaysVisible, v.Visibility.Kind)
		assert.Same(t, typ, v.Parent)
	}
}

func TestIndex_VisibilityBoundary(t *testing.T) {
	src := `class A {
    void run() {
        Integer x = 1;
    }
}`
	typ := singleType(t, src)
	m := method(t, typ, "run")
	require.NotNil(t, m.Body)
	require.Len(t, m.Body.Decls, 1)
	x := m.Body.Decls[0]

	start := strings.Index(src, "x = 1")
	end := strings.Index(src, "    }\n}") + len("    }")
	assert.Equal(t, start, x.Range.Start)
	assert.Equal(t, VisibleInScope, x.Visibility.Kind)
	assert.Equal(t, end, x.Visibility.ScopeEnd)

	assert.False(t, IsVisibleAt(x, start-1))
	assert.True(t, IsVisibleAt(x, start))
	assert.True(t, IsVisibleAt(x, end))
	assert.False(t, IsVisibleAt(x, end+1))
}

func TestIndex_SiblingLoops(t *testing.T) {
	src := `class A {
    void run(List<Integer> xs) {
        for (Integer i = 0; i < 3; i++) { Integer a; }
        for (Integer i = 0; i < 3; i++) { Integer a; }
        for (Integer v : xs) { }
        for (Integer v : xs) { }
    }
}`
	m := method(t, singleType(t, src), "run")
	for _, name := range []string{"i", "a", "v"} {
		t.Run(name, func(t *testing.T) {
			locals := localsNamed(m.Body, name)
			require.Len(t, locals, 2)
			first, second := locals[0], locals[1]
			assert.Equal(t, VisibleInScope, first.Visibility.Kind)
			assert.Less(t, first.Visibility.ScopeEnd, second.Range.Start)
			assert.False(t, IsVisibleAt(first, second.Range.Start))
			assert.False(t, IsVisibleAt(second, first.Range.Start))
		})
	}
	loopEnd := strings.Index(src, "{ Integer a; }") + len("{ Integer a; }")
	assert.Equal(t, loopEnd, localsNamed(m.Body, "i")[0].Visibility.ScopeEnd)
}

func TestIndex_MultipleDeclarators(t *testing.T) {
	m := method(t, singleType(t, `class A { void run() { Integer a, b = 2; } }`), "run")
	require.Len(t, m.Body.Decls, 2)
	a, b := m.Body.Decls[0], m.Body.Decls[1]
	assert.Equal(t, "a", a.Name)
	assert.Equal(t, "b", b.Name)
	assert.Equal(t, "Integer", a.Type)
	assert.Equal(t, "Integer", b.Type)
	assert.Equal(t, a.Visibility, b.Visibility)
	assert.NotSame(t, a, b)
}

func TestIndex_Properties(t *testing.T) {
	src := `class A {
    public Integer count {
        get { Integer g = 1; return g; }
        set { Integer s = value; }
    }
    public static String name { get; set; }
}`
	typ := singleType(t, src)
	count, ok := typ.Member("count").(*PropertyDecl)
	require.True(t, ok)
	assert.Equal(t, "Integer", count.Type)
	assert.Equal(t, []string{"get", "set"}, count.Accessors)
	require.NotNil(t, count.Getter)
	require.NotNil(t, count.Setter)
	assert.Equal(t, "g", count.Getter.Decls[0].Name)
	assert.Equal(t, "s", count.Setter.Decls[0].Name)
	assert.False(t, count.Static)

	name, ok := typ.Member("NAME").(*PropertyDecl)
	require.True(t, ok)
	assert.True(t, name.Static)
	assert.Nil(t, name.Getter)
	assert.Nil(t, name.Setter)
	assert.Equal(t, "static String name { get; set; }", Detail(name))
}

func TestIndex_StaticInitializers(t *testing.T) {
	typ := singleType(t, `class A {
    static Integer total;
    static { Integer seed = 1; }
    { Integer inst; }
}`)
	require.Len(t, typ.Members, 1)
	require.Len(t, typ.StaticInits, 1)
	assert.Equal(t, "seed", typ.StaticInits[0].Decls[0].Name)
	require.Len(t, typ.InstanceInits, 1)
	assert.Equal(t, "inst", typ.InstanceInits[0].Decls[0].Name)
}

func TestIndex_Parameters(t *testing.T) {
	src := `interface Shape { Double scale(Double factor); }
class Impl {
    Double scale(Double factor) { return factor; }
}`
	decls := IndexSource(src)
	require.Len(t, decls, 2)
	iface := decls[0].(*TypeDecl)
	sig := method(t, iface, "scale")
	assert.Nil(t, sig.Body)
	require.Len(t, sig.Params, 1)
	assert.Equal(t, VisibleAfterDeclaration, sig.Params[0].Visibility.Kind)
	assert.True(t, sig.Params[0].Param)

	impl := method(t, decls[1].(*TypeDecl), "scale")
	require.Len(t, impl.Params, 1)
	assert.Equal(t, VisibleInScope, impl.Params[0].Visibility.Kind)
	assert.Equal(t, impl.Body.Range.End, impl.Params[0].Visibility.ScopeEnd)
	assert.Equal(t, "Double scale(Double factor)", Detail(impl))
}

func TestIndex_MembersAndModifiers(t *testing.T) {
	src := `@isTest
public virtual class Outer extends Base implements Runnable {
    public static final Integer MAX = 3;
    private String label;
    public Outer(String label) { }
    public static Outer build() { return null; }
    public class Inner { Integer depth; }
}`
	typ := singleType(t, src)
	assert.Equal(t, TypeClass, typ.TypeKind)
	assert.Equal(t, "Base", typ.Super)
	assert.Equal(t, []string{"Runnable"}, typ.Interfaces)
	assert.True(t, typ.HasModifier("@istest"))
	assert.True(t, typ.HasModifier("Virtual"))
	assert.Equal(t, "class Outer extends Base implements Runnable", Detail(typ))

	var kinds []DeclKind
	for _, m := range typ.Members {
		kinds = append(kinds, m.Kind())
	}
	assert.Equal(t, []DeclKind{KindField, KindField, KindConstructor, KindMethod, KindType}, kinds)

	assert.True(t, IsStatic(typ.Members[0]))
	assert.False(t, IsStatic(typ.Members[1]))
	ctor := typ.Members[2].(*ConstructorDecl)
	assert.Equal(t, NeverVisible, ctor.Visibility.Kind)
	assert.False(t, IsVisibleAt(ctor, ctor.Range.Start))
	assert.True(t, IsStatic(typ.Members[3]))

	inner := typ.Members[4].(*TypeDecl)
	assert.Same(t, typ, inner.Parent)
	assert.Equal(t, "Outer.Inner", inner.QualifiedName())
	assert.True(t, IsStatic(inner))
	assert.Nil(t, typ.Member("Outer"), "constructors are not members by name")
}

func TestIndex_CatchParameter(t *testing.T) {
	src := `class A { void run() { try { } catch (Exception e) { String m; } Integer after; } }`
	m := method(t, singleType(t, src), "run")
	e := localsNamed(m.Body, "e")
	require.Len(t, e, 1)
	after := localsNamed(m.Body, "after")[0]
	assert.False(t, IsVisibleAt(e[0], after.Range.Start))
	assert.Equal(t, "Exception", e[0].Type)
}

func TestIndex_MissingNames(t *testing.T) {
	decls := IndexSource(`class { Integer ; void () { } }`)
	require.Len(t, decls, 1)
	assert.Equal(t, "", decls[0].Info().Name)
	assert.Nil(t, Index(nil, nil))
}

func TestExpand(t *testing.T) {
	src := `class A {
    Integer count;
    void run(Integer n) {
        Integer x = n;
    }
    class B { Integer depth; }
}
enum E { ONE }
`
	decls := IndexSource(src)
	require.Len(t, decls, 2)

	names := func(ds []Declaration) []string {
		var out []string
		for _, d := range ds {
			out = append(out, d.Info().Name)
		}
		return out
	}

	outside := len(src)
	assert.Equal(t, []string{"A", "E"}, names(Expand(decls, outside)))

	inBody := strings.Index(src, "Integer x")
	got := names(Expand(decls, inBody))
	assert.Equal(t, []string{"A", "E", "count", "run", "B", "n", "x"}, got)

	inNested := strings.Index(src, "depth")
	assert.Contains(t, names(Expand(decls, inNested)), "depth")
	assert.Equal(t, "B", EnclosingType(decls, inNested).Name)
	assert.Equal(t, "A", EnclosingType(decls, inBody).Name)
	assert.Nil(t, EnclosingType(decls, outside))
}

func TestLookup(t *testing.T) {
	src := `class A {
    String x;
    void run() {
        Integer x = 1;
    }
    class B { Integer depth; }
}`
	decls := IndexSource(src)
	offset := strings.Index(src, "1;")
	all := Expand(decls, offset)

	d := Lookup(all, "X", offset)
	require.NotNil(t, d)
	assert.Equal(t, KindLocal, d.Kind())
	assert.Equal(t, KindField, Lookup(all, "x", 0).Kind())
	assert.Nil(t, Lookup(all, "missing", offset))
	assert.Nil(t, Lookup(all, "", offset))

	b := FindType(decls, "a.b")
	require.NotNil(t, b)
	assert.Equal(t, "B", b.Name)
	assert.Same(t, b, FindType(decls, "B"))
	assert.Nil(t, FindType(decls, "A.missing"))

	field := LookupQualified(decls, "A.x")
	require.NotNil(t, field)
	assert.Equal(t, KindField, field.Kind())
	assert.Nil(t, LookupQualified(decls, "x"))
}

func TestOffsetAt(t *testing.T) {
	text := "ab\ncde\n\nf"
	tests := []struct {
		line, char, offset int
	}{
		{0, 0, 0},
		{0, 2, 2},
		{0, 9, 2},
		{1, 0, 3},
		{1, 3, 6},
		{2, 0, 7},
		{3, 1, 9},
		{9, 0, len(text)},
		{-1, 0, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.offset, OffsetAt(text, tt.line, tt.char), "line %d char %d", tt.line, tt.char)
	}
	line, char := PositionAt(text, 5)
	assert.Equal(t, 1, line)
	assert.Equal(t, 2, char)
	line, char = PositionAt(text, 100)
	assert.Equal(t, 3, line)
	assert.Equal(t, 1, char)
}

func TestBaseType(t *testing.T) {
	assert.Equal(t, "List", BaseType("List<Account>"))
	assert.Equal(t, "Account", BaseType("Account[]"))
	assert.Equal(t, "Map", BaseType("Map<String, List<Integer>>"))
	assert.Equal(t, "Integer", BaseType(" Integer "))
}

func TestRange_Contains(t *testing.T) {
	r := &Range{Start: 4, End: 8}
	assert.False(t, r.Contains(3))
	assert.True(t, r.Contains(4))
	assert.True(t, r.Contains(7))
	assert.True(t, r.Contains(8), "end is accepted")
	assert.False(t, r.Contains(9))

	var missing *Range
	assert.False(t, missing.Contains(0))
}
