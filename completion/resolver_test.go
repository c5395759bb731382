// Copyright © 2026 The apexls authors

package completion

import (
	"context"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func candidateNames(cands []Candidate) []string {
	out := make([]string, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Name())
	}
	return out
}

func resolveAt(t *testing.T, src string, lookup TypeLookup) []Candidate {
	t.Helper()
	text, offset := cursor(t, src)
	decls := analysis.Expand(analysis.IndexSource(text), offset)
	c, err := Detect(text, offset, decls)
	require.NoError(t, err)
	return Resolve(context.Background(), c, decls, lookup)
}

const utilSource = `public class Util {
    public static Integer MAX = 1;
    public Integer count;
    public static void helper() { }
    public void run() {
        Util u = new Util();
        RECEIVER.|
    }
    public Util() { }
}`

func TestResolve_StaticInstanceSeparation(t *testing.T) {
	static := resolveAt(t, strings.Replace(utilSource, "RECEIVER", "Util", 1), nil)
	assert.Equal(t, []string{"MAX", "helper"}, candidateNames(static))
	for _, c := range static {
		assert.True(t, c.Static)
		assert.Equal(t, TagMember, c.Tag)
		assert.Equal(t, "Util", c.Parent.Name)
	}

	instance := resolveAt(t, strings.Replace(utilSource, "RECEIVER", "u", 1), nil)
	assert.Equal(t, []string{"count", "run"}, candidateNames(instance))
	for _, c := range instance {
		assert.False(t, c.Static)
	}
}

func TestResolve_VariableNamedLikeType(t *testing.T) {
	const src = `class Account {
    static Integer MAX;
    Integer count;
    void run() {
        Account account = new Account();
        RECEIVER.|
    }
}`
	instance := resolveAt(t, strings.Replace(src, "RECEIVER", "account", 1), nil)
	assert.Equal(t, []string{"count", "run"}, candidateNames(instance))

	static := resolveAt(t, strings.Replace(src, "RECEIVER", "Account", 1), nil)
	assert.Equal(t, []string{"MAX"}, candidateNames(static))
}

func TestResolve_Interface(t *testing.T) {
	cands := resolveAt(t, `public interface Shape { Double area(); String describe(); }
public class Canvas {
    Shape s;
    void draw() { s.| }
}`, nil)
	assert.Equal(t, []string{"area", "describe"}, candidateNames(cands))
}

func TestResolve_Enum(t *testing.T) {
	cands := resolveAt(t, `public enum Season { WINTER, SPRING }
class A { void run() { Season s; s.| } }`, nil)
	assert.Equal(t, []string{"WINTER", "SPRING"}, candidateNames(cands))
}

func TestResolve_NestedTypeIsStatic(t *testing.T) {
	cands := resolveAt(t, `class Outer {
    class Inner { static Integer DEPTH; }
    static Integer LEVEL;
}
class B { void run() { Outer.| } }`, nil)
	assert.Equal(t, []string{"Inner", "LEVEL"}, candidateNames(cands))
	assert.Equal(t, TagType, cands[0].Tag)

	nested := resolveAt(t, `class Outer { class Inner { static Integer DEPTH; } }
class B { void run() { Outer.Inner.| } }`, nil)
	assert.Equal(t, []string{"DEPTH"}, candidateNames(nested))
}

func TestResolve_TopLevel(t *testing.T) {
	cands := resolveAt(t, `public class Calc {
    private Integer total;
    public Calc() { }
    public Integer add(Integer a, Integer b) {
        for (Integer i = 0; i < 1; i++) { }
        Integer sum = a + b;
        |
    }
}`, nil)
	assert.Equal(t, []string{"Calc", "total", "add", "a", "b", "sum"}, candidateNames(cands))
	tags := map[string]Tag{}
	for _, c := range cands {
		tags[c.Name()] = c.Tag
	}
	assert.Equal(t, TagType, tags["Calc"])
	assert.Equal(t, TagMember, tags["total"])
	assert.Equal(t, TagVariable, tags["sum"])
	assert.Equal(t, "Calc", cands[1].Parent.Name)
}

func TestResolve_CrossFileLookup(t *testing.T) {
	remote := &analysis.TypeDecl{
		DeclInfo: analysis.DeclInfo{Name: "Remote"},
		TypeKind: analysis.TypeClass,
	}
	remote.Members = []analysis.Declaration{
		&analysis.FieldDecl{DeclInfo: analysis.DeclInfo{Name: "LIMIT", Parent: remote}, Static: true},
		&analysis.FieldDecl{DeclInfo: analysis.DeclInfo{Name: "inst", Parent: remote}},
	}
	var asked []string
	lookup := func(_ context.Context, name string) (*analysis.TypeDecl, error) {
		asked = append(asked, name)
		if strings.EqualFold(name, "Remote") {
			return remote, nil
		}
		return nil, nil
	}
	src := `class A { void run() { Remote.| } }`
	cands := resolveAt(t, src, lookup)
	assert.Equal(t, []string{"LIMIT"}, candidateNames(cands))
	assert.Equal(t, []string{"Remote"}, asked)

	failing := func(context.Context, string) (*analysis.TypeDecl, error) {
		return nil, errors.New("store offline")
	}
	assert.Empty(t, resolveAt(t, src, failing))
	assert.Empty(t, resolveAt(t, `class A { void run() { Missing.| } }`, lookup))
}

func TestResolve_LocalDeclaredType(t *testing.T) {
	text, offset := cursor(t, `class Account { Integer Name; static Integer COUNT; }
class A { void run() { Account acc; | } }`)
	decls := analysis.Expand(analysis.IndexSource(text), offset)
	c := Context{Kind: Member, ObjectName: "x", TypeName: "acc", Offset: offset}
	cands := Resolve(context.Background(), c, decls, nil)
	assert.Equal(t, []string{"Name"}, candidateNames(cands))
}

func TestResolve_None(t *testing.T) {
	assert.Nil(t, Resolve(context.Background(), Context{Kind: None}, nil, nil))
	assert.Nil(t, Resolve(context.Background(), Context{Kind: Member}, nil, nil))
}

func TestCandidate_LabelDetail(t *testing.T) {
	cands := resolveAt(t, `public enum Season { WINTER }
class Calc {
    Integer total;
    Integer add(Integer a) { return a; }
    void run() { Integer n; | }
}`, nil)
	got := map[string][2]string{}
	for _, c := range cands {
		got[c.Name()] = [2]string{c.Label(), c.Detail()}
	}
	assert.Equal(t, [2]string{"enum", "enum Season"}, got["Season"])
	assert.Equal(t, [2]string{"class", "class Calc"}, got["Calc"])
	assert.Equal(t, [2]string{"field", "Integer total"}, got["total"])
	assert.Equal(t, [2]string{"method", "Integer add(Integer a)"}, got["add"])
	assert.Equal(t, [2]string{"variable", "Integer n"}, got["n"])

	kw := Candidate{Keyword: "for", Tag: TagKeyword}
	assert.Equal(t, "keyword", kw.Label())
	assert.Empty(t, kw.Detail())
}
