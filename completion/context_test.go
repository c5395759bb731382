// Copyright © 2026 The apexls authors

package completion

import (
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cursor removes the "|" marker from src and returns the text and the
// marker offset.
func cursor(t *testing.T, src string) (string, int) {
	t.Helper()
	i := strings.Index(src, "|")
	require.GreaterOrEqual(t, i, 0, "missing cursor marker")
	return src[:i] + src[i+1:], i
}

func detect(t *testing.T, src string) (Context, error) {
	t.Helper()
	text, offset := cursor(t, src)
	decls := analysis.Expand(analysis.IndexSource(text), offset)
	return Detect(text, offset, decls)
}

func TestDetect_EnumMember(t *testing.T) {
	c, err := detect(t, `public enum Season { WINTER, SPRING, SUMMER }
class A {
    void run() {
        Season.|
    }
}`)
	require.NoError(t, err)
	assert.Equal(t, Member, c.Kind)
	assert.Equal(t, "Season", c.ObjectName)
	assert.Equal(t, "Season", c.TypeName)
	assert.Equal(t, "", c.Prefix)
}

func TestDetect(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		kind   ContextKind
		prefix string
		object string
		typ    string
	}{
		{
			name:   "top level prefix",
			src:    `class A { void run() { Integer x = fo| } }`,
			kind:   TopLevel,
			prefix: "fo",
		},
		{
			name: "empty top level",
			src:  `class A { void run() { | } }`,
			kind: TopLevel,
		},
		{
			name:   "local receiver",
			src:    `class Account { String Name; } class A { void run() { Account acc; acc.Na| } }`,
			kind:   Member,
			prefix: "Na",
			object: "acc",
			typ:    "Account",
		},
		{
			name:   "safe navigation",
			src:    `class Account { String Name; } class A { void run() { Account acc; acc?.Na| } }`,
			kind:   Member,
			prefix: "Na",
			object: "acc",
			typ:    "Account",
		},
		{
			name:   "self reference",
			src:    `class A { Integer x; void run() { THIS.| } }`,
			kind:   Member,
			object: "THIS",
			typ:    "A",
		},
		{
			name:   "generic field type",
			src:    `class A { List<Account> accs; void run() { accs.| } }`,
			kind:   Member,
			object: "accs",
			typ:    "List",
		},
		{
			name:   "enum value receiver",
			src:    `enum Season { WINTER } class A { void run() { Season.WINTER.| } }`,
			kind:   Member,
			object: "Season.WINTER",
			typ:    "Season",
		},
		{
			name:   "nested type",
			src:    `class Outer { class Inner { static Integer DEPTH; } } class B { void run() { Outer.Inner.| } }`,
			kind:   Member,
			object: "Outer.Inner",
			typ:    "Outer.Inner",
		},
		{
			name:   "unknown receiver passes through",
			src:    `class A { void run() { Remote.lo| } }`,
			kind:   Member,
			prefix: "lo",
			object: "Remote",
			typ:    "Remote",
		},
		{
			name:   "whitespace after dot",
			src:    `enum Season { WINTER } class A { void run() { Season. WI| } }`,
			kind:   Member,
			prefix: "WI",
			object: "Season",
			typ:    "Season",
		},
		{
			name:   "after block comment",
			src:    `class A { /* x */ Ac| }`,
			kind:   TopLevel,
			prefix: "Ac",
		},
		{
			name: "inside line comment",
			src:  "class A { // Acc|\n}",
			kind: None,
		},
		{
			name: "inside string",
			src:  `class A { String s = 'Acc|'; }`,
			kind: None,
		},
		{
			name: "inside unterminated string",
			src:  `class A { String s = 'Acc|`,
			kind: None,
		},
		{
			name: "inside block comment",
			src:  `class A { /* Acc| */ }`,
			kind: None,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := detect(t, tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.kind, c.Kind)
			if tt.kind == None {
				return
			}
			assert.Equal(t, tt.prefix, c.Prefix)
			assert.Equal(t, tt.object, c.ObjectName)
			assert.Equal(t, tt.typ, c.TypeName)
		})
	}
}

func TestDetect_StaticAccess(t *testing.T) {
	const account = `class Account { static Integer MAX; Integer count; }
class A { Integer x; void run() { RECEIVER.| } }`
	tests := []struct {
		name     string
		receiver string
		local    string
		static   bool
	}{
		{"type name", "Account", "", true},
		{"type name in another case", "ACCOUNT", "", true},
		{"variable named like its type", "account", "Account account;", false},
		{"type name beside a same-named variable", "Account", "Account account;", true},
		{"plain variable", "acc", "Account acc;", false},
		{"self reference", "this", "", false},
		{"unknown receiver", "Remote", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := strings.Replace(account, "RECEIVER", tt.receiver, 1)
			src = strings.Replace(src, "void run() { ", "void run() { "+tt.local+" ", 1)
			c, err := detect(t, src)
			require.NoError(t, err)
			assert.Equal(t, Member, c.Kind)
			assert.Equal(t, tt.static, c.StaticAccess)
		})
	}
}

func TestDetect_Unsupported(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"constructor name", `class A { void run() { Object o = new Acc| } }`},
		{"method receiver", `class A { void run() { run.| } }`},
		{"call result", `class A { void run() { foo().| } }`},
		{"member of call result", `class A { String name; void run() { foo().name.| } }`},
		{"safe member of call result", `class A { String name; void run() { foo()?.name.| } }`},
		{"member of index", `class A { String y; void run() { xs[0].y.| } }`},
		{"spaced member of call result", `class A { String name; void run() { foo() . name.| } }`},
		{"member of cast", `class A { String y; void run() { ((A) o).y.| } }`},
		{"string literal", `class A { void run() { 'abc'.| } }`},
		{"number literal", `class A { void run() { 12.| } }`},
		{"self outside type", `this.|`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := detect(t, tt.src)
			assert.True(t, errors.Is(err, ErrUnsupported), "got %v", err)
		})
	}
}

func TestDetect_OutOfRange(t *testing.T) {
	for _, offset := range []int{-1, 100} {
		c, err := Detect("class A {}", offset, nil)
		require.NoError(t, err)
		assert.Equal(t, None, c.Kind)
	}
}

func TestDetect_Deterministic(t *testing.T) {
	src := `class Account { String Name; } class A { void run() { Account acc; acc.Na| } }`
	first, err := detect(t, src)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := detect(t, src)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestDetect_NewIdentifier(t *testing.T) {
	// An identifier ending in "new" is not the keyword.
	c, err := detect(t, `class A { void run() { renew Acc| } }`)
	require.NoError(t, err)
	assert.Equal(t, TopLevel, c.Kind)
	assert.Equal(t, "Acc", c.Prefix)
}
