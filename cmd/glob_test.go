// Copyright © 2026 The apexls authors

package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterExcludes(t *testing.T) {
	paths := []string{
		"src/classes/Account.cls",
		"src/classes/AccountTest.cls",
		"build/classes/Generated.cls",
		"src/triggers/AccountTrigger.trigger",
	}
	tests := []struct {
		name     string
		excludes []string
		want     []string
	}{
		{"no excludes", nil, paths},
		{"by name", []string{"AccountTest.cls"}, []string{paths[0], paths[2], paths[3]}},
		{"by directory", []string{"build"}, []string{paths[0], paths[1], paths[3]}},
		{"glob", []string{"*Test.cls"}, []string{paths[0], paths[2], paths[3]}},
		{"multiple", []string{"build", "*.trigger"}, []string{paths[0], paths[1]}},
		{"no matches", []string{"nonexistent"}, paths},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterExcludes(paths, tt.excludes))
		})
	}
}

func TestMatchesAny(t *testing.T) {
	assert.True(t, matchesAny("src/Account.cls", []string{"src/*.cls"}))
	assert.False(t, matchesAny("lib/Account.cls", []string{"src/*.cls"}))
	assert.True(t, matchesAny("deep/nested/Account.cls", []string{"Account.cls"}))
	assert.True(t, matchesAny("project/build/Out.cls", []string{"build"}))
	assert.False(t, matchesAny("project/src/Out.cls", []string{"build"}))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c.cls"}, splitPath("a/b/c.cls"))
	assert.Equal(t, []string{"a", "c.cls"}, splitPath("./a//c.cls"))
}

func TestExpandArgs(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{
		"classes/A.cls",
		"classes/B.cls",
		"triggers/T.trigger",
		"classes/notes.txt",
		"node_modules/pkg/X.cls",
		".sfdx/tools/Y.cls",
	} {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("class X {}"), 0o600))
	}

	got, err := expandArgs([]string{root + "/...", "Other.cls"}, []string{"B.cls"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(root, "classes/A.cls"),
		filepath.Join(root, "triggers/T.trigger"),
		"Other.cls",
	}, got)

	_, err = expandArgs([]string{filepath.Join(root, "missing") + "/..."}, nil)
	assert.Error(t, err)
}
