// Copyright © 2026 The apexls authors

package cmd

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/workspace"
)

// expandArgs expands arguments, resolving patterns ending with "/..." to
// all Apex source files found recursively under the given directory, then
// drops paths matching any exclude pattern. Other arguments pass through
// unchanged.
func expandArgs(args, excludes []string) ([]string, error) {
	var out []string
	for _, arg := range args {
		dir, ok := strings.CutSuffix(arg, "/...")
		if !ok {
			out = append(out, arg)
			continue
		}
		if dir == "" {
			dir = "."
		}
		files, err := findSourceFiles(dir)
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %s", arg)
		}
		out = append(out, files...)
	}
	return filterExcludes(out, excludes), nil
}

// findSourceFiles walks root the way a workspace scan does.
func findSourceFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if path != root && workspace.ShouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if workspace.IsSourceFile(path) {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func filterExcludes(paths, excludes []string) []string {
	if len(excludes) == 0 {
		return paths
	}
	var out []string
	for _, p := range paths {
		if !matchesAny(p, excludes) {
			out = append(out, p)
		}
	}
	return out
}

// matchesAny reports whether path, its base name or one of its directory
// components matches a pattern.
func matchesAny(path string, patterns []string) bool {
	parts := splitPath(path)
	for _, pat := range patterns {
		if ok, _ := filepath.Match(pat, path); ok {
			return true
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pat, part); ok {
				return true
			}
		}
	}
	return false
}

func splitPath(path string) []string {
	return strings.FieldsFunc(filepath.ToSlash(filepath.Clean(path)), func(r rune) bool { return r == '/' })
}
