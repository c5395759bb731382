// Copyright © 2026 The apexls authors

// Package workspace indexes the Apex types declared across a source tree so
// completion and hover can resolve receivers declared in other files.
//
// Each *.cls and *.trigger file is parsed once; its top-level types are
// stored as Records keyed by lower-cased name together with the file's
// modification time. A later Scan re-parses only files whose time changed.
package workspace

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/luthersystems/apexls/analysis"
	"github.com/luthersystems/apexls/logger"
	"github.com/luthersystems/apexls/parser/rdparser"
	"github.com/luthersystems/apexls/syntax"
	"go.uber.org/zap"
)

// SourceExts are the file extensions indexed, compared case-insensitively.
var SourceExts = []string{".cls", ".trigger"}

// Index maintains the type records of one workspace root.
type Index struct {
	root   string
	store  Store
	parser syntax.Parser
	log    *zap.SugaredLogger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the index logger.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(ix *Index) { ix.log = l }
}

// WithParser replaces the built-in parser used to read source files.
func WithParser(p syntax.Parser) Option {
	return func(ix *Index) { ix.parser = p }
}

// New returns an Index over root backed by store. A nil store keeps
// records in memory.
func New(root string, store Store, opts ...Option) *Index {
	if store == nil {
		store = NewMemStore()
	}
	ix := &Index{root: root, store: store}
	for _, o := range opts {
		o(ix)
	}
	if ix.log == nil {
		ix.log = logger.Named("workspace")
	}
	if ix.parser == nil {
		ix.parser = rdparser.New("")
	}
	return ix
}

// Root returns the workspace root directory.
func (ix *Index) Root() string { return ix.root }

// Close releases the store.
func (ix *Index) Close() error { return ix.store.Close() }

// ScanStats summarizes a Scan.
type ScanStats struct {
	Files   int // source files found
	Indexed int // files parsed because they were new or modified
	Removed int // recorded files no longer on disk
}

// Scan walks the root, indexes new and modified source files and forgets
// files that disappeared. Unreadable files and directories are skipped.
func (ix *Index) Scan(ctx context.Context) (ScanStats, error) {
	start := time.Now()
	var stats ScanStats
	seen := make(map[string]bool)
	err := filepath.Walk(ix.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if info.IsDir() {
			if path != ix.root && ShouldSkipDir(info.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsSourceFile(path) {
			return nil
		}
		stats.Files++
		seen[path] = true
		changed, err := ix.indexFile(ctx, path, info.ModTime())
		if err != nil {
			ix.log.Warnw("index file failed", logger.FieldFile, path, logger.FieldError, err)
			return nil
		}
		if changed {
			stats.Indexed++
		}
		return nil
	})
	if err != nil {
		return stats, errors.Wrapf(err, "scan %s", ix.root)
	}

	files, err := ix.store.Files(ctx)
	if err != nil {
		return stats, err
	}
	for _, f := range files {
		if seen[f] {
			continue
		}
		if err := ix.store.Delete(ctx, f); err != nil {
			return stats, err
		}
		stats.Removed++
	}
	ix.log.Infow("workspace scanned",
		logger.FieldRoot, ix.root,
		logger.FieldCount, stats.Files,
		"indexed", stats.Indexed,
		"removed", stats.Removed,
		logger.FieldDuration, time.Since(start))
	return stats, nil
}

// IndexFile parses path if it is new or modified since it was last
// recorded, reporting whether it was parsed.
func (ix *Index) IndexFile(ctx context.Context, path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, errors.Wrapf(err, "stat %s", path)
	}
	return ix.indexFile(ctx, path, info.ModTime())
}

func (ix *Index) indexFile(ctx context.Context, path string, mod time.Time) (bool, error) {
	prev, err := ix.store.ModTime(ctx, path)
	switch {
	case err == nil && prev.Equal(mod):
		return false, nil
	case err != nil && !errors.Is(err, ErrNotFound):
		return false, err
	}
	src, err := os.ReadFile(path) //nolint:gosec // workspace files are chosen by the user
	if err != nil {
		return false, errors.Wrapf(err, "read %s", path)
	}
	return true, ix.IndexText(ctx, path, string(src), mod)
}

// IndexText records the types declared in text as the contents of path.
func (ix *Index) IndexText(ctx context.Context, path, text string, mod time.Time) error {
	src := []byte(text)
	root, err := ix.parser.Parse(src)
	if root == nil {
		return errors.Wrapf(err, "parse %s", path)
	}
	if err != nil {
		ix.log.Debugw("indexing partial tree", logger.FieldFile, path, logger.FieldError, err)
	}
	var recs []Record
	for _, d := range analysis.Index(root, src) {
		t, ok := d.(*analysis.TypeDecl)
		if !ok || t.Name == "" {
			continue
		}
		recs = append(recs, Record{Name: t.Name, File: path, ModTime: mod, Decl: FromDecl(t)})
	}
	ix.log.Debugw("indexed file", logger.FieldFile, path, logger.FieldCount, len(recs))
	return ix.store.Put(ctx, path, mod, recs)
}

// Remove forgets path.
func (ix *Index) Remove(ctx context.Context, path string) error {
	return ix.store.Delete(ctx, path)
}

// Lookup returns the type named name, which may be qualified by one
// enclosing type ("Outer.Inner"). A nil result with a nil error means no
// such type is indexed. Lookup has the signature of completion.TypeLookup.
func (ix *Index) Lookup(ctx context.Context, name string) (*analysis.TypeDecl, error) {
	outer, _, _ := strings.Cut(name, ".")
	r, err := ix.store.Get(ctx, Key(outer))
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := r.Decl.ToType()
	if err != nil {
		return nil, err
	}
	return analysis.FindType([]analysis.Declaration{t}, name), nil
}

// Locate returns the file and name offset of a type or type member given
// as "Type", "Outer.Inner" or "Type.member". It returns ErrNotFound when
// nothing matches.
func (ix *Index) Locate(ctx context.Context, name string) (string, int, error) {
	parts := strings.Split(name, ".")
	r, err := ix.store.Get(ctx, Key(parts[0]))
	if err != nil {
		return "", 0, err
	}
	d := r.Decl
	for _, p := range parts[1:] {
		m, ok := d.Find(p)
		if !ok {
			return "", 0, errors.Wrapf(ErrNotFound, "member %q", name)
		}
		d = m
	}
	return r.File, d.Offset, nil
}

// Records returns every indexed type.
func (ix *Index) Records(ctx context.Context) ([]Record, error) {
	return ix.store.List(ctx)
}

// ShouldSkipDir reports whether a directory is left out of scans: hidden
// directories (.git, .sfdx) and node_modules.
func ShouldSkipDir(name string) bool {
	if name == "." || name == ".." {
		return false
	}
	return strings.HasPrefix(name, ".") || name == "node_modules"
}

// IsSourceFile reports whether path has an indexed extension.
func IsSourceFile(path string) bool {
	ext := filepath.Ext(path)
	for _, e := range SourceExts {
		if strings.EqualFold(ext, e) {
			return true
		}
	}
	return false
}
