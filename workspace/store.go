// Copyright © 2026 The apexls authors

package workspace

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by a Store when a key or file is unknown.
var ErrNotFound = errors.New("workspace: not found")

// Store persists type records grouped by file.
type Store interface {
	// Put replaces every record of file.
	Put(ctx context.Context, file string, mod time.Time, recs []Record) error
	// Get returns the record for a type key. When several files declare
	// the same type the first by path wins.
	Get(ctx context.Context, key string) (*Record, error)
	// ModTime returns the modification time recorded for file.
	ModTime(ctx context.Context, file string) (time.Time, error)
	// Files lists every recorded file.
	Files(ctx context.Context) ([]string, error)
	// List returns all records ordered by key then path.
	List(ctx context.Context) ([]Record, error)
	Delete(ctx context.Context, file string) error
	Close() error
}

type memFile struct {
	mod  time.Time
	recs []Record
}

// MemStore is an in-memory Store. It is safe for concurrent use.
type MemStore struct {
	mu    sync.RWMutex
	files map[string]memFile
}

// NewMemStore returns an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{files: make(map[string]memFile)}
}

func (s *MemStore) Put(_ context.Context, file string, mod time.Time, recs []Record) error {
	cp := make([]Record, len(recs))
	for i, r := range recs {
		r.File, r.ModTime = file, mod
		cp[i] = r
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[file] = memFile{mod: mod, recs: cp}
	return nil
}

func (s *MemStore) Get(_ context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *Record
	for _, f := range s.files {
		for i := range f.recs {
			r := &f.recs[i]
			if r.Key() == key && (found == nil || r.File < found.File) {
				found = r
			}
		}
	}
	if found == nil {
		return nil, errors.Wrapf(ErrNotFound, "type %q", key)
	}
	cp := *found
	return &cp, nil
}

func (s *MemStore) ModTime(_ context.Context, file string) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[file]
	if !ok {
		return time.Time{}, errors.Wrapf(ErrNotFound, "file %s", file)
	}
	return f.mod, nil
}

func (s *MemStore) Files(context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.files))
	for f := range s.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

func (s *MemStore) List(context.Context) ([]Record, error) {
	s.mu.RLock()
	var out []Record
	for _, f := range s.files {
		out = append(out, f.recs...)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].Key() != out[j].Key() {
			return out[i].Key() < out[j].Key()
		}
		return out[i].File < out[j].File
	})
	return out, nil
}

func (s *MemStore) Delete(_ context.Context, file string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, file)
	return nil
}

func (s *MemStore) Close() error { return nil }
