// Copyright © 2026 The apexls authors

package workspace

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"github.com/luthersystems/apexls/logger"
)

// DefaultDebounce is how long a file must stay quiet before it is
// re-indexed.
const DefaultDebounce = 200 * time.Millisecond

// Watcher keeps an Index current as files change on disk.
type Watcher struct {
	ix       *Index
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu     sync.Mutex
	timers map[string]*time.Timer

	// OnUpdate, if set, is called after a file is re-indexed or removed.
	OnUpdate func(path string)
}

// NewWatcher watches every non-skipped directory under the index root.
func NewWatcher(ix *Index) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create file watcher")
	}
	w := &Watcher{
		ix:       ix,
		watcher:  fw,
		debounce: DefaultDebounce,
		timers:   make(map[string]*time.Timer),
	}
	if err := w.addTree(ix.root); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

// SetDebounce changes the quiet period. It must be called before Run.
func (w *Watcher) SetDebounce(d time.Duration) { w.debounce = d }

func (w *Watcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || !info.IsDir() {
			return nil
		}
		if path != root && ShouldSkipDir(info.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			return errors.Wrapf(err, "watch %s", path)
		}
		return nil
	})
}

// Run processes file events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handle(ctx, event)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.ix.log.Warnw("file watcher error", logger.FieldError, err)
		}
	}
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	path := event.Name
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !ShouldSkipDir(info.Name()) {
				if err := w.addTree(path); err != nil {
					w.ix.log.Warnw("watch new directory failed", logger.FieldFile, path, logger.FieldError, err)
				}
			}
			return
		}
	}
	if !IsSourceFile(path) {
		return
	}
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		w.schedule(path, func() {
			if _, err := os.Stat(path); err == nil {
				// Replaced in place, as editors do on save.
				w.reindex(ctx, path)
				return
			}
			if err := w.ix.Remove(ctx, path); err != nil {
				w.ix.log.Warnw("remove file failed", logger.FieldFile, path, logger.FieldError, err)
			}
			w.notify(path)
		})
	case event.Has(fsnotify.Write), event.Has(fsnotify.Create):
		w.schedule(path, func() { w.reindex(ctx, path) })
	}
}

func (w *Watcher) reindex(ctx context.Context, path string) {
	if _, err := w.ix.IndexFile(ctx, path); err != nil {
		w.ix.log.Warnw("reindex file failed", logger.FieldFile, path, logger.FieldError, err)
		return
	}
	w.notify(path)
}

func (w *Watcher) notify(path string) {
	if w.OnUpdate != nil {
		w.OnUpdate(path)
	}
}

// schedule debounces work per path.
func (w *Watcher) schedule(path string, fn func()) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if t, ok := w.timers[path]; ok {
		t.Stop()
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()
		fn()
	})
}

// Close stops watching and cancels pending work.
func (w *Watcher) Close() error {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	return w.watcher.Close()
}
