package imageindex

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/kamusis/chroma/internal/features"
)

// Registry is the set of indexes loaded from a directory. It is loaded on
// the first use and reloaded after Invalidate or Refresh.
type Registry struct {
	Dir string

	mu      sync.RWMutex
	loaded  bool
	indexes []*Index
}

// NewRegistry returns a registry over the index files in dir.
func NewRegistry(dir string) *Registry {
	return &Registry{Dir: dir}
}

// Refresh reloads every index file in the directory. A missing directory
// yields an empty registry. Files are loaded in name order.
func (r *Registry) Refresh() error {
	files, err := filepath.Glob(filepath.Join(r.Dir, "*"+FileExt))
	if err != nil {
		return err
	}
	sort.Strings(files)

	var (
		indexes []*Index
		errs    []error
	)
	for _, f := range files {
		idx, err := Load(f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		indexes = append(indexes, idx)
	}

	r.mu.Lock()
	r.indexes = indexes
	r.loaded = true
	r.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("%d index file(s) failed to load: %w", len(errs), errors.Join(errs...))
	}
	return nil
}

// Invalidate drops the loaded indexes; the next access reloads them.
func (r *Registry) Invalidate() {
	r.mu.Lock()
	r.indexes = nil
	r.loaded = false
	r.mu.Unlock()
}

// Indexes returns the loaded indexes, loading them if needed. Files that
// fail to decode are skipped; call Refresh to see their errors.
func (r *Registry) Indexes() []*Index {
	r.mu.RLock()
	if r.loaded {
		out := append([]*Index(nil), r.indexes...)
		r.mu.RUnlock()
		return out
	}
	r.mu.RUnlock()

	if _, err := os.Stat(r.Dir); err == nil {
		_ = r.Refresh()
	} else {
		r.mu.Lock()
		r.loaded = true
		r.mu.Unlock()
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*Index(nil), r.indexes...)
}

// Add registers an index built in memory. Invalidate drops it again.
func (r *Registry) Add(idx *Index) {
	r.Indexes()
	r.mu.Lock()
	r.indexes = append(r.indexes, idx)
	r.mu.Unlock()
}

// Find returns the first index holding path, and its record.
func (r *Registry) Find(path string) (*Index, features.Record, bool) {
	for _, idx := range r.Indexes() {
		if rec, ok := idx.LookupByPath(path); ok {
			return idx, rec, true
		}
	}
	return nil, features.Record{}, false
}

// PathByID returns the source path of id from the first index that has it.
func (r *Registry) PathByID(id features.ID) (string, bool) {
	for _, idx := range r.Indexes() {
		if p, ok := idx.PathByID(id); ok {
			return p, true
		}
	}
	return "", false
}
