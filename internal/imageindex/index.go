// Package imageindex stores the colour features of a corpus of images and
// persists them in a compact binary file.
package imageindex

import (
	"fmt"
	"sync"

	"github.com/kamusis/chroma/internal/colormath"
	"github.com/kamusis/chroma/internal/features"
)

// Index is an ordered collection of feature records keyed by image id.
// It is safe for concurrent use.
type Index struct {
	name string

	mu        sync.RWMutex
	paths     map[features.ID]string
	pathOrder []features.ID
	records   []features.Record
	positions map[string]int
}

// New returns an empty index.
func New(name string) *Index {
	return &Index{
		name:      name,
		paths:     map[features.ID]string{},
		positions: map[string]int{},
	}
}

// Name returns the shard name, usually the file name without extension.
func (idx *Index) Name() string {
	return idx.name
}

// Index extracts the features of pixels and appends them under path.
func (idx *Index) Index(path string, pixels []colormath.RGBA8) (features.Record, error) {
	id := features.ComputeID(path)
	if idx.hasID(id) || idx.ContainsPath(path) {
		return features.Record{}, fmt.Errorf("%s: %w", path, ErrDuplicateID)
	}
	rec := features.Extract(id, pixels)
	if err := idx.Add(path, rec); err != nil {
		return features.Record{}, err
	}
	return rec, nil
}

// Add appends a record that was extracted elsewhere. The record id is
// recomputed from path. A path already present under any id is rejected.
// Either the record and its id mapping are both stored, or the index is left
// unchanged.
func (idx *Index) Add(path string, rec features.Record) error {
	canon := features.CanonicalPath(path)
	rec.ID = features.ComputeID(canon)

	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, ok := idx.paths[rec.ID]; ok {
		return fmt.Errorf("%s: %w", path, ErrDuplicateID)
	}
	if _, ok := idx.positions[canon]; ok {
		return fmt.Errorf("%s: %w", path, ErrDuplicateID)
	}
	idx.paths[rec.ID] = canon
	idx.pathOrder = append(idx.pathOrder, rec.ID)
	idx.positions[canon] = len(idx.records)
	idx.records = append(idx.records, rec)
	return nil
}

func (idx *Index) hasID(id features.ID) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.paths[id]
	return ok
}

// LookupByPath returns the record stored for path.
func (idx *Index) LookupByPath(path string) (features.Record, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pos, ok := idx.positions[features.CanonicalPath(path)]
	if !ok {
		return features.Record{}, false
	}
	return idx.records[pos], true
}

// RecordByPath is LookupByPath for callers that expect the path to exist.
func (idx *Index) RecordByPath(path string) (features.Record, error) {
	rec, ok := idx.LookupByPath(path)
	if !ok {
		return features.Record{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return rec, nil
}

// PathByID returns the source path of id.
func (idx *Index) PathByID(id features.ID) (string, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	p, ok := idx.paths[id]
	return p, ok
}

// ContainsPath reports whether path has been indexed.
func (idx *Index) ContainsPath(path string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	_, ok := idx.positions[features.CanonicalPath(path)]
	return ok
}

// Records returns a copy of the records in insertion order.
func (idx *Index) Records() []features.Record {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]features.Record, len(idx.records))
	copy(out, idx.records)
	return out
}

// Len returns the number of records.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.records)
}
