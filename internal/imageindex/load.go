package imageindex

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileExt is the extension of index files.
const FileExt = ".idb"

// Load reads an index file. The index is named after the file.
func Load(path string) (*Index, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open index %s: %w", path, err)
	}
	defer f.Close()

	idx := New(NameFromPath(path))
	if err := idx.Decode(f); err != nil {
		return nil, fmt.Errorf("cannot load index %s: %w", path, err)
	}
	return idx, nil
}

// NameFromPath returns the index name for an index file path.
func NameFromPath(path string) string {
	return strings.TrimSuffix(filepath.Base(path), FileExt)
}

// PathFor returns the file path of the index called name inside dir.
func PathFor(dir, name string) string {
	return filepath.Join(dir, name+FileExt)
}
