package pixels

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultExtensions are the file extensions FileReader can decode.
var DefaultExtensions = []string{".png", ".jpg", ".jpeg", ".gif", ".bmp", ".tif", ".tiff", ".webp"}

// DiscoverOptions filters the files returned by Discover.
type DiscoverOptions struct {
	// Extensions are matched case-insensitively. Empty means DefaultExtensions.
	Extensions []string
	// Excludes are glob patterns matched against the base name and the path
	// relative to the root. A trailing slash matches a directory name.
	Excludes []string
}

// Discover walks roots and returns the image files found, slash-separated and
// sorted. A root may also be a single file.
func Discover(roots []string, opts DiscoverOptions) ([]string, error) {
	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}
	want := map[string]bool{}
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e != "" && !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		want[e] = true
	}

	seen := map[string]bool{}
	var out []string
	add := func(p string) {
		p = filepath.ToSlash(p)
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", root, err)
		}
		if !info.IsDir() {
			if want[strings.ToLower(filepath.Ext(root))] {
				add(root)
			}
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
			if walkErr != nil {
				return walkErr
			}
			if path == root {
				return nil
			}
			rel, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			if matchesExclude(filepath.ToSlash(rel), d.IsDir(), opts.Excludes) {
				if d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				return nil
			}
			if want[strings.ToLower(filepath.Ext(path))] {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("cannot scan %s: %w", root, err)
		}
	}

	sort.Strings(out)
	return out, nil
}

// matchesExclude reports whether relPath matches any of the given glob patterns.
func matchesExclude(relPath string, isDir bool, patterns []string) bool {
	name := filepath.Base(relPath)
	for _, pattern := range patterns {
		if dirPattern, ok := strings.CutSuffix(pattern, "/"); ok {
			if !isDir {
				continue
			}
			pattern = dirPattern
		}
		// Match against the full relative path AND just the basename.
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, relPath); matched {
			return true
		}
	}
	return false
}
