// Package scan discovers candidate video files on disk. It is a small
// collaborator of the playlist: it only finds paths, it never inspects
// file contents.
package scan

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"
)

// DefaultExtensions are the file extensions treated as video files when the
// configuration does not override them.
var DefaultExtensions = []string{
	".mp4", ".avi", ".mkv", ".mov", ".wmv", ".flv", ".webm", ".m4v", ".mpg", ".mpeg",
}

// ExtensionSet builds a lowercase lookup set from an extension list.
// Entries may be given with or without the leading dot.
func ExtensionSet(exts []string) map[string]bool {
	set := make(map[string]bool, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(strings.TrimSpace(ext))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = true
	}
	return set
}

// Videos walks root recursively and returns every file whose extension is in
// exts, sorted lexicographically so repeated scans of the same tree produce
// the same playlist order. Unreadable subtrees are skipped, not fatal.
func Videos(root string, exts map[string]bool) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)

	conf := fastwalk.Config{Follow: false}
	err := fastwalk.Walk(&conf, root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return nil //nolint:nilerr // skip unreadable entries, keep walking
		}
		if d.IsDir() {
			return nil
		}
		if !exts[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		mu.Lock()
		found = append(found, path)
		mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// IsVideoFile reports whether path has one of the given video extensions.
func IsVideoFile(path string, exts map[string]bool) bool {
	return exts[strings.ToLower(filepath.Ext(path))]
}
