// Package archive is a narrow stand-in for the outer LGP-style archive
// holding the world-map's script and message files. No codec for that
// archive format exists anywhere this toolchain draws on, so Load/Pack
// work against a plain directory instead: one file per entry, named by
// entry.Name. It is not a byte-for-byte LGP implementation, only a
// faithful enough container to drive the extract/compile round trip end
// to end.
package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/ff7tools/terraform/terrerr"
)

// Entry is one named file inside an archive.
type Entry struct {
	Name string
	Data []byte
}

// Load reads every regular file directly inside dir and returns them as
// entries, sorted by name for a deterministic order.
func Load(dir string) ([]Entry, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("archive: reading %s: %w: %v", dir, terrerr.IO, err)
	}

	var names []string
	for _, it := range items {
		if it.IsDir() {
			continue
		}
		names = append(names, it.Name())
	}
	sort.Strings(names)

	entries := make([]Entry, 0, len(names))
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("archive: reading entry %s: %w: %v", name, terrerr.IO, err)
		}
		entries = append(entries, Entry{Name: name, Data: data})
	}
	return entries, nil
}

// Pack writes each entry as a file inside dir, creating dir if it does
// not already exist. It does not remove files already present in dir
// that aren't among entries.
func Pack(dir string, entries []Entry) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("archive: creating %s: %w: %v", dir, terrerr.IO, err)
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name)
		if err := os.WriteFile(path, e.Data, 0644); err != nil {
			return fmt.Errorf("archive: writing entry %s: %w: %v", e.Name, terrerr.IO, err)
		}
	}
	return nil
}

// Find returns the entry named name, or an IO error if it is absent.
func Find(entries []Entry, name string) (Entry, error) {
	for _, e := range entries {
		if e.Name == name {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("archive: entry %q not found: %w", name, terrerr.IO)
}
