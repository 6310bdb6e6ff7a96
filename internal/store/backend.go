package store

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/atomicfile"
	"github.com/magpiedev/magpie/internal/storeid"
)

// backend abstracts the persistence layer so the filesystem store and the
// in-memory test store expose the identical Store contract.
type backend interface {
	read(id storeid.ID) ([]byte, bool, error)
	write(id storeid.ID, data []byte) error
	remove(id storeid.ID) error
	rename(src, dst storeid.ID) error
	exists(id storeid.ID) (bool, error)
	// walk returns a snapshot of all entry identifiers. The order is
	// unspecified but stable within one call.
	walk() ([]storeid.ID, error)
}

// fsBackend stores one file per entry below a base directory.
type fsBackend struct {
	base string
}

func (b *fsBackend) read(id storeid.ID) ([]byte, bool, error) {
	data, err := os.ReadFile(id.FilePath(b.base))
	if os.IsNotExist(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read %s: %s: %w", id, err, apperr.ErrIO)
	}
	return data, true, nil
}

func (b *fsBackend) write(id storeid.ID, data []byte) error {
	path := id.FilePath(b.base)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %s: %w", id, err, apperr.ErrIO)
	}
	if err := atomicfile.WriteFile(path, data, 0); err != nil {
		return fmt.Errorf("write %s: %s: %w", id, err, apperr.ErrIO)
	}
	return nil
}

func (b *fsBackend) remove(id storeid.ID) error {
	if err := os.Remove(id.FilePath(b.base)); err != nil {
		return fmt.Errorf("remove %s: %s: %w", id, err, apperr.ErrIO)
	}
	return nil
}

func (b *fsBackend) rename(src, dst storeid.ID) error {
	dstPath := dst.FilePath(b.base)
	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return fmt.Errorf("mkdir for %s: %s: %w", dst, err, apperr.ErrIO)
	}
	if err := os.Rename(src.FilePath(b.base), dstPath); err != nil {
		return fmt.Errorf("rename %s to %s: %s: %w", src, dst, err, apperr.ErrIO)
	}
	return nil
}

func (b *fsBackend) exists(id storeid.ID) (bool, error) {
	_, err := os.Stat(id.FilePath(b.base))
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %s: %w", id, err, apperr.ErrIO)
	}
	return true, nil
}

func (b *fsBackend) walk() ([]storeid.ID, error) {
	var ids []storeid.ID

	err := filepath.WalkDir(b.base, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if d.IsDir() {
			// Hidden directories (.git and friends) are not entry space.
			if path != b.base && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if strings.HasPrefix(name, ".") {
			return nil
		}

		id, err := storeid.FromFilePath(b.base, path)
		if err != nil {
			// Unconvertible files below the base are skipped, not fatal.
			return nil
		}
		ids = append(ids, id)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk store: %s: %w", err, apperr.ErrIO)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids, nil
}

// memBackend holds all entries in a map. It backs the in-memory store used
// by tests and exposes the same contract as fsBackend.
type memBackend struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemBackend() *memBackend {
	return &memBackend{entries: make(map[string][]byte)}
}

func (b *memBackend) read(id storeid.ID) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.entries[id.String()]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, true, nil
}

func (b *memBackend) write(id storeid.ID, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	b.entries[id.String()] = cp
	return nil
}

func (b *memBackend) remove(id storeid.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.entries[id.String()]; !ok {
		return fmt.Errorf("remove %s: %w", id, apperr.ErrNotFound)
	}
	delete(b.entries, id.String())
	return nil
}

func (b *memBackend) rename(src, dst storeid.ID) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.entries[src.String()]
	if !ok {
		return fmt.Errorf("rename %s: %w", src, apperr.ErrNotFound)
	}
	b.entries[dst.String()] = data
	delete(b.entries, src.String())
	return nil
}

func (b *memBackend) exists(id storeid.ID) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.entries[id.String()]
	return ok, nil
}

func (b *memBackend) walk() ([]storeid.ID, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]storeid.ID, 0, len(b.entries))
	for raw := range b.entries {
		ids = append(ids, storeid.MustNew(raw))
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids, nil
}
