// Package store mediates all persistent entry state.
//
// A Store owns a base directory with one file per entry and hands out
// exclusive handles: for any identifier at most one live handle exists per
// process, and closing a handle flushes its changes back to disk
// atomically. An in-memory variant with the identical contract backs tests.
package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

// Store is a file-backed entry repository with per-entry exclusion.
type Store struct {
	base    string
	backend backend

	mu   sync.Mutex
	held map[string]struct{}
}

// openStores guards against two Store instances on the same base directory
// within one process. The original left this undefined; we reject it.
var (
	openMu     sync.Mutex
	openStores = make(map[string]struct{})
)

// Open opens the store rooted at base. It fails when base does not exist,
// is not a directory, or is already claimed by another Store in this
// process.
func Open(base string) (*Store, error) {
	abs, err := filepath.Abs(base)
	if err != nil {
		return nil, fmt.Errorf("resolve store base: %s: %w", err, apperr.ErrIO)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("store base %s: %s: %w", abs, err, apperr.ErrIO)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("store base %s is not a directory: %w", abs, apperr.ErrIO)
	}

	openMu.Lock()
	defer openMu.Unlock()
	if _, taken := openStores[abs]; taken {
		return nil, fmt.Errorf("store base %s already opened in this process: %w", abs, apperr.ErrInUse)
	}
	openStores[abs] = struct{}{}

	return &Store{
		base:    abs,
		backend: &fsBackend{base: abs},
		held:    make(map[string]struct{}),
	}, nil
}

// OpenMemory returns a store that keeps all entries in memory. It exposes
// the identical contract as a disk-backed store and is intended for tests.
func OpenMemory() *Store {
	return &Store{
		backend: newMemBackend(),
		held:    make(map[string]struct{}),
	}
}

// Close releases the store's claim on its base directory.
func (s *Store) Close() error {
	if s.base == "" {
		return nil
	}
	openMu.Lock()
	defer openMu.Unlock()
	delete(openStores, s.base)
	return nil
}

// Path returns the base directory. It is empty for in-memory stores.
func (s *Store) Path() string { return s.base }

// Create makes a new entry for id and returns an exclusive handle to it.
// It fails with apperr.ErrAlreadyExists when the id is taken.
func (s *Store) Create(id storeid.ID) (*Handle, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}

	exists, err := s.backend.exists(id)
	if err != nil {
		s.release(id)
		return nil, err
	}
	if exists {
		s.release(id)
		return nil, fmt.Errorf("create %s: %w", id, apperr.ErrAlreadyExists)
	}

	return &Handle{store: s, entry: entry.New(id), fresh: true}, nil
}

// Get returns an exclusive handle for id, or (nil, nil) when the entry
// does not exist.
func (s *Store) Get(id storeid.ID) (*Handle, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}

	data, found, err := s.backend.read(id)
	if err != nil {
		s.release(id)
		return nil, err
	}
	if !found {
		s.release(id)
		return nil, nil
	}

	e, err := entry.FromRaw(id, data)
	if err != nil {
		s.release(id)
		return nil, err
	}

	return &Handle{store: s, entry: e, loaded: data}, nil
}

// Retrieve returns an exclusive handle for id, creating the entry when it
// does not exist yet.
func (s *Store) Retrieve(id storeid.ID) (*Handle, error) {
	if err := s.acquire(id); err != nil {
		return nil, err
	}

	data, found, err := s.backend.read(id)
	if err != nil {
		s.release(id)
		return nil, err
	}
	if !found {
		return &Handle{store: s, entry: entry.New(id), fresh: true}, nil
	}

	e, err := entry.FromRaw(id, data)
	if err != nil {
		s.release(id)
		return nil, err
	}

	return &Handle{store: s, entry: e, loaded: data}, nil
}

// Exists reports whether an entry for id is present on disk. It does not
// touch the held set.
func (s *Store) Exists(id storeid.ID) (bool, error) {
	return s.backend.exists(id)
}

// Delete removes the entry for id. It fails with apperr.ErrInUse when a
// handle for id is live and apperr.ErrNotFound when no entry exists.
func (s *Store) Delete(id storeid.ID) error {
	s.mu.Lock()
	if _, held := s.held[id.String()]; held {
		s.mu.Unlock()
		return fmt.Errorf("delete %s: %w", id, apperr.ErrInUse)
	}
	// Keep the slot reserved for the duration of the removal.
	s.held[id.String()] = struct{}{}
	s.mu.Unlock()
	defer s.release(id)

	exists, err := s.backend.exists(id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("delete %s: %w", id, apperr.ErrNotFound)
	}

	return s.backend.remove(id)
}

// MoveByID renames the entry src to dst. Both identifiers must be unheld;
// src must exist and dst must not. Back-links pointing at src are not
// rewritten; callers use the linking layer's relink helper for that.
func (s *Store) MoveByID(src, dst storeid.ID) error {
	s.mu.Lock()
	if _, held := s.held[src.String()]; held {
		s.mu.Unlock()
		return fmt.Errorf("move %s: %w", src, apperr.ErrInUse)
	}
	if _, held := s.held[dst.String()]; held {
		s.mu.Unlock()
		return fmt.Errorf("move to %s: %w", dst, apperr.ErrInUse)
	}
	s.held[src.String()] = struct{}{}
	s.held[dst.String()] = struct{}{}
	s.mu.Unlock()
	defer func() {
		s.release(src)
		s.release(dst)
	}()

	srcExists, err := s.backend.exists(src)
	if err != nil {
		return err
	}
	if !srcExists {
		return fmt.Errorf("move %s: %w", src, apperr.ErrNotFound)
	}

	dstExists, err := s.backend.exists(dst)
	if err != nil {
		return err
	}
	if dstExists {
		return fmt.Errorf("move to %s: %w", dst, apperr.ErrAlreadyExists)
	}

	return s.backend.rename(src, dst)
}

// Update flushes the handle's current state to disk without releasing it.
func (s *Store) Update(h *Handle) error {
	if h == nil || h.closed {
		return fmt.Errorf("update on released handle: %w", apperr.ErrNotFound)
	}
	return h.flush()
}

func (s *Store) acquire(id storeid.ID) error {
	if id.IsZero() {
		return fmt.Errorf("zero identifier: %w", apperr.ErrIDInvalid)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, held := s.held[id.String()]; held {
		return fmt.Errorf("%s: %w", id, apperr.ErrInUse)
	}
	s.held[id.String()] = struct{}{}
	return nil
}

func (s *Store) release(id storeid.ID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.held, id.String())
}
