// Package testutil provides reusable test utilities for integration
// tests: a temporary store builder and a CLI runner.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TestStore is a temporary on-disk store for testing. Root holds the
// runtime directory (imagrc.toml lives there), StorePath the store base
// directory entries are filed under.
type TestStore struct {
	Root      string
	StorePath string
	t         *testing.T
	config    string
	entries   map[string]string
	files     map[string]string
}

// NewTestStore creates a new test store builder. Call Build() to create
// the actual directory tree.
func NewTestStore(t *testing.T) *TestStore {
	t.Helper()
	return &TestStore{
		t:       t,
		entries: make(map[string]string),
		files:   make(map[string]string),
	}
}

// WithConfig sets the imagrc.toml content beside the store.
func (s *TestStore) WithConfig(toml string) *TestStore {
	s.config = toml
	return s
}

// WithEntry adds an entry with the given header TOML and body. The
// envelope markers are added here; pass only the TOML table content.
func (s *TestStore) WithEntry(id, headerTOML, body string) *TestStore {
	s.entries[id] = "---\n" + headerTOML + "---\n" + body
	return s
}

// WithRawEntry adds an entry file with exact raw content, envelope
// included. Used to plant malformed entries.
func (s *TestStore) WithRawEntry(id, raw string) *TestStore {
	s.entries[id] = raw
	return s
}

// WithFile adds an arbitrary file under the runtime directory.
// The path is relative to Root.
func (s *TestStore) WithFile(path, content string) *TestStore {
	s.files[path] = content
	return s
}

// Build creates the runtime directory, the store base and all
// configured files. Returns the TestStore for method chaining.
func (s *TestStore) Build() *TestStore {
	s.t.Helper()

	s.Root = s.t.TempDir()
	s.StorePath = filepath.Join(s.Root, "store")
	if err := os.MkdirAll(s.StorePath, 0755); err != nil {
		s.t.Fatalf("failed to create store directory: %v", err)
	}

	if s.config != "" {
		s.writeFile("imagrc.toml", s.config)
	}
	for id, content := range s.entries {
		s.writeFile(filepath.Join("store", filepath.FromSlash(id)), content)
	}
	for path, content := range s.files {
		s.writeFile(path, content)
	}

	return s
}

// writeFile writes a file under Root, creating directories as needed.
func (s *TestStore) writeFile(relPath, content string) {
	s.t.Helper()
	fullPath := filepath.Join(s.Root, relPath)

	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		s.t.Fatalf("failed to create directory %s: %v", dir, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		s.t.Fatalf("failed to write file %s: %v", fullPath, err)
	}
}

// ReadEntry reads an entry file from the store by ID.
func (s *TestStore) ReadEntry(id string) string {
	s.t.Helper()
	fullPath := filepath.Join(s.StorePath, filepath.FromSlash(id))
	content, err := os.ReadFile(fullPath)
	if err != nil {
		s.t.Fatalf("failed to read entry %s: %v", id, err)
	}
	return string(content)
}

// EntryExists checks whether an entry file exists in the store.
func (s *TestStore) EntryExists(id string) bool {
	s.t.Helper()
	_, err := os.Stat(filepath.Join(s.StorePath, filepath.FromSlash(id)))
	return err == nil
}

// MinimalConfig returns an imagrc.toml with an editor and a ref
// basepath pointing at dir.
func MinimalConfig(dir string) string {
	return "editor = \"true\"\n\n[ref.basepaths]\nfiles = \"" + dir + "\"\n"
}
