package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// AssertEntryExists fails the test if the entry file is missing.
func (s *TestStore) AssertEntryExists(id string) {
	s.t.Helper()
	if !s.EntryExists(id) {
		s.t.Errorf("expected entry to exist: %s", id)
	}
}

// AssertEntryNotExists fails the test if the entry file exists.
func (s *TestStore) AssertEntryNotExists(id string) {
	s.t.Helper()
	if s.EntryExists(id) {
		s.t.Errorf("expected entry to not exist: %s", id)
	}
}

// AssertEntryContains fails the test if the entry file does not contain
// the substring.
func (s *TestStore) AssertEntryContains(id, substr string) {
	s.t.Helper()
	content := s.ReadEntry(id)
	if !strings.Contains(content, substr) {
		s.t.Errorf("expected entry %s to contain %q, got:\n%s", id, substr, content)
	}
}

// AssertEntryNotContains fails the test if the entry file contains the
// substring.
func (s *TestStore) AssertEntryNotContains(id, substr string) {
	s.t.Helper()
	content := s.ReadEntry(id)
	if strings.Contains(content, substr) {
		s.t.Errorf("expected entry %s to not contain %q, got:\n%s", id, substr, content)
	}
}

// AssertFileExists fails the test if the file under Root is missing.
func (s *TestStore) AssertFileExists(relPath string) {
	s.t.Helper()
	if _, err := os.Stat(filepath.Join(s.Root, relPath)); os.IsNotExist(err) {
		s.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertHasWarning checks that the result contains a warning with the
// given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertNoWarnings checks that the result has no warnings.
func (r *CLIResult) AssertNoWarnings(t *testing.T) {
	t.Helper()
	if len(r.Warnings) > 0 {
		t.Errorf("expected no warnings, got: %+v", r.Warnings)
	}
}

// AssertResultCount checks that a list in the Data field has the
// expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}
