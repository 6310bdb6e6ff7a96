package store

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/storeid"
)

func newDiskStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Both backends must satisfy the same contract, so the lifecycle tests run
// against disk and memory stores.
func eachStore(t *testing.T, test func(t *testing.T, s *Store)) {
	t.Helper()
	t.Run("disk", func(t *testing.T) { test(t, newDiskStore(t)) })
	t.Run("memory", func(t *testing.T) { test(t, OpenMemory()) })
}

func TestOpenFailures(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("expected error opening a missing base directory")
	}

	file := filepath.Join(t.TempDir(), "afile")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(file); err == nil {
		t.Error("expected error opening a file as a store")
	}
}

func TestOpenSameBaseTwiceRejected(t *testing.T) {
	base := t.TempDir()
	s, err := Open(base)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if _, err := Open(base); !errors.Is(err, apperr.ErrInUse) {
		t.Errorf("second Open: expected ErrInUse, got %v", err)
	}

	// After Close the base can be claimed again.
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}
	s2, err := Open(base)
	if err != nil {
		t.Errorf("reopen after Close: %v", err)
	} else {
		_ = s2.Close()
	}
}

func TestCreateGetRoundTrip(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/hello")

		h, err := s.Create(id)
		if err != nil {
			t.Fatalf("Create: %v", err)
		}
		h.Entry().SetBody("hi\n")
		if err := h.Close(); err != nil {
			t.Fatalf("Close: %v", err)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got == nil {
			t.Fatal("Get returned absent for existing entry")
		}
		defer got.Discard()

		if got.Entry().Body() != "hi\n" {
			t.Errorf("body = %q, want %q", got.Entry().Body(), "hi\n")
		}
		v, present, err := got.Entry().Header.ReadString("imag.version")
		if err != nil || !present {
			t.Fatalf("imag.version = (_, %v, %v)", present, err)
		}
		if v == "" {
			t.Error("imag.version empty")
		}
	})
}

func TestCreateCollision(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/dup")
		h, err := s.Create(id)
		if err != nil {
			t.Fatal(err)
		}
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		if _, err := s.Create(id); !errors.Is(err, apperr.ErrAlreadyExists) {
			t.Errorf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestGetAbsent(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		h, err := s.Get(storeid.MustNew("notes/nope"))
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if h != nil {
			t.Error("expected nil handle for absent entry")
		}

		// The failed Get must not leave the slot held.
		h2, err := s.Retrieve(storeid.MustNew("notes/nope"))
		if err != nil {
			t.Fatalf("Retrieve after absent Get: %v", err)
		}
		h2.Discard()
	})
}

func TestRetrieveCreatesAndReopens(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/retrieved")

		h, err := s.Retrieve(id)
		if err != nil {
			t.Fatalf("Retrieve: %v", err)
		}
		h.Entry().SetBody("first\n")
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		h, err = s.Retrieve(id)
		if err != nil {
			t.Fatalf("second Retrieve: %v", err)
		}
		defer h.Discard()
		if h.Entry().Body() != "first\n" {
			t.Errorf("body = %q, want %q", h.Entry().Body(), "first\n")
		}
	})
}

func TestExclusiveAccess(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/locked")
		h, err := s.Create(id)
		if err != nil {
			t.Fatal(err)
		}

		if _, err := s.Get(id); !errors.Is(err, apperr.ErrInUse) {
			t.Errorf("Get while held: expected ErrInUse, got %v", err)
		}
		if _, err := s.Retrieve(id); !errors.Is(err, apperr.ErrInUse) {
			t.Errorf("Retrieve while held: expected ErrInUse, got %v", err)
		}
		if err := s.Delete(id); !errors.Is(err, apperr.ErrInUse) {
			t.Errorf("Delete while held: expected ErrInUse, got %v", err)
		}

		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		got, err := s.Get(id)
		if err != nil {
			t.Fatalf("Get after Close: %v", err)
		}
		got.Discard()
	})
}

func TestDelete(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/doomed")

		if err := s.Delete(id); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Delete missing: expected ErrNotFound, got %v", err)
		}

		h, err := s.Create(id)
		if err != nil {
			t.Fatal(err)
		}
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		if err := s.Delete(id); err != nil {
			t.Fatalf("Delete: %v", err)
		}
		exists, err := s.Exists(id)
		if err != nil {
			t.Fatal(err)
		}
		if exists {
			t.Error("entry still exists after Delete")
		}
	})
}

func TestMoveByID(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		src := storeid.MustNew("notes/old")
		dst := storeid.MustNew("archive/new")

		if err := s.MoveByID(src, dst); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("move missing src: expected ErrNotFound, got %v", err)
		}

		h, err := s.Create(src)
		if err != nil {
			t.Fatal(err)
		}
		h.Entry().SetBody("payload\n")
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		if err := s.MoveByID(src, dst); err != nil {
			t.Fatalf("MoveByID: %v", err)
		}

		if exists, _ := s.Exists(src); exists {
			t.Error("src still exists after move")
		}
		moved, err := s.Get(dst)
		if err != nil || moved == nil {
			t.Fatalf("Get(dst) = (%v, %v)", moved, err)
		}
		if moved.Entry().Body() != "payload\n" {
			t.Errorf("moved body = %q", moved.Entry().Body())
		}
		// Release dst before the collision check; a borrowed destination
		// would fail with ErrInUse instead.
		moved.Discard()

		// Destination collision.
		h2, err := s.Create(src)
		if err != nil {
			t.Fatal(err)
		}
		if err := h2.Close(); err != nil {
			t.Fatal(err)
		}
		if err := s.MoveByID(src, dst); !errors.Is(err, apperr.ErrAlreadyExists) {
			t.Errorf("move onto existing dst: expected ErrAlreadyExists, got %v", err)
		}

		// A borrowed destination wins over the collision check.
		borrowed, err := s.Get(dst)
		if err != nil || borrowed == nil {
			t.Fatalf("Get(dst) = (%v, %v)", borrowed, err)
		}
		if err := s.MoveByID(src, dst); !errors.Is(err, apperr.ErrInUse) {
			t.Errorf("move onto borrowed dst: expected ErrInUse, got %v", err)
		}
		borrowed.Discard()
	})
}

func TestDiscardDropsChanges(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		id := storeid.MustNew("notes/kept")
		h, err := s.Create(id)
		if err != nil {
			t.Fatal(err)
		}
		h.Entry().SetBody("keep me\n")
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}

		h, err = s.Get(id)
		if err != nil || h == nil {
			t.Fatalf("Get = (%v, %v)", h, err)
		}
		h.Entry().SetBody("discarded\n")
		h.Discard()

		got, err := s.Get(id)
		if err != nil || got == nil {
			t.Fatalf("Get = (%v, %v)", got, err)
		}
		defer got.Discard()
		if got.Entry().Body() != "keep me\n" {
			t.Errorf("body = %q, want %q", got.Entry().Body(), "keep me\n")
		}
	})
}

func TestEnvelopeOnDisk(t *testing.T) {
	s := newDiskStore(t)
	id := storeid.MustNew("notes/ondisk")

	h, err := s.Create(id)
	if err != nil {
		t.Fatal(err)
	}
	h.Entry().SetBody("body text\n")
	if err := h.Close(); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(s.Path(), "notes", "ondisk"))
	if err != nil {
		t.Fatalf("read entry file: %v", err)
	}
	content := string(raw)
	if !strings.HasPrefix(content, "---\n") {
		t.Errorf("file does not start with envelope marker:\n%s", content)
	}
	if !strings.Contains(content, "version = ") {
		t.Errorf("header lacks version stamp:\n%s", content)
	}
	if !strings.HasSuffix(content, "---\nbody text\n") {
		t.Errorf("unexpected body section:\n%s", content)
	}
}

func TestEntriesIteration(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		for _, raw := range []string{"notes/a", "notes/b", "diary/2019/01", "url/abc"} {
			h, err := s.Create(storeid.MustNew(raw))
			if err != nil {
				t.Fatal(err)
			}
			if err := h.Close(); err != nil {
				t.Fatal(err)
			}
		}

		it, err := s.Entries()
		if err != nil {
			t.Fatalf("Entries: %v", err)
		}

		seen := make(map[string]int)
		for {
			id, ok := it.Next()
			if !ok {
				break
			}
			seen[id.String()]++
		}
		if len(seen) != 4 {
			t.Errorf("saw %d ids, want 4: %v", len(seen), seen)
		}
		for id, n := range seen {
			if n != 1 {
				t.Errorf("id %s seen %d times", id, n)
			}
		}
	})
}

func TestIteratorInCollection(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		for _, raw := range []string{"notes/a", "notes/b", "todo/x"} {
			h, err := s.Create(storeid.MustNew(raw))
			if err != nil {
				t.Fatal(err)
			}
			if err := h.Close(); err != nil {
				t.Fatal(err)
			}
		}

		it, err := s.Entries()
		if err != nil {
			t.Fatal(err)
		}
		ids := it.InCollection("notes").Collect()
		if len(ids) != 2 {
			t.Fatalf("filtered ids = %v, want 2 in notes/", ids)
		}
		for _, id := range ids {
			if id.Collection() != "notes" {
				t.Errorf("id %s escaped the collection filter", id)
			}
		}
	})
}

func TestHandleAdaptors(t *testing.T) {
	eachStore(t, func(t *testing.T, s *Store) {
		for _, raw := range []string{"notes/a", "notes/b"} {
			h, err := s.Create(storeid.MustNew(raw))
			if err != nil {
				t.Fatal(err)
			}
			if err := h.Close(); err != nil {
				t.Fatal(err)
			}
		}

		it, err := s.Entries()
		if err != nil {
			t.Fatal(err)
		}

		got := it.Get()
		count := 0
		for {
			res, ok := got.Next()
			if !ok {
				break
			}
			if res.Err != nil {
				t.Errorf("get adaptor error for %s: %v", res.ID, res.Err)
				continue
			}
			if res.Handle == nil {
				t.Errorf("get adaptor: unexpected absent entry %s", res.ID)
				continue
			}
			res.Handle.Discard()
			count++
		}
		if count != 2 {
			t.Errorf("get adaptor visited %d entries, want 2", count)
		}

		// Create adaptor collides element-wise with everything existing.
		it2, err := s.Entries()
		if err != nil {
			t.Fatal(err)
		}
		creator := it2.Create()
		for {
			res, ok := creator.Next()
			if !ok {
				break
			}
			if !errors.Is(res.Err, apperr.ErrAlreadyExists) {
				t.Errorf("create adaptor for %s: expected ErrAlreadyExists, got %v", res.ID, res.Err)
			}
		}
	})
}

func TestStoreVerify(t *testing.T) {
	s := newDiskStore(t)

	for _, raw := range []string{"notes/good", "notes/also-good"} {
		h, err := s.Create(storeid.MustNew(raw))
		if err != nil {
			t.Fatal(err)
		}
		if err := h.Close(); err != nil {
			t.Fatal(err)
		}
	}

	// Write a corrupt entry behind the store's back.
	bad := filepath.Join(s.Path(), "notes", "broken")
	if err := os.WriteFile(bad, []byte("---\nimag.version = 'bogus'\n---\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	report, err := s.Verify()
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if report.Checked != 3 {
		t.Errorf("checked %d entries, want 3", report.Checked)
	}
	if report.OK() {
		t.Fatal("expected verify to fail")
	}
	if len(report.Problems) != 1 {
		t.Fatalf("problems = %v, want exactly one", report.Problems)
	}
	if report.Problems[0].ID.String() != "notes/broken" {
		t.Errorf("problem id = %s, want notes/broken", report.Problems[0].ID)
	}
	if !errors.Is(report.Problems[0].Err, apperr.ErrVerifyFailed) {
		t.Errorf("problem err = %v", report.Problems[0].Err)
	}
}
