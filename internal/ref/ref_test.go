package ref

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/config"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

func testSetup(t *testing.T) (*entry.Entry, *config.Config, string) {
	t.Helper()
	base := t.TempDir()
	cfg := config.Default()
	cfg.Ref.Basepaths["files"] = base

	file := filepath.Join(base, "docs", "report.txt")
	if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(file, []byte("some referenced content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	return entry.New(storeid.MustNew("ref/report")), cfg, file
}

func TestMakeRefAndCheck(t *testing.T) {
	e, cfg, file := testSetup(t)

	if err := MakeRef(e, file, "files", cfg, "", false); err != nil {
		t.Fatalf("MakeRef: %v", err)
	}

	r, err := Get(e)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if r.Collection != "files" {
		t.Errorf("collection = %q", r.Collection)
	}
	if r.Relpath != "docs/report.txt" {
		t.Errorf("relpath = %q", r.Relpath)
	}
	if r.Hasher != "sha256" {
		t.Errorf("hasher = %q", r.Hasher)
	}
	if len(r.Hash) != 64 {
		t.Errorf("hash %q does not look like sha256 hex", r.Hash)
	}

	// Ref round-trip law: a fresh ref always checks as Match.
	res, err := Check(e, cfg)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res != Match {
		t.Errorf("Check = %v, want Match", res)
	}

	// The entry must still pass structural verification.
	if err := e.Verify(); err != nil {
		t.Errorf("Verify: %v", err)
	}
}

func TestMakeRefForce(t *testing.T) {
	e, cfg, file := testSetup(t)

	if err := MakeRef(e, file, "files", cfg, "", false); err != nil {
		t.Fatal(err)
	}
	err := MakeRef(e, file, "files", cfg, "", false)
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("re-ref without force: expected ErrAlreadyExists, got %v", err)
	}
	if err := MakeRef(e, file, "files", cfg, "", true); err != nil {
		t.Errorf("re-ref with force: %v", err)
	}
}

func TestMakeRefOutsideBasepath(t *testing.T) {
	e, cfg, _ := testSetup(t)

	outside := filepath.Join(t.TempDir(), "elsewhere.txt")
	if err := os.WriteFile(outside, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := MakeRef(e, outside, "files", cfg, "", false); err == nil {
		t.Error("expected error for file outside basepath")
	}
}

func TestMakeRefUnknownCollection(t *testing.T) {
	e, cfg, file := testSetup(t)
	if err := MakeRef(e, file, "nope", cfg, "", false); err == nil {
		t.Error("expected error for unconfigured basepath")
	}
}

func TestCheckDetectsChanges(t *testing.T) {
	e, cfg, file := testSetup(t)
	if err := MakeRef(e, file, "files", cfg, "", false); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile(file, []byte("mutated content\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	res, err := Check(e, cfg)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res != Mismatch {
		t.Errorf("Check = %v, want Mismatch", res)
	}

	// Update re-hashes; the ref matches again.
	if err := Update(e, cfg); err != nil {
		t.Fatalf("Update: %v", err)
	}
	res, err = Check(e, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if res != Match {
		t.Errorf("Check after Update = %v, want Match", res)
	}

	if err := os.Remove(file); err != nil {
		t.Fatal(err)
	}
	res, err = Check(e, cfg)
	if err != nil {
		t.Fatalf("Check on missing file: %v", err)
	}
	if res != FileMissing {
		t.Errorf("Check = %v, want FileMissing", res)
	}
}

func TestGetWithoutRef(t *testing.T) {
	e := entry.New(storeid.MustNew("notes/plain"))
	if _, err := Get(e); !errors.Is(err, apperr.ErrRefMissing) {
		t.Errorf("expected ErrRefMissing, got %v", err)
	}
	if IsRef(e) {
		t.Error("IsRef on plain entry")
	}
}

func TestBlake3Hasher(t *testing.T) {
	e, cfg, file := testSetup(t)
	cfg.Ref.Hashers.Default = "blake3"

	if err := MakeRef(e, file, "files", cfg, "", false); err != nil {
		t.Fatalf("MakeRef: %v", err)
	}
	r, err := Get(e)
	if err != nil {
		t.Fatal(err)
	}
	if r.Hasher != "blake3" {
		t.Errorf("hasher = %q, want blake3", r.Hasher)
	}
	if res, err := Check(e, cfg); err != nil || res != Match {
		t.Errorf("Check = (%v, %v), want Match", res, err)
	}
}

func TestHasherByNameUnknown(t *testing.T) {
	if _, err := HasherByName("md5"); err == nil || !strings.Contains(err.Error(), "md5") {
		t.Errorf("expected descriptive error, got %v", err)
	}
}

func TestRemove(t *testing.T) {
	e, cfg, file := testSetup(t)
	if err := MakeRef(e, file, "files", cfg, "", false); err != nil {
		t.Fatal(err)
	}
	Remove(e)
	if IsRef(e) {
		t.Error("ref still present after Remove")
	}
}
