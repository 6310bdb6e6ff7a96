// Package ref ties entries to external files on the host filesystem.
//
// A ref is a header projection:
//
//	[ref]
//	collection = "music"
//	relpath    = "albums/x.flac"
//	hash       = "<hex digest>"
//	hasher     = "sha256"
//
// The collection names a basepath root from the configuration; relpath is
// relative to it. The hash is the file content digest at creation or last
// explicit re-hash.
package ref

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/config"
	"github.com/magpiedev/magpie/internal/entry"
)

// Ref is the header projection of an external-file reference.
type Ref struct {
	Collection string `toml:"collection"`
	Relpath    string `toml:"relpath"`
	Hash       string `toml:"hash"`
	Hasher     string `toml:"hasher"`
}

// Location implements header.Partial.
func (Ref) Location() string { return "ref" }

// CheckResult is the outcome of re-hashing a referenced file.
type CheckResult int

const (
	// Match: the file still hashes to the stored digest.
	Match CheckResult = iota
	// Mismatch: the file exists but its content changed.
	Mismatch
	// FileMissing: the referenced file is gone.
	FileMissing
)

func (c CheckResult) String() string {
	switch c {
	case Match:
		return "match"
	case Mismatch:
		return "mismatch"
	case FileMissing:
		return "file missing"
	}
	return "unknown"
}

// Get reads the entry's ref projection. It fails with apperr.ErrRefMissing
// when the entry carries none.
func Get(e *entry.Entry) (*Ref, error) {
	var r Ref
	present, err := e.Header.ReadPartial(&r)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	if !present {
		return nil, fmt.Errorf("entry %s: %w", e.ID(), apperr.ErrRefMissing)
	}
	return &r, nil
}

// IsRef reports whether the entry carries a ref projection.
func IsRef(e *entry.Entry) bool {
	return e.Header.Has("ref")
}

// MakeRef records a reference from e to the file at path. The path must
// live below the named collection's basepath. The file is hashed with
// hasherName, or the configured default when empty. An existing ref fails
// with apperr.ErrAlreadyExists unless force is set.
func MakeRef(e *entry.Entry, path, collection string, cfg *config.Config, hasherName string, force bool) error {
	if IsRef(e) && !force {
		return fmt.Errorf("entry %s already carries a ref: %w", e.ID(), apperr.ErrAlreadyExists)
	}

	base, ok := cfg.Basepath(collection)
	if !ok {
		return fmt.Errorf("ref basepath %q not configured", collection)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve %s: %s: %w", path, err, apperr.ErrIO)
	}
	rel, err := filepath.Rel(base, abs)
	if err != nil || strings.HasPrefix(rel, "..") {
		return fmt.Errorf("file %s is outside basepath %q (%s)", abs, collection, base)
	}

	if hasherName == "" {
		hasherName = cfg.DefaultHasherName()
	}
	hasher, err := HasherByName(hasherName)
	if err != nil {
		return err
	}

	hash, err := hashFile(hasher, abs)
	if err != nil {
		return fmt.Errorf("hash %s: %s: %w", abs, err, apperr.ErrIO)
	}

	r := Ref{
		Collection: collection,
		Relpath:    filepath.ToSlash(rel),
		Hash:       hash,
		Hasher:     hasher.Name(),
	}
	if err := e.Header.InsertSerialized(r.Location(), r); err != nil {
		return fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	return nil
}

// Path rebuilds the absolute filesystem path of the referenced file.
func Path(e *entry.Entry, cfg *config.Config) (string, error) {
	r, err := Get(e)
	if err != nil {
		return "", err
	}
	base, ok := cfg.Basepath(r.Collection)
	if !ok {
		return "", fmt.Errorf("ref basepath %q not configured", r.Collection)
	}
	return filepath.Join(base, filepath.FromSlash(r.Relpath)), nil
}

// Check re-hashes the referenced file and compares against the stored
// digest.
func Check(e *entry.Entry, cfg *config.Config) (CheckResult, error) {
	r, err := Get(e)
	if err != nil {
		return FileMissing, err
	}

	path, err := Path(e, cfg)
	if err != nil {
		return FileMissing, err
	}

	hasher, err := HasherByName(r.Hasher)
	if err != nil {
		return FileMissing, err
	}

	hash, err := hashFile(hasher, path)
	if os.IsNotExist(err) {
		return FileMissing, nil
	}
	if err != nil {
		return FileMissing, fmt.Errorf("hash %s: %s: %w", path, err, apperr.ErrIO)
	}

	if hash != r.Hash {
		return Mismatch, nil
	}
	return Match, nil
}

// Update re-hashes the referenced file and stores the new digest.
func Update(e *entry.Entry, cfg *config.Config) error {
	r, err := Get(e)
	if err != nil {
		return err
	}

	path, err := Path(e, cfg)
	if err != nil {
		return err
	}
	hasher, err := HasherByName(r.Hasher)
	if err != nil {
		return err
	}
	hash, err := hashFile(hasher, path)
	if err != nil {
		return fmt.Errorf("hash %s: %s: %w", path, err, apperr.ErrIO)
	}

	r.Hash = hash
	if err := e.Header.InsertSerialized(r.Location(), *r); err != nil {
		return fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	return nil
}

// Remove deletes the entry's ref projection. Removing an absent ref is a
// no-op.
func Remove(e *entry.Entry) {
	e.Header.Delete("ref")
}
