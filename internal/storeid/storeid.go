// Package storeid provides the canonical identifier for store entries.
//
// An identifier is a relative slash-separated path whose first segment names
// the collection ("notes/2019/foo" lives in collection "notes"). Identifiers
// map 1:1 to file paths below the store base directory.
package storeid

import (
	"fmt"
	"path"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/magpiedev/magpie/internal/apperr"
)

// ID is a normalized, collection-scoped entry identifier.
//
// The zero value is invalid; construct IDs with New or FromFilePath.
type ID struct {
	raw string
}

// New parses and normalizes s into an ID.
//
// Leading "./" and "/" prefixes and repeated slashes are normalized away.
// Empty identifiers and identifiers escaping the store base via ".." are
// rejected with apperr.ErrIDInvalid. A single-segment identifier is legal:
// it names an entry directly below the store base, its Collection is the
// whole identifier and its Local part is empty.
func New(s string) (ID, error) {
	raw := normalize(s)

	err := validation.Validate(raw,
		validation.Required.Error("identifier is empty"),
		validation.By(noParentSegments),
	)
	if err != nil {
		return ID{}, fmt.Errorf("%q: %s: %w", s, err, apperr.ErrIDInvalid)
	}

	return ID{raw: raw}, nil
}

// MustNew is New for identifiers known valid at compile time. It panics on
// invalid input and is intended for tests and constant collection prefixes.
func MustNew(s string) ID {
	id, err := New(s)
	if err != nil {
		panic(err)
	}
	return id
}

// FromFilePath converts an absolute file path below base into an ID.
func FromFilePath(base, p string) (ID, error) {
	rel, err := filepath.Rel(base, p)
	if err != nil {
		return ID{}, fmt.Errorf("path %q outside store base %q: %w", p, base, apperr.ErrIDInvalid)
	}
	return New(filepath.ToSlash(rel))
}

// String returns the canonical slash form of the identifier.
func (id ID) String() string { return id.raw }

// IsZero reports whether the ID is the (invalid) zero value.
func (id ID) IsZero() bool { return id.raw == "" }

// Collection returns the first path segment.
func (id ID) Collection() string {
	if i := strings.IndexByte(id.raw, '/'); i >= 0 {
		return id.raw[:i]
	}
	return id.raw
}

// Local returns the path below the collection segment.
func (id ID) Local() string {
	if i := strings.IndexByte(id.raw, '/'); i >= 0 {
		return id.raw[i+1:]
	}
	return ""
}

// InCollection reports whether the identifier's collection is one of names.
func (id ID) InCollection(names ...string) bool {
	c := id.Collection()
	for _, n := range names {
		if c == strings.Trim(n, "/") {
			return true
		}
	}
	return false
}

// FilePath returns the absolute file path of the entry below base.
func (id ID) FilePath(base string) string {
	return filepath.Join(base, filepath.FromSlash(id.raw))
}

// Less orders identifiers lexicographically by canonical form.
func (id ID) Less(other ID) bool { return id.raw < other.raw }

// Equal reports canonical-path equality.
func (id ID) Equal(other ID) bool { return id.raw == other.raw }

func normalize(s string) string {
	s = filepath.ToSlash(strings.TrimSpace(s))
	s = strings.TrimPrefix(s, "./")
	for strings.Contains(s, "//") {
		s = strings.ReplaceAll(s, "//", "/")
	}
	s = strings.TrimPrefix(s, "/")
	s = strings.TrimSuffix(s, "/")
	return s
}

func noParentSegments(value interface{}) error {
	s, _ := value.(string)
	for _, seg := range strings.Split(s, "/") {
		if seg == ".." {
			return fmt.Errorf("identifier contains a '..' segment")
		}
	}
	// path.Clean catches embedded tricks normalize() left alone.
	if path.Clean(s) != s {
		return fmt.Errorf("identifier is not in canonical form")
	}
	return nil
}
