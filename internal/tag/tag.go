// Package tag implements the tag overlay: a validated, unique list of
// lowercase alphanumeric strings stored at tag.values in an entry header.
package tag

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/entry"
)

// HeaderPath is the header location of the tag list.
const HeaderPath = "tag.values"

var tagPattern = regexp.MustCompile(`^[a-z0-9]+$`)

// Validate checks a single tag. Anything but a non-empty lowercase
// alphanumeric string fails with apperr.ErrTagFormat.
func Validate(t string) error {
	err := validation.Validate(t,
		validation.Required.Error("tag is empty"),
		validation.Match(tagPattern).Error("tag must be lowercase alphanumeric without whitespace"),
	)
	if err != nil {
		return fmt.Errorf("tag %q: %s: %w", t, err, apperr.ErrTagFormat)
	}
	return nil
}

// Get returns the entry's tags in stored order.
func Get(e *entry.Entry) ([]string, error) {
	tags, present, err := e.Header.ReadStringArray(HeaderPath)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	if !present {
		return nil, nil
	}
	return tags, nil
}

// Set replaces the entry's tag list. Every tag is validated; duplicates
// are dropped while preserving first-seen order. An empty list removes
// the header path.
func Set(e *entry.Entry, tags []string) error {
	seen := make(map[string]struct{}, len(tags))
	unique := make([]string, 0, len(tags))
	for _, t := range tags {
		if err := Validate(t); err != nil {
			return err
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		unique = append(unique, t)
	}

	if len(unique) == 0 {
		e.Header.Delete(HeaderPath)
		return nil
	}
	if _, err := e.Header.Insert(HeaderPath, unique); err != nil {
		return fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	return nil
}

// Add appends a tag. Adding a tag the entry already carries is a no-op.
func Add(e *entry.Entry, t string) error {
	if err := Validate(t); err != nil {
		return err
	}
	tags, err := Get(e)
	if err != nil {
		return err
	}
	for _, existing := range tags {
		if existing == t {
			return nil
		}
	}
	return Set(e, append(tags, t))
}

// Remove deletes a tag. Removing an absent tag is a silent no-op.
func Remove(e *entry.Entry, t string) error {
	tags, err := Get(e)
	if err != nil {
		return err
	}
	kept := tags[:0]
	for _, existing := range tags {
		if existing != t {
			kept = append(kept, existing)
		}
	}
	if len(kept) == len(tags) {
		return nil
	}
	return Set(e, kept)
}

// Has reports whether the entry carries tag t.
func Has(e *entry.Entry, t string) (bool, error) {
	tags, err := Get(e)
	if err != nil {
		return false, err
	}
	for _, existing := range tags {
		if existing == t {
			return true, nil
		}
	}
	return false, nil
}

// HasAll reports whether the entry carries every tag in ts.
func HasAll(e *entry.Entry, ts []string) (bool, error) {
	for _, t := range ts {
		ok, err := Has(e, t)
		if err != nil || !ok {
			return false, err
		}
	}
	return true, nil
}
