// Package apperr defines the error kinds shared by the store core.
//
// Every failure returned by the core wraps exactly one of these sentinel
// errors, so callers can dispatch with errors.Is while the wrapping layers
// attach context with fmt.Errorf("...: %w", err).
package apperr

import "errors"

var (
	// ErrIO wraps an underlying filesystem failure.
	ErrIO = errors.New("i/o error")

	// ErrIDInvalid marks an identifier that is empty, absolute, or
	// contains a ".." segment.
	ErrIDInvalid = errors.New("invalid store id")

	// ErrAlreadyExists is returned when creating an entry whose id is taken.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrNotFound is returned for lifecycle operations on a missing entry.
	ErrNotFound = errors.New("entry not found")

	// ErrInUse is returned when an entry handle is already held elsewhere.
	ErrInUse = errors.New("entry currently borrowed")

	// ErrHeaderParse marks a malformed entry envelope or header block.
	ErrHeaderParse = errors.New("header parse error")

	// ErrHeaderWrite marks a header that cannot be serialized.
	ErrHeaderWrite = errors.New("header write error")

	// ErrTypeMismatch is returned when a header path exists but does not
	// have the requested shape.
	ErrTypeMismatch = errors.New("header type mismatch")

	// ErrVerifyFailed marks a failed integrity check.
	ErrVerifyFailed = errors.New("verification failed")

	// ErrTagFormat marks a tag that is not lowercase alphanumeric.
	ErrTagFormat = errors.New("invalid tag format")

	// ErrRefMissing marks an entry that carries no ref header.
	ErrRefMissing = errors.New("entry has no ref")

	// ErrCategoryMissing marks a category that is not registered.
	ErrCategoryMissing = errors.New("category not registered")
)
