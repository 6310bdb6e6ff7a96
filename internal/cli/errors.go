package cli

import (
	"errors"

	"github.com/magpiedev/magpie/internal/apperr"
)

// Error codes for structured error responses.
// These codes are stable and can be relied upon by scripts and agents.
const (
	// Store errors
	ErrStoreNotFound = "STORE_NOT_FOUND"
	ErrStoreInUse    = "STORE_IN_USE"
	ErrConfigInvalid = "CONFIG_INVALID"

	// Entry errors
	ErrEntryNotFound = "ENTRY_NOT_FOUND"
	ErrEntryExists   = "ENTRY_EXISTS"
	ErrEntryInUse    = "ENTRY_IN_USE"
	ErrIDInvalid     = "ID_INVALID"

	// Header errors
	ErrHeaderParse = "HEADER_PARSE_ERROR"
	ErrHeaderWrite = "HEADER_WRITE_ERROR"
	ErrTypeError   = "TYPE_MISMATCH"

	// Overlay errors
	ErrTagFormat       = "TAG_FORMAT_INVALID"
	ErrRefMissing      = "REF_MISSING"
	ErrCategoryMissing = "CATEGORY_MISSING"

	// Verification errors
	ErrVerifyFailed = "VERIFY_FAILED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// File errors
	ErrIO = "IO_ERROR"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnBrokenLink  = "BROKEN_LINK"
	WarnSkippedID   = "SKIPPED_ID"
	WarnFileChanged = "REF_FILE_CHANGED"
	WarnFileMissing = "REF_FILE_MISSING"
)

// codeFor maps a store error to its stable response code.
func codeFor(err error) string {
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		return ErrEntryNotFound
	case errors.Is(err, apperr.ErrAlreadyExists):
		return ErrEntryExists
	case errors.Is(err, apperr.ErrInUse):
		return ErrEntryInUse
	case errors.Is(err, apperr.ErrIDInvalid):
		return ErrIDInvalid
	case errors.Is(err, apperr.ErrHeaderParse):
		return ErrHeaderParse
	case errors.Is(err, apperr.ErrHeaderWrite):
		return ErrHeaderWrite
	case errors.Is(err, apperr.ErrTypeMismatch):
		return ErrTypeError
	case errors.Is(err, apperr.ErrTagFormat):
		return ErrTagFormat
	case errors.Is(err, apperr.ErrRefMissing):
		return ErrRefMissing
	case errors.Is(err, apperr.ErrCategoryMissing):
		return ErrCategoryMissing
	case errors.Is(err, apperr.ErrVerifyFailed):
		return ErrVerifyFailed
	case errors.Is(err, apperr.ErrIO):
		return ErrIO
	default:
		return ErrInternal
	}
}
