package cli

import (
	"errors"
	"fmt"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

// openStore opens the resolved store for the duration of one command.
func openStore() (*store.Store, error) {
	s, err := store.Open(getRTP())
	if err != nil {
		if errors.Is(err, apperr.ErrInUse) {
			return nil, fmt.Errorf("store %s is already open in another process: %w", getRTP(), err)
		}
		return nil, err
	}
	return s, nil
}

// handleOpenStoreError renders a store.Open failure; a busy store gets
// its own code since no entry is involved yet.
func handleOpenStoreError(err error) error {
	if errors.Is(err, apperr.ErrInUse) {
		return handleError(ErrStoreInUse, err)
	}
	return handleStoreError(err)
}

// parseID validates a raw ID argument.
func parseID(raw string) (storeid.ID, error) {
	id, err := storeid.New(raw)
	if err != nil {
		return storeid.ID{}, fmt.Errorf("invalid entry ID %q: %w", raw, err)
	}
	return id, nil
}

// argOrStdinIDs resolves the entry IDs a command operates on: positional
// arguments when given, otherwise piped stdin lines.
func argOrStdinIDs(args []string) (ids []storeid.ID, warnings []Warning, err error) {
	if len(args) > 0 {
		for _, raw := range args {
			id, err := parseID(raw)
			if err != nil {
				return nil, nil, err
			}
			ids = append(ids, id)
		}
		return ids, nil, nil
	}

	if !StdinIsPiped() {
		return nil, nil, fmt.Errorf("no entry IDs: pass them as arguments or pipe them to stdin")
	}
	ids, invalid, err := ReadIDsFromStdin()
	if err != nil {
		return nil, nil, err
	}
	return ids, skippedIDWarnings(invalid), nil
}

// withEntry opens the entry, runs fn, and flushes on success. fn errors
// discard the handle so a failed mutation never reaches disk.
func withEntry(s *store.Store, id storeid.ID, fn func(h *store.Handle) error) error {
	h, err := s.Get(id)
	if err != nil {
		return err
	}
	if h == nil {
		return fmt.Errorf("entry %s: %w", id, apperr.ErrNotFound)
	}
	if err := fn(h); err != nil {
		h.Discard()
		return err
	}
	return h.Close()
}
