package store

import (
	"bytes"

	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

// Handle is a live, exclusive reference to one entry. Mutations made
// through Entry are flushed back to the store when the handle is closed.
//
// A handle must be closed exactly once; the store refuses to hand out a
// second handle for the same identifier while one is live.
type Handle struct {
	store  *Store
	entry  *entry.Entry
	loaded []byte // envelope as read from disk, nil for fresh entries
	fresh  bool
	closed bool
}

// Entry returns the held entry for reading and mutation.
func (h *Handle) Entry() *entry.Entry { return h.entry }

// ID returns the held entry's identifier.
func (h *Handle) ID() storeid.ID { return h.entry.ID() }

// Close flushes the entry if it changed and releases the exclusive slot.
// The slot is released even when the flush fails.
func (h *Handle) Close() error {
	if h.closed {
		return nil
	}
	h.closed = true
	defer h.store.release(h.entry.ID())
	return h.flush()
}

// Discard releases the handle without writing pending changes. Fresh
// entries that were never flushed are not created.
func (h *Handle) Discard() {
	if h.closed {
		return
	}
	h.closed = true
	h.store.release(h.entry.ID())
}

// flush writes the entry envelope when it differs from the loaded state.
func (h *Handle) flush() error {
	data, err := h.entry.Bytes()
	if err != nil {
		return err
	}
	if !h.fresh && h.loaded != nil && bytes.Equal(data, h.loaded) {
		return nil
	}
	if err := h.store.backend.write(h.entry.ID(), data); err != nil {
		return err
	}
	h.fresh = false
	h.loaded = data
	return nil
}
