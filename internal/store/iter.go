package store

import (
	"github.com/magpiedev/magpie/internal/storeid"
)

// Iterator walks entry identifiers lazily. The identifier set is
// snapshotted when the iterator is created; entries deleted during the
// walk surface as absent, entries created during it do not appear.
//
// An iterator holds no entry locks.
type Iterator struct {
	store *Store
	ids   []storeid.ID
	pos   int
}

// Entries returns an iterator over all identifiers in the store.
func (s *Store) Entries() (*Iterator, error) {
	ids, err := s.backend.walk()
	if err != nil {
		return nil, err
	}
	return &Iterator{store: s, ids: ids}, nil
}

// Next returns the next identifier. ok is false when the walk is done.
func (it *Iterator) Next() (id storeid.ID, ok bool) {
	if it.pos >= len(it.ids) {
		return storeid.ID{}, false
	}
	id = it.ids[it.pos]
	it.pos++
	return id, true
}

// Collect drains the iterator into a slice.
func (it *Iterator) Collect() []storeid.ID {
	out := make([]storeid.ID, 0, len(it.ids)-it.pos)
	for {
		id, ok := it.Next()
		if !ok {
			return out
		}
		out = append(out, id)
	}
}

// InCollection filters the remaining identifiers down to the named
// collections. The adaptor is lazy; it shares position with the parent.
func (it *Iterator) InCollection(names ...string) *Iterator {
	kept := it.ids[:0:0]
	for _, id := range it.ids[it.pos:] {
		if id.InCollection(names...) {
			kept = append(kept, id)
		}
	}
	return &Iterator{store: it.store, ids: kept}
}

// Result is one element of a handle-producing adaptor. Exactly one of
// Handle and Err is meaningful per element; for the Get adaptor both may
// be nil when the entry is absent.
type Result struct {
	ID     storeid.ID
	Handle *Handle
	Err    error
}

// HandleIter adapts an identifier iterator into exclusive entry handles,
// one element at a time. Callers own each returned handle and must close
// it; errors are per-element and do not stop the iteration.
type HandleIter struct {
	it   *Iterator
	open func(storeid.ID) (*Handle, error)
}

// Get adapts the iterator to open existing entries. Absent entries yield
// a Result with nil Handle and nil Err.
func (it *Iterator) Get() *HandleIter {
	return &HandleIter{it: it, open: it.store.Get}
}

// Retrieve adapts the iterator to open entries, creating absent ones.
func (it *Iterator) Retrieve() *HandleIter {
	return &HandleIter{it: it, open: it.store.Retrieve}
}

// Create adapts the iterator to create entries, failing per element on
// collision.
func (it *Iterator) Create() *HandleIter {
	return &HandleIter{it: it, open: it.store.Create}
}

// Next produces the next element. ok is false when the walk is done.
func (hi *HandleIter) Next() (res Result, ok bool) {
	id, ok := hi.it.Next()
	if !ok {
		return Result{}, false
	}
	h, err := hi.open(id)
	return Result{ID: id, Handle: h, Err: err}, true
}
