package store

import (
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/magpiedev/magpie/internal/storeid"
)

// verifyWorkers bounds the number of entries inspected concurrently.
const verifyWorkers = 8

// Problem is one failed invariant found by Verify.
type Problem struct {
	ID  storeid.ID
	Err error
}

// Report aggregates the outcome of a store-wide verification.
type Report struct {
	Checked  int
	Problems []Problem
}

// OK reports whether every inspected entry passed.
func (r *Report) OK() bool { return len(r.Problems) == 0 }

// Verify opens and verifies every entry in the store. All entries are
// inspected even when some fail; the report lists every violation. The
// walk itself failing (unreadable base directory) is the only error.
func (s *Store) Verify() (*Report, error) {
	it, err := s.Entries()
	if err != nil {
		return nil, err
	}
	ids := it.Collect()

	var (
		mu       sync.Mutex
		problems []Problem
	)
	report := func(id storeid.ID, err error) {
		mu.Lock()
		problems = append(problems, Problem{ID: id, Err: err})
		mu.Unlock()
	}

	var g errgroup.Group
	g.SetLimit(verifyWorkers)
	for _, id := range ids {
		g.Go(func() error {
			h, err := s.Get(id)
			if err != nil {
				report(id, err)
				return nil
			}
			if h == nil {
				// Deleted between snapshot and inspection; skip silently.
				return nil
			}
			defer h.Discard()

			if err := h.Entry().Verify(); err != nil {
				report(id, err)
			}
			return nil
		})
	}
	// Workers never return errors; they report into the shared slice.
	_ = g.Wait()

	sort.Slice(problems, func(i, j int) bool { return problems[i].ID.Less(problems[j].ID) })
	return &Report{Checked: len(ids), Problems: problems}, nil
}
