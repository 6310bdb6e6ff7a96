package link

import (
	"fmt"
	"sort"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

// AddTo links the held entry to the entry named by target, materialising
// both halves of the edge. A missing target fails with apperr.ErrNotFound.
func AddTo(s *store.Store, h *store.Handle, target storeid.ID) error {
	other, err := s.Get(target)
	if err != nil {
		return err
	}
	if other == nil {
		return fmt.Errorf("link target %s: %w", target, apperr.ErrNotFound)
	}
	if err := Add(h.Entry(), other.Entry()); err != nil {
		other.Discard()
		return err
	}
	return other.Close()
}

// RemoveFrom drops the edge between the held entry and target. A missing
// target only loses the local half.
func RemoveFrom(s *store.Store, h *store.Handle, target storeid.ID) error {
	other, err := s.Get(target)
	if err != nil {
		return err
	}
	if other == nil {
		return removeHalf(h.Entry(), target)
	}
	if err := Remove(h.Entry(), other.Entry()); err != nil {
		other.Discard()
		return err
	}
	return other.Close()
}

// UnlinkAll removes every link of the held entry, mirror halves included.
// Each target is opened through the store; targets that no longer exist
// are skipped (their half of the edge is already gone).
func UnlinkAll(s *store.Store, h *store.Handle) error {
	links, err := Links(h.Entry())
	if err != nil {
		return err
	}

	for _, l := range links {
		other, err := s.Get(l.Target)
		if err != nil {
			return fmt.Errorf("unlink %s from %s: %w", l.Target, h.ID(), err)
		}
		if other == nil {
			continue
		}
		if err := removeHalf(other.Entry(), h.ID()); err != nil {
			other.Discard()
			return err
		}
		if err := other.Close(); err != nil {
			return err
		}
	}

	return Set(h.Entry(), nil)
}

// Relink rewrites every link in the store that targets from so it targets
// to instead. Callers run it after store.MoveByID to repair back-links;
// the moved entry's own outgoing links are left untouched.
func Relink(s *store.Store, from, to storeid.ID) error {
	it, err := s.Entries()
	if err != nil {
		return err
	}

	for {
		id, ok := it.Next()
		if !ok {
			return nil
		}
		if id.Equal(to) || id.Equal(from) {
			continue
		}

		h, err := s.Get(id)
		if err != nil {
			return err
		}
		if h == nil {
			continue
		}

		links, err := Links(h.Entry())
		if err != nil {
			h.Discard()
			return err
		}

		changed := false
		for i, l := range links {
			if l.Target.Equal(from) {
				links[i].Target = to
				changed = true
			}
		}
		if !changed {
			h.Discard()
			continue
		}

		if err := Set(h.Entry(), links); err != nil {
			h.Discard()
			return err
		}
		if err := h.Close(); err != nil {
			return err
		}
	}
}

// BrokenEdge is one half-materialized or dangling link found by StoreCheck.
type BrokenEdge struct {
	From   storeid.ID
	To     storeid.ID
	Reason string
}

func (b BrokenEdge) String() string {
	return fmt.Sprintf("%s -> %s: %s", b.From, b.To, b.Reason)
}

// StoreCheck verifies the link symmetry invariant across the whole store:
// for every edge A -> B, B must exist and link back to A. It reports every
// broken edge and never mutates.
func StoreCheck(s *store.Store) ([]BrokenEdge, error) {
	it, err := s.Entries()
	if err != nil {
		return nil, err
	}

	// First pass: collect the adjacency of every entry.
	targets := make(map[string]map[string]struct{})
	for {
		id, ok := it.Next()
		if !ok {
			break
		}

		h, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if h == nil {
			continue
		}
		links, err := Links(h.Entry())
		h.Discard()
		if err != nil {
			return nil, err
		}

		set := make(map[string]struct{}, len(links))
		for _, l := range links {
			set[l.Target.String()] = struct{}{}
		}
		targets[id.String()] = set
	}

	// Second pass: every edge needs an existing, reciprocating target.
	var broken []BrokenEdge
	for from, set := range targets {
		for to := range set {
			back, exists := targets[to]
			if !exists {
				broken = append(broken, BrokenEdge{
					From:   storeid.MustNew(from),
					To:     storeid.MustNew(to),
					Reason: "target does not exist",
				})
				continue
			}
			if _, ok := back[from]; !ok {
				broken = append(broken, BrokenEdge{
					From:   storeid.MustNew(from),
					To:     storeid.MustNew(to),
					Reason: "target does not link back",
				})
			}
		}
	}

	sort.Slice(broken, func(i, j int) bool {
		if !broken[i].From.Equal(broken[j].From) {
			return broken[i].From.Less(broken[j].From)
		}
		return broken[i].To.Less(broken[j].To)
	})
	return broken, nil
}
