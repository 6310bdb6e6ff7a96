// Package link implements bidirectional inter-entry links.
//
// Links live in each endpoint's header under "links" as an array of tables.
// A plain link is {target = "<id>"}, an annotated link additionally carries
// a note. Every link is materialized symmetrically: when A links to B, B's
// header carries the mirror edge back to A. The store check walks the whole
// store and reports every edge whose mirror half is missing.
package link

import (
	"fmt"
	"sort"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

// HeaderPath is the header location of the link array.
const HeaderPath = "links"

// Link is an edge to another entry. A link with an empty Note is plain.
type Link struct {
	Target storeid.ID
	Note   string
}

// Annotated reports whether the link carries a note.
func (l Link) Annotated() bool { return l.Note != "" }

// less orders links by target; an annotated link sorts after a plain one
// with the same target so serialized headers are canonical.
func (l Link) less(other Link) bool {
	if !l.Target.Equal(other.Target) {
		return l.Target.Less(other.Target)
	}
	return l.Note < other.Note
}

type linkRecord struct {
	Target string `toml:"target"`
	Note   string `toml:"note,omitempty"`
}

// Links returns the entry's links, deduplicated and sorted by target.
func Links(e *entry.Entry) ([]Link, error) {
	arr, present, err := e.Header.ReadArray(HeaderPath)
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	if !present {
		return nil, nil
	}

	links := make([]Link, 0, len(arr))
	for i, raw := range arr {
		table, ok := raw.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("entry %s: links[%d] is not a table: %w", e.ID(), i, apperr.ErrTypeMismatch)
		}
		target, ok := table["target"].(string)
		if !ok {
			return nil, fmt.Errorf("entry %s: links[%d] has no target: %w", e.ID(), i, apperr.ErrTypeMismatch)
		}
		id, err := storeid.New(target)
		if err != nil {
			return nil, fmt.Errorf("entry %s: links[%d]: %w", e.ID(), i, err)
		}
		note, _ := table["note"].(string)
		links = append(links, Link{Target: id, Note: note})
	}

	return normalize(links), nil
}

// Set replaces the entry's link list. The list is deduplicated and sorted
// before writing; an empty list removes the header path entirely.
func Set(e *entry.Entry, links []Link) error {
	links = normalize(links)
	if len(links) == 0 {
		e.Header.Delete(HeaderPath)
		return nil
	}

	records := make([]linkRecord, len(links))
	for i, l := range links {
		records[i] = linkRecord{Target: l.Target.String(), Note: l.Note}
	}
	if err := e.Header.InsertSerialized(HeaderPath, records); err != nil {
		return fmt.Errorf("entry %s: %w", e.ID(), err)
	}
	return nil
}

// Add links a and b symmetrically with plain links. Adding an edge that
// already exists is a no-op.
func Add(a, b *entry.Entry) error {
	return addEdge(a, b, "")
}

// AddAnnotated links a to b with a note on a's side; b carries the plain
// mirror edge.
func AddAnnotated(a, b *entry.Entry, note string) error {
	return addEdge(a, b, note)
}

func addEdge(a, b *entry.Entry, note string) error {
	if err := addHalf(a, Link{Target: b.ID(), Note: note}); err != nil {
		return err
	}
	return addHalf(b, Link{Target: a.ID()})
}

// addHalf inserts l into e unless e already links to the same target.
func addHalf(e *entry.Entry, l Link) error {
	links, err := Links(e)
	if err != nil {
		return err
	}
	for _, existing := range links {
		if existing.Target.Equal(l.Target) {
			return nil
		}
	}
	return Set(e, append(links, l))
}

// Remove deletes the edge between a and b on both sides, regardless of
// annotation. Removing a missing edge is a silent no-op.
func Remove(a, b *entry.Entry) error {
	if err := removeHalf(a, b.ID()); err != nil {
		return err
	}
	return removeHalf(b, a.ID())
}

func removeHalf(e *entry.Entry, target storeid.ID) error {
	links, err := Links(e)
	if err != nil {
		return err
	}
	kept := links[:0]
	for _, l := range links {
		if !l.Target.Equal(target) {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(links) {
		return nil
	}
	return Set(e, kept)
}

// normalize dedupes exact (target, note) pairs and sorts canonically.
func normalize(links []Link) []Link {
	sort.Slice(links, func(i, j int) bool { return links[i].less(links[j]) })
	out := links[:0]
	for i, l := range links {
		if i > 0 && l == links[i-1] {
			continue
		}
		out = append(out, l)
	}
	return out
}
