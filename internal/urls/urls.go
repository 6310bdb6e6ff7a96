// Package urls attaches external URLs to entries. Every distinct URL is
// materialised once as an entry under url/<sha1-of-url> carrying the URL
// at url.uri; attaching is linking against that entry, so two entries
// sharing a URL share the same URL entry.
package urls

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

const (
	// Collection is the store collection holding URL entries.
	Collection = "url"

	// URIPath is where a URL entry records its URL.
	URIPath = "url.uri"
)

// Normalize parses and re-serialises a URL so equivalent spellings map
// to the same URL entry. Relative or schemeless URLs are rejected.
func Normalize(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("url %q is not absolute", raw)
	}
	return u.String(), nil
}

// EntryID returns the store ID a URL is filed under.
func EntryID(normalized string) storeid.ID {
	sum := sha1.Sum([]byte(normalized))
	return storeid.MustNew(Collection + "/" + hex.EncodeToString(sum[:]))
}

// Add attaches a URL to the held entry, creating the backing URL entry
// on first use. Attaching the same URL twice is a no-op.
func Add(s *store.Store, h *store.Handle, raw string) (storeid.ID, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return storeid.ID{}, err
	}
	id := EntryID(normalized)

	uh, err := s.Retrieve(id)
	if err != nil {
		return storeid.ID{}, err
	}
	if _, err := uh.Entry().Header.Insert(URIPath, normalized); err != nil {
		uh.Discard()
		return storeid.ID{}, err
	}
	if err := link.Add(h.Entry(), uh.Entry()); err != nil {
		uh.Discard()
		return storeid.ID{}, err
	}
	if err := uh.Close(); err != nil {
		return storeid.ID{}, err
	}
	return id, nil
}

// Remove detaches a URL from the held entry. The URL entry itself stays
// in the store; an entry that never carried the URL is left untouched.
func Remove(s *store.Store, h *store.Handle, raw string) error {
	normalized, err := Normalize(raw)
	if err != nil {
		return err
	}
	return link.RemoveFrom(s, h, EntryID(normalized))
}

// Of returns the URLs attached to the held entry, sorted.
func Of(s *store.Store, h *store.Handle) ([]string, error) {
	links, err := link.Links(h.Entry())
	if err != nil {
		return nil, err
	}

	var out []string
	for _, l := range links {
		if !l.Target.InCollection(Collection) {
			continue
		}
		u, err := uriOf(s, l.Target)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	sort.Strings(out)
	return out, nil
}

// Referrers returns the IDs of every entry the given URL is attached to.
func Referrers(s *store.Store, raw string) ([]storeid.ID, error) {
	normalized, err := Normalize(raw)
	if err != nil {
		return nil, err
	}
	uh, err := s.Get(EntryID(normalized))
	if err != nil {
		return nil, err
	}
	if uh == nil {
		return nil, nil
	}
	links, err := link.Links(uh.Entry())
	uh.Discard()
	if err != nil {
		return nil, err
	}
	ids := make([]storeid.ID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.Target)
	}
	return ids, nil
}

func uriOf(s *store.Store, id storeid.ID) (string, error) {
	uh, err := s.Get(id)
	if err != nil {
		return "", err
	}
	if uh == nil {
		return "", fmt.Errorf("url entry %s: %w", id, apperr.ErrNotFound)
	}
	u, present, err := uh.Entry().Header.ReadString(URIPath)
	uh.Discard()
	if err != nil {
		return "", err
	}
	if !present {
		return "", fmt.Errorf("url entry %s has no %s", id, URIPath)
	}
	return u, nil
}
