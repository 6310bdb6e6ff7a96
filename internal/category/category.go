// Package category implements named categories. Each category is
// registered as its own entry under category/<name>; member entries
// carry the name at category.value and a link to the registry entry.
package category

import (
	"fmt"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

const (
	// Collection is the store collection holding registry entries.
	Collection = "category"

	// ValuePath is where a member entry records its category name.
	ValuePath = "category.value"

	// MarkerPath marks an entry as a category registry entry.
	MarkerPath = "category.is_category"

	// NamePath duplicates the category name inside the registry entry.
	NamePath = "category.name"
)

func registryID(name string) (storeid.ID, error) {
	return storeid.New(Collection + "/" + name)
}

// Create registers a new category. Registering a name twice fails with
// apperr.ErrAlreadyExists.
func Create(s *store.Store, name string) error {
	id, err := registryID(name)
	if err != nil {
		return err
	}
	h, err := s.Create(id)
	if err != nil {
		return err
	}
	e := h.Entry()
	if _, err := e.Header.Insert(MarkerPath, true); err != nil {
		h.Discard()
		return err
	}
	if _, err := e.Header.Insert(NamePath, name); err != nil {
		h.Discard()
		return err
	}
	return h.Close()
}

// Exists reports whether a category of that name is registered.
func Exists(s *store.Store, name string) (bool, error) {
	id, err := registryID(name)
	if err != nil {
		return false, err
	}
	h, err := s.Get(id)
	if err != nil {
		return false, err
	}
	if h == nil {
		return false, nil
	}
	marked, _, err := h.Entry().Header.ReadBool(MarkerPath)
	h.Discard()
	if err != nil {
		return false, err
	}
	return marked, nil
}

// All returns the names of every registered category, sorted.
func All(s *store.Store) ([]string, error) {
	ids, err := s.Entries()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, id := range ids.InCollection(Collection).Collect() {
		h, err := s.Get(id)
		if err != nil {
			return nil, err
		}
		if h == nil {
			continue
		}
		marked, _, err := h.Entry().Header.ReadBool(MarkerPath)
		h.Discard()
		if err != nil {
			return nil, err
		}
		if marked {
			names = append(names, id.Local())
		}
	}
	return names, nil
}

// GetFrom returns the category of an entry, or ("", false) when it has
// none.
func GetFrom(e *entry.Entry) (string, bool, error) {
	return e.Header.ReadString(ValuePath)
}

// Set assigns an entry to a registered category, replacing any previous
// assignment. Assigning to an unregistered name fails with
// apperr.ErrCategoryMissing.
func Set(s *store.Store, h *store.Handle, name string) error {
	ok, err := Exists(s, name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("category %q is not registered: %w", name, apperr.ErrCategoryMissing)
	}

	e := h.Entry()
	if prev, present, err := GetFrom(e); err != nil {
		return err
	} else if present && prev != name {
		if err := unlinkRegistry(s, h, prev); err != nil {
			return err
		}
	}

	if _, err := e.Header.Insert(ValuePath, name); err != nil {
		return err
	}
	regID, err := registryID(name)
	if err != nil {
		return err
	}
	return link.AddTo(s, h, regID)
}

// Remove clears an entry's category assignment. Only the header field
// goes away; the link to the registry entry and the registry entry
// itself stay. An entry without a category is left untouched.
func Remove(e *entry.Entry) error {
	if _, present, err := GetFrom(e); err != nil {
		return err
	} else if !present {
		return nil
	}
	e.Header.Delete(ValuePath)
	return nil
}

// Members returns the IDs of every entry assigned to the named
// category, sorted.
func Members(s *store.Store, name string) ([]storeid.ID, error) {
	id, err := registryID(name)
	if err != nil {
		return nil, err
	}
	h, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, fmt.Errorf("category %q is not registered: %w", name, apperr.ErrCategoryMissing)
	}
	links, err := link.Links(h.Entry())
	h.Discard()
	if err != nil {
		return nil, err
	}
	ids := make([]storeid.ID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.Target)
	}
	return ids, nil
}

func unlinkRegistry(s *store.Store, h *store.Handle, name string) error {
	regID, err := registryID(name)
	if err != nil {
		return err
	}
	return link.RemoveFrom(s, h, regID)
}
