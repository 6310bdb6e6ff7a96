package category

import (
	"errors"
	"reflect"
	"testing"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/link"
	"github.com/magpiedev/magpie/internal/store"
	"github.com/magpiedev/magpie/internal/storeid"
)

func createClosed(t *testing.T, s *store.Store, raw string) storeid.ID {
	t.Helper()
	id := storeid.MustNew(raw)
	h, err := s.Create(id)
	if err != nil {
		t.Fatalf("Create(%s): %v", raw, err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(%s): %v", raw, err)
	}
	return id
}

func assign(t *testing.T, s *store.Store, id storeid.ID, name string) {
	t.Helper()
	h, err := s.Get(id)
	if err != nil || h == nil {
		t.Fatalf("Get(%s) = (%v, %v)", id, h, err)
	}
	if err := Set(s, h, name); err != nil {
		h.Discard()
		t.Fatalf("Set(%s, %s): %v", id, name, err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close(%s): %v", id, err)
	}
}

func TestCreateAndExists(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	if err := Create(s, "work"); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := Create(s, "work"); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("second create: err = %v, want ErrAlreadyExists", err)
	}

	ok, err := Exists(s, "work")
	if err != nil || !ok {
		t.Fatalf("Exists(work) = (%v, %v)", ok, err)
	}
	ok, err = Exists(s, "leisure")
	if err != nil || ok {
		t.Fatalf("Exists(leisure) = (%v, %v)", ok, err)
	}
}

func TestSetRequiresRegisteredCategory(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()
	id := createClosed(t, s, "notes/todo")

	h, err := s.Get(id)
	if err != nil || h == nil {
		t.Fatalf("Get: (%v, %v)", h, err)
	}
	defer h.Discard()

	if err := Set(s, h, "work"); !errors.Is(err, apperr.ErrCategoryMissing) {
		t.Fatalf("Set on unregistered category: err = %v, want ErrCategoryMissing", err)
	}
	if h.Entry().Header.Has(ValuePath) {
		t.Fatal("category.value written despite rejected Set")
	}
}

func TestSetAndGetFrom(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	if err := Create(s, "work"); err != nil {
		t.Fatalf("create category: %v", err)
	}
	id := createClosed(t, s, "notes/todo")
	assign(t, s, id, "work")

	h, err := s.Get(id)
	if err != nil || h == nil {
		t.Fatalf("Get: (%v, %v)", h, err)
	}
	defer h.Discard()

	name, present, err := GetFrom(h.Entry())
	if err != nil {
		t.Fatalf("GetFrom: %v", err)
	}
	if !present || name != "work" {
		t.Fatalf("GetFrom = (%q, %v), want (work, true)", name, present)
	}

	// the assignment links the entry to the registry entry
	links, err := link.Links(h.Entry())
	if err != nil {
		t.Fatalf("Links: %v", err)
	}
	if len(links) != 1 || links[0].Target.String() != "category/work" {
		t.Fatalf("links = %v, want single edge to category/work", links)
	}
}

func TestReassignmentMovesLink(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	for _, name := range []string{"work", "leisure"} {
		if err := Create(s, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	id := createClosed(t, s, "notes/todo")
	assign(t, s, id, "work")
	assign(t, s, id, "leisure")

	members, err := Members(s, "work")
	if err != nil {
		t.Fatalf("Members(work): %v", err)
	}
	if len(members) != 0 {
		t.Fatalf("work still has members: %v", members)
	}
	members, err = Members(s, "leisure")
	if err != nil {
		t.Fatalf("Members(leisure): %v", err)
	}
	if len(members) != 1 || !members[0].Equal(id) {
		t.Fatalf("Members(leisure) = %v, want [%s]", members, id)
	}
}

func TestRemove(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	if err := Create(s, "work"); err != nil {
		t.Fatalf("create: %v", err)
	}
	id := createClosed(t, s, "notes/todo")
	assign(t, s, id, "work")

	h, err := s.Get(id)
	if err != nil || h == nil {
		t.Fatalf("Get: (%v, %v)", h, err)
	}
	if err := Remove(h.Entry()); err != nil {
		h.Discard()
		t.Fatalf("Remove: %v", err)
	}
	if h.Entry().Header.Has(ValuePath) {
		t.Fatal("category.value survived Remove")
	}
	// removing again is a no-op
	if err := Remove(h.Entry()); err != nil {
		t.Fatalf("second Remove: %v", err)
	}
	if err := h.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// only the header field goes away; the link to the registry entry
	// stays until the entry is relinked or unlinked explicitly
	members, err := Members(s, "work")
	if err != nil {
		t.Fatalf("Members: %v", err)
	}
	if len(members) != 1 || !members[0].Equal(id) {
		t.Fatalf("Members after Remove = %v, want [%s]", members, id)
	}
}

func TestAllListsRegisteredCategories(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	for _, name := range []string{"work", "archive", "leisure"} {
		if err := Create(s, name); err != nil {
			t.Fatalf("create %s: %v", name, err)
		}
	}
	createClosed(t, s, "notes/unrelated")

	names, err := All(s)
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	want := []string{"archive", "leisure", "work"}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("All = %v, want %v", names, want)
	}
}

func TestMembersOfUnknownCategory(t *testing.T) {
	s := store.OpenMemory()
	defer s.Close()

	if _, err := Members(s, "ghost"); !errors.Is(err, apperr.ErrCategoryMissing) {
		t.Fatalf("Members(ghost): err = %v, want ErrCategoryMissing", err)
	}
}
