package tag

import (
	"errors"
	"reflect"
	"testing"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

func newEntry(t *testing.T) *entry.Entry {
	t.Helper()
	return entry.New(storeid.MustNew("notes/tagged"))
}

func TestAddAndGet(t *testing.T) {
	e := newEntry(t)

	for _, tg := range []string{"work", "urgent", "2026"} {
		if err := Add(e, tg); err != nil {
			t.Fatalf("add %q: %v", tg, err)
		}
	}

	tags, err := Get(e)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []string{"work", "urgent", "2026"}
	if !reflect.DeepEqual(tags, want) {
		t.Fatalf("tags = %v, want %v", tags, want)
	}
}

func TestAddIsIdempotent(t *testing.T) {
	e := newEntry(t)

	if err := Add(e, "work"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := Add(e, "work"); err != nil {
		t.Fatalf("second add: %v", err)
	}

	tags, err := Get(e)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(tags) != 1 {
		t.Fatalf("tags = %v, want single element", tags)
	}
}

func TestInvalidTagLeavesEntryUnchanged(t *testing.T) {
	e := newEntry(t)
	if err := Add(e, "work"); err != nil {
		t.Fatalf("add: %v", err)
	}

	for _, bad := range []string{"", "Upper", "has space", "semi;colon", "tab\ttag"} {
		if err := Add(e, bad); !errors.Is(err, apperr.ErrTagFormat) {
			t.Errorf("add %q: err = %v, want ErrTagFormat", bad, err)
		}
	}

	tags, err := Get(e)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"work"}) {
		t.Fatalf("tags changed after rejected adds: %v", tags)
	}
}

func TestSetValidatesAndDeduplicates(t *testing.T) {
	e := newEntry(t)

	if err := Set(e, []string{"b", "a", "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}
	tags, err := Get(e)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"b", "a"}) {
		t.Fatalf("tags = %v, want [b a]", tags)
	}

	if err := Set(e, []string{"ok", "NOT OK"}); !errors.Is(err, apperr.ErrTagFormat) {
		t.Fatalf("set with invalid tag: err = %v, want ErrTagFormat", err)
	}
	tags, _ = Get(e)
	if !reflect.DeepEqual(tags, []string{"b", "a"}) {
		t.Fatalf("tags changed after rejected set: %v", tags)
	}
}

func TestSetEmptyRemovesHeaderPath(t *testing.T) {
	e := newEntry(t)
	if err := Add(e, "work"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := Set(e, nil); err != nil {
		t.Fatalf("set empty: %v", err)
	}
	if e.Header.Has(HeaderPath) {
		t.Fatal("tag.values still present after clearing")
	}
}

func TestRemove(t *testing.T) {
	e := newEntry(t)
	if err := Set(e, []string{"a", "b", "c"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	if err := Remove(e, "b"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	tags, _ := Get(e)
	if !reflect.DeepEqual(tags, []string{"a", "c"}) {
		t.Fatalf("tags = %v, want [a c]", tags)
	}

	// removing an absent tag is a no-op
	if err := Remove(e, "zzz"); err != nil {
		t.Fatalf("remove absent: %v", err)
	}
}

func TestHasAndHasAll(t *testing.T) {
	e := newEntry(t)
	if err := Set(e, []string{"a", "b"}); err != nil {
		t.Fatalf("set: %v", err)
	}

	ok, err := Has(e, "a")
	if err != nil || !ok {
		t.Fatalf("Has(a) = %v, %v", ok, err)
	}
	ok, err = Has(e, "x")
	if err != nil || ok {
		t.Fatalf("Has(x) = %v, %v", ok, err)
	}

	ok, err = HasAll(e, []string{"a", "b"})
	if err != nil || !ok {
		t.Fatalf("HasAll(a,b) = %v, %v", ok, err)
	}
	ok, err = HasAll(e, []string{"a", "x"})
	if err != nil || ok {
		t.Fatalf("HasAll(a,x) = %v, %v", ok, err)
	}
}
