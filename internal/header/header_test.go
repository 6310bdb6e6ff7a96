package header

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/magpiedev/magpie/internal/apperr"
)

func TestInsertAndRead(t *testing.T) {
	h := New()

	if _, err := h.Insert("imag.version", "0.10.0"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	v, ok := h.Read("imag.version")
	if !ok {
		t.Fatal("expected imag.version to be present")
	}
	if v != "0.10.0" {
		t.Errorf("Read = %v, want 0.10.0", v)
	}

	if _, ok := h.Read("imag.missing"); ok {
		t.Error("expected imag.missing to be absent")
	}
	if _, ok := h.Read("imag.version.deeper"); ok {
		t.Error("expected path below a scalar to be absent")
	}
}

func TestInsertReturnsDisplaced(t *testing.T) {
	h := New()
	if _, err := h.Insert("todo.state", "open"); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	displaced, err := h.Insert("todo.state", "done")
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if displaced != "open" {
		t.Errorf("displaced = %v, want open", displaced)
	}
}

func TestInsertBelowScalarFails(t *testing.T) {
	h := New()
	if _, err := h.Insert("a", int64(1)); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	_, err := h.Insert("a.b", "x")
	if !errors.Is(err, apperr.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch, got %v", err)
	}
}

func TestTypedReads(t *testing.T) {
	h := New()
	mustInsert(t, h, "s", "hello")
	mustInsert(t, h, "b", true)
	mustInsert(t, h, "i", 42)
	mustInsert(t, h, "f", 1.5)
	mustInsert(t, h, "arr", []string{"x", "y"})

	if s, ok, err := h.ReadString("s"); err != nil || !ok || s != "hello" {
		t.Errorf("ReadString = (%q, %v, %v)", s, ok, err)
	}
	if b, ok, err := h.ReadBool("b"); err != nil || !ok || !b {
		t.Errorf("ReadBool = (%v, %v, %v)", b, ok, err)
	}
	if i, ok, err := h.ReadInt("i"); err != nil || !ok || i != 42 {
		t.Errorf("ReadInt = (%d, %v, %v)", i, ok, err)
	}
	if f, ok, err := h.ReadFloat("f"); err != nil || !ok || f != 1.5 {
		t.Errorf("ReadFloat = (%v, %v, %v)", f, ok, err)
	}
	if a, ok, err := h.ReadStringArray("arr"); err != nil || !ok || !reflect.DeepEqual(a, []string{"x", "y"}) {
		t.Errorf("ReadStringArray = (%v, %v, %v)", a, ok, err)
	}

	// Absent path: ok=false, no error.
	if _, ok, err := h.ReadString("nope"); ok || err != nil {
		t.Errorf("absent ReadString = (_, %v, %v)", ok, err)
	}

	// Present but wrong shape: type error.
	if _, _, err := h.ReadString("i"); !errors.Is(err, apperr.ErrTypeMismatch) {
		t.Errorf("expected ErrTypeMismatch reading int as string, got %v", err)
	}
}

func TestDelete(t *testing.T) {
	h := New()
	mustInsert(t, h, "tag.values", []string{"a"})

	if !h.Delete("tag.values") {
		t.Error("expected Delete to remove tag.values")
	}
	if h.Has("tag.values") {
		t.Error("tag.values still present after Delete")
	}
	if h.Delete("tag.values") {
		t.Error("second Delete should report absence")
	}
	// the now-empty tag table must not survive as a bare [tag] section
	if h.Has("tag") {
		t.Error("empty tag table left behind after Delete")
	}
}

func TestDeletePrunesEmptyTables(t *testing.T) {
	h := New()
	mustInsert(t, h, "datetime.range.start", "2026-01-01T09:00:00Z")
	mustInsert(t, h, "datetime.range.end", "2026-01-01T10:00:00Z")
	mustInsert(t, h, "datetime.note", "standup")

	if !h.Delete("datetime.range.start") || !h.Delete("datetime.range.end") {
		t.Fatal("expected both range bounds to be removed")
	}
	if h.Has("datetime.range") {
		t.Error("empty datetime.range table left behind")
	}
	if !h.Has("datetime.note") {
		t.Error("sibling value pruned along with the empty table")
	}

	out, err := h.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if strings.Contains(string(out), "[datetime.range]") {
		t.Errorf("serialized header still carries an empty section:\n%s", out)
	}
}

func TestSerializeStable(t *testing.T) {
	h := New()
	mustInsert(t, h, "imag.version", "0.10.0")
	mustInsert(t, h, "tag.values", []string{"work", "urgent"})
	mustInsert(t, h, "todo.priority", 2)

	first, err := h.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	second, err := h.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(first) != string(second) {
		t.Errorf("serialization not stable:\n%s\nvs\n%s", first, second)
	}

	parsed, err := Parse(first)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	reserialized, err := parsed.Serialize()
	if err != nil {
		t.Fatalf("Serialize: %v", err)
	}
	if string(first) != string(reserialized) {
		t.Errorf("round trip not byte-stable:\n%s\nvs\n%s", first, reserialized)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse([]byte("this is = = not toml"))
	if !errors.Is(err, apperr.ErrHeaderParse) {
		t.Errorf("expected ErrHeaderParse, got %v", err)
	}
}

type refPartial struct {
	Collection string `toml:"collection"`
	Relpath    string `toml:"relpath"`
	Hash       string `toml:"hash"`
}

func (refPartial) Location() string { return "ref" }

func TestReadPartial(t *testing.T) {
	h := New()
	mustInsert(t, h, "ref.collection", "music")
	mustInsert(t, h, "ref.relpath", "albums/x.flac")
	mustInsert(t, h, "ref.hash", "abc")

	var p refPartial
	present, err := h.ReadPartial(&p)
	if err != nil {
		t.Fatalf("ReadPartial: %v", err)
	}
	if !present {
		t.Fatal("expected ref partial to be present")
	}
	if p.Collection != "music" || p.Relpath != "albums/x.flac" || p.Hash != "abc" {
		t.Errorf("partial = %+v", p)
	}

	var absent refPartial
	empty := New()
	present, err = empty.ReadPartial(&absent)
	if err != nil {
		t.Fatalf("ReadPartial on empty tree: %v", err)
	}
	if present {
		t.Error("expected absent partial")
	}
}

func TestInsertSerialized(t *testing.T) {
	type link struct {
		Target string `toml:"target"`
		Note   string `toml:"note,omitempty"`
	}

	h := New()
	links := []link{{Target: "notes/a"}, {Target: "notes/b", Note: "see also"}}
	if err := h.InsertSerialized("links", links); err != nil {
		t.Fatalf("InsertSerialized: %v", err)
	}

	arr, ok, err := h.ReadArray("links")
	if err != nil || !ok {
		t.Fatalf("ReadArray = (_, %v, %v)", ok, err)
	}
	if len(arr) != 2 {
		t.Fatalf("len(links) = %d, want 2", len(arr))
	}

	// The tree must still serialize cleanly.
	if _, err := h.Serialize(); err != nil {
		t.Errorf("Serialize after InsertSerialized: %v", err)
	}
}

func mustInsert(t *testing.T, h *Tree, path string, v interface{}) {
	t.Helper()
	if _, err := h.Insert(path, v); err != nil {
		t.Fatalf("Insert(%q): %v", path, err)
	}
}
