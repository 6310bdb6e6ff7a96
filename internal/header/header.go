// Package header implements the typed key/value tree stored at the top of
// every entry.
//
// A tree is a TOML-shaped document: tables are map[string]interface{},
// arrays are []interface{}, scalars are string, bool, int64 and float64.
// Values are addressed by dotted paths ("imag.version", "tag.values").
package header

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/magpiedev/magpie/internal/apperr"
)

// Tree is a mutable header tree.
type Tree struct {
	root map[string]interface{}
}

// New returns an empty tree.
func New() *Tree {
	return &Tree{root: make(map[string]interface{})}
}

// FromMap wraps an already-decoded TOML document. The map is not copied.
func FromMap(m map[string]interface{}) *Tree {
	if m == nil {
		m = make(map[string]interface{})
	}
	return &Tree{root: m}
}

// Parse decodes a TOML document into a tree.
func Parse(data []byte) (*Tree, error) {
	var m map[string]interface{}
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%s: %w", err, apperr.ErrHeaderParse)
	}
	return FromMap(m), nil
}

// Serialize renders the tree as canonical TOML. Table keys are emitted in
// sorted order, so serializing the same tree twice yields identical bytes.
func (t *Tree) Serialize() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(t.root); err != nil {
		return nil, fmt.Errorf("%s: %w", err, apperr.ErrHeaderWrite)
	}
	return buf.Bytes(), nil
}

// Map exposes the underlying document. Mutations through the map are
// visible to the tree.
func (t *Tree) Map() map[string]interface{} { return t.root }

// Read returns the value at path, if present.
func (t *Tree) Read(path string) (interface{}, bool) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, false
	}

	cur := interface{}(t.root)
	for _, seg := range segs {
		table, ok := cur.(map[string]interface{})
		if !ok {
			return nil, false
		}
		cur, ok = table[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Has reports whether any value exists at path.
func (t *Tree) Has(path string) bool {
	_, ok := t.Read(path)
	return ok
}

// ReadString returns the string at path. ok is false when the path is
// absent; a present value of another shape fails with apperr.ErrTypeMismatch.
func (t *Tree) ReadString(path string) (string, bool, error) {
	v, present := t.Read(path)
	if !present {
		return "", false, nil
	}
	s, ok := v.(string)
	if !ok {
		return "", true, typeErr(path, "string", v)
	}
	return s, true, nil
}

// ReadBool returns the boolean at path.
func (t *Tree) ReadBool(path string) (bool, bool, error) {
	v, present := t.Read(path)
	if !present {
		return false, false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, true, typeErr(path, "bool", v)
	}
	return b, true, nil
}

// ReadInt returns the integer at path.
func (t *Tree) ReadInt(path string) (int64, bool, error) {
	v, present := t.Read(path)
	if !present {
		return 0, false, nil
	}
	switch n := v.(type) {
	case int64:
		return n, true, nil
	case int:
		return int64(n), true, nil
	}
	return 0, true, typeErr(path, "integer", v)
}

// ReadFloat returns the float at path.
func (t *Tree) ReadFloat(path string) (float64, bool, error) {
	v, present := t.Read(path)
	if !present {
		return 0, false, nil
	}
	f, ok := v.(float64)
	if !ok {
		return 0, true, typeErr(path, "float", v)
	}
	return f, true, nil
}

// ReadArray returns the array at path.
func (t *Tree) ReadArray(path string) ([]interface{}, bool, error) {
	v, present := t.Read(path)
	if !present {
		return nil, false, nil
	}
	switch a := v.(type) {
	case []interface{}:
		return a, true, nil
	case []map[string]interface{}:
		// BurntSushi decodes arrays of tables into this shape.
		out := make([]interface{}, len(a))
		for i, m := range a {
			out[i] = m
		}
		return out, true, nil
	}
	return nil, true, typeErr(path, "array", v)
}

// ReadTable returns the table at path.
func (t *Tree) ReadTable(path string) (map[string]interface{}, bool, error) {
	v, present := t.Read(path)
	if !present {
		return nil, false, nil
	}
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil, true, typeErr(path, "table", v)
	}
	return m, true, nil
}

// ReadStringArray returns the array at path coerced to strings.
func (t *Tree) ReadStringArray(path string) ([]string, bool, error) {
	arr, present, err := t.ReadArray(path)
	if err != nil || !present {
		return nil, present, err
	}
	out := make([]string, 0, len(arr))
	for _, v := range arr {
		s, ok := v.(string)
		if !ok {
			return nil, true, typeErr(path, "array of strings", v)
		}
		out = append(out, s)
	}
	return out, true, nil
}

// Insert stores value at path, creating intermediate tables as needed. It
// returns the displaced value when the path was already populated. Inserting
// below a non-table segment fails with apperr.ErrTypeMismatch.
func (t *Tree) Insert(path string, value interface{}) (interface{}, error) {
	segs := splitPath(path)
	if len(segs) == 0 {
		return nil, fmt.Errorf("empty header path: %w", apperr.ErrTypeMismatch)
	}

	table := t.root
	for _, seg := range segs[:len(segs)-1] {
		next, ok := table[seg]
		if !ok {
			child := make(map[string]interface{})
			table[seg] = child
			table = child
			continue
		}
		child, ok := next.(map[string]interface{})
		if !ok {
			return nil, typeErr(strings.Join(segs, "."), "table", next)
		}
		table = child
	}

	leaf := segs[len(segs)-1]
	displaced := table[leaf]
	table[leaf] = normalizeValue(value)
	return displaced, nil
}

// Delete removes the leaf at path, then prunes any intermediate tables
// the removal left empty so they do not serialize as bare [section]
// headers. It reports whether a value was removed.
func (t *Tree) Delete(path string) bool {
	segs := splitPath(path)
	if len(segs) == 0 {
		return false
	}

	parents := make([]map[string]interface{}, 0, len(segs))
	table := t.root
	for _, seg := range segs[:len(segs)-1] {
		parents = append(parents, table)
		next, ok := table[seg].(map[string]interface{})
		if !ok {
			return false
		}
		table = next
	}

	leaf := segs[len(segs)-1]
	if _, ok := table[leaf]; !ok {
		return false
	}
	delete(table, leaf)

	for i := len(parents) - 1; i >= 0 && len(table) == 0; i-- {
		delete(parents[i], segs[i])
		table = parents[i]
	}
	return true
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// normalizeValue maps convenience Go types onto the tree's canonical value
// set so that an inserted tree always round-trips through TOML unchanged.
func normalizeValue(v interface{}) interface{} {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int32:
		return int64(x)
	case float32:
		return float64(x)
	case []string:
		out := make([]interface{}, len(x))
		for i, s := range x {
			out[i] = s
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(x))
		for i, m := range x {
			out[i] = m
		}
		return out
	default:
		return v
	}
}

func typeErr(path, want string, got interface{}) error {
	return fmt.Errorf("header path %q: expected %s, found %T: %w", path, want, got, apperr.ErrTypeMismatch)
}
