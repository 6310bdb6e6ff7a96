package header

import (
	"fmt"

	"github.com/BurntSushi/toml"

	"github.com/magpiedev/magpie/internal/apperr"
)

// Partial is a struct bound to a fixed location in the header tree. The
// struct's toml tags describe the sub-tree shape at that location.
type Partial interface {
	// Location returns the dotted path of the sub-tree ("ref", "tag").
	Location() string
}

// ReadPartial decodes the sub-tree at p.Location() into p. It returns false
// when the location is absent and fails with apperr.ErrTypeMismatch when a
// present sub-tree does not match the struct shape.
func (t *Tree) ReadPartial(p Partial) (bool, error) {
	loc := p.Location()
	sub, present, err := t.ReadTable(loc)
	if err != nil {
		return true, err
	}
	if !present {
		return false, nil
	}

	data, err := toml.Marshal(sub)
	if err != nil {
		return true, fmt.Errorf("header path %q: %s: %w", loc, err, apperr.ErrHeaderWrite)
	}
	if err := toml.Unmarshal(data, p); err != nil {
		return true, fmt.Errorf("header path %q: %s: %w", loc, err, apperr.ErrTypeMismatch)
	}
	return true, nil
}

// InsertSerialized encodes value through TOML and inserts the resulting
// tree value at path. It accepts any value the TOML encoder can represent
// inside a table: structs, maps, slices of tables, scalars.
func (t *Tree) InsertSerialized(path string, value interface{}) error {
	data, err := toml.Marshal(map[string]interface{}{"value": value})
	if err != nil {
		return fmt.Errorf("serialize for header path %q: %s: %w", path, err, apperr.ErrHeaderWrite)
	}

	var wrapper map[string]interface{}
	if err := toml.Unmarshal(data, &wrapper); err != nil {
		return fmt.Errorf("reparse for header path %q: %s: %w", path, err, apperr.ErrHeaderWrite)
	}

	_, err = t.Insert(path, wrapper["value"])
	return err
}
