// Package flags names the boolean header markers the overlays use to
// classify entries, so callers can test an entry's kind without knowing
// each overlay's header layout.
package flags

import (
	"fmt"

	"github.com/magpiedev/magpie/internal/entry"
)

// Flag is one boolean marker in an entry header.
type Flag struct {
	Name string
	Path string
}

// The known markers.
var (
	IsCategory = Flag{Name: "category", Path: "category.is_category"}
	IsRef      = Flag{Name: "ref", Path: "ref.hash"}
	IsURL      = Flag{Name: "url", Path: "url.uri"}
	IsLinked   = Flag{Name: "linked", Path: "links"}
	IsTagged   = Flag{Name: "tagged", Path: "tag.values"}
)

var known = []Flag{IsCategory, IsRef, IsURL, IsLinked, IsTagged}

// ByName resolves a marker by its short name.
func ByName(name string) (Flag, error) {
	for _, f := range known {
		if f.Name == name {
			return f, nil
		}
	}
	return Flag{}, fmt.Errorf("unknown flag %q", name)
}

// All returns every known marker.
func All() []Flag {
	out := make([]Flag, len(known))
	copy(out, known)
	return out
}

// Is reports whether the entry carries the marker.
func (f Flag) Is(e *entry.Entry) bool {
	return e.Header.Has(f.Path)
}

// Of lists the names of every marker the entry carries.
func Of(e *entry.Entry) []string {
	var names []string
	for _, f := range known {
		if f.Is(e) {
			names = append(names, f.Name)
		}
	}
	return names
}
