package entry

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/storeid"
)

// Verify checks the entry's structural invariants:
//
//   - imag.version is present and parses as a semantic version
//   - every element of the links array is a table whose target parses as an
//     identifier
//   - a ref sub-tree, if present, carries both collection and hash
//
// It returns an error wrapping apperr.ErrVerifyFailed describing the first
// violated invariant.
func (e *Entry) Verify() error {
	if err := e.verifyVersion(); err != nil {
		return err
	}
	if err := e.verifyLinks(); err != nil {
		return err
	}
	return e.verifyRef()
}

func (e *Entry) verifyVersion() error {
	v, present, err := e.Header.ReadString(VersionPath)
	if err != nil {
		return verifyErr(e.id, "%s is not a string", VersionPath)
	}
	if !present {
		return verifyErr(e.id, "%s missing", VersionPath)
	}
	if _, err := semver.NewVersion(v); err != nil {
		return verifyErr(e.id, "%s %q is not a semantic version", VersionPath, v)
	}
	return nil
}

func (e *Entry) verifyLinks() error {
	arr, present, err := e.Header.ReadArray("links")
	if err != nil {
		return verifyErr(e.id, "links is not an array")
	}
	if !present {
		return nil
	}

	for i, raw := range arr {
		table, ok := raw.(map[string]interface{})
		if !ok {
			return verifyErr(e.id, "links[%d] is not a table", i)
		}
		target, ok := table["target"].(string)
		if !ok {
			return verifyErr(e.id, "links[%d] has no target string", i)
		}
		if _, err := storeid.New(target); err != nil {
			return verifyErr(e.id, "links[%d] target %q is not a valid identifier", i, target)
		}
	}
	return nil
}

func (e *Entry) verifyRef() error {
	if !e.Header.Has("ref") {
		return nil
	}
	for _, key := range []string{"ref.collection", "ref.hash"} {
		s, present, err := e.Header.ReadString(key)
		if err != nil || !present || s == "" {
			return verifyErr(e.id, "%s missing or not a string", key)
		}
	}
	return nil
}

func verifyErr(id storeid.ID, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	return fmt.Errorf("entry %s: %s: %w", id, msg, apperr.ErrVerifyFailed)
}
