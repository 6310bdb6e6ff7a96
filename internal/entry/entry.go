// Package entry pairs a header tree with an opaque textual body and handles
// the on-disk envelope shared by all store entries:
//
//	---
//	<TOML header block>
//	---
//	<body, verbatim>
//
// The outer "---" markers are literal and must each sit alone on a line. The
// body starts right after the closing marker line and may itself contain
// "---" lines.
package entry

import (
	"fmt"
	"strings"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/header"
	"github.com/magpiedev/magpie/internal/storeid"
)

// Version is the header format version stamped into imag.version when an
// entry is created.
const Version = "0.10.0"

// VersionPath is the reserved header path carrying the version stamp.
const VersionPath = "imag.version"

// Entry is one unit of storage: an identifier, a header tree and a body.
type Entry struct {
	id     storeid.ID
	Header *header.Tree
	body   string
}

// New returns a fresh entry with an empty body and the version stamp set.
func New(id storeid.ID) *Entry {
	h := header.New()
	// The insert cannot fail on an empty tree.
	_, _ = h.Insert(VersionPath, Version)
	return &Entry{id: id, Header: h}
}

// FromRaw parses the envelope in data into an entry with the given id.
func FromRaw(id storeid.ID, data []byte) (*Entry, error) {
	headerBlock, body, err := splitEnvelope(string(data))
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}

	h, err := header.Parse([]byte(headerBlock))
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", id, err)
	}

	return &Entry{id: id, Header: h, body: body}, nil
}

// ID returns the entry's identifier.
func (e *Entry) ID() storeid.ID { return e.id }

// Body returns the entry body.
func (e *Entry) Body() string { return e.body }

// SetBody replaces the entry body.
func (e *Entry) SetBody(body string) { e.body = body }

// Bytes renders the entry into its on-disk envelope. Parsing the result
// with FromRaw yields an equal entry.
func (e *Entry) Bytes() ([]byte, error) {
	headerBytes, err := e.Header.Serialize()
	if err != nil {
		return nil, fmt.Errorf("entry %s: %w", e.id, err)
	}

	var b strings.Builder
	b.Grow(len(headerBytes) + len(e.body) + 8)
	b.WriteString("---\n")
	b.Write(headerBytes)
	b.WriteString("---\n")
	b.WriteString(e.body)
	return []byte(b.String()), nil
}

// String renders the entry as an editable text buffer, the same form that
// is written to disk. Editor integration hands this buffer to the user and
// feeds the result back through ReplaceFromBuffer.
func (e *Entry) String() string {
	data, err := e.Bytes()
	if err != nil {
		// A header that cannot serialize is a programming error; surface
		// it in the buffer rather than silently losing the entry.
		return fmt.Sprintf("---\n# %v\n---\n%s", err, e.body)
	}
	return string(data)
}

// ReplaceFromBuffer re-parses buf as an envelope and replaces the entry's
// header and body with its contents.
func (e *Entry) ReplaceFromBuffer(buf string) error {
	replacement, err := FromRaw(e.id, []byte(buf))
	if err != nil {
		return err
	}
	e.Header = replacement.Header
	e.body = replacement.body
	return nil
}

// splitEnvelope separates the header block from the body.
func splitEnvelope(s string) (headerBlock, body string, err error) {
	const open = "---\n"

	if !strings.HasPrefix(s, open) {
		return "", "", fmt.Errorf("missing opening '---' line: %w", apperr.ErrHeaderParse)
	}
	rest := s[len(open):]

	// Closing marker directly after the opening one: empty header.
	if strings.HasPrefix(rest, "---\n") {
		return "", rest[4:], nil
	}
	if rest == "---" {
		return "", "", nil
	}

	if i := strings.Index(rest, "\n---\n"); i >= 0 {
		return rest[:i+1], rest[i+5:], nil
	}
	if strings.HasSuffix(rest, "\n---") {
		return rest[:len(rest)-3], "", nil
	}

	return "", "", fmt.Errorf("missing closing '---' line: %w", apperr.ErrHeaderParse)
}
