package editor

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/magpiedev/magpie/internal/config"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/storeid"
)

// fakeEditor writes a shell script to use as $EDITOR.
func fakeEditor(t *testing.T, script string) *config.Config {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fake-editor.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script+"\n"), 0o755); err != nil {
		t.Fatalf("write fake editor: %v", err)
	}
	cfg := config.Default()
	cfg.Editor = path
	return cfg
}

func newEntry(t *testing.T) *entry.Entry {
	t.Helper()
	e := entry.New(storeid.MustNew("notes/draft"))
	e.SetBody("original body\n")
	return e
}

func TestEditAppliesChanges(t *testing.T) {
	cfg := fakeEditor(t, `printf 'edited body\n' >> "$1"`)
	e := newEntry(t)

	changed, err := Edit(cfg, e)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if !changed {
		t.Fatal("changed = false after editor appended")
	}
	if !strings.Contains(e.Body(), "edited body") {
		t.Fatalf("body = %q, missing edited text", e.Body())
	}
	if !strings.Contains(e.Body(), "original body") {
		t.Fatalf("body = %q, lost original text", e.Body())
	}
}

func TestEditNoChangeIsNoOp(t *testing.T) {
	cfg := fakeEditor(t, `true`)
	e := newEntry(t)

	changed, err := Edit(cfg, e)
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	if changed {
		t.Fatal("changed = true although the editor touched nothing")
	}
}

func TestEditRejectsBrokenBuffer(t *testing.T) {
	cfg := fakeEditor(t, `printf 'no envelope at all' > "$1"`)
	e := newEntry(t)

	if _, err := Edit(cfg, e); err == nil {
		t.Fatal("edit accepted a buffer without an envelope")
	}
	if e.Body() != "original body\n" {
		t.Fatalf("body = %q, entry mutated by failed edit", e.Body())
	}
}

func TestSpawnWithoutEditor(t *testing.T) {
	t.Setenv("EDITOR", "")
	t.Setenv("VISUAL", "")
	cfg := config.Default()
	cfg.Editor = ""

	if err := Spawn(cfg, "/dev/null"); err == nil {
		t.Fatal("spawn succeeded without an editor configured")
	}
}
