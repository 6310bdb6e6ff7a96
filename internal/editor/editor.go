// Package editor implements the edit round-trip: an entry is written to
// a temporary file, the configured editor runs on it, and the result is
// parsed back into the entry.
package editor

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/magpiedev/magpie/internal/config"
	"github.com/magpiedev/magpie/internal/entry"
	"github.com/magpiedev/magpie/internal/shellquote"
)

// Spawn runs the configured editor on path and waits for it to exit.
// The editor inherits the terminal. A compound editor setting like
// "open -a Cursor" is run through the shell.
func Spawn(cfg *config.Config, path string) error {
	ed := cfg.GetEditor()
	if ed == "" {
		return fmt.Errorf("no editor configured: set editor in imagrc.toml or $EDITOR")
	}

	var cmd *exec.Cmd
	if strings.Contains(ed, " ") {
		cmd = exec.Command("sh", "-c", ed+" "+shellquote.Quote(path))
	} else {
		cmd = exec.Command(ed, path)
	}
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("editor %q: %w", ed, err)
	}
	return nil
}

// Edit round-trips an entry through the editor. The buffer the editor
// leaves behind must still be a well-formed entry; a parse failure
// leaves the entry untouched so the caller can retry or abort.
func Edit(cfg *config.Config, e *entry.Entry) (changed bool, err error) {
	tmp, err := os.CreateTemp("", "mag-edit-*"+filepath.Ext(e.ID().Local())+".entry")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	before, err := e.Bytes()
	if err != nil {
		tmp.Close()
		return false, err
	}
	if _, err := tmp.Write(before); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}

	if err := Spawn(cfg, tmp.Name()); err != nil {
		return false, err
	}

	after, err := os.ReadFile(tmp.Name())
	if err != nil {
		return false, err
	}
	if string(after) == string(before) {
		return false, nil
	}
	if err := e.ReplaceFromBuffer(string(after)); err != nil {
		return false, err
	}
	return true, nil
}
