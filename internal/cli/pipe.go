// This file provides pipe-friendly input/output helpers so commands
// chain: `mag ids | mag tag --stdin add work`.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"github.com/magpiedev/magpie/internal/storeid"
)

// StdinIsPiped returns true if stdin carries piped data.
func StdinIsPiped() bool {
	return !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd())
}

// ReadIDsFromStdin reads entry IDs from stdin, one per line. Blank
// lines are skipped; invalid IDs are returned separately so callers can
// warn without aborting the whole batch.
func ReadIDsFromStdin() (ids []storeid.ID, invalid []string, err error) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		id, err := storeid.New(line)
		if err != nil {
			invalid = append(invalid, line)
			continue
		}
		ids = append(ids, id)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, err
	}
	return ids, invalid, nil
}

// WriteIDs writes entry IDs one per line for downstream piping.
func WriteIDs(w io.Writer, ids []storeid.ID) {
	for _, id := range ids {
		fmt.Fprintln(w, id)
	}
}

// skippedIDWarnings builds one warning per unparseable stdin line.
func skippedIDWarnings(invalid []string) []Warning {
	var warnings []Warning
	for _, raw := range invalid {
		warnings = append(warnings, Warning{
			Code:    WarnSkippedID,
			Message: fmt.Sprintf("skipped invalid entry ID %q", raw),
		})
	}
	return warnings
}
