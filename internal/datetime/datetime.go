// Package datetime implements the timestamp header overlay. An entry
// may carry a single point in time or a start/end range; both are
// stored as RFC3339 strings so headers stay diffable.
package datetime

import (
	"fmt"
	"time"

	"github.com/magpiedev/magpie/internal/apperr"
	"github.com/magpiedev/magpie/internal/dates"
	"github.com/magpiedev/magpie/internal/entry"
)

// Header locations of the overlay's values.
const (
	ValuePath = "datetime.value"
	StartPath = "datetime.range.start"
	EndPath   = "datetime.range.end"
)

// Set stamps e with a single point in time, replacing any previous
// value or range.
func Set(e *entry.Entry, t time.Time) error {
	clearAll(e)
	_, err := e.Header.Insert(ValuePath, t.Format(dates.Format))
	return err
}

// Get returns the entry's timestamp. The second return is false when
// the entry carries none.
func Get(e *entry.Entry) (time.Time, bool, error) {
	return readAt(e, ValuePath)
}

// SetRange stamps e with a start/end pair, replacing any previous
// value or range. End must not precede start.
func SetRange(e *entry.Entry, start, end time.Time) error {
	if end.Before(start) {
		return fmt.Errorf("range end %s precedes start %s",
			end.Format(dates.Format), start.Format(dates.Format))
	}
	clearAll(e)
	if _, err := e.Header.Insert(StartPath, start.Format(dates.Format)); err != nil {
		return err
	}
	_, err := e.Header.Insert(EndPath, end.Format(dates.Format))
	return err
}

// GetRange returns the entry's time range. The third return is false
// when the entry carries none.
func GetRange(e *entry.Entry) (start, end time.Time, present bool, err error) {
	start, sp, err := readAt(e, StartPath)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	end, ep, err := readAt(e, EndPath)
	if err != nil {
		return time.Time{}, time.Time{}, false, err
	}
	if sp != ep {
		return time.Time{}, time.Time{}, false,
			fmt.Errorf("entry %s: half-open datetime range: %w", e.ID(), apperr.ErrHeaderParse)
	}
	return start, end, sp, nil
}

// Remove strips the overlay from e. Removing from an unstamped entry
// is a no-op.
func Remove(e *entry.Entry) {
	clearAll(e)
}

func clearAll(e *entry.Entry) {
	e.Header.Delete(ValuePath)
	e.Header.Delete(StartPath)
	e.Header.Delete(EndPath)
}

func readAt(e *entry.Entry, path string) (time.Time, bool, error) {
	raw, present, err := e.Header.ReadString(path)
	if err != nil {
		return time.Time{}, false, err
	}
	if !present {
		return time.Time{}, false, nil
	}
	t, err := dates.ParseDatetime(raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("entry %s: %s: %w", e.ID(), path, apperr.ErrHeaderParse)
	}
	return t, true, nil
}
