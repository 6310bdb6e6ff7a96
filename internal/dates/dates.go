// Package dates provides canonical date and datetime parsing shared by
// the datetime header overlay and the CLI's date arguments.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Format is the canonical serialization for datetimes stored in entry
// headers. Values written by the datetime overlay always round-trip
// through it.
const Format = time.RFC3339

// IsValidDate checks if a string is a valid YYYY-MM-DD date.
func IsValidDate(s string) bool {
	if !dateRegex.MatchString(s) {
		return false
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !IsValidDate(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return time.Parse("2006-01-02", s)
}

// IsValidDatetime checks if a string is a valid datetime.
//
// Accepted formats:
// - RFC3339 (e.g. 2025-01-01T10:30:00Z, 2025-06-15T14:00:00+05:00)
// - YYYY-MM-DDTHH:MM
// - YYYY-MM-DDTHH:MM:SS
func IsValidDatetime(s string) bool {
	_, err := ParseDatetime(s)
	return err == nil
}

// ParseDatetime parses a datetime in one of the accepted formats.
func ParseDatetime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("invalid datetime: empty")
	}

	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04",
		"2006-01-02T15:04:05",
	}
	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid datetime: %q", s)
}

// ParseArg parses a CLI date argument which can be:
// - "now", "today", "yesterday", "tomorrow" (relative to now)
// - a YYYY-MM-DD date (midnight local time)
// - a datetime in one of the accepted formats
// - empty, which defaults to now
func ParseArg(arg string, now time.Time) (time.Time, error) {
	if arg == "" {
		return now, nil
	}

	switch strings.ToLower(strings.TrimSpace(arg)) {
	case "now", "today":
		return now, nil
	case "yesterday":
		return now.AddDate(0, 0, -1), nil
	case "tomorrow":
		return now.AddDate(0, 0, 1), nil
	default:
		if t, err := ParseDate(arg); err == nil {
			return t, nil
		}
		parsed, err := ParseDatetime(arg)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD, RFC3339, or now/today/yesterday/tomorrow", arg)
		}
		return parsed, nil
	}
}
