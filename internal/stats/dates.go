package stats

import (
	"fmt"
	"strings"
	"time"
)

// Layouts accepted for ISO-8601 style date columns. Layouts without a zone
// are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999-07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
	"2006/01/02",
	"Jan 2, 2006",
	"January 2, 2006",
	"Mon Jan 02 2006",
	"Mon Jan 2 15:04:05 -0700 2006",
}

// ParseDate parses a date column value
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// MonthKey returns the zero-padded YYYY-MM key of t in UTC
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// midnight truncates t to the start of its UTC day
func midnight(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

// monthStart returns noon UTC on the first day of the month named by key
func monthStart(key string) time.Time {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return time.Time{}
	}
	return t.Add(12 * time.Hour)
}

// timestampPrefix returns the first n characters of a timestamp when they
// form a valid YYYY-MM-DD date
func timestampPrefix(ts string, n int) (string, error) {
	if len(ts) < len("2006-01-02") {
		return "", fmt.Errorf("timestamp %q too short", ts)
	}
	if _, err := time.Parse("2006-01-02", ts[:10]); err != nil {
		return "", fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}
	return ts[:n], nil
}
