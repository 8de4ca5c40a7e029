package ingest

import (
	"strings"
	"time"
)

// Date layouts tried in order. Exports in the wild mix ISO dates,
// datetimes, and slash formats.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"02-Jan-2006",
	"January 2, 2006",
}

// ParseDate parses a date or datetime cell permissively. Returns ok=false
// when no layout matches; the caller drops the row.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}
