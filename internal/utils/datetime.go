package utils

import (
	"errors"
	"strings"
	"time"

	"github.com/tactache/tactache-api/internal/constants"
)

// ErrInvalidDateTime is returned when a client date matches none of the accepted layouts.
var ErrInvalidDateTime = errors.New("invalid date-time")

// Layouts accepted from clients, most specific first.
var dateTimeLayouts = []string{
	time.RFC3339,
	constants.CalendarLayout,
	constants.DateTimeLocalLayout,
	"2006-01-02 15:04:05",
	constants.DisplayLayout,
	"2006-01-02",
}

// ParseDateTime parses a client-supplied date-time. An empty (or blank)
// string yields nil; anything unparseable is rejected rather than dropped.
// Values without an offset are read in loc. The result is in UTC.
func ParseDateTime(raw string, loc *time.Location) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if loc == nil {
		loc = time.UTC
	}

	for _, layout := range dateTimeLayouts {
		t, err := time.ParseInLocation(layout, raw, loc)
		if err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, ErrInvalidDateTime
}

// FormatDateTime renders t in loc with layout, or "" for nil.
func FormatDateTime(t *time.Time, layout string, loc *time.Location) string {
	if t == nil {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(layout)
}
