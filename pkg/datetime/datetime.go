// Package datetime renders ISO-8601 timestamps as local wall-clock strings
// with a numeric UTC offset, e.g. "2023-12-24 05:30:00 +05:30".
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the output format. The offset is always numeric; UTC renders
// as "+00:00".
const Layout = "2006-01-02 15:04:05 -07:00"

// Layouts with an explicit offset.
var zonedLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04Z07:00",
}

// Layouts without an offset. A bare date is UTC midnight; a date and time
// is wall-clock time in the target location.
const (
	dateOnly  = "2006-01-02"
	localTime = "2006-01-02T15:04:05.999999999"
	localMin  = "2006-01-02T15:04"
)

// ParseError reports a timestamp that could not be parsed.
type ParseError struct {
	Input string
	Err   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("datetime: invalid timestamp %q", e.Input)
}

// Unwrap returns the underlying time.ParseError.
func (e *ParseError) Unwrap() error { return e.Err }

// Parse parses an ISO-8601 timestamp. Timestamps without an offset that
// carry a time of day are read in loc.
func Parse(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	s = strings.TrimSpace(s)
	var firstErr error
	for _, layout := range zonedLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	if t, err := time.Parse(dateOnly, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{localTime, localMin} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &ParseError{Input: s, Err: firstErr}
}

// FormatUTCDateTime renders the instant named by s in loc using Layout.
// A nil loc means time.Local.
func FormatUTCDateTime(s string, loc *time.Location) (string, error) {
	if loc == nil {
		loc = time.Local
	}
	t, err := Parse(s, loc)
	if err != nil {
		return "", err
	}
	return t.In(loc).Format(Layout), nil
}

// Formatter formats timestamps in a fixed location.
type Formatter struct {
	Location *time.Location
}

// Local returns a Formatter for the process's local time zone.
func Local() Formatter {
	return Formatter{Location: time.Local}
}

// Format is FormatUTCDateTime in f.Location.
func (f Formatter) Format(s string) (string, error) {
	return FormatUTCDateTime(s, f.Location)
}

// FormatTime renders t in f.Location.
func (f Formatter) FormatTime(t time.Time) string {
	loc := f.Location
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(Layout)
}

// LoadLocation resolves an IANA zone name. "" and "Local" mean time.Local.
// Fixed offsets of the form "+05:30" or "-08:00" are accepted as well.
func LoadLocation(name string) (*time.Location, error) {
	switch name {
	case "", "Local":
		return time.Local, nil
	case "UTC", "Z":
		return time.UTC, nil
	}
	if name[0] == '+' || name[0] == '-' {
		t, err := time.Parse("-07:00", name)
		if err != nil {
			return nil, fmt.Errorf("datetime: invalid offset %q: %w", name, err)
		}
		_, offset := t.Zone()
		return time.FixedZone(name, offset), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("datetime: unknown time zone %q: %w", name, err)
	}
	return loc, nil
}
