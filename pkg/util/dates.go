package util

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the storage format of business dates (reservation, work and report dates).
const DateLayout = "2006-01-02"

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// FormatDate renders t as a business date in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD string and returns it normalized.
func ParseDate(s string) (string, error) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return d.Format(DateLayout), nil
}

// ShiftDate adds days to a YYYY-MM-DD date string.
func ShiftDate(date string, days int) (string, error) {
	d, err := time.Parse(DateLayout, date)
	if err != nil {
		return "", err
	}
	return d.AddDate(0, 0, days).Format(DateLayout), nil
}

// TimeOfDay returns the offset of t from local midnight in loc.
func TimeOfDay(t time.Time, loc *time.Location) time.Duration {
	local := t.In(loc)
	return local.Sub(BeginningOfDay(local))
}

// ParseClock parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return time.Duration(t.Hour())*time.Hour +
				time.Duration(t.Minute())*time.Minute +
				time.Duration(t.Second())*time.Second, nil
		}
	}
	return 0, fmt.Errorf("invalid clock time %q", s)
}

// ParseDateTime accepts RFC3339 or a zone-less "YYYY-MM-DDTHH:MM[:SS]" / "YYYY-MM-DD HH:MM[:SS]"
// which is read in loc.
func ParseDateTime(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date time %q", s)
}
