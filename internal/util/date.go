package util

import (
	"fmt"
	"time"
)

// Accepted transaction date layouts, most specific first.
var dateLayouts = []string{
	time.RFC3339,          // 2024-11-15T18:12:33.655Z / +offset
	"2006-01-02T15:04:05", // 2024-11-15T18:12:33
	"2006-01-02",          // 2024-11-15
}

// ParseDate parses a transaction date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, fmt.Errorf("date is empty")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date format: %q", s)
}

// ParseMonth parses a YYYY-MM month selector.
func ParseMonth(s string) (time.Time, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month format: %q", s)
	}
	return t, nil
}
