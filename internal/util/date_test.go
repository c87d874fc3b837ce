package util

import (
	"testing"
	"time"
)

func TestParseDate_Valid(t *testing.T) {
	testCases := []string{
		"2024-11-15T18:12:33Z",
		"2024-11-15T18:12:33-03:00",
		"2024-11-15T18:12:33",
		"2024-11-15",
	}

	for _, s := range testCases {
		if _, err := ParseDate(s); err != nil {
			t.Errorf("ParseDate(%q) error = %v, want nil", s, err)
		}
	}
}

func TestParseDate_Invalid(t *testing.T) {
	testCases := []string{
		"",
		"15/11/2024",
		"2024-13-01",
		"2024-11-32",
		"not-a-date",
	}

	for _, s := range testCases {
		if _, err := ParseDate(s); err == nil {
			t.Errorf("ParseDate(%q) error = nil, want error", s)
		}
	}
}

func TestParseDate_DateOnly(t *testing.T) {
	got, err := ParseDate("2024-11-15")
	if err != nil {
		t.Fatalf("ParseDate error = %v", err)
	}
	want := time.Date(2024, 11, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ParseDate = %v, want %v", got, want)
	}
}

func TestParseMonth(t *testing.T) {
	if _, err := ParseMonth("2024-11"); err != nil {
		t.Errorf("ParseMonth(2024-11) error = %v, want nil", err)
	}

	for _, s := range []string{"", "2024", "2024-13", "11-2024"} {
		if _, err := ParseMonth(s); err == nil {
			t.Errorf("ParseMonth(%q) error = nil, want error", s)
		}
	}
}
