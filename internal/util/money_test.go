package util

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestToCents(t *testing.T) {
	testCases := []struct {
		in   string
		want int64
	}{
		{"0", 0},
		{"0.01", 1},
		{"1", 100},
		{"12.34", 1234},
		{"500.00", 50000},
		{"-20.50", -2050},
		{"9999999.99", 999999999},
	}

	for _, tc := range testCases {
		got, err := ToCents(decimal.RequireFromString(tc.in))
		if err != nil {
			t.Errorf("ToCents(%s) error = %v, want nil", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("ToCents(%s) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestToCents_SubCent(t *testing.T) {
	for _, s := range []string{"0.001", "1.005", "12.345"} {
		if _, err := ToCents(decimal.RequireFromString(s)); err == nil {
			t.Errorf("ToCents(%s) error = nil, want error", s)
		}
	}
}

func TestCentsToFloat(t *testing.T) {
	testCases := []struct {
		in   int64
		want float64
	}{
		{0, 0},
		{1, 0.01},
		{1234, 12.34},
		{-2050, -20.50},
		{50000, 500},
	}

	for _, tc := range testCases {
		if got := CentsToFloat(tc.in); got != tc.want {
			t.Errorf("CentsToFloat(%d) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
