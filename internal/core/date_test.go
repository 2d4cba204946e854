package core

import (
	"testing"
	"time"
)

func TestMonthRange(t *testing.T) {
	cases := []struct {
		year, month int
		wantStart   time.Time
		wantEnd     time.Time
	}{
		{2024, 1, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)},
		{2024, 2, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC)}, // leap year
		{2023, 2, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), time.Date(2023, 2, 28, 23, 59, 59, 0, time.UTC)},
		{2024, 12, time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 12, 31, 23, 59, 59, 0, time.UTC)},
	}
	for _, tc := range cases {
		start, end := MonthRange(tc.year, tc.month)
		if !start.Equal(tc.wantStart) {
			t.Fatalf("%d-%02d start: expected %v, got %v", tc.year, tc.month, tc.wantStart, start)
		}
		if !end.Equal(tc.wantEnd) {
			t.Fatalf("%d-%02d end: expected %v, got %v", tc.year, tc.month, tc.wantEnd, end)
		}
	}
}

func TestInMonth(t *testing.T) {
	// The last minute of the month is inside; the first instant of the next
	// month is outside.
	lastMinute := Date{Time: time.Date(2024, 1, 31, 23, 59, 0, 0, time.UTC)}
	if !lastMinute.InMonth(2024, 1) {
		t.Fatal("23:59:00 on the last day should be in the month")
	}

	nextMonth := Date{Time: time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)}
	if nextMonth.InMonth(2024, 1) {
		t.Fatal("first instant of February should not be in January")
	}

	firstInstant := Date{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !firstInstant.InMonth(2024, 1) {
		t.Fatal("first instant of the month should be in the month")
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-15")
	if err != nil {
		t.Fatalf("plain date: %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 15 {
		t.Fatalf("unexpected date: %v", d)
	}

	d, err = ParseDate("2024-03-15T10:30:00Z")
	if err != nil {
		t.Fatalf("RFC3339: %v", err)
	}
	if d.Hour() != 10 {
		t.Fatalf("expected hour 10, got %d", d.Hour())
	}

	if _, err := ParseDate("15/03/2024"); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}
