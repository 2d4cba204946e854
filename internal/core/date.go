package core

import (
	"strings"
	"time"
)

// Date is the effective date of a transaction. It wraps time.Time so JSON
// input can accept both plain dates and full timestamps.
type Date struct {
	time.Time
}

// NewDate creates a Date at midnight UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "2006-01-02" or RFC 3339.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return Date{Time: t}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, Validation("invalid date: " + s)
	}
	return Date{Time: t}, nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.RFC3339) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = parsed.Time
	return nil
}

// MonthRange returns the inclusive bounds of a calendar month: day 1 at
// 00:00:00 through the last day at 23:59:59. time.Date normalizes day 0 of
// the following month to the last day of this one.
func MonthRange(year, month int) (start, end time.Time) {
	start = time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	end = time.Date(year, time.Month(month)+1, 0, 23, 59, 59, 0, time.UTC)
	return start, end
}

// InMonth reports whether d falls within the inclusive month bounds.
func (d Date) InMonth(year, month int) bool {
	start, end := MonthRange(year, month)
	return !d.Before(start) && !d.After(end)
}
