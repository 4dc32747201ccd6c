package domain

import (
	"fmt"
	"time"
)

// DateLayout is the wire format for all ledger dates. Ordering granularity is
// day-level; there is no time component.
const DateLayout = "2006-01-02"

// Date is an ISO YYYY-MM-DD calendar day. Because the format is fixed-width
// with most-significant fields first, lexicographic comparison is date order.
type Date string

// ParseDate validates s as an ISO calendar day.
func ParseDate(s string) (Date, error) {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return Date(s), nil
}

// DateOf truncates t to its calendar day.
func DateOf(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Today returns the current calendar day in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// Before reports whether d falls strictly before other.
func (d Date) Before(other Date) bool { return d < other }

// After reports whether d falls strictly after other.
func (d Date) After(other Date) bool { return d > other }

// Time returns the midnight UTC instant of the day. Invalid dates return the
// zero time.
func (d Date) Time() time.Time {
	t, err := time.Parse(DateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d Date) String() string { return string(d) }
