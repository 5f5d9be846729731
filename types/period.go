package types

import (
	"fmt"
	"time"
)

// Period is a ledger period: one calendar month of one year. Card purchases
// are assigned to a Period by the billing-cycle rules; everything else uses
// the calendar month of its date.
type Period struct {
	Month time.Month `json:"month"`
	Year  int        `json:"year"`
}

// PeriodOf returns the Period containing t.
func PeriodOf(t time.Time) Period {
	return Period{Month: t.Month(), Year: t.Year()}
}

// String returns the period in "YYYY-MM" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is the zero value.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Next returns the following period, wrapping December into January.
func (p Period) Next() Period {
	return p.AddMonths(1)
}

// Prev returns the preceding period, wrapping January into December.
func (p Period) Prev() Period {
	return p.AddMonths(-1)
}

// AddMonths returns the period n months after p (n may be negative).
func (p Period) AddMonths(n int) Period {
	m := int(p.Month) - 1 + n
	y := p.Year + m/12
	m %= 12
	if m < 0 {
		m += 12
		y--
	}
	return Period{Month: time.Month(m + 1), Year: y}
}

// Compare returns -1, 0 or +1 ordering p against other chronologically.
func (p Period) Compare(other Period) int {
	switch {
	case p.Year != other.Year:
		if p.Year < other.Year {
			return -1
		}
		return 1
	case p.Month != other.Month:
		if p.Month < other.Month {
			return -1
		}
		return 1
	default:
		return 0
	}
}

// Before reports whether p is strictly before other.
func (p Period) Before(other Period) bool {
	return p.Compare(other) < 0
}

// After reports whether p is strictly after other.
func (p Period) After(other Period) bool {
	return p.Compare(other) > 0
}

// DaysIn returns the number of days in the period's month.
func (p Period) DaysIn() int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(p.Year, p.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDay returns day limited to the last day of the period's month,
// e.g. day 31 in February clamps to 28 (29 in leap years).
func (p Period) ClampDay(day int) int {
	if last := p.DaysIn(); day > last {
		return last
	}
	return day
}

// DateAt returns a time within the period at the given (clamped) day,
// carrying over the time-of-day and location from ref.
func (p Period) DateAt(day int, ref time.Time) time.Time {
	d := p.ClampDay(day)
	return time.Date(p.Year, p.Month, d,
		ref.Hour(), ref.Minute(), ref.Second(), ref.Nanosecond(), ref.Location())
}
