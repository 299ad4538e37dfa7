package finance

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-day format used on the wire and in exports.
const DateLayout = "2006-01-02"

// Day strips the time of day, keeping the calendar date of t in its own
// location, and returns it as midnight UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts either a plain calendar date or an RFC 3339 timestamp.
func ParseDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD or an RFC 3339 timestamp")
	}
	return Day(t), nil
}

// Period is an inclusive range of calendar days.
type Period struct {
	From time.Time
	To   time.Time
}

// MonthPeriod covers every day of the given month.
func MonthPeriod(year int, month time.Month) Period {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return Period{From: first, To: first.AddDate(0, 1, -1)}
}

// YearPeriod covers every day of the given year.
func YearPeriod(year int) Period {
	return Period{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
	}
}

// Contains reports whether the calendar day of t lies within the period.
func (p Period) Contains(t time.Time) bool {
	d := Day(t)
	return !d.Before(p.From) && !d.After(p.To)
}

// ValidateYearMonth checks the ranges accepted by the summary and export
// endpoints. month == 0 means "no month".
func ValidateYearMonth(year, month int) error {
	if year < 1000 || year > 9999 {
		return fmt.Errorf("year must be a 4-digit number")
	}
	if month < 0 || month > 12 {
		return fmt.Errorf("month must be between 1 and 12")
	}
	return nil
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// AddMonths moves t by n calendar months, clamping the day to the end of
// the target month (Jan 31 + 1 month = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + total/12
	tm := total % 12
	if tm < 0 {
		tm += 12
		ty--
	}
	month := time.Month(tm + 1)
	if last := daysIn(ty, month); d > last {
		d = last
	}
	h, min, s := t.Clock()
	return time.Date(ty, month, d, h, min, s, t.Nanosecond(), t.Location())
}

// AddYears moves t by n years, clamping Feb 29 to Feb 28 in common years.
func AddYears(t time.Time, n int) time.Time {
	return AddMonths(t, 12*n)
}
