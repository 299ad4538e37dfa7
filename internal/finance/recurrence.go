package finance

import (
	"fmt"
	"time"
)

// Pattern is the cadence of a recurring series.
type Pattern string

const (
	Daily   Pattern = "daily"
	Weekly  Pattern = "weekly"
	Monthly Pattern = "monthly"
	Yearly  Pattern = "yearly"
)

// ParsePattern validates a pattern name.
func ParsePattern(s string) (Pattern, error) {
	switch p := Pattern(s); p {
	case Daily, Weekly, Monthly, Yearly:
		return p, nil
	}
	return "", fmt.Errorf("unknown recurrence pattern %q", s)
}

// NextRecurrence adds one period to base. Unknown patterns return base.
func NextRecurrence(base time.Time, p Pattern) time.Time {
	switch p {
	case Daily:
		return base.AddDate(0, 0, 1)
	case Weekly:
		return base.AddDate(0, 0, 7)
	case Monthly:
		return AddMonths(base, 1)
	case Yearly:
		return AddYears(base, 1)
	}
	return base
}

// ShouldCreate reports whether a series whose latest instance fell on last
// is due for a new instance as of today. Both dates are compared as calendar
// days. Daily series are due as soon as last is before today; the others once
// last plus one period is strictly before today.
func ShouldCreate(last time.Time, p Pattern, today time.Time) bool {
	lastDay := Day(last)
	todayDay := Day(today)

	switch p {
	case Daily:
		return lastDay.Before(todayDay)
	case Weekly, Monthly, Yearly:
		return NextRecurrence(lastDay, p).Before(todayDay)
	}
	return false
}
