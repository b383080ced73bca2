// Package dates implements the calendar arithmetic the recurring
// materializer steps with. All dates are handled at day granularity in UTC;
// time-of-day never participates in comparisons.
package dates

import "time"

// Frequency is how often a recurring transaction repeats.
type Frequency string

const (
	Daily   Frequency = "DAILY"
	Weekly  Frequency = "WEEKLY"
	Monthly Frequency = "MONTHLY"
	Yearly  Frequency = "YEARLY"
)

// Valid reports whether f is one of the four supported frequencies.
func (f Frequency) Valid() bool {
	switch f {
	case Daily, Weekly, Monthly, Yearly:
		return true
	}
	return false
}

// Day truncates t to midnight UTC.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Next returns the occurrence that follows from, for a rule anchored on
// start. DAILY and WEEKLY step by whole days. MONTHLY and YEARLY re-derive
// the day-of-month from start each step, clamped to the length of the
// target month: a rule anchored on the 31st lands on Feb 28 (29 in leap
// years) and returns to the 31st in March rather than drifting.
func Next(start, from time.Time, freq Frequency) time.Time {
	from = Day(from)
	switch freq {
	case Daily:
		return from.AddDate(0, 0, 1)
	case Weekly:
		return from.AddDate(0, 0, 7)
	case Monthly:
		return stepMonths(start, from, 1)
	case Yearly:
		return stepMonths(start, from, 12)
	default:
		return from.AddDate(0, 0, 1)
	}
}

func stepMonths(start, from time.Time, months int) time.Time {
	// Normalizing via a first-of-month anchor avoids time.AddDate's
	// roll-over when the current day exceeds the target month's length.
	y, m, _ := from.Date()
	anchor := time.Date(y, m, 1, 0, 0, 0, 0, time.UTC).AddDate(0, months, 0)
	day := start.Day()
	if max := DaysIn(anchor.Year(), anchor.Month()); day > max {
		day = max
	}
	return time.Date(anchor.Year(), anchor.Month(), day, 0, 0, 0, 0, time.UTC)
}
