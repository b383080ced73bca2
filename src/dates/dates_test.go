package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func TestDayTruncates(t *testing.T) {
	ts := time.Date(2024, 3, 15, 18, 42, 7, 123, time.FixedZone("X", 3600))
	got := Day(ts)
	assert.Equal(t, date(2024, 3, 15), got)
}

func TestNextDailyWeekly(t *testing.T) {
	start := date(2024, 1, 1)
	assert.Equal(t, date(2024, 1, 2), Next(start, date(2024, 1, 1), Daily))
	assert.Equal(t, date(2024, 3, 1), Next(start, date(2024, 2, 29), Daily))
	assert.Equal(t, date(2024, 1, 8), Next(start, date(2024, 1, 1), Weekly))
	assert.Equal(t, date(2024, 2, 3), Next(start, date(2024, 1, 27), Weekly))
}

func TestNextMonthlyKeepsStartDay(t *testing.T) {
	start := date(2024, 1, 15)
	got := Next(start, date(2024, 2, 15), Monthly)
	assert.Equal(t, date(2024, 3, 15), got)
}

func TestNextMonthlyClampsShortMonths(t *testing.T) {
	start := date(2024, 1, 31)

	feb := Next(start, start, Monthly)
	assert.Equal(t, date(2024, 2, 29), feb, "leap february clamps to 29")

	mar := Next(start, feb, Monthly)
	assert.Equal(t, date(2024, 3, 31), mar, "clamp must not drift: march returns to the 31st")

	apr := Next(start, mar, Monthly)
	assert.Equal(t, date(2024, 4, 30), apr)
}

func TestNextMonthlyNonLeapFebruary(t *testing.T) {
	start := date(2023, 1, 30)
	assert.Equal(t, date(2023, 2, 28), Next(start, start, Monthly))
}

func TestNextYearly(t *testing.T) {
	start := date(2024, 2, 29)
	got := Next(start, start, Yearly)
	assert.Equal(t, date(2025, 2, 28), got, "leap day clamps in non-leap years")

	got = Next(start, got, Yearly)
	assert.Equal(t, date(2026, 2, 28), got)
}

func TestFrequencyValid(t *testing.T) {
	for _, f := range []Frequency{Daily, Weekly, Monthly, Yearly} {
		assert.True(t, f.Valid())
	}
	assert.False(t, Frequency("HOURLY").Valid())
	assert.False(t, Frequency("").Valid())
}
