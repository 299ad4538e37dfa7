package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthPeriod(t *testing.T) {
	t.Run("covers first to last day", func(t *testing.T) {
		p := MonthPeriod(2025, time.February)
		assert.Equal(t, date(2025, time.February, 1), p.From)
		assert.Equal(t, date(2025, time.February, 28), p.To)
	})

	t.Run("leap year february", func(t *testing.T) {
		p := MonthPeriod(2024, time.February)
		assert.Equal(t, date(2024, time.February, 29), p.To)
	})

	t.Run("december does not spill into next year", func(t *testing.T) {
		p := MonthPeriod(2025, time.December)
		assert.Equal(t, date(2025, time.December, 31), p.To)
	})

	t.Run("contains ignores time of day", func(t *testing.T) {
		p := MonthPeriod(2025, time.March)
		assert.True(t, p.Contains(time.Date(2025, time.March, 31, 23, 59, 59, 0, time.UTC)))
		assert.True(t, p.Contains(date(2025, time.March, 1)))
		assert.False(t, p.Contains(date(2025, time.April, 1)))
		assert.False(t, p.Contains(time.Date(2025, time.February, 28, 23, 59, 59, 0, time.UTC)))
	})
}

func TestYearPeriod(t *testing.T) {
	p := YearPeriod(2025)
	assert.Equal(t, date(2025, time.January, 1), p.From)
	assert.Equal(t, date(2025, time.December, 31), p.To)
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		n    int
		want time.Time
	}{
		{"simple", date(2025, time.January, 15), 1, date(2025, time.February, 15)},
		{"clamps to month end", date(2025, time.January, 31), 1, date(2025, time.February, 28)},
		{"clamps to leap day", date(2024, time.January, 31), 1, date(2024, time.February, 29)},
		{"crosses year", date(2025, time.December, 10), 1, date(2026, time.January, 10)},
		{"negative", date(2025, time.January, 10), -1, date(2024, time.December, 10)},
		{"negative over a year", date(2025, time.January, 10), -13, date(2023, time.December, 10)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonths(tt.in, tt.n))
		})
	}
}

func TestAddYearsLeapDay(t *testing.T) {
	assert.Equal(t, date(2025, time.February, 28), AddYears(date(2024, time.February, 29), 1))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2025-03-05")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 5), d)

	d, err = ParseDate("2025-03-05T18:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, date(2025, time.March, 5), d)

	_, err = ParseDate("05/03/2025")
	assert.Error(t, err)
}

func TestValidateYearMonth(t *testing.T) {
	assert.NoError(t, ValidateYearMonth(2025, 0))
	assert.NoError(t, ValidateYearMonth(2025, 12))
	assert.Error(t, ValidateYearMonth(2025, 13))
	assert.Error(t, ValidateYearMonth(25, 1))
}
