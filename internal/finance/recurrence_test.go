package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestShouldCreate(t *testing.T) {
	today := time.Date(2025, time.June, 15, 14, 30, 0, 0, time.UTC)

	t.Run("monthly is false for today and the future", func(t *testing.T) {
		assert.False(t, ShouldCreate(today, Monthly, today))
		assert.False(t, ShouldCreate(date(2025, time.July, 1), Monthly, today))
	})

	t.Run("monthly is false exactly one month back", func(t *testing.T) {
		assert.False(t, ShouldCreate(date(2025, time.May, 15), Monthly, today))
	})

	t.Run("monthly is true once a full month has elapsed", func(t *testing.T) {
		assert.True(t, ShouldCreate(date(2025, time.May, 14), Monthly, today))
		assert.True(t, ShouldCreate(date(2025, time.January, 1), Monthly, today))
	})

	t.Run("daily is true for yesterday", func(t *testing.T) {
		assert.True(t, ShouldCreate(date(2025, time.June, 14), Daily, today))
		assert.False(t, ShouldCreate(date(2025, time.June, 15), Daily, today))
	})

	t.Run("weekly needs more than seven days", func(t *testing.T) {
		assert.False(t, ShouldCreate(date(2025, time.June, 8), Weekly, today))
		assert.True(t, ShouldCreate(date(2025, time.June, 7), Weekly, today))
	})

	t.Run("yearly needs more than a year", func(t *testing.T) {
		assert.False(t, ShouldCreate(date(2024, time.June, 15), Yearly, today))
		assert.True(t, ShouldCreate(date(2024, time.June, 14), Yearly, today))
	})

	t.Run("time of day is ignored", func(t *testing.T) {
		last := time.Date(2025, time.June, 14, 23, 59, 0, 0, time.UTC)
		assert.True(t, ShouldCreate(last, Daily, time.Date(2025, time.June, 15, 0, 1, 0, 0, time.UTC)))
	})

	t.Run("unknown pattern never creates", func(t *testing.T) {
		assert.False(t, ShouldCreate(date(2000, time.January, 1), Pattern("hourly"), today))
	})
}

func TestNextRecurrence(t *testing.T) {
	base := date(2025, time.January, 1)

	assert.Equal(t, date(2025, time.January, 2), NextRecurrence(base, Daily))
	assert.Equal(t, date(2025, time.January, 8), NextRecurrence(base, Weekly))
	assert.Equal(t, date(2025, time.February, 1), NextRecurrence(base, Monthly))
	assert.Equal(t, date(2026, time.January, 1), NextRecurrence(base, Yearly))
	assert.Equal(t, base, NextRecurrence(base, Pattern("never")))

	t.Run("twelve monthly steps land a year later", func(t *testing.T) {
		d := base
		for i := 0; i < 12; i++ {
			d = NextRecurrence(d, Monthly)
		}
		assert.Equal(t, date(2026, time.January, 1), d)
	})
}

func TestParsePattern(t *testing.T) {
	p, err := ParsePattern("weekly")
	assert.NoError(t, err)
	assert.Equal(t, Weekly, p)

	_, err = ParsePattern("fortnightly")
	assert.Error(t, err)
}
