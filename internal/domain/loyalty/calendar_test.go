package loyalty

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMonthsAgo(t *testing.T) {
	tests := []struct {
		name     string
		from     time.Time
		months   int
		expected time.Time
	}{
		{
			name:     "no-op for zero months",
			from:     date(2025, time.March, 31),
			months:   0,
			expected: date(2025, time.March, 31),
		},
		{
			name:     "plain month subtraction",
			from:     date(2025, time.July, 15),
			months:   2,
			expected: date(2025, time.May, 15),
		},
		{
			name:     "clamps to non-leap february",
			from:     date(2025, time.March, 31),
			months:   1,
			expected: date(2025, time.February, 28),
		},
		{
			name:     "clamps to leap february",
			from:     date(2024, time.March, 31),
			months:   1,
			expected: date(2024, time.February, 29),
		},
		{
			name:     "century year is not leap",
			from:     date(2100, time.March, 31),
			months:   1,
			expected: date(2100, time.February, 28),
		},
		{
			name:     "year divisible by 400 is leap",
			from:     date(2000, time.March, 30),
			months:   1,
			expected: date(2000, time.February, 29),
		},
		{
			name:     "clamps 31st to 30-day month",
			from:     date(2025, time.May, 31),
			months:   1,
			expected: date(2025, time.April, 30),
		},
		{
			name:     "borrows years when months exceed 12",
			from:     date(2025, time.January, 15),
			months:   13,
			expected: date(2023, time.December, 15),
		},
		{
			name:     "crosses year boundary",
			from:     date(2025, time.February, 10),
			months:   3,
			expected: date(2024, time.November, 10),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MonthsAgo(tt.from, tt.months))
		})
	}
}

func TestMonthsAgoAlwaysValidDay(t *testing.T) {
	from := date(2024, time.December, 31)
	for months := 0; months <= 48; months++ {
		got := MonthsAgo(from, months)
		assert.LessOrEqual(t, got.Day(), daysIn(got.Year(), got.Month()), "months=%d produced invalid day", months)
	}
}

func TestEndOfDay(t *testing.T) {
	at := time.Date(2025, time.June, 10, 14, 30, 45, 123, time.UTC)

	end := EndOfDay(at)
	assert.True(t, end.After(at))
	assert.Equal(t, 10, end.Day())
	assert.Equal(t, 23, end.Hour())
}

func TestNextMonth(t *testing.T) {
	y, m := NextMonth(2025, time.November)
	assert.Equal(t, 2025, y)
	assert.Equal(t, time.December, m)

	y, m = NextMonth(2025, time.December)
	assert.Equal(t, 2026, y)
	assert.Equal(t, time.January, m)
}
