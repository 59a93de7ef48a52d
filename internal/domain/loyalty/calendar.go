package loyalty

import "time"

// MonthsAgo returns the date exactly months calendar months before t at
// midnight. The day of month is clamped to the last valid day of the target
// month, so subtracting one month from Mar 31 yields Feb 28 (or Feb 29 in a
// leap year) instead of an invalid date. months is expected to be >= 0
func MonthsAgo(t time.Time, months int) time.Time {
	y := t.Year()
	m := int(t.Month()) - months
	for m <= 0 {
		m += 12
		y--
	}

	d := t.Day()
	if last := daysIn(y, time.Month(m)); d > last {
		d = last
	}
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, t.Location())
}

// NextMonth returns year and month of the calendar month following the
// provided one
func NextMonth(year int, month time.Month) (int, time.Month) {
	if month == time.December {
		return year + 1, time.January
	}
	return year, month + 1
}

// EndOfDay returns the last representable instant of t's calendar day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

func daysIn(year int, month time.Month) int {
	switch month {
	case time.April, time.June, time.September, time.November:
		return 30
	case time.February:
		if isLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 31
	}
}

// isLeapYear implements the Gregorian rule: divisible by 4, except
// centuries unless divisible by 400
func isLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}
