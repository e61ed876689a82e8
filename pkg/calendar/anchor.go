// Package calendar computes recurring anchor dates: the configured
// day-of-month on which fee reviews and interest accruals post. Anchor days
// past the end of a month clamp to that month's final day, which keeps a
// "31st of the month" billing cycle meaningful in February.
package calendar

import (
	"strconv"
	"time"
)

// NextAnchor returns the smallest date strictly after ref whose day-of-month
// equals min(day, last day of that month). Dates are compared at day
// granularity; the returned value is midnight UTC.
func NextAnchor(day int, ref time.Time) time.Time {
	refDate := truncateToDay(ref)

	candidate := anchorInMonth(day, refDate.Year(), refDate.Month())
	if !candidate.After(refDate) {
		next := refDate.AddDate(0, 1, -refDate.Day()+1) // first of the following month
		candidate = anchorInMonth(day, next.Year(), next.Month())
	}
	return candidate
}

// PreviousAnchor returns the largest date at or before ref whose day-of-month
// equals min(day, last day of that month).
func PreviousAnchor(day int, ref time.Time) time.Time {
	refDate := truncateToDay(ref)

	candidate := anchorInMonth(day, refDate.Year(), refDate.Month())
	if candidate.After(refDate) {
		prev := refDate.AddDate(0, 0, -refDate.Day()) // last day of the prior month
		candidate = anchorInMonth(day, prev.Year(), prev.Month())
	}
	return candidate
}

// CycleDays returns the length in days of the anchor cycle containing ref,
// never less than one. Used as the basis for daily-accrual estimates.
func CycleDays(day int, ref time.Time) int {
	days := int(NextAnchor(day, ref).Sub(PreviousAnchor(day, ref)).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}

// Ordinal renders a day-of-month with its English suffix: 1st, 2nd, 3rd,
// 4th, with the 11th-13th exception.
func Ordinal(day int) string {
	suffix := "th"
	if day%100 < 11 || day%100 > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}

func anchorInMonth(day, year int, month time.Month) time.Time {
	clamped := day
	if last := lastDayOfMonth(year, month); clamped > last {
		clamped = last
	}
	if clamped < 1 {
		clamped = 1
	}
	return time.Date(year, month, clamped, 0, 0, 0, 0, time.UTC)
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day zero of the following month normalizes to this month's last day.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func truncateToDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
