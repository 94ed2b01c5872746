package engine

import (
	"time"

	"github.com/teambition/rrule-go"
)

// NextOccurrence returns the first yearly anniversary of the day on or after now's date.
// Non-recurring days simply return their own date. Feb 29 anniversaries only occur in leap years,
// as RFC 5545 yearly rules skip invalid dates.
func NextOccurrence(day SpecialDay, now time.Time) time.Time {
	if !day.Recurs {
		return day.Date
	}

	loc := now.Location()
	y, m, d := day.Date.In(loc).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, loc)

	ny, nm, nd := now.Date()
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, loc)
	if !start.Before(today) {
		return start
	}

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:    rrule.YEARLY,
		Dtstart: start,
	})
	if err != nil {
		return day.Date
	}

	next := r.After(today, true)
	if next.IsZero() {
		return day.Date
	}
	return next
}

// DaysUntilNext returns the calendar days to the next yearly occurrence (0 when it is today).
func DaysUntilNext(day SpecialDay, now time.Time) int {
	return DaysDifference(now, NextOccurrence(day, now))
}
