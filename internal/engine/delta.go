package engine

import (
	"time"

	"github.com/tartampluch/go-countday/internal/config"
)

const secondsPerDay = 24 * 60 * 60

// dayNumber returns the count of days since the Unix epoch of t's calendar date as read in loc.
// Midnight UTC of a civil date is an exact multiple of a day, so the division never truncates,
// and day numbers never see a DST offset change or the range limit of time.Duration.
func dayNumber(t time.Time, loc *time.Location) int64 {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC).Unix() / secondsPerDay
}

// CalendarDaysBetween returns the signed number of calendar days from now's date to target's date.
// Both instants are read in now's location, so a target one minute past midnight is one day away
// from a now one minute before midnight.
func CalendarDaysBetween(now, target time.Time) int {
	loc := now.Location()
	return int(dayNumber(target, loc) - dayNumber(now, loc))
}

// DaysDifference returns the non-negative number of calendar days between now and target.
// Direction is reported separately by IsCountingForward.
func DaysDifference(now, target time.Time) int {
	days := CalendarDaysBetween(now, target)
	if days < 0 {
		return -days
	}
	return days
}

// IsCountingForward reports whether target is today or earlier, i.e. the display counts days since.
func IsCountingForward(now, target time.Time) bool {
	return CalendarDaysBetween(now, target) <= 0
}

// Countdown is the display value of a special day at a given instant.
type Countdown struct {
	// Days is the non-negative calendar day distance.
	Days int

	// Forward is true for a count-up (days since) and false for a countdown (days left).
	Forward bool
}

// NewCountdown computes the countdown of target at now.
func NewCountdown(now, target time.Time) Countdown {
	days := CalendarDaysBetween(now, target)
	if days <= 0 {
		return Countdown{Days: -days, Forward: true}
	}
	return Countdown{Days: days, Forward: false}
}

// LabelKey returns the translation key of the unit label ("days since" or "days left").
func (c Countdown) LabelKey() string {
	if c.Forward {
		return config.TKeyDaysSince
	}
	return config.TKeyDaysLeft
}

// IsToday reports whether the special day falls on the current date.
func (c Countdown) IsToday() bool {
	return c.Days == 0
}
