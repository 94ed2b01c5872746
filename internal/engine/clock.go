package engine

import "time"

// Clock abstracts time.Now() to allow deterministic testing.
// Every countdown and filter takes "now" from a Clock read exactly once per refresh.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
// Loc is the zone days are counted in; nil means the system zone.
type RealClock struct {
	Loc *time.Location
}

// Now returns the current time in the clock zone.
func (c RealClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock always reports the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}
