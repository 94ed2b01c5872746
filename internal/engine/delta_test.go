package engine

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countday/internal/config"
)

func TestDaysDifference_SameInstantIsZero(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	assert.Equal(t, 0, DaysDifference(now, now))
	assert.True(t, IsCountingForward(now, now), "today counts as a count-up")
}

func TestDaysDifference_WholeDaysRegardlessOfTimeOfDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)

	for n := 1; n <= 400; n += 37 {
		for _, hour := range []int{0, 9, 23} {
			target := time.Date(2025, 6, 15+n, hour, 59, 0, 0, time.UTC)
			assert.Equal(t, n, DaysDifference(now, target), "n=%d hour=%d", n, hour)
			assert.Equal(t, n, CalendarDaysBetween(now, target))
			assert.False(t, IsCountingForward(now, target))
		}
	}
}

func TestDaysDifference_PastIsNonNegative(t *testing.T) {
	now := time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	target := time.Date(2025, 6, 5, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, -10, CalendarDaysBetween(now, target))
	assert.Equal(t, 10, DaysDifference(now, target))
	assert.True(t, IsCountingForward(now, target))
}

func TestDaysDifference_CrossingMidnightCountsOneDay(t *testing.T) {
	now := time.Date(2025, 6, 15, 23, 0, 0, 0, time.UTC)
	target := time.Date(2025, 6, 16, 1, 0, 0, 0, time.UTC)

	// Only two hours apart, but on different calendar dates.
	assert.Equal(t, 1, DaysDifference(now, target))
}

func TestDaysDifference_DaylightSavingTransitions(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	tests := []struct {
		name   string
		now    time.Time
		target time.Time
		want   int
	}{
		{
			// 24 hours of wall time, but two calendar days because the clocks skip an hour.
			name:   "Spring forward",
			now:    time.Date(2025, 3, 8, 23, 30, 0, 0, ny),
			target: time.Date(2025, 3, 10, 0, 30, 0, 0, ny),
			want:   2,
		},
		{
			name:   "Fall back",
			now:    time.Date(2025, 11, 1, 0, 30, 0, 0, ny),
			target: time.Date(2025, 11, 2, 23, 30, 0, 0, ny),
			want:   1,
		},
		{
			name:   "Week across spring forward",
			now:    time.Date(2025, 3, 5, 12, 0, 0, 0, ny),
			target: time.Date(2025, 3, 12, 0, 0, 0, 0, ny),
			want:   7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysDifference(tt.now, tt.target))
		})
	}
}

func TestCalendarDaysBetween_UsesNowLocation(t *testing.T) {
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	// 2025-06-15 20:00 UTC is already June 16th in Tokyo.
	now := time.Date(2025, 6, 16, 8, 0, 0, 0, tokyo)
	target := time.Date(2025, 6, 15, 20, 0, 0, 0, time.UTC)

	assert.Equal(t, 0, CalendarDaysBetween(now, target))
}

func TestNewCountdown(t *testing.T) {
	now := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)

	future := NewCountdown(now, now.AddDate(0, 0, 5))
	assert.Equal(t, Countdown{Days: 5, Forward: false}, future)
	assert.Equal(t, config.TKeyDaysLeft, future.LabelKey())
	assert.False(t, future.IsToday())

	past := NewCountdown(now, now.AddDate(0, 0, -10))
	assert.Equal(t, Countdown{Days: 10, Forward: true}, past)
	assert.Equal(t, config.TKeyDaysSince, past.LabelKey())

	today := NewCountdown(now, now.Add(3*time.Hour))
	assert.True(t, today.IsToday())
	assert.True(t, today.Forward)
}

func TestRealClock_Zone(t *testing.T) {
	zone := time.FixedZone("LINT", 14*60*60)
	assert.Equal(t, zone, RealClock{Loc: zone}.Now().Location())
	assert.Equal(t, time.Local, RealClock{}.Now().Location())
}

func TestDaysDifference_ReadInClockZone(t *testing.T) {
	zone := time.FixedZone("LINT", 14*60*60)
	instant := time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC)
	target := time.Date(2026, 10, 24, 0, 0, 0, 0, zone)

	assert.Equal(t, 5, DaysDifference(instant.In(zone), target))
	// The same instant read in UTC sees the target on Oct 23.
	assert.Equal(t, 4, DaysDifference(instant, target))
}

func TestDaysDifference_CenturiesAway(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		target time.Time
		want   int
	}{
		{"1700", time.Date(1700, 10, 19, 0, 0, 0, 0, time.UTC), 119069},
		{"2400", time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC), 136309},
		{"year one", time.Date(1, 1, 1, 0, 0, 0, 0, time.UTC), 739907},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DaysDifference(now, tt.target))
			assert.Equal(t, tt.want, DaysDifference(tt.target, now))
		})
	}
	assert.False(t, IsCountingForward(now, time.Date(2400, 1, 1, 0, 0, 0, 0, time.UTC)))
}
