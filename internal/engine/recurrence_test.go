package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNextOccurrence(t *testing.T) {
	birthday := SpecialDay{Title: "Alice", Type: TypeBirthday, Recurs: true,
		Date: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}

	tests := []struct {
		name string
		day  SpecialDay
		now  time.Time
		want time.Time
	}{
		{
			name: "Later this year",
			day:  birthday,
			now:  time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Today is inclusive",
			day:  birthday,
			now:  time.Date(2025, 6, 15, 22, 0, 0, 0, time.UTC),
			want: time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Already passed rolls to next year",
			day:  birthday,
			now:  time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Leap day waits for a leap year",
			day: SpecialDay{Title: "Leap", Type: TypeBirthday, Recurs: true,
				Date: time.Date(2000, 2, 29, 0, 0, 0, 0, time.UTC)},
			now:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2028, 2, 29, 0, 0, 0, 0, time.UTC),
		},
		{
			name: "Future start is its own first occurrence",
			day: SpecialDay{Title: "Wedding", Type: TypeAnniversary, Recurs: true,
				Date: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)},
			now:  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
			want: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(NextOccurrence(tt.day, tt.now)),
				"want %s, got %s", tt.want, NextOccurrence(tt.day, tt.now))
		})
	}
}

func TestNextOccurrence_OneOffKeepsDate(t *testing.T) {
	d := SpecialDay{Title: "Quit", Type: TypeQuitSmoking, Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, d.Date, NextOccurrence(d, now))
}

func TestDaysUntilNext(t *testing.T) {
	d := SpecialDay{Type: TypeBirthday, Recurs: true, Date: time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC)}

	assert.Equal(t, 0, DaysUntilNext(d, time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)))
	assert.Equal(t, 364, DaysUntilNext(d, time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)))
}
