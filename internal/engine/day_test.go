package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countday/internal/config"
)

func TestParseDayType(t *testing.T) {
	typ, err := ParseDayType(" QuitSmoking ")
	require.NoError(t, err)
	assert.Equal(t, TypeQuitSmoking, typ)

	_, err = ParseDayType("funeral")
	assert.ErrorIs(t, err, ErrUnknownDayType)
}

func TestDayType_Attributes(t *testing.T) {
	for _, typ := range AllDayTypes {
		_, err := ParseHexColor(typ.DefaultColor())
		assert.NoError(t, err, "default color of %s must decode", typ)
		assert.NotEmpty(t, typ.Icon())
		assert.NotEmpty(t, typ.TitleKey())
	}
	assert.Equal(t, "#FF6B6B", TypeBirthday.DefaultColor())
	assert.Equal(t, TypeCustom.Icon(), DayType("unknown").Icon())
}

func TestSpecialDay_ColorOverride(t *testing.T) {
	d := SpecialDay{Type: TypeHoliday}
	assert.Equal(t, TypeHoliday.DefaultColor(), d.Color())

	d.ThemeColor = "#123456"
	assert.Equal(t, "#123456", d.Color())
}

func TestSpecialDay_Validate(t *testing.T) {
	valid := SpecialDay{Title: "Trip", Type: TypeHoliday, Date: time.Now()}
	assert.NoError(t, valid.Validate())

	noTitle := valid
	noTitle.Title = "   "
	assert.ErrorIs(t, noTitle.Validate(), ErrEmptyTitle)

	badType := valid
	badType.Type = "funeral"
	assert.ErrorIs(t, badType.Validate(), ErrUnknownDayType)

	noDate := valid
	noDate.Date = time.Time{}
	assert.ErrorContains(t, noDate.Validate(), config.ErrDateParse)
}

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("UTC+2", 2*3600)

	d, err := ParseDate("2025-12-24", loc)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, loc), d)

	d, err = ParseDate("2025-12-24T23:30:00Z", loc)
	require.NoError(t, err)
	assert.Equal(t, 25, d.Day(), "RFC3339 values are read in the target location")

	_, err = ParseDate("24/12/2025", loc)
	assert.Error(t, err)
}

// The two reference scenarios: a trip five days out and a habit quit ten days ago.
func TestSpecialDay_CountdownScenarios(t *testing.T) {
	now := time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

	trip := SpecialDay{Title: "Trip", Type: TypeHoliday, Date: now.AddDate(0, 0, 5)}
	cd := trip.Countdown(now)
	assert.Equal(t, 5, cd.Days)
	assert.False(t, trip.IsCountingForward(now))
	assert.Equal(t, config.TKeyDaysLeft, cd.LabelKey())
	assert.True(t, FilterUpcoming.Matches(trip, now))

	quit := SpecialDay{Title: "Quit", Type: TypeQuitSmoking, Date: now.AddDate(0, 0, -10)}
	cd = quit.Countdown(now)
	assert.Equal(t, 10, cd.Days)
	assert.True(t, quit.IsCountingForward(now))
	assert.Equal(t, config.TKeyDaysSince, cd.LabelKey())
	assert.True(t, FilterPast.Matches(quit, now))
}
