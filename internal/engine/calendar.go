package engine

import (
	"bytes"
	"fmt"
	"log/slog"
	"time"

	"github.com/emersion/go-ical"
	"github.com/tartampluch/go-countday/internal/config"
)

// BuildCalendar renders every special day as an all-day iCalendar event.
// Yearly days carry an RRULE so calendar clients show every anniversary.
func BuildCalendar(days []SpecialDay, now time.Time) ([]byte, error) {
	if len(days) == 0 {
		// A valid but empty VCALENDAR keeps subscribed clients from flagging the feed.
		return []byte(config.StubVCalendar), nil
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(config.PropVersion, config.ICalVersion)
	cal.Props.SetText(config.PropProdid, config.ICalProdid)
	cal.Props.SetText(config.PropXWRCalName, config.ICalCalName)
	cal.Props.SetText(config.PropCalScale, config.ICalScale)
	cal.Props.SetText(config.PropMethod, config.ICalMethod)

	refreshProp := ical.NewProp(config.PropRefresh)
	refreshProp.SetDuration(config.DefaultICalRefresh)
	cal.Props.Set(refreshProp)

	dtStampProp := ical.NewProp(config.PropDTStamp)
	dtStampProp.SetDateTime(now.UTC())

	loc := now.Location()
	for _, d := range days {
		event := ical.NewEvent()
		event.Props.SetText(config.PropUID, fmt.Sprintf(config.FormatUID, d.ID, config.ICalDomain))
		event.Props.SetText(config.PropSummary, d.Title)
		event.Props.SetText(config.PropCategories, string(d.Type))
		event.Props.SetText(config.PropColor, DecodeHexColor(d.Color()).Hex())
		event.Props.Set(dtStampProp)

		// Date-only value; the civil date is what matters, not the stored instant.
		y, m, dd := d.Date.In(loc).Date()
		dtStartProp := ical.NewProp(config.PropDTStart)
		dtStartProp.SetDate(time.Date(y, m, dd, 0, 0, 0, 0, loc))
		event.Props.Set(dtStartProp)

		if d.Recurs {
			rruleProp := ical.NewProp(config.PropRRule)
			rruleProp.Value = config.ICalYearly
			event.Props.Set(rruleProp)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrICalEncode, err)
	}

	slog.Debug(config.MsgGenSuccess,
		config.LogKeyComponent, config.CompEngine,
		config.LogKeyCount, len(days),
		config.LogKeySizeBytes, buf.Len())

	return buf.Bytes(), nil
}
