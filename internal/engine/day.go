package engine

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tartampluch/go-countday/internal/config"
)

var (
	// ErrUnknownDayType is returned when a category name is not recognized.
	ErrUnknownDayType = errors.New("unknown special day type")

	// ErrEmptyTitle is returned when a special day is created without a title.
	ErrEmptyTitle = errors.New("special day title is empty")
)

// DayType categorizes a special day. Each category carries a default icon and color.
type DayType string

const (
	TypeBirthday    DayType = "birthday"
	TypeAnniversary DayType = "anniversary"
	TypeQuitSmoking DayType = "quitSmoking"
	TypeHoliday     DayType = "holiday"
	TypeGraduation  DayType = "graduation"
	TypeCustom      DayType = "custom"
)

// AllDayTypes lists the categories in display order.
var AllDayTypes = []DayType{
	TypeBirthday,
	TypeAnniversary,
	TypeQuitSmoking,
	TypeHoliday,
	TypeGraduation,
	TypeCustom,
}

type dayTypeInfo struct {
	icon     string
	color    string
	titleKey string
}

var dayTypes = map[DayType]dayTypeInfo{
	TypeBirthday:    {icon: "gift", color: "#FF6B6B", titleKey: config.TKeyTypeBirthday},
	TypeAnniversary: {icon: "heart", color: "#FF69B4", titleKey: config.TKeyTypeAnniversary},
	TypeQuitSmoking: {icon: "nosign", color: "#4CAF50", titleKey: config.TKeyTypeQuitSmoking},
	TypeHoliday:     {icon: "sun", color: "#FFA726", titleKey: config.TKeyTypeHoliday},
	TypeGraduation:  {icon: "graduation", color: "#42A5F5", titleKey: config.TKeyTypeGraduation},
	TypeCustom:      {icon: "star", color: "#9C27B0", titleKey: config.TKeyTypeCustom},
}

// ParseDayType resolves a category name. Matching is case-insensitive.
func ParseDayType(s string) (DayType, error) {
	for _, t := range AllDayTypes {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDayType, s)
}

// Icon returns the icon identifier of the category.
func (t DayType) Icon() string {
	if info, ok := dayTypes[t]; ok {
		return info.icon
	}
	return dayTypes[TypeCustom].icon
}

// DefaultColor returns the hex theme color used when a record has no override.
func (t DayType) DefaultColor() string {
	if info, ok := dayTypes[t]; ok {
		return info.color
	}
	return dayTypes[TypeCustom].color
}

// TitleKey returns the translation key of the category label.
func (t DayType) TitleKey() string {
	if info, ok := dayTypes[t]; ok {
		return info.titleKey
	}
	return config.TKeyTypeCustom
}

// SpecialDay is a persisted, user-defined dated event.
type SpecialDay struct {
	// ID is a stable identity (UUID) used for updates and deletion.
	ID string

	// Title is the display name.
	Title string

	// Date is the calendar date of the event. Only the date part is significant.
	Date time.Time

	// Type is the category; it provides the default icon and color.
	Type DayType

	// ThemeColor is a hex color string overriding the category color. It is decoded leniently.
	ThemeColor string

	// Recurs marks a yearly event (birthdays, anniversaries).
	Recurs bool

	// SourceUID identifies an imported record so re-imports update instead of duplicating.
	SourceUID string

	// CreatedAt is the insertion time, used as a secondary sort key.
	CreatedAt time.Time
}

// Color returns the record theme color, falling back to the category default.
func (d SpecialDay) Color() string {
	if strings.TrimSpace(d.ThemeColor) == "" {
		return d.Type.DefaultColor()
	}
	return d.ThemeColor
}

// IsCountingForward reports whether the day is today or in the past relative to now.
// It is always derived from the date and never stored as truth.
func (d SpecialDay) IsCountingForward(now time.Time) bool {
	return IsCountingForward(now, d.Date)
}

// Countdown returns the day count and direction of the record at now.
func (d SpecialDay) Countdown(now time.Time) Countdown {
	return NewCountdown(now, d.Date)
}

// Validate checks the fields a record needs before being stored.
func (d SpecialDay) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if _, ok := dayTypes[d.Type]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownDayType, d.Type)
	}
	if d.Date.IsZero() {
		return errors.New(config.ErrDateParse)
	}
	return nil
}

// ParseDate parses a user supplied calendar date (YYYY-MM-DD or RFC3339) in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.ParseInLocation(config.DateFormatFullDash, value, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(config.DateFormatRFC3339, value); err == nil {
		return t.In(loc), nil
	}
	return time.Time{}, fmt.Errorf("%s: %q", config.ErrDateParse, value)
}
