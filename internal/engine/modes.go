package engine

import (
	"errors"
	"fmt"
	"time"

	"github.com/tartampluch/go-countday/internal/config"
)

var (
	// ErrUnknownViewMode is returned when a view mode name is not recognized.
	ErrUnknownViewMode = errors.New("unknown view mode")

	// ErrUnknownFilterMode is returned when a filter mode name is not recognized.
	ErrUnknownFilterMode = errors.New("unknown filter mode")
)

// ViewMode is the layout used to render the record collection.
type ViewMode string

const (
	ViewList  ViewMode = "list"
	ViewCards ViewMode = "cards"
	ViewGrid  ViewMode = "grid"

	// DefaultViewMode is used on first launch and when the stored preference is unreadable.
	DefaultViewMode = ViewCards
)

// AllViewModes lists the view modes in cycle order.
var AllViewModes = []ViewMode{ViewList, ViewCards, ViewGrid}

// Next returns the successor in the fixed cycle list -> cards -> grid -> list.
func (m ViewMode) Next() ViewMode {
	switch m {
	case ViewList:
		return ViewCards
	case ViewCards:
		return ViewGrid
	case ViewGrid:
		return ViewList
	default:
		return DefaultViewMode
	}
}

// TitleKey returns the translation key of the mode label.
func (m ViewMode) TitleKey() string {
	switch m {
	case ViewList:
		return config.TKeyViewList
	case ViewGrid:
		return config.TKeyViewGrid
	default:
		return config.TKeyViewCards
	}
}

// Icon returns the icon identifier of the mode.
func (m ViewMode) Icon() string {
	switch m {
	case ViewList:
		return "list"
	case ViewGrid:
		return "grid"
	default:
		return "cards"
	}
}

// ParseViewMode resolves a stored or user supplied view mode name.
func ParseViewMode(s string) (ViewMode, error) {
	for _, m := range AllViewModes {
		if string(m) == s {
			return m, nil
		}
	}
	return DefaultViewMode, fmt.Errorf("%w: %q", ErrUnknownViewMode, s)
}

// FilterMode selects which records are shown.
type FilterMode string

const (
	FilterAll      FilterMode = "all"
	FilterUpcoming FilterMode = "upcoming"
	FilterPast     FilterMode = "past"

	// DefaultFilterMode is the session start filter. Filter modes are never persisted.
	DefaultFilterMode = FilterAll
)

// AllFilterModes lists the filter modes in cycle order.
var AllFilterModes = []FilterMode{FilterAll, FilterUpcoming, FilterPast}

// Next returns the successor in the fixed cycle all -> upcoming -> past -> all.
func (f FilterMode) Next() FilterMode {
	switch f {
	case FilterAll:
		return FilterUpcoming
	case FilterUpcoming:
		return FilterPast
	case FilterPast:
		return FilterAll
	default:
		return DefaultFilterMode
	}
}

// TitleKey returns the translation key of the filter label.
func (f FilterMode) TitleKey() string {
	switch f {
	case FilterUpcoming:
		return config.TKeyFilterUpcoming
	case FilterPast:
		return config.TKeyFilterPast
	default:
		return config.TKeyFilterAll
	}
}

// Icon returns the icon identifier of the filter.
func (f FilterMode) Icon() string {
	switch f {
	case FilterUpcoming:
		return "arrow.forward"
	case FilterPast:
		return "arrow.backward"
	default:
		return "calendar"
	}
}

// ParseFilterMode resolves a user supplied filter mode name.
func ParseFilterMode(s string) (FilterMode, error) {
	for _, f := range AllFilterModes {
		if string(f) == s {
			return f, nil
		}
	}
	return DefaultFilterMode, fmt.Errorf("%w: %q", ErrUnknownFilterMode, s)
}

// Matches reports whether a record belongs to the filter at now.
func (f FilterMode) Matches(day SpecialDay, now time.Time) bool {
	switch f {
	case FilterUpcoming:
		return !day.IsCountingForward(now)
	case FilterPast:
		return day.IsCountingForward(now)
	default:
		return true
	}
}

// Apply returns the records matching the filter, preserving input order.
func (f FilterMode) Apply(days []SpecialDay, now time.Time) []SpecialDay {
	out := make([]SpecialDay, 0, len(days))
	for _, d := range days {
		if f.Matches(d, now) {
			out = append(out, d)
		}
	}
	return out
}
