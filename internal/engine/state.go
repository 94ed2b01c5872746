package engine

import (
	"log/slog"
	"time"

	"github.com/tartampluch/go-countday/internal/config"
)

// ViewState is the session display state shared by every front end.
type ViewState struct {
	View   ViewMode
	Filter FilterMode
}

// DefaultViewState returns the state of a fresh session.
func DefaultViewState() ViewState {
	return ViewState{View: DefaultViewMode, Filter: DefaultFilterMode}
}

// Action is a user intent applied to a ViewState.
type Action int

const (
	ActionCycleView Action = iota
	ActionCycleFilter
	ActionReset
)

// Reduce applies an action and returns the new state. It has no side effects.
func Reduce(state ViewState, action Action) ViewState {
	switch action {
	case ActionCycleView:
		state.View = state.View.Next()
	case ActionCycleFilter:
		state.Filter = state.Filter.Next()
	case ActionReset:
		state = DefaultViewState()
	}
	return state
}

// Stats summarizes a record collection at a given instant.
type Stats struct {
	Total    int
	Upcoming int
	Past     int
}

// ComputeStats counts countdowns and count-ups.
func ComputeStats(days []SpecialDay, now time.Time) Stats {
	s := Stats{Total: len(days)}
	for _, d := range days {
		if d.IsCountingForward(now) {
			s.Past++
		} else {
			s.Upcoming++
		}
	}
	return s
}

// CountToday returns how many records fall on the current date.
func CountToday(days []SpecialDay, now time.Time) int {
	n := 0
	for _, d := range days {
		if CalendarDaysBetween(now, d.Date) == 0 {
			n++
		}
	}
	return n
}

// PreferenceStore is the key-value slot used to persist the view mode and first launch flag.
// fyne.Preferences satisfies it, as does config.FilePreferences.
type PreferenceStore interface {
	StringWithFallback(key, fallback string) string
	SetString(key, value string)
	BoolWithFallback(key string, fallback bool) bool
	SetBool(key string, value bool)
}

// LoadViewState restores the persisted view mode. The filter always starts at its default.
func LoadViewState(p PreferenceStore) ViewState {
	state := DefaultViewState()
	stored := p.StringWithFallback(config.PrefViewMode, string(DefaultViewMode))
	mode, err := ParseViewMode(stored)
	if err != nil {
		slog.Warn(config.MsgBadViewMode,
			config.LogKeyComponent, config.CompEngine,
			config.LogKeyMode, stored,
			config.LogKeyError, err)
	}
	state.View = mode
	return state
}

// SaveViewMode persists the view mode. Filter modes are session scoped and never saved.
func SaveViewMode(p PreferenceStore, mode ViewMode) {
	p.SetString(config.PrefViewMode, string(mode))
}

// IsFirstLaunch reports whether onboarding has not been completed yet.
func IsFirstLaunch(p PreferenceStore) bool {
	return p.BoolWithFallback(config.PrefFirstLaunch, true)
}

// CompleteOnboarding clears the first launch flag.
func CompleteOnboarding(p PreferenceStore) {
	p.SetBool(config.PrefFirstLaunch, false)
}

// ResetPreferences restores the first launch flag and the default view mode.
func ResetPreferences(p PreferenceStore) {
	p.SetBool(config.PrefFirstLaunch, true)
	p.SetString(config.PrefViewMode, string(DefaultViewMode))
}
