// Package term renders special days in the terminal, either as static output
// for the CLI or through an interactive bubbletea program.
package term

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/tracker"
)

// Translator is the subset of *locale.Translator used by the renderers.
type Translator interface {
	Msg(key string) string
	Format(key string, data map[string]any) string
	Plural(key string, count int, data map[string]any) string
}

var glyphs = map[string]string{
	"gift":           "🎁",
	"heart":          "♥",
	"nosign":         "🚭",
	"sun":            "☀",
	"graduation":     "🎓",
	"star":           "★",
	"list":           "☰",
	"cards":          "▤",
	"grid":           "▦",
	"calendar":       "◷",
	"arrow.forward":  "→",
	"arrow.backward": "←",
}

// Glyph maps an icon identifier to a terminal symbol.
func Glyph(icon string) string {
	if g, ok := glyphs[icon]; ok {
		return g
	}
	return "•"
}

// Renderer draws a snapshot in one of the three layouts.
type Renderer struct {
	tr    Translator
	width int
}

// NewRenderer creates a renderer for a terminal of the given width. Zero uses a default.
func NewRenderer(tr Translator, width int) *Renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &Renderer{tr: tr, width: width}
}

// Render draws the header, statistics and entries in the snapshot view mode.
// selected is the highlighted entry index, or -1.
func (r *Renderer) Render(snap tracker.Snapshot, selected int) string {
	parts := []string{
		headerStyle.Render(r.tr.Msg(config.TKeyHeaderTitle)),
		r.Stats(snap.Stats),
		navStyle.Render(Glyph(snap.State.Filter.Icon()) + " " + snap.NavTitle(r.tr) +
			mutedStyle.Render("  "+Glyph(snap.State.View.Icon())+" "+r.tr.Msg(snap.State.View.TitleKey()))),
	}

	if len(snap.Entries) == 0 {
		parts = append(parts, mutedStyle.Padding(1, 1).Render(r.tr.Msg(config.TKeyEmptyList)))
		return lipgloss.JoinVertical(lipgloss.Left, parts...)
	}

	switch snap.State.View {
	case engine.ViewList:
		parts = append(parts, r.List(snap.Entries, selected))
	case engine.ViewGrid:
		parts = append(parts, r.Grid(snap.Entries, selected))
	default:
		parts = append(parts, r.Cards(snap.Entries, selected))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// Stats draws the Total / Upcoming / Past header.
func (r *Renderer) Stats(s engine.Stats) string {
	cols := []struct {
		value int
		key   string
	}{
		{s.Total, config.TKeyStatTotal},
		{s.Upcoming, config.TKeyStatUpcoming},
		{s.Past, config.TKeyStatPast},
	}
	cells := make([]string, 0, len(cols))
	for _, c := range cols {
		cells = append(cells, lipgloss.JoinVertical(lipgloss.Center,
			statValueStyle.Render(strconv.Itoa(c.value)),
			statLabelStyle.Render(r.tr.Msg(c.key)),
		))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// DaysLabel returns "days left" / "days since", or "Today".
func (r *Renderer) DaysLabel(c engine.Countdown) string {
	if c.IsToday() {
		return r.tr.Msg(config.TKeyToday)
	}
	return r.tr.Plural(c.LabelKey(), c.Days, nil)
}

func (r *Renderer) date(e tracker.Entry) string {
	return e.Day.Date.Format(r.tr.Msg(config.TKeyFormatDate))
}

func (r *Renderer) next(e tracker.Entry) string {
	if e.Next.IsZero() || (e.NextDays == 0 && e.Countdown.IsToday()) {
		return ""
	}
	return r.tr.Plural(config.TKeyNextOccurrence, e.NextDays, nil)
}

func accent(e tracker.Entry) lipgloss.Color {
	return lipgloss.Color(e.Color.Hex())
}

// List draws one compact line per entry.
func (r *Renderer) List(entries []tracker.Entry, selected int) string {
	lines := make([]string, 0, len(entries))
	for i, e := range entries {
		days := lipgloss.NewStyle().
			Foreground(accent(e)).
			Bold(true).
			Width(listDaysWidth).
			Align(lipgloss.Right).
			Render(strconv.Itoa(e.Countdown.Days))

		line := fmt.Sprintf("%s %s %s  %s  %s",
			Glyph(e.Day.Type.Icon()),
			days,
			mutedStyle.Render(r.DaysLabel(e.Countdown)),
			e.Day.Title,
			mutedStyle.Render(r.date(e)))
		if i == selected {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, " "+line)
	}
	return strings.Join(lines, "\n")
}

func (r *Renderer) cardWidth() int {
	w := r.width - 4
	if w > maxCardWidth {
		w = maxCardWidth
	}
	if w < minCardWidth {
		w = minCardWidth
	}
	return w
}

// Cards draws one bordered card per entry, stacked vertically.
func (r *Renderer) Cards(entries []tracker.Entry, selected int) string {
	width := r.cardWidth()
	cards := make([]string, 0, len(entries))
	for i, e := range entries {
		title := lipgloss.NewStyle().Bold(true).Render(Glyph(e.Day.Type.Icon()) + " " + e.Day.Title)
		countdown := lipgloss.NewStyle().Foreground(accent(e)).Bold(true).Render(strconv.Itoa(e.Countdown.Days)) +
			" " + r.DaysLabel(e.Countdown)

		lines := []string{
			title,
			mutedStyle.Render(r.tr.Msg(e.Day.Type.TitleKey()) + " · " + r.date(e)),
			countdown,
		}
		if n := r.next(e); n != "" {
			lines = append(lines, mutedStyle.Render(n))
		}

		style := cardStyle.Width(width).BorderForeground(accent(e))
		if i == selected {
			style = style.BorderStyle(lipgloss.ThickBorder())
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

// Grid draws compact tiles, config.GridColumns per row.
func (r *Renderer) Grid(entries []tracker.Entry, selected int) string {
	cols := config.GridColumns
	width := r.width/cols - 2
	if width < minCardWidth/2 {
		width = minCardWidth / 2
	}

	var rows []string
	for start := 0; start < len(entries); start += cols {
		end := start + cols
		if end > len(entries) {
			end = len(entries)
		}
		cells := make([]string, 0, cols)
		for i := start; i < end; i++ {
			e := entries[i]
			content := lipgloss.JoinVertical(lipgloss.Center,
				Glyph(e.Day.Type.Icon()),
				lipgloss.NewStyle().Foreground(accent(e)).Bold(true).Render(strconv.Itoa(e.Countdown.Days)),
				mutedStyle.Render(r.DaysLabel(e.Countdown)),
				e.Day.Title,
			)
			style := gridCellStyle.Width(width).BorderForeground(accent(e))
			if i == selected {
				style = style.BorderStyle(lipgloss.ThickBorder())
			}
			cells = append(cells, style.Render(content))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
