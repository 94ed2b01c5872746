package term

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/tracker"
)

// Source provides snapshots and deletion. *tracker.Tracker satisfies it.
type Source interface {
	Snapshot(ctx context.Context, state engine.ViewState) (tracker.Snapshot, error)
	Delete(ctx context.Context, id string) error
}

// refreshInterval re-derives countdowns so day boundaries are picked up while running.
const refreshInterval = time.Minute

type (
	tickMsg     time.Time
	snapshotMsg struct {
		snap tracker.Snapshot
		err  error
	}
	deletedMsg struct{ err error }
)

// Model is the interactive terminal application.
type Model struct {
	ctx    context.Context
	source Source
	prefs  engine.PreferenceStore
	tr     Translator

	state    engine.ViewState
	snap     tracker.Snapshot
	err      error
	selected int
	width    int

	// pending is the record awaiting delete confirmation, captured when "d" is pressed.
	pending *engine.SpecialDay

	onboarding bool
	quitting   bool
}

// NewModel restores the persisted view mode and checks the first launch flag.
func NewModel(ctx context.Context, source Source, prefs engine.PreferenceStore, tr Translator) Model {
	m := Model{
		ctx:        ctx,
		source:     source,
		prefs:      prefs,
		tr:         tr,
		state:      engine.LoadViewState(prefs),
		onboarding: engine.IsFirstLaunch(prefs),
	}
	if m.onboarding {
		slog.Info(config.MsgFirstLaunch, config.LogKeyComponent, config.CompTerm)
	}
	return m
}

// State returns the current view state.
func (m Model) State() engine.ViewState {
	return m.state
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) load() tea.Cmd {
	ctx, source, state := m.ctx, m.source, m.state
	return func() tea.Msg {
		snap, err := source.Snapshot(ctx, state)
		return snapshotMsg{snap: snap, err: err}
	}
}

func (m Model) remove(id string) tea.Cmd {
	ctx, source := m.ctx, m.source
	return func() tea.Msg {
		return deletedMsg{err: source.Delete(ctx, id)}
	}
}

// Init loads the first snapshot and starts the refresh tick.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.load(), tick())
}

// Update handles keys, refresh ticks and asynchronous results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		slog.Debug(config.MsgRefresh, config.LogKeyComponent, config.CompTerm)
		return m, tea.Batch(m.load(), tick())

	case snapshotMsg:
		if msg.err != nil {
			m.err = msg.err
			slog.Warn(config.MsgRefreshFailed,
				config.LogKeyComponent, config.CompTerm,
				config.LogKeyError, msg.err)
			return m, nil
		}
		if msg.snap.State != m.state {
			slog.Debug(config.MsgStaleSnapshot, config.LogKeyComponent, config.CompTerm)
			return m, nil
		}
		m.err = nil
		m.snap = msg.snap
		m.clampSelection()
		if m.pending != nil && !m.snap.Contains(m.pending.ID) {
			m.pending = nil
		}
		return m, nil

	case deletedMsg:
		m.err = msg.err
		return m, m.load()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if key == "ctrl+c" {
		m.quitting = true
		return m, tea.Quit
	}

	if m.onboarding {
		if key == "enter" || key == " " {
			engine.CompleteOnboarding(m.prefs)
			m.onboarding = false
		}
		return m, nil
	}

	if m.pending != nil {
		id := m.pending.ID
		m.pending = nil
		if key == "y" {
			return m, m.remove(id)
		}
		return m, nil
	}

	switch key {
	case "q", "esc":
		m.quitting = true
		return m, tea.Quit
	case "v":
		m.state = engine.Reduce(m.state, engine.ActionCycleView)
		engine.SaveViewMode(m.prefs, m.state.View)
		slog.Debug(config.MsgViewModeChanged,
			config.LogKeyComponent, config.CompTerm,
			config.LogKeyMode, string(m.state.View))
		return m, m.load()
	case "f":
		m.state = engine.Reduce(m.state, engine.ActionCycleFilter)
		m.selected = 0
		slog.Debug(config.MsgFilterChanged,
			config.LogKeyComponent, config.CompTerm,
			config.LogKeyFilter, string(m.state.Filter))
		return m, m.load()
	case "r":
		return m, m.load()
	case "up", "k":
		if m.selected > 0 {
			m.selected--
		}
	case "down", "j":
		if m.selected < len(m.snap.Entries)-1 {
			m.selected++
		}
	case "d", "delete":
		if m.selected >= 0 && m.selected < len(m.snap.Entries) {
			day := m.snap.Entries[m.selected].Day
			m.pending = &day
		}
	case "o":
		m.onboarding = true
	}
	return m, nil
}

func (m *Model) clampSelection() {
	if m.selected >= len(m.snap.Entries) {
		m.selected = len(m.snap.Entries) - 1
	}
	if m.selected < 0 {
		m.selected = 0
	}
}

// View draws the current screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.onboarding {
		return m.viewOnboarding()
	}

	r := NewRenderer(m.tr, m.width)
	body := r.Render(m.snap, m.selected)

	var footer string
	switch {
	case m.pending != nil:
		footer = errorStyle.Padding(1, 1, 0, 1).Render(
			m.tr.Format(config.TKeyDlgDeleteMsg, map[string]any{"Title": m.pending.Title}) + " [y/N]")
	case m.err != nil:
		footer = errorStyle.Padding(1, 1, 0, 1).Render(m.err.Error())
	default:
		footer = helpStyle.Render(fmt.Sprintf("v %s · f %s · ↑/↓ · d %s · o %s · q",
			m.tr.Msg(m.state.View.Next().TitleKey()),
			m.tr.Msg(m.state.Filter.Next().TitleKey()),
			m.tr.Msg(config.TKeyBtnDelete),
			m.tr.Msg(config.TKeyBtnOnboarding)))
	}
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m Model) viewOnboarding() string {
	width := NewRenderer(m.tr, m.width).cardWidth()
	return lipgloss.JoinVertical(lipgloss.Left,
		headerStyle.Render(config.AppName),
		navStyle.Render(m.tr.Msg(config.TKeyOnboardTitle)),
		lipgloss.NewStyle().Width(width).Padding(1, 1).Render(m.tr.Msg(config.TKeyOnboardBody)),
		helpStyle.Render("enter: "+m.tr.Msg(config.TKeyBtnGetStarted)),
	)
}

// Run starts the full-screen program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, source Source, prefs engine.PreferenceStore, tr Translator) error {
	p := tea.NewProgram(NewModel(ctx, source, prefs, tr), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
