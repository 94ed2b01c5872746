package ui

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/locale"
	"github.com/tartampluch/go-countday/internal/server"
	"github.com/tartampluch/go-countday/internal/tracker"
	"github.com/zalando/go-keyring"
)

// Service is the tracker surface used by the GUI. *tracker.Tracker satisfies it.
type Service interface {
	Now() time.Time
	Snapshot(ctx context.Context, state engine.ViewState) (tracker.Snapshot, error)
	Add(ctx context.Context, d engine.SpecialDay) (engine.SpecialDay, error)
	Update(ctx context.Context, d engine.SpecialDay) error
	Delete(ctx context.Context, id string) error
	Import(ctx context.Context, cfg engine.ImportConfig) (tracker.ImportResult, error)
	Publish(ctx context.Context) error
}

// CountDayApp holds the window, tray and scheduler state of the desktop front end.
type CountDayApp struct {
	App         fyne.App
	Window      fyne.Window
	Preferences fyne.Preferences
	Tr          *locale.Translator

	// Shared holds the keys every front end reads: view mode, first launch and language.
	Shared engine.PreferenceStore

	Ctx         context.Context

	Tracker     Service
	Server      *server.FeedServer // nil when the feed is disabled
	RefreshSpec string

	Tray desktop.App
	Menu *fyne.Menu

	TrayStatusItem   *fyne.MenuItem
	TrayAddItem      *fyne.MenuItem
	TrayImportItem   *fyne.MenuItem
	TraySettingsItem *fyne.MenuItem

	settingsWindow   fyne.Window
	onboardingDialog dialog.Dialog

	mu    sync.RWMutex
	state engine.ViewState
	snap  tracker.Snapshot

	main mainWidgets
}

// NewCountDayApp wires the desktop front end. srv may be nil.
// shared defaults to the fyne preferences when nil.
func NewCountDayApp(a fyne.App, ctx context.Context, tr *locale.Translator, svc Service, srv *server.FeedServer, refreshSpec string, shared engine.PreferenceStore) *CountDayApp {
	a.SetIcon(theme.HistoryIcon())

	prefs := a.Preferences()
	if shared == nil {
		shared = prefs
	}
	tr.SetLanguage(shared.StringWithFallback(config.PrefLanguage, tr.Language()))

	if refreshSpec == "" {
		refreshSpec = config.DefaultRefreshSpec
	}

	state := engine.LoadViewState(shared)
	return &CountDayApp{
		App:         a,
		Preferences: prefs,
		Shared:      shared,
		Tr:          tr,
		Ctx:         ctx,
		Tracker:     svc,
		Server:      srv,
		RefreshSpec: refreshSpec,
		state:       state,
		snap:        tracker.Snapshot{State: state},
	}
}

// Run starts the feed server, the tray and the refresh schedule, then blocks in the fyne loop.
func (app *CountDayApp) Run() error {
	if app.Server != nil {
		go app.serveFeed()
	}

	if desk, ok := app.App.(desktop.App); ok {
		app.Tray = desk
		app.Tray.SetSystemTrayIcon(app.App.Icon())
		app.setupTrayMenu()
	} else {
		slog.Warn(config.ErrTrayNotSupported, config.LogKeyComponent, config.CompUI)
	}

	app.ShowMainWindow()
	if engine.IsFirstLaunch(app.Shared) {
		slog.Info(config.MsgFirstLaunch, config.LogKeyComponent, config.CompUI)
		app.ShowOnboarding()
	}

	stop, err := app.startScheduler()
	if err != nil {
		return err
	}
	defer stop()

	app.App.Run()
	return nil
}

func (app *CountDayApp) serveFeed() {
	slog.Info(config.MsgServerListen,
		config.LogKeyPort, app.Server.Port,
		config.LogKeyComponent, config.CompUI)

	if err := app.Server.Start(app.Ctx); err != nil {
		slog.Error(config.ErrServerStartup,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompUI)

		app.App.SendNotification(fyne.NewNotification(
			config.TitleStartupError,
			fmt.Sprintf(config.MsgPortBusy, app.Server.Port)))
	}
}

// startScheduler refreshes once, then on every tick of the cron spec.
// The returned func stops the scheduler and waits for a running tick.
func (app *CountDayApp) startScheduler() (func(), error) {
	log := slog.With(config.LogKeyComponent, config.CompWorker)

	c := cron.New()
	if _, err := c.AddFunc(app.RefreshSpec, app.tick); err != nil {
		return nil, fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}

	app.tick()
	c.Start()
	log.Info(config.MsgWorkerStart, config.LogKeySchedule, app.RefreshSpec)

	return func() {
		<-c.Stop().Done()
		log.Info(config.MsgWorkerStop)
	}, nil
}

// tick re-derives the countdowns and republishes the feed so edits made by other processes show up.
func (app *CountDayApp) tick() {
	app.Refresh()
	if app.Server == nil {
		return
	}
	if err := app.Tracker.Publish(app.Ctx); err != nil {
		slog.Warn(config.MsgPublishFailed,
			config.LogKeyComponent, config.CompWorker,
			config.LogKeyError, err)
	}
}

// State returns the current view state.
func (app *CountDayApp) State() engine.ViewState {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.state
}

// Snapshot returns the last rendered snapshot.
func (app *CountDayApp) Snapshot() tracker.Snapshot {
	app.mu.RLock()
	defer app.mu.RUnlock()
	return app.snap
}

// Refresh recomputes the snapshot for the current state and redraws the window and the tray.
func (app *CountDayApp) Refresh() {
	state := app.State()

	snap, err := app.Tracker.Snapshot(app.Ctx, state)
	if err != nil {
		slog.Error(config.MsgRefreshFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyError, err)
		fyne.Do(func() { app.updateTrayStatus(-1) })
		return
	}

	slog.Debug(config.MsgRefresh,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyMode, state.View,
		config.LogKeyFilter, state.Filter,
		config.LogKeyCount, snap.Count())

	app.mu.Lock()
	if app.state != state {
		app.mu.Unlock()
		slog.Debug(config.MsgStaleSnapshot, config.LogKeyComponent, config.CompUI)
		return
	}
	app.snap = snap
	app.mu.Unlock()

	fyne.Do(func() {
		app.renderSnapshot(snap)
		app.updateTrayStatus(snap.Today)
	})
}

// CycleView advances the layout and persists it.
func (app *CountDayApp) CycleView() {
	app.mu.Lock()
	app.state = engine.Reduce(app.state, engine.ActionCycleView)
	mode := app.state.View
	app.mu.Unlock()

	engine.SaveViewMode(app.Shared, mode)
	slog.Info(config.MsgViewModeChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyMode, mode)
	app.Refresh()
}

// CycleFilter advances the filter for this session only.
func (app *CountDayApp) CycleFilter() {
	app.mu.Lock()
	app.state = engine.Reduce(app.state, engine.ActionCycleFilter)
	filter := app.state.Filter
	app.mu.Unlock()

	slog.Info(config.MsgFilterChanged,
		config.LogKeyComponent, config.CompUI,
		config.LogKeyFilter, filter)
	app.Refresh()
}

// CompleteOnboarding clears the first launch flag and closes the onboarding dialog.
func (app *CountDayApp) CompleteOnboarding() {
	engine.CompleteOnboarding(app.Shared)
	if app.onboardingDialog != nil {
		app.onboardingDialog.Hide()
		app.onboardingDialog = nil
	}
}

// ResetApp restores default preferences and shows the onboarding again. Records are kept.
func (app *CountDayApp) ResetApp() {
	engine.ResetPreferences(app.Shared)

	app.mu.Lock()
	app.state = engine.Reduce(app.state, engine.ActionReset)
	app.mu.Unlock()

	slog.Info(config.MsgAppReset, config.LogKeyComponent, config.CompUI)
	app.Refresh()
	app.ShowOnboarding()
}

// setupTrayMenu constructs the system tray menu.
func (app *CountDayApp) setupTrayMenu() {
	app.TrayStatusItem = fyne.NewMenuItem(config.FallbackTrayLabel, app.ShowMainWindow)
	app.TrayAddItem = fyne.NewMenuItem(app.Tr.Msg(config.TKeyMenuAdd), func() {
		app.ShowMainWindow()
		app.ShowDayDialog(nil)
	})
	app.TrayImportItem = fyne.NewMenuItem(app.Tr.Msg(config.TKeyMenuImport), func() {
		go app.performImport(true)
	})
	app.TraySettingsItem = fyne.NewMenuItem(app.Tr.Msg(config.TKeyMenuSettings), app.ShowSettingsWindow)

	app.Menu = fyne.NewMenu(config.AppName,
		app.TrayStatusItem,
		fyne.NewMenuItemSeparator(),
		app.TrayAddItem,
		app.TrayImportItem,
		app.TraySettingsItem,
	)

	if app.Tray != nil {
		app.Tray.SetSystemTrayMenu(app.Menu)
	}
}

// RefreshTrayMenu updates localized labels in the tray menu.
func (app *CountDayApp) RefreshTrayMenu() {
	if app.Menu == nil {
		return
	}
	app.TrayAddItem.Label = app.Tr.Msg(config.TKeyMenuAdd)
	app.TrayImportItem.Label = app.Tr.Msg(config.TKeyMenuImport)
	app.TraySettingsItem.Label = app.Tr.Msg(config.TKeyMenuSettings)
	app.Menu.Refresh()
}

// updateTrayStatus shows how many special days fall on today. A negative count reports an error.
func (app *CountDayApp) updateTrayStatus(count int) {
	if app.Menu == nil || app.TrayStatusItem == nil {
		return
	}

	var label string
	switch {
	case count < 0:
		label = config.FallbackTrayError
	case count == 0:
		label = app.Tr.Msg(config.TKeyTrayStatusZero)
	default:
		label = app.Tr.Plural(config.TKeyTrayStatus, count, nil)
		if label == config.TKeyTrayStatus {
			label = fmt.Sprintf(config.FallbackTrayDefault, count)
		}
	}

	app.TrayStatusItem.Label = label
	app.Menu.Refresh()
}

// applyLanguage switches the translator and relabels every open surface.
func (app *CountDayApp) applyLanguage(lang string) {
	app.Tr.SetLanguage(lang)
	app.RefreshTrayMenu()

	if app.Window != nil {
		app.Window.SetTitle(app.Tr.Msg(config.TKeyWinTitle))
		app.Window.SetContent(app.buildMainContent())
		app.renderSnapshot(app.Snapshot())
	}
	app.updateTrayStatus(app.Snapshot().Today)
}

// loadImportConfig assembles the import source from preferences and the keyring.
func (app *CountDayApp) loadImportConfig() engine.ImportConfig {
	cfg := engine.ImportConfig{
		Mode:      app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal),
		LocalPath: app.Preferences.String(config.PrefLocalPath),
		WebURL:    app.Preferences.String(config.PrefCardDAVURL),
		WebUser:   app.Preferences.String(config.PrefUsername),
	}

	if cfg.WebUser != "" {
		if p, err := keyring.Get(config.KeyringService, cfg.WebUser); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, cfg.WebUser,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompUI)
		}
	}
	return cfg
}

// performImport pulls contact dates into the store. Manual imports report the outcome as a notification.
func (app *CountDayApp) performImport(manual bool) (tracker.ImportResult, error) {
	cfg := app.loadImportConfig()
	res, err := app.Tracker.Import(app.Ctx, cfg)
	if err != nil {
		slog.Error(config.MsgImportFailed,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyMode, cfg.Mode,
			config.LogKeyError, err)
		if manual {
			app.App.SendNotification(fyne.NewNotification(config.AppName, app.Tr.Msg(config.TKeyNotifImportErr)))
		}
		return res, err
	}

	if manual {
		app.App.SendNotification(fyne.NewNotification(config.AppName,
			app.Tr.Plural(config.TKeyNotifImportOK, res.Total(), nil)))
	}
	app.Refresh()
	return res, nil
}

// newHintItem builds a form row with hint text.
func newHintItem(label string, w fyne.CanvasObject, hint string) *widget.FormItem {
	item := widget.NewFormItem(label, w)
	item.HintText = hint
	return item
}
