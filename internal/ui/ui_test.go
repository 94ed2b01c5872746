package ui

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/locale"
	"github.com/tartampluch/go-countday/internal/server"
	"github.com/tartampluch/go-countday/internal/store"
	"github.com/tartampluch/go-countday/internal/tracker"
	"github.com/zalando/go-keyring"
)

var testNow = time.Date(2025, 4, 1, 9, 0, 0, 0, time.UTC)

// -----------------------------------------------------------------------------
// Mocks
// -----------------------------------------------------------------------------

// MockFetcher simulates the engine.VCardFetcher interface using testify/mock.
type MockFetcher struct {
	mock.Mock
}

func (m *MockFetcher) Fetch(ctx context.Context, url, user, pass string) (io.ReadCloser, error) {
	args := m.Called(ctx, url, user, pass)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

// MockTray implements minimal system tray functionality for headless testing.
type MockTray struct {
	Menu *fyne.Menu
}

func (m *MockTray) SetSystemTrayMenu(menu *fyne.Menu)    { m.Menu = menu }
func (m *MockTray) SetSystemTrayIcon(icon fyne.Resource) {}
func (m *MockTray) SetSystemTrayWindow(w fyne.Window)    {}

// failingService returns the same error from every call.
type failingService struct {
	Service
	err error
}

func (f failingService) Now() time.Time { return testNow }
func (f failingService) Snapshot(context.Context, engine.ViewState) (tracker.Snapshot, error) {
	return tracker.Snapshot{}, f.err
}

// -----------------------------------------------------------------------------
// Test Setup Helper
// -----------------------------------------------------------------------------

type fixture struct {
	app     *CountDayApp
	tracker *tracker.Tracker
	fetcher *MockFetcher
	tray    *MockTray
	server  *server.FeedServer
}

// setupTestApp builds a headless app over a real store in a temp dir, with a fixed clock.
func setupTestApp(t *testing.T) *fixture {
	t.Helper()
	keyring.MockInit()

	a := test.NewApp()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	clock := engine.FixedClock(testNow)
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "ui.db"), clock, time.UTC)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	srv := server.NewFeedServer("0")
	fetcher := new(MockFetcher)
	trk := tracker.New(s, clock, fetcher, srv)

	shared, err := config.OpenPreferences(filepath.Join(t.TempDir(), config.PrefsFileName))
	require.NoError(t, err)

	app := NewCountDayApp(a, ctx, locale.New("en"), trk, srv, "", shared)
	tray := &MockTray{}
	app.Tray = tray
	app.setupTrayMenu()

	return &fixture{app: app, tracker: trk, fetcher: fetcher, tray: tray, server: srv}
}

func (f *fixture) add(t *testing.T, title string, offsetDays int) engine.SpecialDay {
	t.Helper()
	d, err := f.tracker.Add(context.Background(), engine.SpecialDay{
		Title: title,
		Type:  engine.TypeCustom,
		Date:  testNow.AddDate(0, 0, offsetDays),
	})
	require.NoError(t, err)
	return d
}

// -----------------------------------------------------------------------------
// View State Tests
// -----------------------------------------------------------------------------

func TestNewCountDayApp_RestoresViewMode(t *testing.T) {
	f := setupTestApp(t)
	assert.Equal(t, engine.DefaultViewState(), f.app.State())

	f.app.Shared.SetString(config.PrefViewMode, string(engine.ViewGrid))
	other := NewCountDayApp(f.app.App, f.app.Ctx, locale.New("en"), f.tracker, nil, "", f.app.Shared)
	assert.Equal(t, engine.ViewGrid, other.State().View)
	assert.Equal(t, engine.FilterAll, other.State().Filter)
}

func TestCycleView_PersistsAndRelabels(t *testing.T) {
	f := setupTestApp(t)
	f.app.ShowMainWindow()

	f.app.CycleView()
	assert.Equal(t, engine.ViewGrid, f.app.State().View)
	assert.Equal(t, string(engine.ViewGrid), f.app.Shared.StringWithFallback(config.PrefViewMode, ""))
	assert.Equal(t, "Grid View", f.app.main.viewBtn.Text)

	f.app.CycleView()
	f.app.CycleView()
	assert.Equal(t, engine.ViewCards, f.app.State().View, "three steps return to the start")
}

func TestCycleFilter_UpdatesNavTitleOnly(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Trip", 5)
	f.add(t, "Quit", -10)
	f.app.ShowMainWindow()
	f.app.Refresh()

	assert.Equal(t, "All Events (2)", f.app.main.nav.Text)

	f.app.CycleFilter()
	assert.Equal(t, "Upcoming Events (1)", f.app.main.nav.Text)
	require.Len(t, f.app.Snapshot().Entries, 1)
	assert.Equal(t, "Trip", f.app.Snapshot().Entries[0].Day.Title)
	assert.Equal(t, 5, f.app.Snapshot().Entries[0].Countdown.Days)

	f.app.CycleFilter()
	assert.Equal(t, "Past Events (1)", f.app.main.nav.Text)
	assert.Equal(t, 10, f.app.Snapshot().Entries[0].Countdown.Days)

	assert.Empty(t, f.app.Shared.StringWithFallback(config.PrefViewMode, ""), "filters are never persisted")
}

func TestRefresh_StatsAndEmptyState(t *testing.T) {
	f := setupTestApp(t)
	f.app.ShowMainWindow()
	f.app.Refresh()

	assert.Equal(t, "0", f.app.main.total.Text)
	assert.Equal(t, "All Events (0)", f.app.main.nav.Text)

	f.add(t, "Trip", 5)
	f.add(t, "Launch", 0)
	f.add(t, "Quit", -10)
	f.app.Refresh()

	assert.Equal(t, "3", f.app.main.total.Text)
	assert.Equal(t, "1", f.app.main.upcoming.Text)
	assert.Equal(t, "2", f.app.main.past.Text, "today counts forward")
}

func TestRefresh_EveryLayoutRenders(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Trip", 5)
	f.app.ShowMainWindow()

	for range engine.AllViewModes {
		f.app.CycleView()
		require.Len(t, f.app.main.body.Objects, 1)
		assert.NotNil(t, f.app.main.body.Objects[0])
	}
}

func TestRefresh_ErrorMarksTray(t *testing.T) {
	f := setupTestApp(t)
	f.app.Tracker = failingService{err: errors.New("disk gone")}

	f.app.Refresh()
	assert.Equal(t, config.FallbackTrayError, f.app.TrayStatusItem.Label)
}

// cyclingService changes the filter while the first snapshot is being computed,
// like a cron tick racing a button press.
type cyclingService struct {
	Service
	app  *CountDayApp
	once bool
}

func (c *cyclingService) Snapshot(ctx context.Context, state engine.ViewState) (tracker.Snapshot, error) {
	if !c.once {
		c.once = true
		c.app.CycleFilter()
	}
	return c.Service.Snapshot(ctx, state)
}

func TestRefresh_DropsSnapshotOfPreviousState(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Trip", 5)
	f.add(t, "Quit", -10)
	f.app.ShowMainWindow()
	f.app.Tracker = &cyclingService{Service: f.tracker, app: f.app}

	f.app.Refresh()

	assert.Equal(t, engine.FilterUpcoming, f.app.State().Filter)
	assert.Equal(t, engine.FilterUpcoming, f.app.Snapshot().State.Filter)
	assert.Equal(t, 1, f.app.Snapshot().Count())
	assert.Equal(t, "Upcoming Events (1)", f.app.main.nav.Text)
}

// -----------------------------------------------------------------------------
// Tray Tests
// -----------------------------------------------------------------------------

func TestTrayStatusUpdate_Logic(t *testing.T) {
	f := setupTestApp(t)

	f.app.updateTrayStatus(-1)
	assert.Equal(t, config.FallbackTrayError, f.app.TrayStatusItem.Label)

	f.app.updateTrayStatus(0)
	assert.Equal(t, "No special day today", f.app.TrayStatusItem.Label)

	f.app.updateTrayStatus(1)
	assert.Equal(t, "1 special day today", f.app.TrayStatusItem.Label)

	f.app.updateTrayStatus(10)
	assert.Equal(t, "10 special days today", f.app.TrayStatusItem.Label)

	assert.Same(t, f.app.Menu, f.tray.Menu)
}

func TestRefresh_TrayCountsToday(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Launch", 0)
	f.add(t, "Trip", 5)

	f.app.Refresh()
	assert.Equal(t, "1 special day today", f.app.TrayStatusItem.Label)
}

// -----------------------------------------------------------------------------
// Add / Edit / Delete Tests
// -----------------------------------------------------------------------------

func TestDayForm_Validation(t *testing.T) {
	tr := locale.New("en")
	form := newDayForm(tr, nil, testNow)

	assert.Equal(t, "2025-04-01", form.date.Text)
	assert.Equal(t, engine.TypeCustom, form.selectedType())
	assert.False(t, form.recurs.Checked)

	assert.EqualError(t, form.title.Validator(" "), "A title is required")
	assert.EqualError(t, form.date.Validator("01/04/2025"), "Use the YYYY-MM-DD format")
	assert.EqualError(t, form.color.Validator("zz"), "Use #RGB, #RRGGBB or #AARRGGBB")
	assert.NoError(t, form.color.Validator(""))
	assert.NoError(t, form.color.Validator("#F00"))

	form.kind.SetSelectedIndex(typeIndex(engine.TypeBirthday))
	assert.True(t, form.recurs.Checked, "birthdays repeat by default")
	form.kind.SetSelectedIndex(typeIndex(engine.TypeHoliday))
	assert.False(t, form.recurs.Checked)
}

func TestSaveDay_AddThenEdit(t *testing.T) {
	f := setupTestApp(t)
	f.app.ShowMainWindow()

	form := newDayForm(f.app.Tr, nil, testNow)
	form.title.SetText("  Trip to Japan ")
	form.date.SetText("2025-04-06")
	form.kind.SetSelectedIndex(typeIndex(engine.TypeHoliday))
	form.color.SetText("#42A5F5")

	require.NoError(t, f.app.saveDay(form, nil))

	snap := f.app.Snapshot()
	require.Len(t, snap.Entries, 1)
	created := snap.Entries[0].Day
	assert.Equal(t, "Trip to Japan", created.Title)
	assert.Equal(t, engine.TypeHoliday, created.Type)
	assert.Equal(t, 5, snap.Entries[0].Countdown.Days)
	assert.False(t, snap.Entries[0].Countdown.Forward)

	edit := newDayForm(f.app.Tr, &created, testNow)
	assert.Equal(t, "2025-04-06", edit.date.Text)
	edit.title.SetText("Trip to Kyoto")
	require.NoError(t, f.app.saveDay(edit, &created))

	snap = f.app.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, created.ID, snap.Entries[0].Day.ID)
	assert.Equal(t, "Trip to Kyoto", snap.Entries[0].Day.Title)
}

func TestSaveDay_RejectsInvalidInput(t *testing.T) {
	f := setupTestApp(t)

	form := newDayForm(f.app.Tr, nil, testNow)
	form.date.SetText("not a date")
	assert.Error(t, f.app.saveDay(form, nil))

	form.date.SetText("2025-04-06")
	form.title.SetText("")
	assert.ErrorIs(t, f.app.saveDay(form, nil), engine.ErrEmptyTitle)
}

func TestDeleteDay(t *testing.T) {
	f := setupTestApp(t)
	trip := f.add(t, "Trip", 5)
	f.add(t, "Quit", -10)

	require.NoError(t, f.app.deleteDay(trip.ID))
	snap := f.app.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Quit", snap.Entries[0].Day.Title)

	assert.ErrorIs(t, f.app.deleteDay(trip.ID), store.ErrNotFound)
}

// -----------------------------------------------------------------------------
// Onboarding & Reset Tests
// -----------------------------------------------------------------------------

func TestOnboarding_FirstLaunchFlow(t *testing.T) {
	f := setupTestApp(t)
	assert.True(t, engine.IsFirstLaunch(f.app.Shared))

	f.app.ShowOnboarding()
	require.NotNil(t, f.app.onboardingDialog)

	f.app.CompleteOnboarding()
	assert.Nil(t, f.app.onboardingDialog)
	assert.False(t, engine.IsFirstLaunch(f.app.Shared))
}

func TestResetApp_RestoresDefaultsAndKeepsRecords(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Trip", 5)
	f.app.CompleteOnboarding()
	f.app.CycleView()
	f.app.CycleFilter()

	f.app.ResetApp()

	assert.True(t, engine.IsFirstLaunch(f.app.Shared))
	assert.Equal(t, engine.DefaultViewState(), f.app.State())
	assert.Equal(t, string(engine.DefaultViewMode), f.app.Shared.StringWithFallback(config.PrefViewMode, ""))
	assert.NotNil(t, f.app.onboardingDialog, "onboarding is shown again")
	assert.Equal(t, 1, f.app.Snapshot().Stats.Total)
}

// -----------------------------------------------------------------------------
// Settings Tests
// -----------------------------------------------------------------------------

func TestSaveSettings_LanguageAndSource(t *testing.T) {
	f := setupTestApp(t)
	f.app.ShowMainWindow()

	sw := f.app.newSettingsWidgets()
	assert.Equal(t, config.DefaultPort, sw.entryPort.Text)

	sw.langSelect.SetSelected("fr")
	sw.modeSelect.SetSelected(f.app.Tr.Msg(config.TKeyModeCardDAV))
	sw.urlEntry.SetText("https://dav.example.com/book.vcf")
	sw.userEntry.SetText("alice")
	sw.passEntry.SetText("s3cret")
	sw.entryPort.SetText("9090")

	require.NoError(t, f.app.saveSettings(sw))

	assert.Equal(t, "fr", f.app.Tr.Language())
	assert.Equal(t, "fr", f.app.Shared.StringWithFallback(config.PrefLanguage, ""))
	assert.Empty(t, f.app.Preferences.String(config.PrefLanguage), "language lives in the shared store")
	assert.Equal(t, config.SourceModeWeb, f.app.Preferences.String(config.PrefSourceMode))
	assert.Equal(t, "9090", f.app.Preferences.String(config.PrefServerPort))
	assert.Equal(t, "Paramètres", f.app.TraySettingsItem.Label)

	pass, err := keyring.Get(config.KeyringService, "alice")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", pass)

	cfg := f.app.loadImportConfig()
	assert.Equal(t, engine.ImportConfig{
		Mode:    config.SourceModeWeb,
		WebURL:  "https://dav.example.com/book.vcf",
		WebUser: "alice",
		WebPass: "s3cret",
	}, cfg)
}

func TestSaveSettings_PortValidation(t *testing.T) {
	f := setupTestApp(t)
	sw := f.app.newSettingsWidgets()

	tests := []struct {
		port string
		want string
	}{
		{"", "Port is required"},
		{"99999", "Port must be between 1 and 65535"},
		{"0", "Port must be between 1 and 65535"},
	}
	for _, tt := range tests {
		t.Run(tt.port, func(t *testing.T) {
			sw.entryPort.SetText(tt.port)
			assert.EqualError(t, f.app.saveSettings(sw), tt.want)
		})
	}

	assert.EqualError(t, f.app.portValidator("12ab"), "Port must be a number")
}

func TestShowSettingsWindow_Singleton(t *testing.T) {
	f := setupTestApp(t)

	f.app.ShowSettingsWindow()
	first := f.app.settingsWindow
	require.NotNil(t, first)

	f.app.ShowSettingsWindow()
	assert.Same(t, first, f.app.settingsWindow)

	first.Close()
	assert.Nil(t, f.app.settingsWindow)
}

// -----------------------------------------------------------------------------
// Import Tests
// -----------------------------------------------------------------------------

const sampleVCard = "BEGIN:VCARD\r\nVERSION:3.0\r\nFN:Alice\r\nBDAY:1990-06-15\r\nEND:VCARD\r\n"

func TestPerformImport_Web(t *testing.T) {
	f := setupTestApp(t)
	require.NoError(t, keyring.Set(config.KeyringService, "alice", "s3cret"))

	f.app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	f.app.Preferences.SetString(config.PrefCardDAVURL, "https://dav.example.com/book.vcf")
	f.app.Preferences.SetString(config.PrefUsername, "alice")

	f.fetcher.On("Fetch", mock.Anything, "https://dav.example.com/book.vcf", "alice", "s3cret").
		Return(io.NopCloser(bytes.NewBufferString(sampleVCard)), nil).Twice()

	res, err := f.app.performImport(true)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Inserted)

	res, err = f.app.performImport(false)
	require.NoError(t, err)
	assert.Equal(t, tracker.ImportResult{Updated: 1}, res, "re-import updates in place")

	f.fetcher.AssertExpectations(t)

	snap := f.app.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "Alice", snap.Entries[0].Day.Title)
	assert.True(t, snap.Entries[0].Day.Recurs)
	assert.Equal(t, 75, snap.Entries[0].NextDays)
}

func TestPerformImport_LocalFile(t *testing.T) {
	f := setupTestApp(t)
	path := filepath.Join(t.TempDir(), "contacts.vcf")
	require.NoError(t, os.WriteFile(path, []byte(sampleVCard), 0o600))

	f.app.Preferences.SetString(config.PrefSourceMode, config.SourceModeLocal)
	f.app.Preferences.SetString(config.PrefLocalPath, path)

	res, err := f.app.performImport(false)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Total())
	f.fetcher.AssertNotCalled(t, "Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPerformImport_Failure(t *testing.T) {
	f := setupTestApp(t)
	f.app.Preferences.SetString(config.PrefSourceMode, config.SourceModeWeb)
	f.app.Preferences.SetString(config.PrefCardDAVURL, "https://dav.example.com/book.vcf")

	f.fetcher.On("Fetch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("connection refused"))

	_, err := f.app.performImport(true)
	assert.Error(t, err)
	assert.Empty(t, f.app.Snapshot().Entries)
}

// -----------------------------------------------------------------------------
// Scheduler & Feed Tests
// -----------------------------------------------------------------------------

func TestStartScheduler(t *testing.T) {
	f := setupTestApp(t)
	f.add(t, "Trip", 5)

	f.app.RefreshSpec = "every minute"
	_, err := f.app.startScheduler()
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrSchedule)

	f.app.RefreshSpec = config.DefaultRefreshSpec
	stop, err := f.app.startScheduler()
	require.NoError(t, err)
	stop()

	assert.Equal(t, 1, f.app.Snapshot().Stats.Total, "the first tick runs synchronously")
}

func TestTick_PublishesFeed(t *testing.T) {
	f := setupTestApp(t)
	handler := f.server.Handler()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	f.add(t, "Trip", 5)
	f.app.tick()

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, config.RouteFeed, nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "SUMMARY:Trip")
}
