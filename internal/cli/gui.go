package cli

import (
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/server"
	"github.com/tartampluch/go-countday/internal/tracker"
	"github.com/tartampluch/go-countday/internal/ui"
)

// GUICmd opens the desktop window with its tray menu.
type GUICmd struct{}

// Run blocks in the fyne event loop until the window quits or the context is cancelled.
func (GUICmd) Run(ctx *Context) error {
	a := app.NewWithID(config.AppID)
	gui := newGUI(ctx, a)

	go func() {
		<-ctx.Ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		a.Quit()
	}()

	return gui.Run()
}

// newGUI wires the desktop front end over the shared store, clock and preferences.
func newGUI(ctx *Context, a fyne.App) *ui.CountDayApp {
	a.Preferences().SetString(config.PrefLastRun, config.Version)

	var (
		srv *server.FeedServer
		trk *tracker.Tracker
	)
	if ctx.Config.ServeFeed {
		port := a.Preferences().StringWithFallback(config.PrefServerPort, ctx.Config.ListenPort)
		srv = server.NewFeedServer(port)
		trk = ctx.Tracker(srv)
	} else {
		trk = ctx.Tracker(nil)
	}

	return ui.NewCountDayApp(a, ctx.Ctx, ctx.Tr, trk, srv, ctx.Config.Refresh, ctx.Prefs)
}
