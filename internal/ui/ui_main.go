package ui

import (
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/tracker"
)

// mainWidgets keeps the parts of the main window that change on refresh.
type mainWidgets struct {
	total    *widget.Label
	upcoming *widget.Label
	past     *widget.Label
	nav      *widget.Label

	viewBtn   *widget.Button
	filterBtn *widget.Button

	body *fyne.Container
}

// ShowMainWindow opens the collection window, or focuses it when already open.
func (app *CountDayApp) ShowMainWindow() {
	if app.Window != nil {
		app.Window.Show()
		app.Window.RequestFocus()
		return
	}

	w := app.App.NewWindow(app.Tr.Msg(config.TKeyWinTitle))
	app.Window = w
	w.SetContent(app.buildMainContent())
	w.Resize(fyne.NewSize(config.MainWinWidth, config.MainWinHeight))

	// With a tray the process outlives the window.
	if app.Tray != nil {
		w.SetCloseIntercept(w.Hide)
	}

	app.renderSnapshot(app.Snapshot())
	w.Show()
}

func (app *CountDayApp) buildMainContent() fyne.CanvasObject {
	header := widget.NewLabelWithStyle(app.Tr.Msg(config.TKeyHeaderTitle), fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	tagline := widget.NewLabelWithStyle(config.AppTagline, fyne.TextAlignLeading, fyne.TextStyle{Italic: true})

	app.main.total = newStatValue()
	app.main.upcoming = newStatValue()
	app.main.past = newStatValue()
	stats := container.NewGridWithColumns(config.StatsColumns,
		app.statCard(config.TKeyStatTotal, app.main.total),
		app.statCard(config.TKeyStatUpcoming, app.main.upcoming),
		app.statCard(config.TKeyStatPast, app.main.past),
	)

	app.main.nav = widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	app.main.filterBtn = widget.NewButtonWithIcon("", filterIcon(engine.DefaultFilterMode), app.CycleFilter)
	app.main.viewBtn = widget.NewButtonWithIcon("", viewIcon(engine.DefaultViewMode), app.CycleView)
	addBtn := widget.NewButtonWithIcon("", theme.ContentAddIcon(), func() { app.ShowDayDialog(nil) })
	addBtn.Importance = widget.HighImportance
	settingsBtn := widget.NewButtonWithIcon("", theme.SettingsIcon(), app.ShowSettingsWindow)

	toolbar := container.NewBorder(nil, nil, app.main.nav,
		container.NewHBox(app.main.filterBtn, app.main.viewBtn, addBtn, settingsBtn))

	app.main.body = container.NewStack()

	top := container.NewVBox(container.NewVBox(header, tagline), stats, toolbar, widget.NewSeparator())
	return container.NewBorder(top, nil, nil, nil, app.main.body)
}

func newStatValue() *widget.Label {
	return widget.NewLabelWithStyle("0", fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
}

func (app *CountDayApp) statCard(key string, value *widget.Label) fyne.CanvasObject {
	caption := widget.NewLabelWithStyle(app.Tr.Msg(key), fyne.TextAlignCenter, fyne.TextStyle{})
	return widget.NewCard("", "", container.NewVBox(value, caption))
}

// renderSnapshot redraws the statistics, the toolbar and the collection. It must run on the fyne thread.
func (app *CountDayApp) renderSnapshot(snap tracker.Snapshot) {
	if app.main.body == nil {
		return
	}

	app.main.total.SetText(strconv.Itoa(snap.Stats.Total))
	app.main.upcoming.SetText(strconv.Itoa(snap.Stats.Upcoming))
	app.main.past.SetText(strconv.Itoa(snap.Stats.Past))
	app.main.nav.SetText(snap.NavTitle(app.Tr))

	app.main.viewBtn.SetIcon(viewIcon(snap.State.View))
	app.main.viewBtn.SetText(app.Tr.Msg(snap.State.View.TitleKey()))
	app.main.filterBtn.SetIcon(filterIcon(snap.State.Filter))
	app.main.filterBtn.SetText(app.Tr.Msg(snap.State.Filter.TitleKey()))

	app.main.body.Objects = []fyne.CanvasObject{app.buildLayout(snap)}
	app.main.body.Refresh()
}

func (app *CountDayApp) buildLayout(snap tracker.Snapshot) fyne.CanvasObject {
	if len(snap.Entries) == 0 {
		empty := widget.NewLabel(app.Tr.Msg(config.TKeyEmptyList))
		empty.Wrapping = fyne.TextWrapWord
		empty.Alignment = fyne.TextAlignCenter
		return container.NewCenter(empty)
	}

	items := make([]fyne.CanvasObject, 0, len(snap.Entries))
	switch snap.State.View {
	case engine.ViewList:
		for _, e := range snap.Entries {
			items = append(items, app.listRow(e), widget.NewSeparator())
		}
		return container.NewVScroll(container.NewVBox(items...))
	case engine.ViewGrid:
		for _, e := range snap.Entries {
			items = append(items, app.gridTile(e))
		}
		return container.NewVScroll(container.NewGridWithColumns(config.GridColumns, items...))
	default:
		for _, e := range snap.Entries {
			items = append(items, app.card(e))
		}
		return container.NewVScroll(container.NewVBox(items...))
	}
}

// listRow is a compact line: badge, title and date, day count, actions.
func (app *CountDayApp) listRow(e tracker.Entry) fyne.CanvasObject {
	title := widget.NewLabelWithStyle(e.Day.Title, fyne.TextAlignLeading, fyne.TextStyle{Bold: true})
	date := widget.NewLabel(app.dateText(e))
	days := widget.NewLabelWithStyle(app.countText(e), fyne.TextAlignTrailing, fyne.TextStyle{Bold: true})

	right := container.NewHBox(days, app.actions(e))
	return container.NewBorder(nil, nil, app.badge(e, config.IconBadgeSize/2), right, container.NewVBox(title, date))
}

// card is the detailed presentation with the large day count.
func (app *CountDayApp) card(e tracker.Entry) fyne.CanvasObject {
	count := canvas.NewText(app.countValue(e), e.Color.WithAlpha(1).NRGBA())
	count.TextSize = theme.TextHeadingSize() * 2
	count.TextStyle = fyne.TextStyle{Bold: true}
	count.Alignment = fyne.TextAlignCenter

	label := widget.NewLabelWithStyle(app.daysLabel(e.Countdown), fyne.TextAlignCenter, fyne.TextStyle{})

	content := container.NewVBox(
		container.NewCenter(app.badge(e, config.IconBadgeSize)),
		count,
		label,
	)
	if next := app.nextText(e); next != "" {
		content.Add(widget.NewLabelWithStyle(next, fyne.TextAlignCenter, fyne.TextStyle{Italic: true}))
	}
	content.Add(container.NewCenter(app.actions(e)))

	return widget.NewCard(e.Day.Title, app.dateText(e), content)
}

// gridTile is a small square for the two column layout.
func (app *CountDayApp) gridTile(e tracker.Entry) fyne.CanvasObject {
	title := widget.NewLabelWithStyle(e.Day.Title, fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	title.Truncation = fyne.TextTruncateEllipsis
	days := widget.NewLabelWithStyle(app.countText(e), fyne.TextAlignCenter, fyne.TextStyle{})

	bg := canvas.NewRectangle(e.Color.WithAlpha(float64(config.ColorBadgeAlpha) / 255).NRGBA())
	bg.CornerRadius = theme.InputRadiusSize()

	content := container.NewVBox(container.NewCenter(app.badge(e, config.IconBadgeSize*2/3)), title, days, container.NewCenter(app.actions(e)))
	return container.NewStack(bg, container.NewPadded(content))
}

// badge draws the category icon on a tinted square of the record color.
func (app *CountDayApp) badge(e tracker.Entry, size float32) fyne.CanvasObject {
	bg := canvas.NewRectangle(e.Color.WithAlpha(float64(config.ColorBadgeAlpha) / 255).NRGBA())
	bg.CornerRadius = size / 4
	bg.SetMinSize(fyne.NewSquareSize(size))

	icon := widget.NewIcon(typeIcon(e.Day.Type))
	return container.NewStack(bg, container.NewPadded(icon))
}

func (app *CountDayApp) actions(e tracker.Entry) fyne.CanvasObject {
	day := e.Day
	edit := widget.NewButtonWithIcon("", theme.DocumentCreateIcon(), func() { app.ShowDayDialog(&day) })
	del := widget.NewButtonWithIcon("", theme.DeleteIcon(), func() { app.ConfirmDelete(day) })
	del.Importance = widget.DangerImportance
	return container.NewHBox(edit, del)
}

func (app *CountDayApp) daysLabel(c engine.Countdown) string {
	if c.IsToday() {
		return app.Tr.Msg(config.TKeyToday)
	}
	return app.Tr.Plural(c.LabelKey(), c.Days, nil)
}

func (app *CountDayApp) countValue(e tracker.Entry) string {
	if e.Countdown.IsToday() {
		return app.Tr.Msg(config.TKeyToday)
	}
	return strconv.Itoa(e.Countdown.Days)
}

// countText is "<n> days left", "<n> days since" or "Today".
func (app *CountDayApp) countText(e tracker.Entry) string {
	if e.Countdown.IsToday() {
		return app.Tr.Msg(config.TKeyToday)
	}
	return strconv.Itoa(e.Countdown.Days) + " " + app.daysLabel(e.Countdown)
}

func (app *CountDayApp) dateText(e tracker.Entry) string {
	return e.Day.Date.Format(app.Tr.Msg(config.TKeyFormatDate))
}

// nextText describes the next yearly occurrence, empty for one-off days or when it is today.
func (app *CountDayApp) nextText(e tracker.Entry) string {
	if e.Next.IsZero() || (e.NextDays == 0 && e.Countdown.IsToday()) {
		return ""
	}
	return app.Tr.Plural(config.TKeyNextOccurrence, e.NextDays, nil)
}

func viewIcon(m engine.ViewMode) fyne.Resource {
	switch m.Icon() {
	case "list":
		return theme.ListIcon()
	case "grid":
		return theme.GridIcon()
	default:
		return theme.FileIcon()
	}
}

func filterIcon(f engine.FilterMode) fyne.Resource {
	switch f.Icon() {
	case "arrow.forward":
		return theme.NavigateNextIcon()
	case "arrow.backward":
		return theme.NavigateBackIcon()
	default:
		return theme.HistoryIcon()
	}
}

func typeIcon(t engine.DayType) fyne.Resource {
	switch t.Icon() {
	case "gift":
		return theme.AccountIcon()
	case "heart":
		return theme.ConfirmIcon()
	case "nosign":
		return theme.CancelIcon()
	case "sun":
		return theme.HomeIcon()
	case "graduation":
		return theme.InfoIcon()
	default:
		return theme.MediaRecordIcon()
	}
}
