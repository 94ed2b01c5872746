package ui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countday/internal/config"
)

// ShowOnboarding presents the welcome screen. Dismissing it completes the first launch.
func (app *CountDayApp) ShowOnboarding() {
	if app.onboardingDialog != nil {
		return
	}
	if app.Window == nil {
		app.ShowMainWindow()
	}

	icon := widget.NewIcon(theme.HistoryIcon())
	title := widget.NewLabelWithStyle(app.Tr.Msg(config.TKeyOnboardTitle), fyne.TextAlignCenter, fyne.TextStyle{Bold: true})
	body := widget.NewLabel(app.Tr.Msg(config.TKeyOnboardBody))
	body.Wrapping = fyne.TextWrapWord
	body.Alignment = fyne.TextAlignCenter

	start := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnGetStarted), theme.ConfirmIcon(), app.CompleteOnboarding)
	start.Importance = widget.HighImportance

	content := container.NewVBox(container.NewCenter(icon), title, body, start)
	d := dialog.NewCustomWithoutButtons(config.AppName, content, app.Window)
	d.Resize(fyne.NewSize(config.SettingsWindowWidth, 0))
	app.onboardingDialog = d
	d.Show()
}
