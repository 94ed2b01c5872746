package ui

import (
	"errors"
	"log/slog"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/zalando/go-keyring"
)

// settingsWidgets holds references to UI elements to simplify data retrieval during save.
type settingsWidgets struct {
	langSelect *widget.Select
	modeSelect *widget.Select
	urlEntry   *widget.Entry
	userEntry  *widget.Entry
	passEntry  *widget.Entry
	pathEntry  *widget.Entry
	entryPort  *PortEntry
}

// ShowSettingsWindow displays the preferences, the contact source and the reset actions.
func (app *CountDayApp) ShowSettingsWindow() {
	if app.settingsWindow != nil {
		slog.Debug("Settings window already open, requesting focus", config.LogKeyComponent, config.CompUISet)
		app.settingsWindow.RequestFocus()
		return
	}

	slog.Info("Opening settings window", config.LogKeyComponent, config.CompUISet)
	w := app.App.NewWindow(app.Tr.Msg(config.TKeyWinSettings))
	app.settingsWindow = w

	sw := app.newSettingsWidgets()

	var refreshLayout func()
	onLayoutChange := func() {
		if refreshLayout != nil {
			refreshLayout()
		}
	}

	sourceCard := app.buildSourceCard(w, sw, onLayoutChange)

	generalForm := widget.NewForm(
		newHintItem(app.Tr.Msg(config.TKeyLblLanguage), sw.langSelect, app.Tr.Msg(config.TKeyHelpLanguage)),
		newHintItem(app.Tr.Msg(config.TKeyLblPort), sw.entryPort, app.Tr.Msg(config.TKeyHelpPort)),
	)
	generalCard := widget.NewCard(app.Tr.Msg(config.TKeyLblGeneral), "", generalForm)

	btnOnboarding := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnOnboarding), theme.HelpIcon(), app.ShowOnboarding)
	btnReset := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnReset), theme.ViewRefreshIcon(), func() {
		dialog.ShowConfirm(app.Tr.Msg(config.TKeyResetTitle), app.Tr.Msg(config.TKeyResetMsg), func(ok bool) {
			if ok {
				w.Close()
				app.ResetApp()
			}
		}, w)
	})
	btnReset.Importance = widget.DangerImportance

	btnSave := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnSave), theme.DocumentSaveIcon(), func() {
		if err := app.saveSettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		w.Close()
	})
	btnSave.Importance = widget.HighImportance
	btnCancel := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnCancel), theme.CancelIcon(), func() { w.Close() })

	footerLabel := widget.NewLabel(app.Tr.Format(config.TKeyLblFooter, map[string]any{"Version": config.Version}))
	footerLabel.Alignment = fyne.TextAlignCenter
	footerLabel.TextStyle = fyne.TextStyle{Italic: true}

	paddedContent := container.NewPadded(container.NewVBox(
		sourceCard,
		generalCard,
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnOnboarding, btnReset),
		container.NewGridWithColumns(config.LayoutColumnsDouble, btnCancel, btnSave),
		footerLabel,
	))

	refreshLayout = func() {
		paddedContent.Refresh()
		minSize := paddedContent.MinSize()
		w.Resize(fyne.NewSize(config.SettingsWindowWidth, minSize.Height))
	}

	w.SetContent(paddedContent)
	w.SetFixedSize(true)
	w.SetOnClosed(func() { app.settingsWindow = nil })

	refreshLayout()
	w.Show()
}

func (app *CountDayApp) newSettingsWidgets() *settingsWidgets {
	sw := &settingsWidgets{}

	sw.langSelect = widget.NewSelect(app.Tr.Languages(), nil)
	sw.langSelect.SetSelected(app.Tr.Language())

	sw.modeSelect = widget.NewSelect([]string{
		app.Tr.Msg(config.TKeyModeLocal),
		app.Tr.Msg(config.TKeyModeCardDAV),
	}, nil)

	sw.urlEntry = widget.NewEntry()
	sw.urlEntry.SetText(app.Preferences.String(config.PrefCardDAVURL))
	sw.urlEntry.PlaceHolder = config.PlaceholderURL

	sw.userEntry = widget.NewEntry()
	sw.userEntry.SetText(app.Preferences.String(config.PrefUsername))

	sw.passEntry = widget.NewPasswordEntry()
	if user := sw.userEntry.Text; user != "" {
		if pwd, err := keyring.Get(config.KeyringService, user); err == nil {
			sw.passEntry.SetText(pwd)
		}
	}

	sw.pathEntry = widget.NewEntry()
	sw.pathEntry.SetText(app.Preferences.String(config.PrefLocalPath))

	sw.entryPort = NewPortEntry()
	sw.entryPort.SetText(app.Preferences.StringWithFallback(config.PrefServerPort, config.DefaultPort))
	sw.entryPort.Validator = app.portValidator

	return sw
}

// portValidator wraps config.ValidatePort with translated messages.
func (app *CountDayApp) portValidator(s string) error {
	err := config.ValidatePort(s)
	switch {
	case err == nil:
		return nil
	case s == "":
		return errors.New(app.Tr.Msg(config.TKeyErrPortReq))
	case err.Error() == config.ErrPortNumber:
		return errors.New(app.Tr.Msg(config.TKeyErrPortNum))
	default:
		return errors.New(app.Tr.Msg(config.TKeyErrPortRange))
	}
}

// buildSourceCard constructs the contact source selection and the import action.
func (app *CountDayApp) buildSourceCard(w fyne.Window, sw *settingsWidgets, onLayoutChange func()) *widget.Card {
	browseBtn := widget.NewButton(app.Tr.Msg(config.TKeyBtnBrowse), func() {
		d := dialog.NewFileOpen(func(r fyne.URIReadCloser, err error) {
			if err == nil && r != nil {
				sw.pathEntry.SetText(r.URI().Path())
				_ = r.Close()
			}
		}, w)
		d.SetFilter(storage.NewExtensionFileFilter([]string{config.ExtVCF, config.ExtVCard}))
		d.Show()
	})

	webForm := widget.NewForm(
		newHintItem(app.Tr.Msg(config.TKeyLblURL), sw.urlEntry, app.Tr.Msg(config.TKeyHelpURL)),
		widget.NewFormItem(app.Tr.Msg(config.TKeyLblUser), sw.userEntry),
		widget.NewFormItem(app.Tr.Msg(config.TKeyLblPass), sw.passEntry),
	)
	localForm := container.NewBorder(nil, nil, nil, browseBtn, sw.pathEntry)

	isLocal := func(mode string) bool { return mode == app.Tr.Msg(config.TKeyModeLocal) }
	applyVisibility := func(mode string) {
		if isLocal(mode) {
			webForm.Hide()
			localForm.Show()
		} else {
			webForm.Show()
			localForm.Hide()
		}
	}

	currentMode := app.Preferences.StringWithFallback(config.PrefSourceMode, config.SourceModeLocal)
	if currentMode == config.SourceModeWeb {
		sw.modeSelect.SetSelected(app.Tr.Msg(config.TKeyModeCardDAV))
	} else {
		sw.modeSelect.SetSelected(app.Tr.Msg(config.TKeyModeLocal))
	}
	applyVisibility(sw.modeSelect.Selected)

	sw.modeSelect.OnChanged = func(mode string) {
		applyVisibility(mode)
		if onLayoutChange != nil {
			onLayoutChange()
		}
	}

	importBtn := widget.NewButtonWithIcon(app.Tr.Msg(config.TKeyBtnImport), theme.DownloadIcon(), func() {
		if err := app.saveSettings(sw); err != nil {
			dialog.ShowError(err, w)
			return
		}
		go func() { _, _ = app.performImport(true) }()
	})

	return widget.NewCard(app.Tr.Msg(config.TKeyLblSource), "",
		container.NewVBox(sw.modeSelect, webForm, localForm, importBtn))
}

// saveSettings persists the preferences and applies the language immediately.
// A new feed port takes effect on the next start.
func (app *CountDayApp) saveSettings(sw *settingsWidgets) error {
	if err := sw.entryPort.Validate(); err != nil {
		return err
	}

	slog.Info("Saving preferences", config.LogKeyComponent, config.CompUISet)

	mode := config.SourceModeWeb
	if sw.modeSelect.Selected == app.Tr.Msg(config.TKeyModeLocal) {
		mode = config.SourceModeLocal
	}

	app.Preferences.SetString(config.PrefSourceMode, mode)
	app.Preferences.SetString(config.PrefCardDAVURL, sw.urlEntry.Text)
	app.Preferences.SetString(config.PrefUsername, sw.userEntry.Text)
	app.Preferences.SetString(config.PrefLocalPath, sw.pathEntry.Text)
	app.Preferences.SetString(config.PrefServerPort, sw.entryPort.Text)

	if sw.userEntry.Text != "" && sw.passEntry.Text != "" {
		if err := keyring.Set(config.KeyringService, sw.userEntry.Text, sw.passEntry.Text); err != nil {
			slog.Error(config.ErrKeyringSave, config.LogKeyError, err, config.LogKeyComponent, config.CompUISet)
		}
	}

	lang := sw.langSelect.Selected
	if lang != "" && lang != app.Tr.Language() {
		app.Shared.SetString(config.PrefLanguage, lang)
		slog.Info("Language changed", config.LogKeyLang, lang, config.LogKeyComponent, config.CompUISet)
		app.applyLanguage(lang)
	}
	return nil
}
