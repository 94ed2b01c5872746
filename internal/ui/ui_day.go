package ui

import (
	"errors"
	"log/slog"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/locale"
)

// dayForm holds the inputs of the add / edit dialog.
type dayForm struct {
	title  *widget.Entry
	date   *widget.Entry
	kind   *widget.Select
	color  *widget.Entry
	recurs *widget.Check
}

// newDayForm builds the inputs, prefilled from existing when editing.
func newDayForm(tr *locale.Translator, existing *engine.SpecialDay, now time.Time) *dayForm {
	f := &dayForm{
		title:  widget.NewEntry(),
		date:   widget.NewEntry(),
		color:  widget.NewEntry(),
		recurs: widget.NewCheck(tr.Msg(config.TKeyLblRecurs), nil),
	}

	labels := make([]string, len(engine.AllDayTypes))
	for i, t := range engine.AllDayTypes {
		labels[i] = tr.Msg(t.TitleKey())
	}
	f.kind = widget.NewSelect(labels, nil)

	f.title.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(tr.Msg(config.TKeyErrTitleReq))
		}
		return nil
	}
	f.date.PlaceHolder = config.PlaceholderDate
	f.date.Validator = func(s string) error {
		if _, err := engine.ParseDate(s, now.Location()); err != nil {
			return errors.New(tr.Msg(config.TKeyErrDateFormat))
		}
		return nil
	}
	f.color.PlaceHolder = config.PlaceholderColor
	f.color.Validator = func(s string) error {
		if strings.TrimSpace(s) == "" {
			return nil
		}
		if _, err := engine.ParseHexColor(s); err != nil {
			return errors.New(tr.Msg(config.TKeyErrColorFormat))
		}
		return nil
	}

	if existing != nil {
		f.title.SetText(existing.Title)
		f.date.SetText(existing.Date.In(now.Location()).Format(config.DateFormatFullDash))
		f.kind.SetSelectedIndex(typeIndex(existing.Type))
		f.color.SetText(existing.ThemeColor)
		f.recurs.SetChecked(existing.Recurs)
		return f
	}

	f.date.SetText(now.Format(config.DateFormatFullDash))
	f.kind.SetSelectedIndex(typeIndex(engine.TypeCustom))
	// New birthdays and anniversaries repeat by default.
	f.kind.OnChanged = func(string) {
		t := f.selectedType()
		f.recurs.SetChecked(t == engine.TypeBirthday || t == engine.TypeAnniversary)
	}
	return f
}

func typeIndex(t engine.DayType) int {
	for i, candidate := range engine.AllDayTypes {
		if candidate == t {
			return i
		}
	}
	return len(engine.AllDayTypes) - 1
}

func (f *dayForm) selectedType() engine.DayType {
	i := f.kind.SelectedIndex()
	if i < 0 || i >= len(engine.AllDayTypes) {
		return engine.TypeCustom
	}
	return engine.AllDayTypes[i]
}

func (f *dayForm) items(tr *locale.Translator) []*widget.FormItem {
	return []*widget.FormItem{
		widget.NewFormItem(tr.Msg(config.TKeyLblTitle), f.title),
		newHintItem(tr.Msg(config.TKeyLblDate), f.date, tr.Msg(config.TKeyHelpDate)),
		widget.NewFormItem(tr.Msg(config.TKeyLblType), f.kind),
		newHintItem(tr.Msg(config.TKeyLblColor), f.color, tr.Msg(config.TKeyHelpColor)),
		widget.NewFormItem("", f.recurs),
	}
}

// toDay converts the inputs into a record. Identity fields are copied from existing.
func (f *dayForm) toDay(existing *engine.SpecialDay, loc *time.Location) (engine.SpecialDay, error) {
	date, err := engine.ParseDate(f.date.Text, loc)
	if err != nil {
		return engine.SpecialDay{}, err
	}

	day := engine.SpecialDay{
		Title:      strings.TrimSpace(f.title.Text),
		Date:       date,
		Type:       f.selectedType(),
		ThemeColor: strings.TrimSpace(f.color.Text),
		Recurs:     f.recurs.Checked,
	}
	if existing != nil {
		day.ID = existing.ID
		day.SourceUID = existing.SourceUID
		day.CreatedAt = existing.CreatedAt
	}
	return day, day.Validate()
}

// ShowDayDialog opens the add dialog, or the edit dialog when existing is set.
func (app *CountDayApp) ShowDayDialog(existing *engine.SpecialDay) {
	if app.Window == nil {
		app.ShowMainWindow()
	}
	parent := app.Window

	f := newDayForm(app.Tr, existing, app.Tracker.Now())
	title := app.Tr.Msg(config.TKeyDlgAddTitle)
	if existing != nil {
		title = app.Tr.Msg(config.TKeyDlgEditTitle)
	}

	d := dialog.NewForm(title,
		app.Tr.Msg(config.TKeyBtnSave),
		app.Tr.Msg(config.TKeyBtnCancel),
		f.items(app.Tr),
		func(ok bool) {
			if !ok {
				return
			}
			if err := app.saveDay(f, existing); err != nil {
				dialog.ShowError(err, parent)
			}
		}, parent)
	d.Resize(fyne.NewSize(config.SettingsWindowWidth, 0))
	d.Show()
}

// saveDay stores the form content, then refreshes.
func (app *CountDayApp) saveDay(f *dayForm, existing *engine.SpecialDay) error {
	day, err := f.toDay(existing, app.Tracker.Now().Location())
	if err != nil {
		return err
	}

	if existing == nil {
		_, err = app.Tracker.Add(app.Ctx, day)
	} else {
		err = app.Tracker.Update(app.Ctx, day)
	}
	if err != nil {
		slog.Error(config.ErrStoreWrite,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyTitle, day.Title,
			config.LogKeyError, err)
		return err
	}

	app.Refresh()
	return nil
}

// ConfirmDelete asks before removing a record.
func (app *CountDayApp) ConfirmDelete(day engine.SpecialDay) {
	if app.Window == nil {
		app.ShowMainWindow()
	}
	parent := app.Window

	msg := app.Tr.Format(config.TKeyDlgDeleteMsg, map[string]any{"Title": day.Title})
	dialog.ShowConfirm(app.Tr.Msg(config.TKeyDlgDeleteTitle), msg, func(ok bool) {
		if !ok {
			return
		}
		if err := app.deleteDay(day.ID); err != nil {
			dialog.ShowError(err, parent)
		}
	}, parent)
}

func (app *CountDayApp) deleteDay(id string) error {
	if err := app.Tracker.Delete(app.Ctx, id); err != nil {
		slog.Error(config.ErrStoreWrite,
			config.LogKeyComponent, config.CompUI,
			config.LogKeyID, id,
			config.LogKeyError, err)
		return err
	}
	app.Refresh()
	return nil
}
