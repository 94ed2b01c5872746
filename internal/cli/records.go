package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/term"
	"github.com/tartampluch/go-countday/internal/tracker"
	"github.com/zalando/go-keyring"
)

// ListCmd prints the collection with the same layouts as the terminal view.
type ListCmd struct {
	Filter string `short:"f" enum:"all,upcoming,past" default:"all" help:"Filter: all, upcoming or past."`
	View   string `short:"v" help:"Layout: list, cards or grid. Defaults to the saved view mode."`
	IDs    bool   `name:"ids" help:"Print a table with record IDs instead of a layout."`
	Width  int    `short:"w" help:"Render width in columns."`
}

// Run prints one snapshot. The view given on the command line is not saved.
func (c *ListCmd) Run(ctx *Context) error {
	state := engine.LoadViewState(ctx.Prefs)
	if c.View != "" {
		mode, err := engine.ParseViewMode(c.View)
		if err != nil {
			return err
		}
		state.View = mode
	}
	filter, err := engine.ParseFilterMode(c.Filter)
	if err != nil {
		return err
	}
	state.Filter = filter

	snap, err := ctx.Tracker(nil).Snapshot(ctx.Ctx, state)
	if err != nil {
		return err
	}

	if c.IDs {
		_, err = fmt.Fprintln(ctx.Out, idTable(ctx, snap))
		return err
	}
	_, err = fmt.Fprintln(ctx.Out, term.NewRenderer(ctx.Tr, c.Width).Render(snap, -1))
	return err
}

func idTable(ctx *Context, snap tracker.Snapshot) string {
	r := term.NewRenderer(ctx.Tr, 0)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(
			"ID",
			ctx.Tr.Msg(config.TKeyLblDate),
			ctx.Tr.Msg(config.TKeyLblType),
			ctx.Tr.Msg(config.TKeyLblTitle),
			"",
		)
	for _, e := range snap.Entries {
		days := r.DaysLabel(e.Countdown)
		if !e.Countdown.IsToday() {
			days = strconv.Itoa(e.Countdown.Days) + " " + days
		}
		t.Row(
			e.Day.ID,
			e.Day.Date.Format(config.DateFormatFullDash),
			ctx.Tr.Msg(e.Day.Type.TitleKey()),
			e.Day.Title,
			days,
		)
	}
	return t.String()
}

// DayFields are the record attributes shared by add and edit.
type DayFields struct {
	Date  string `short:"d" help:"Date (YYYY-MM-DD)."`
	Type  string `short:"t" help:"Category: birthday, anniversary, quitSmoking, holiday, graduation or custom."`
	Color string `short:"c" help:"Theme color override (#RGB, #RRGGBB or #AARRGGBB)."`
}

// apply copies the set fields onto d.
func (f DayFields) apply(ctx *Context, d *engine.SpecialDay) error {
	if f.Date != "" {
		date, err := engine.ParseDate(f.Date, ctx.Location())
		if err != nil {
			return err
		}
		d.Date = date
	}
	if f.Type != "" {
		t, err := engine.ParseDayType(f.Type)
		if err != nil {
			return err
		}
		d.Type = t
	}
	if f.Color != "" {
		if _, err := engine.ParseHexColor(f.Color); err != nil {
			return err
		}
		d.ThemeColor = f.Color
	}
	return nil
}

// AddCmd stores a new special day.
type AddCmd struct {
	Title     string `required:"" help:"Title of the special day."`
	DayFields `embed:""`
	Recurs    bool `short:"r" help:"Repeat every year."`
}

// Run validates and stores the record.
func (c *AddCmd) Run(ctx *Context) error {
	if c.Date == "" {
		return errors.New(config.ErrDateParse)
	}
	d := engine.SpecialDay{
		Title:  strings.TrimSpace(c.Title),
		Type:   engine.TypeCustom,
		Recurs: c.Recurs,
	}
	if err := c.apply(ctx, &d); err != nil {
		return err
	}

	added, err := ctx.Tracker(nil).Add(ctx.Ctx, d)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, config.FormatCLIAdded, added.Title, added.ID)
	return err
}

// EditCmd changes the given fields of a record and keeps the others.
type EditCmd struct {
	ID         string `arg:"" help:"Record ID, see list --ids."`
	Title      string `help:"New title."`
	DayFields  `embed:""`
	Recurs     string `enum:"keep,yes,no" default:"keep" help:"Yearly repetition: keep, yes or no."`
	ResetColor bool   `help:"Drop the color override and use the category color."`
}

// Run loads, patches and saves the record.
func (c *EditCmd) Run(ctx *Context) error {
	trk := ctx.Tracker(nil)
	d, err := trk.Get(ctx.Ctx, c.ID)
	if err != nil {
		return err
	}

	if t := strings.TrimSpace(c.Title); t != "" {
		d.Title = t
	}
	if err := c.apply(ctx, &d); err != nil {
		return err
	}
	if c.ResetColor {
		d.ThemeColor = ""
	}
	switch c.Recurs {
	case config.EditYes:
		d.Recurs = true
	case config.EditNo:
		d.Recurs = false
	}

	if err := trk.Update(ctx.Ctx, d); err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, config.FormatCLIUpdated, d.ID)
	return err
}

// DeleteCmd removes a record.
type DeleteCmd struct {
	ID string `arg:"" help:"Record ID, see list --ids."`
}

// Run deletes the record.
func (c *DeleteCmd) Run(ctx *Context) error {
	if err := ctx.Tracker(nil).Delete(ctx.Ctx, c.ID); err != nil {
		return err
	}
	_, err := fmt.Fprintf(ctx.Out, config.FormatCLIDeleted, c.ID)
	return err
}

// ExportCmd writes the collection as an iCalendar file.
type ExportCmd struct {
	Out string `short:"o" type:"path" help:"Output file. Writes to stdout when empty."`
}

// Run renders and writes the calendar.
func (c *ExportCmd) Run(ctx *Context) error {
	data, err := ctx.Tracker(nil).Calendar(ctx.Ctx)
	if err != nil {
		return err
	}
	if c.Out == "" {
		_, err = ctx.Out.Write(data)
		return err
	}
	if err := os.WriteFile(c.Out, data, config.FilePermUserRW); err != nil {
		return fmt.Errorf("%s: %w", config.ErrExportWrite, err)
	}
	_, err = fmt.Fprintf(ctx.Out, config.FormatCLIExported, len(data), c.Out)
	return err
}

// ImportCmd upserts contact birthdays and anniversaries.
type ImportCmd struct {
	File         string `xor:"source" type:"existingfile" help:"Local .vcf file."`
	URL          string `xor:"source" name:"url" help:"Address book URL (http or https)."`
	User         string `short:"u" help:"Basic auth user name."`
	Password     string `env:"COUNTDAY_PASSWORD" help:"Basic auth password. Read from the keyring when empty."`
	SavePassword bool   `help:"Store the password in the keyring."`
}

// Validate requires exactly one source.
func (c *ImportCmd) Validate() error {
	if c.File == "" && c.URL == "" {
		return errors.New(config.ErrImportSource)
	}
	return nil
}

// Run imports and reports the counts.
func (c *ImportCmd) Run(ctx *Context) error {
	res, err := ctx.Tracker(nil).Import(ctx.Ctx, c.importConfig())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(ctx.Out, config.FormatCLIImported, res.Total(), res.Inserted, res.Updated)
	return err
}

func (c *ImportCmd) importConfig() engine.ImportConfig {
	if c.File != "" {
		return engine.ImportConfig{Mode: config.SourceModeLocal, LocalPath: c.File}
	}

	cfg := engine.ImportConfig{
		Mode:    config.SourceModeWeb,
		WebURL:  c.URL,
		WebUser: c.User,
		WebPass: c.Password,
	}
	if c.User == "" {
		return cfg
	}

	if cfg.WebPass == "" {
		if p, err := keyring.Get(config.KeyringService, c.User); err == nil {
			cfg.WebPass = p
		} else {
			slog.Debug(config.MsgPassFail,
				config.LogKeyUser, c.User,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompCLI)
		}
	} else if c.SavePassword {
		if err := keyring.Set(config.KeyringService, c.User, cfg.WebPass); err != nil {
			slog.Error(config.ErrKeyringSave,
				config.LogKeyError, err,
				config.LogKeyComponent, config.CompCLI)
		}
	}
	return cfg
}

// ResetCmd restores the default preferences. With --data it also deletes every record.
type ResetCmd struct {
	Data bool `help:"Also delete every special day."`
	Yes  bool `short:"y" help:"Confirm deleting every special day."`
}

// Run resets.
func (c *ResetCmd) Run(ctx *Context) error {
	if c.Data && !c.Yes {
		return errors.New(config.ErrResetConfirm)
	}

	engine.ResetPreferences(ctx.Prefs)
	if _, err := fmt.Fprint(ctx.Out, config.FormatCLIReset); err != nil {
		return err
	}
	if !c.Data {
		return nil
	}

	if err := ctx.Tracker(nil).Reset(ctx.Ctx); err != nil {
		return err
	}
	_, err := fmt.Fprint(ctx.Out, config.FormatCLIPurged)
	return err
}

// VersionCmd prints the build information.
type VersionCmd struct{}

// Run prints the version line.
func (VersionCmd) Run(ctx *Context) error {
	_, err := fmt.Fprintln(ctx.Out, VersionString())
	return err
}
