// Package cli defines the countday command line: one kong command per front end or operation.
package cli

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/engine"
	"github.com/tartampluch/go-countday/internal/locale"
	"github.com/tartampluch/go-countday/internal/store"
	"github.com/tartampluch/go-countday/internal/tracker"
)

// CLI is the command grammar. The desktop window is the default command.
type CLI struct {
	Version kong.VersionFlag `help:"Print version information and quit."`
	Config  string           `help:"Config file path." type:"path" placeholder:"PATH"`
	Debug   bool             `help:"Enable debug logging on the console."`

	GUI     GUICmd     `cmd:"" name:"gui" help:"Open the desktop window." default:"1"`
	TUI     TUICmd     `cmd:"" name:"tui" help:"Open the interactive terminal view."`
	List    ListCmd    `cmd:"" help:"Print the special days."`
	Add     AddCmd     `cmd:"" help:"Add a special day."`
	Edit    EditCmd    `cmd:"" help:"Edit a special day."`
	Delete  DeleteCmd  `cmd:"" help:"Delete a special day."`
	Export  ExportCmd  `cmd:"" help:"Write the special days as an iCalendar file."`
	Import  ImportCmd  `cmd:"" help:"Import birthdays and anniversaries from vCards."`
	Serve   ServeCmd   `cmd:"" help:"Serve the iCalendar feed until interrupted."`
	Reset   ResetCmd   `cmd:"" help:"Reset preferences, and optionally every record."`
	About   VersionCmd `cmd:"" name:"version" help:"Print version information."`
}

// VersionString is the text printed by --version and the version command.
func VersionString() string {
	out := fmt.Sprintf(config.MsgVersionOutput, config.AppName, config.Version, runtime.GOOS, runtime.GOARCH)
	return strings.TrimSuffix(out, "\n")
}

// NewParser builds the kong parser. Parse errors are returned rather than exiting.
func NewParser(grammar *CLI, stdout, stderr io.Writer, exit func(int)) (*kong.Kong, error) {
	return kong.New(grammar,
		kong.Name(config.BinaryName),
		kong.Description(config.AppTagline),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
		kong.Vars{"version": VersionString()},
		kong.Writers(stdout, stderr),
		kong.Exit(exit),
	)
}

// ConfigPath resolves the config file, defaulting to the per-user config dir.
func (c *CLI) ConfigPath() (string, error) {
	if c.Config != "" {
		return c.Config, nil
	}
	dir, err := config.Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, config.ConfigFileName), nil
}

// Context is shared by every command's Run method.
type Context struct {
	Ctx    context.Context
	Config *config.File
	Prefs  *config.FilePreferences
	Store  *store.Store
	Tr     *locale.Translator
	Clock  engine.Clock
	Out    io.Writer

	// Fetcher downloads remote address books; replaced in tests.
	Fetcher engine.VCardFetcher
}

// Open loads preferences, the translator and the record store next to configPath.
func Open(ctx context.Context, cfg *config.File, configPath string, out io.Writer) (*Context, error) {
	prefs, err := config.OpenPreferences(filepath.Join(filepath.Dir(configPath), config.PrefsFileName))
	if err != nil {
		return nil, err
	}

	loc := cfg.Location()
	clock := engine.RealClock{Loc: loc}
	s, err := store.Open(ctx, cfg.Database, clock, loc)
	if err != nil {
		return nil, err
	}

	lang := prefs.StringWithFallback(config.PrefLanguage, cfg.Language)
	return &Context{
		Ctx:     ctx,
		Config:  cfg,
		Prefs:   prefs,
		Store:   s,
		Tr:      locale.New(lang),
		Clock:   clock,
		Out:     out,
		Fetcher: engine.NewHTTPFetcher(),
	}, nil
}

// Close releases the record store.
func (c *Context) Close() error {
	if c.Store == nil {
		return nil
	}
	return c.Store.Close()
}

// Tracker wires a tracker over the store. pub may be nil.
func (c *Context) Tracker(pub tracker.Publisher) *tracker.Tracker {
	return tracker.New(c.Store, c.Clock, c.Fetcher, pub)
}

// Location is the zone used to interpret dates typed on the command line.
func (c *Context) Location() *time.Location {
	return c.Config.Location()
}
