package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/tartampluch/go-countday/internal/cli"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/logging"
)

// main delegates to runMain so deferred closers run before os.Exit.
func main() {
	os.Exit(runMain(os.Args[1:]))
}

// runMain parses the command line, wires logging and runs the selected command.
func runMain(args []string) int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	var grammar cli.CLI
	parser, err := cli.NewParser(&grammar, os.Stdout, os.Stderr, os.Exit)
	if err != nil {
		fmt.Fprintf(os.Stderr, config.FormatCLIError, err)
		return config.ExitCodeError
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return config.ExitCodeError
	}

	configPath, err := grammar.ConfigPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, config.FormatCLIError, err)
		return config.ExitCodeError
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, config.FormatCLIError, err)
		return config.ExitCodeError
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	// The terminal view owns the screen, so it only logs to the file.
	var console io.Writer
	if grammar.Debug && !strings.HasPrefix(kctx.Command(), "tui") {
		console = os.Stderr
	}
	logCloser, err := logging.Setup(logging.Options{Debug: grammar.Debug, Dir: cfg.LogDir, Console: console})
	if err != nil {
		fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, cfg.LogDir, err)
	} else {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo(kctx.Command(), configPath)

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	app, err := cli.Open(ctx, cfg, configPath, os.Stdout)
	if err != nil {
		return fail(err)
	}
	defer func() {
		_ = app.Close()
	}()

	if err := kctx.Run(app); err != nil {
		return fail(err)
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

func fail(err error) int {
	slog.Error(config.ErrAppFailed,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyError, err,
	)
	fmt.Fprintf(os.Stderr, config.FormatCLIError, err)
	return config.ExitCodeError
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo(command, configPath string) {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		config.LogKeyCommand, command,
		config.LogKeyConfig, configPath,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}
