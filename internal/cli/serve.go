package cli

import (
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
	"github.com/tartampluch/go-countday/internal/config"
	"github.com/tartampluch/go-countday/internal/server"
)

// ServeCmd publishes the iCalendar feed without a window.
type ServeCmd struct {
	Port string `short:"p" help:"Loopback port. Defaults to listen_port from the config file."`
}

// Run serves until the context is cancelled, republishing on the refresh schedule.
func (c *ServeCmd) Run(ctx *Context) error {
	port := ctx.Config.ListenPort
	if c.Port != "" {
		if err := config.ValidatePort(c.Port); err != nil {
			return err
		}
		port = c.Port
	}

	srv := server.NewFeedServer(port)
	trk := ctx.Tracker(srv)
	if err := trk.Publish(ctx.Ctx); err != nil {
		return err
	}

	log := slog.With(config.LogKeyComponent, config.CompWorker)
	sched := cron.New()
	if _, err := sched.AddFunc(ctx.Config.Refresh, func() {
		if err := trk.Publish(ctx.Ctx); err != nil {
			log.Warn(config.MsgPublishFailed, config.LogKeyError, err)
		}
	}); err != nil {
		return fmt.Errorf("%s: %w", config.ErrSchedule, err)
	}
	sched.Start()
	log.Info(config.MsgWorkerStart, config.LogKeySchedule, ctx.Config.Refresh)
	defer func() {
		<-sched.Stop().Done()
		log.Info(config.MsgWorkerStop)
	}()

	url := fmt.Sprintf(config.FeedURLFormat, config.LocalhostBindAddr+config.AddrSeparator+port, config.RouteFeed)
	slog.Info(config.MsgServeReady, config.LogKeyURL, url, config.LogKeyComponent, config.CompCLI)
	if _, err := fmt.Fprintf(ctx.Out, config.FormatCLIServing, url); err != nil {
		return err
	}

	return srv.Start(ctx.Ctx)
}
