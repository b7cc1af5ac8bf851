package cmd

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/fx"

	"opevents/internal/bootstrap"
	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
	"opevents/internal/ports"
	authuc "opevents/internal/usecase/auth"
	cataloguc "opevents/internal/usecase/catalog"
	eventsuc "opevents/internal/usecase/events"
	reportsuc "opevents/internal/usecase/reports"
)

// services bundles the resolved use cases so subcommands share one
// withApp signature.
type services struct {
	Auth      *authuc.Service
	Catalog   *cataloguc.Service
	Events    *eventsuc.Service
	Reports   *reportsuc.Service
	Directory ports.Directory
	Repo      ports.EventRepository
}

func withApp(run func(cmd *cobra.Command, app *bootstrap.App, svc *services) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx := logging.WithAttrs(
			cmd.Context(),
			slog.String("command", cmd.CommandPath()),
			slog.String("config_file", cfgFile),
		)

		var app *bootstrap.App
		svc := &services{}
		fxApp := fx.New(
			bootstrap.Module,
			fx.Provide(func() context.Context { return ctx }),
			fx.Provide(
				fx.Annotate(
					func() string { return cfgFile },
					fx.ResultTags(`name:"configFile"`),
				),
			),
			fx.Populate(&app, &svc.Auth, &svc.Catalog, &svc.Events, &svc.Reports, &svc.Directory, &svc.Repo),
		)

		startCtx, cancelStart := context.WithTimeout(ctx, 10*time.Second)
		defer cancelStart()
		if err := fxApp.Start(startCtx); err != nil {
			logging.Error(ctx, "bootstrap application failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "start fx application")
		}

		defer func() {
			stopCtx, cancelStop := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancelStop()
			if err := fxApp.Stop(stopCtx); err != nil {
				logging.Error(ctx, "fx application stop failed", slog.Any("err", errs.Loggable(err)))
			}
		}()

		if err := run(cmd, app, svc); err != nil {
			return errs.Wrap(err, "run command")
		}
		return nil
	}
}
