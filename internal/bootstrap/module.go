package bootstrap

import (
	"context"
	"log/slog"

	"go.uber.org/fx"
	"gorm.io/gorm"

	"opevents/internal/bootstrap/config"
	"opevents/internal/bootstrap/database"
	"opevents/internal/bootstrap/logging"
	cacheinfra "opevents/internal/infrastructure/cache"
	"opevents/internal/infrastructure/catalogfile"
	"opevents/internal/infrastructure/msgraph"
	sqliterepo "opevents/internal/infrastructure/persistence/sqlite/repository"
	"opevents/internal/ports"
	authuc "opevents/internal/usecase/auth"
	cataloguc "opevents/internal/usecase/catalog"
	eventsuc "opevents/internal/usecase/events"
	reportsuc "opevents/internal/usecase/reports"
)

var Module = fx.Options(
	fx.Provide(provideConfig),
	fx.Provide(provideDatabase),
	fx.Provide(provideApp),
	fx.Provide(
		fx.Annotate(
			cacheinfra.NewSQLiteCache,
			fx.As(new(ports.Cache)),
		),
	),
	fx.Provide(
		fx.Annotate(
			sqliterepo.NewSessionRepository,
			fx.As(new(ports.SessionRepository)),
		),
	),
	fx.Provide(provideCatalogStore),
	fx.Provide(msgraph.NewClient),
	fx.Provide(func(c *msgraph.Client) ports.Identity { return c }),
	fx.Provide(func(c *msgraph.Client) ports.Directory { return c }),
	fx.Provide(
		fx.Annotate(
			msgraph.NewListRepository,
			fx.As(new(ports.EventRepository)),
		),
	),
	fx.Provide(
		fx.Annotate(
			msgraph.NewMailer,
			fx.As(new(ports.Mailer)),
		),
	),
	fx.Provide(cataloguc.NewService),
	fx.Provide(func(s *cataloguc.Service) eventsuc.CatalogProvider { return s }),
	fx.Provide(eventsuc.NewService),
	fx.Provide(reportsuc.NewService),
	fx.Provide(authuc.NewService),
)

type configParams struct {
	fx.In

	Ctx        context.Context
	ConfigFile string `name:"configFile"`
}

func provideConfig(p configParams) (config.Config, error) {
	ctx := logging.WithAttrs(p.Ctx, slog.String("component", "bootstrap.fx"))
	return config.Load(ctx, p.ConfigFile)
}

func provideDatabase(lc fx.Lifecycle, ctx context.Context, cfg config.Config) (*gorm.DB, error) {
	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.fx"))

	db, err := database.Open(logCtx, cfg.Database)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})

	return db, nil
}

func provideApp(cfg config.Config, db *gorm.DB) *App {
	return &App{
		Config: cfg,
		DB:     db,
	}
}

func provideCatalogStore(cfg config.Config) ports.CatalogStore {
	return catalogfile.NewStore(cfg.Catalog.File)
}
