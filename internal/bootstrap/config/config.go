package config

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"opevents/internal/bootstrap/logging"
	"opevents/internal/errs"
)

type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Azure    AzureConfig    `mapstructure:"azure"`
	Graph    GraphConfig    `mapstructure:"graph"`
	Mail     MailConfig     `mapstructure:"mail"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Database DatabaseConfig `mapstructure:"database"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Description string `mapstructure:"description"`
	Version     string `mapstructure:"version"`
	Env         string `mapstructure:"env"`
	URL         string `mapstructure:"url"`
	EnableAuth  bool   `mapstructure:"enable_auth"`
	Debug       bool   `mapstructure:"debug"`
}

// AzureConfig identifies the app registration used for both the
// delegated login flow and client-credentials calls.
type AzureConfig struct {
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"`
	TenantID     string `mapstructure:"tenant_id"`
	RedirectURI  string `mapstructure:"redirect_uri"`
}

type GraphConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	LoginURL   string `mapstructure:"login_url"`
	SiteID     string `mapstructure:"site_id"`
	ListID     string `mapstructure:"list_id"`
	UserDomain string `mapstructure:"user_domain"`
}

type MailConfig struct {
	Sender string `mapstructure:"sender"`
}

type CatalogConfig struct {
	File string `mapstructure:"file"`
}

type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	DSN    string `mapstructure:"dsn"`
}

type HTTPConfig struct {
	Addr           string `mapstructure:"addr"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

func (c Config) IsProduction() bool {
	return c.App.Env == "production"
}

// Authority returns the identity platform authority URL for the tenant,
// falling back to the multi-tenant endpoint when no tenant is set.
func (c Config) Authority() string {
	base := strings.TrimRight(c.Graph.LoginURL, "/")
	if c.Azure.TenantID != "" {
		return base + "/" + c.Azure.TenantID
	}
	return base + "/common"
}

// UserScopes are the delegated scopes requested at login. Reserved OIDC
// scopes (openid, profile, offline_access) are added by the provider.
func (c Config) UserScopes() []string {
	return []string{"User.Read"}
}

// AppScopes are the scopes for client-credentials (application) tokens.
// The resource root is the Graph base URL without its version segment.
func (c Config) AppScopes() []string {
	root := strings.TrimSuffix(strings.TrimRight(c.Graph.BaseURL, "/"), "/v1.0")
	return []string{root + "/.default"}
}

func Load(ctx context.Context, configFile string) (Config, error) {
	if ctx == nil {
		return Config{}, errors.New("context is required")
	}
	if err := ctx.Err(); err != nil {
		return Config{}, errs.Wrap(err, "check context")
	}

	logCtx := logging.WithAttrs(ctx, slog.String("component", "bootstrap.config"))

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("OPEVENTS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile == "" && errors.As(err, &notFound) {
			// Keep default and env-backed config when no file is provided.
			logging.Warn(logCtx, "config file not found, fallback to defaults and env")
		} else {
			return Config{}, errs.Wrap(err, "read config")
		}
	} else {
		logging.Info(logCtx, "using config file", slog.String("path", v.ConfigFileUsed()))
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, errs.Wrap(err, "unmarshal config")
	}

	if cfg.Database.DSN == "" {
		return Config{}, errors.New("database.dsn is required")
	}
	if cfg.Catalog.File == "" {
		return Config{}, errors.New("catalog.file is required")
	}

	logging.Info(
		logCtx,
		"config loaded",
		slog.String("app", cfg.App.Name),
		slog.String("env", cfg.App.Env),
		slog.Bool("auth_enabled", cfg.App.EnableAuth),
	)

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Operation Events")
	v.SetDefault("app.description", "Captura y análisis de eventos operativos en producción")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.url", "http://localhost:3001")
	v.SetDefault("app.enable_auth", true)
	v.SetDefault("app.debug", false)

	v.SetDefault("azure.redirect_uri", "http://localhost:8080/auth/callback")

	v.SetDefault("graph.base_url", "https://graph.microsoft.com/v1.0")
	v.SetDefault("graph.login_url", "https://login.microsoftonline.com")

	v.SetDefault("catalog.file", "configs/catalogs.json")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", ".opevents/state/opevents.sqlite")

	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.timeout_seconds", 15)
}
