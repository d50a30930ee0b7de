package providers

import (
	"io/fs"

	"github.com/rs/zerolog"

	"github.com/km-arc/authforms/framework/config"
	"github.com/km-arc/authforms/framework/container"
	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/logging"
	"github.com/km-arc/authforms/framework/routing"
	"github.com/km-arc/authforms/framework/translation"
)

// ── ConfigServiceProvider ─────────────────────────────────────────────────────

// ConfigServiceProvider loads the application configuration from .env and
// binds it into the container as "config".
//
// Bound abstracts:
//   - "config"  → *config.Config (alias "configuration")
//
// Overrides run after loading and before validation, so command-line flags
// can take precedence over the environment.
type ConfigServiceProvider struct {
	container.BaseProvider
	EnvFiles  []string
	Overrides []func(*config.Config)
}

func (p *ConfigServiceProvider) Register(app *container.Container) {
	app.Singleton("config", func(c *container.Container) (any, error) {
		cfg := config.Load(p.EnvFiles...)
		for _, fn := range p.Overrides {
			fn(cfg)
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return cfg, nil
	})
	app.Alias("config", "configuration")
}

// Boot fails fast on an invalid configuration.
func (p *ConfigServiceProvider) Boot(app *container.Container) error {
	_, err := app.Make("config")
	return err
}

// ── LogServiceProvider ────────────────────────────────────────────────────────

// LogServiceProvider builds the zerolog logger from the "log" config.
//
// Bound abstracts:
//   - "log"  → zerolog.Logger
//
// Local debug runs without LOG_FILE get console output; everything else
// is JSON.
type LogServiceProvider struct {
	container.BaseProvider
	closer func()
}

func (p *LogServiceProvider) Register(app *container.Container) {
	app.Singleton("log", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		pretty := cfg.App.Debug && cfg.App.Env == "local"
		logger, closer, err := logging.New(cfg.Log.Level, cfg.Log.File, pretty)
		if err != nil {
			return nil, err
		}
		p.closer = closer
		return logger.With().Str("app", cfg.App.Name).Logger(), nil
	})
}

func (p *LogServiceProvider) Boot(app *container.Container) error {
	_, err := app.Make("log")
	return err
}

// Close releases the log file, if one was opened.
func (p *LogServiceProvider) Close() error {
	if p.closer != nil {
		p.closer()
	}
	return nil
}

// ── TranslationServiceProvider ────────────────────────────────────────────────

// TranslationServiceProvider loads the language catalogs in FS, falling back
// to the configured APP_LOCALE.
//
// Bound abstracts:
//   - "translator"  → *translation.Translator (alias "lang")
type TranslationServiceProvider struct {
	container.BaseProvider
	FS fs.FS
}

func (p *TranslationServiceProvider) Register(app *container.Container) {
	app.Singleton("translator", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return translation.Load(p.FS, cfg.App.Locale)
	})
	app.Alias("translator", "lang")
}

func (p *TranslationServiceProvider) Boot(app *container.Container) error {
	_, err := app.Make("translator")
	return err
}

// ── RoutingServiceProvider ────────────────────────────────────────────────────

// RoutingServiceProvider registers the HTTP router. Assets, when set, are
// served under /assets.
//
// Bound abstracts:
//   - "router"  → *routing.Router
type RoutingServiceProvider struct {
	container.BaseProvider
	Assets fs.FS
}

func (p *RoutingServiceProvider) Register(app *container.Container) {
	app.Singleton("router", func(c *container.Container) (any, error) {
		logger, err := container.Resolve[zerolog.Logger](c, "log")
		if err != nil {
			return nil, err
		}
		router := routing.New(logger)
		if p.Assets != nil {
			router.Static("/assets", p.Assets)
		}
		return router, nil
	})
}

// ── ViewServiceProvider ───────────────────────────────────────────────────────

// ViewServiceProvider registers the template engine.
//
// Bound abstracts:
//   - "view"   → *gohttp.ViewEngine
//
// Templates are re-parsed on every render while APP_DEBUG is set.
type ViewServiceProvider struct {
	container.BaseProvider
	FS  fs.FS
	Ext string // file extension, default: ".html"
}

func (p *ViewServiceProvider) Register(app *container.Container) {
	ext := p.Ext
	if ext == "" {
		ext = ".html"
	}

	app.Singleton("view", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return gohttp.NewViewEngine(p.FS, ext, cfg.App.Debug), nil
	})
}
