package app

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/km-arc/authforms/framework/config"
	"github.com/km-arc/authforms/framework/container"
	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/providers"
	"github.com/km-arc/authforms/framework/routing"
	"github.com/km-arc/authforms/framework/translation"
)

// Application is the top-level application container.
// It embeds the IoC Container and ProviderRegistry so user code can
// call app.Singleton(), app.Register() directly, like $app in Laravel's
// bootstrap/app.php.
type Application struct {
	*container.Container
	Providers *container.ProviderRegistry

	config *providers.ConfigServiceProvider
}

// Resources are the filesystems the framework providers read from.
type Resources struct {
	Views  fs.FS
	Lang   fs.FS
	Static fs.FS // optional, served under /assets
}

// New creates the application and registers the framework core providers.
// Nothing is built until Boot.
func New(res Resources, envFiles ...string) *Application {
	c := container.New()
	registry := container.NewProviderRegistry(c)

	app := &Application{
		Container: c,
		Providers: registry,
		config:    &providers.ConfigServiceProvider{EnvFiles: envFiles},
	}

	// Register never fails before Boot.
	_ = registry.Register(app.config)
	_ = registry.Register(&providers.LogServiceProvider{})
	_ = registry.Register(&providers.TranslationServiceProvider{FS: res.Lang})
	_ = registry.Register(&providers.ViewServiceProvider{FS: res.Views})
	_ = registry.Register(&providers.RoutingServiceProvider{Assets: res.Static})

	return app
}

// Configure adds an override applied to the configuration after it is read
// from the environment. Call it before Boot.
func (a *Application) Configure(fn func(*config.Config)) {
	a.config.Overrides = append(a.config.Overrides, fn)
}

// Register adds a ServiceProvider to the application.
func (a *Application) Register(provider container.ServiceProvider) error {
	return a.Providers.Register(provider)
}

// Boot runs the Boot() phase on all providers.
func (a *Application) Boot() error {
	return a.Providers.Boot()
}

// Config resolves *config.Config from the container. Boot first.
func (a *Application) Config() *config.Config {
	return container.MustResolve[*config.Config](a.Container, "config")
}

// Logger resolves the application logger. Boot first.
func (a *Application) Logger() zerolog.Logger {
	return container.MustResolve[zerolog.Logger](a.Container, "log")
}

// Router resolves *routing.Router from the container. Boot first.
func (a *Application) Router() *routing.Router {
	return container.MustResolve[*routing.Router](a.Container, "router")
}

// Translator resolves *translation.Translator from the container. Boot first.
func (a *Application) Translator() *translation.Translator {
	return container.MustResolve[*translation.Translator](a.Container, "translator")
}

// ── Serving ──────────────────────────────────────────────────────────────────

// Run boots the application and serves HTTP on APP_PORT until ctx is done.
func (a *Application) Run(ctx context.Context) error {
	if err := a.Boot(); err != nil {
		return err
	}
	ln, err := net.Listen("tcp", a.Config().Addr())
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return a.Serve(ctx, ln)
}

// Serve serves HTTP on ln until ctx is done, then shuts down gracefully,
// waiting up to HTTP_SHUTDOWN_TIMEOUT for in-flight requests.
func (a *Application) Serve(ctx context.Context, ln net.Listener) error {
	if err := a.Boot(); err != nil {
		return err
	}
	cfg, log := a.Config(), a.Logger()

	srv := &http.Server{
		Handler:           a.Router().Handler(),
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	log.Info().
		Str("addr", ln.Addr().String()).
		Str("env", a.Environment()).
		Bool("debug", a.IsDebug()).
		Strs("locales", a.Translator().Locales()).
		Msgf("%s listening", cfg.App.Name)
	if a.IsProduction() && a.IsDebug() {
		log.Warn().Msg("APP_DEBUG is on in production")
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	<-errCh
	return nil
}

// Close releases resources held by providers (log files).
func (a *Application) Close() error {
	var errs []error
	for _, p := range a.Providers.Providers() {
		if c, ok := p.(interface{ Close() error }); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// Environment returns APP_ENV value.
func (a *Application) Environment() string { return a.Config().App.Env }
func (a *Application) IsProduction() bool  { return a.Environment() == "production" }
func (a *Application) IsDebug() bool       { return a.Config().App.Debug }

// Controller is an embeddable base for HTTP controllers.
type Controller struct{}

func (c *Controller) Request(r *http.Request) *gohttp.Request {
	return gohttp.NewRequest(r)
}

func (c *Controller) Response(w http.ResponseWriter) *gohttp.Response {
	return gohttp.NewResponse(w)
}
