// Package providers wires the application's own services and routes into
// the container.
package providers

import (
	"net/http"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/km-arc/authforms/app/forms"
	"github.com/km-arc/authforms/app/http/controllers"
	"github.com/km-arc/authforms/app/submission"
	"github.com/km-arc/authforms/framework/config"
	"github.com/km-arc/authforms/framework/container"
	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/routing"
	"github.com/km-arc/authforms/framework/translation"
)

// All returns the application providers in registration order.
func All() []container.ServiceProvider {
	return []container.ServiceProvider{
		&FormsServiceProvider{},
		&SubmissionServiceProvider{},
		&RouteServiceProvider{},
	}
}

// ── FormsServiceProvider ──────────────────────────────────────────────────────

// FormsServiceProvider loads the form schemas from FORMS_FILE, or the
// embedded set.
//
// Bound abstracts:
//   - "forms"  → *forms.Registry
type FormsServiceProvider struct {
	container.BaseProvider
}

func (p *FormsServiceProvider) Register(app *container.Container) {
	app.Singleton("forms", func(c *container.Container) (any, error) {
		cfg, err := container.Resolve[*config.Config](c, "config")
		if err != nil {
			return nil, err
		}
		return forms.LoadFile(cfg.Forms.File)
	})
}

// Boot refuses to start with a misconfigured schema.
func (p *FormsServiceProvider) Boot(app *container.Container) error {
	_, err := app.Make("forms")
	return err
}

// ── SubmissionServiceProvider ─────────────────────────────────────────────────

// SubmissionServiceProvider binds the handler for valid submissions. A
// handler bound to "submission.handler" before registration is kept.
//
// Bound abstracts:
//   - "submission.handler"  → submission.Handler (LogHandler by default)
type SubmissionServiceProvider struct {
	container.BaseProvider
}

func (p *SubmissionServiceProvider) Register(app *container.Container) {
	if app.Bound("submission.handler") {
		return
	}
	app.Singleton("submission.handler", func(c *container.Container) (any, error) {
		logger, err := container.Resolve[zerolog.Logger](c, "log")
		if err != nil {
			return nil, err
		}
		var h submission.Handler = submission.NewLogHandler(logger.With().Str("component", "submission").Logger())
		return h, nil
	})
}

// ── RouteServiceProvider ──────────────────────────────────────────────────────

// RouteServiceProvider builds the controllers and registers every route:
//
//	GET       /                          → redirect to the first form
//	GET       /assets/*                  → embedded static files
//	GET|POST  /<form path>               → FormController
//	GET       /api/forms/{form}          → APIController.Schema
//	POST      /api/forms/{form}/validate → APIController.Validate
type RouteServiceProvider struct {
	container.BaseProvider
}

func (p *RouteServiceProvider) Register(_ *container.Container) {}

func (p *RouteServiceProvider) Boot(app *container.Container) error {
	router, err := container.Resolve[*routing.Router](app, "router")
	if err != nil {
		return err
	}
	registry, err := container.Resolve[*forms.Registry](app, "forms")
	if err != nil {
		return err
	}
	views, err := container.Resolve[*gohttp.ViewEngine](app, "view")
	if err != nil {
		return err
	}
	tr, err := container.Resolve[*translation.Translator](app, "translator")
	if err != nil {
		return err
	}
	handler, err := container.Resolve[submission.Handler](app, "submission.handler")
	if err != nil {
		return err
	}

	pages := controllers.NewFormController(views, tr, handler)
	api := controllers.NewAPIController(registry, tr)

	all := registry.All()
	if len(all) > 0 && all[0].Path != "/" {
		router.Redirect("/", all[0].Path, http.StatusFound)
	}
	router.Group(func(r *routing.Router) {
		// Pages are rendered in the negotiated language.
		r.Middleware(middleware.SetHeader("Vary", "Accept-Language"))
		for _, f := range all {
			r.Get(f.Path, pages.Show(f))
			r.Post(f.Path, pages.Submit(f))
		}
	})

	router.Prefix("/api/forms", func(r *routing.Router) {
		r.Middleware(middleware.NoCache)
		r.Get("/{form}", api.Schema)
		r.Post("/{form}/validate", api.Validate)
	})

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		gohttp.NewResponse(w).NotFound()
	})
	return nil
}
