package routing

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// Router wraps chi.Router with Laravel-style helpers.
type Router struct {
	mux chi.Router
}

// New creates a Router with the default stack: request IDs, real client IP,
// a zerolog access log and panic recovery.
func New(logger zerolog.Logger) *Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(middleware.Recoverer)
	return &Router{mux: r}
}

// ── HTTP verbs ───────────────────────────────────────────────────────────────

func (r *Router) Get(pattern string, h http.HandlerFunc)  { r.mux.Get(pattern, h) }
func (r *Router) Post(pattern string, h http.HandlerFunc) { r.mux.Post(pattern, h) }

// Redirect answers GET from with a redirect to to, Laravel: Route::redirect()
func (r *Router) Redirect(from, to string, status int) {
	r.mux.Get(from, func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, to, status)
	})
}

// ── Groups & Prefixes ────────────────────────────────────────────────────────

// Group creates an inline group, Laravel: Route::group([], fn)
func (r *Router) Group(fn func(r *Router)) {
	r.mux.Group(func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// Prefix creates a sub-router with a URL prefix, Laravel: Route::prefix('/api')
func (r *Router) Prefix(pattern string, fn func(r *Router)) {
	r.mux.Route(pattern, func(mx chi.Router) {
		fn(&Router{mux: mx})
	})
}

// ── Middleware ───────────────────────────────────────────────────────────────

// Middleware adds one or more middleware to the router. On the root router
// it must be called before any route is registered.
func (r *Router) Middleware(mw ...func(http.Handler) http.Handler) {
	r.mux.Use(mw...)
}

// NotFound sets the handler for unmatched paths.
func (r *Router) NotFound(h http.HandlerFunc) { r.mux.NotFound(h) }

// ── Static files ─────────────────────────────────────────────────────────────

// Static serves fsys under prefix, e.g. router.Static("/assets", resources.Static())
func (r *Router) Static(prefix string, fsys fs.FS) {
	files := http.StripPrefix(prefix, http.FileServer(http.FS(fsys)))
	r.mux.Get(prefix+"/*", files.ServeHTTP)
}

// ── Params ───────────────────────────────────────────────────────────────────

// Param extracts a URL param, equivalent to $request->route('id')
func Param(r *http.Request, key string) string {
	return chi.URLParam(r, key)
}

// ── Serve ────────────────────────────────────────────────────────────────────

// ServeHTTP implements http.Handler so Router can be passed to http.Server.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, req)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.mux
}
