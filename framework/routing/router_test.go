package routing_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/authforms/framework/routing"
)

func newRouter(buf *bytes.Buffer) *routing.Router {
	return routing.New(zerolog.New(buf))
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouter_VerbsAndParams(t *testing.T) {
	r := newRouter(&bytes.Buffer{})
	r.Get("/forms/{form}", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(routing.Param(req, "form")))
	})
	r.Post("/forms/{form}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	rec := serve(r, http.MethodGet, "/forms/signup")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "signup", rec.Body.String())

	assert.Equal(t, http.StatusCreated, serve(r, http.MethodPost, "/forms/signup").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(r, http.MethodDelete, "/forms/signup").Code)
}

func TestRouter_Static(t *testing.T) {
	r := newRouter(&bytes.Buffer{})
	r.Static("/assets", fstest.MapFS{"form.js": {Data: []byte("console.log(1)")}})

	rec := serve(r, http.MethodGet, "/assets/form.js")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "console.log(1)", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "javascript")

	assert.Equal(t, http.StatusNotFound, serve(r, http.MethodGet, "/assets/missing.js").Code)
}

func TestRouter_Redirect(t *testing.T) {
	r := newRouter(&bytes.Buffer{})
	r.Redirect("/", "/login", http.StatusFound)

	rec := serve(r, http.MethodGet, "/")
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestRouter_PrefixAndGroupMiddleware(t *testing.T) {
	r := newRouter(&bytes.Buffer{})
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.Header().Set("X-Group", "api")
			next.ServeHTTP(w, req)
		})
	}

	r.Prefix("/api", func(api *routing.Router) {
		api.Group(func(g *routing.Router) {
			g.Middleware(tag)
			g.Get("/ping", func(w http.ResponseWriter, req *http.Request) {})
		})
	})
	r.Get("/plain", func(w http.ResponseWriter, req *http.Request) {})

	assert.Equal(t, "api", serve(r, http.MethodGet, "/api/ping").Header().Get("X-Group"))
	assert.Empty(t, serve(r, http.MethodGet, "/plain").Header().Get("X-Group"))
}

func TestRouter_NotFound(t *testing.T) {
	r := newRouter(&bytes.Buffer{})
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	})

	rec := serve(r, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf)
	r.Get("/hello", func(w http.ResponseWriter, req *http.Request) {
		zerolog.Ctx(req.Context()).Info().Msg("inside")
		w.WriteHeader(http.StatusTeapot)
	})

	serve(r, http.MethodGet, "/hello")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var inside, access map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &inside))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &access))

	assert.Equal(t, "inside", inside["message"])
	assert.NotEmpty(t, inside["request_id"])
	assert.Equal(t, inside["request_id"], access["request_id"])

	assert.Equal(t, "request", access["message"])
	assert.Equal(t, "GET", access["method"])
	assert.Equal(t, "/hello", access["path"])
	assert.EqualValues(t, http.StatusTeapot, access["status"])
}

func TestRequestLogger_PanicIsLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	r := newRouter(&buf)
	r.Get("/boom", func(w http.ResponseWriter, req *http.Request) {
		panic("boom")
	})

	rec := serve(r, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, buf.String(), `"level":"error"`)
	assert.Contains(t, buf.String(), `"status":500`)
}
