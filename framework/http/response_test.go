package http_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/http/validation"
)

func TestResponse_JSONHelpers(t *testing.T) {
	tests := []struct {
		name   string
		send   func(res *gohttp.Response)
		status int
		body   string
	}{
		{"success", func(res *gohttp.Response) { res.Success("ok") }, 200, `{"data":"ok"}`},
		{"error", func(res *gohttp.Response) { res.Error(400, "bad") }, 400, `{"message":"bad"}`},
		{"not found", func(res *gohttp.Response) { res.NotFound() }, 404, `{"message":"Not found."}`},
		{"not found custom", func(res *gohttp.Response) { res.NotFound("no form") }, 404, `{"message":"no form"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.send(gohttp.NewResponse(rec))

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestResponse_Validation(t *testing.T) {
	schema := signupSchema()
	result := validation.Validate(schema, validation.Values{"email": "a@b.com"})

	rec := httptest.NewRecorder()
	gohttp.NewResponse(rec).Validation(result, map[string]string{"password": "required!"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"valid": false,
		"fields": {"email": "valid", "password": "required", "agreement": "must_be_true"},
		"messages": {"password": "required!"}
	}`, rec.Body.String())

	rec = httptest.NewRecorder()
	gohttp.NewResponse(rec).Validation(validation.Validate(schema, validation.Values{
		"email": "a@b.com", "password": "x", "agreement": true,
	}), nil)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["valid"])
	assert.NotContains(t, body, "messages")
}

// ── ViewEngine ───────────────────────────────────────────────────────────────

var views = fstest.MapFS{
	"layouts/app.html": {Data: []byte(`<title>{{ .Title }}</title>{{ template "content" . }}`)},
	"form.html":        {Data: []byte(`{{ define "content" }}<h1>{{ .Heading }}</h1>{{ end }}`)},
	"broken.html":      {Data: []byte(`{{ define "content" }}{{ template "nope" . }}{{ end }}`)},
}

func TestViewEngine_ViewWithLayout(t *testing.T) {
	engine := gohttp.NewViewEngine(views, ".html", false)

	rec := httptest.NewRecorder()
	err := engine.ViewWithLayout(rec, http.StatusUnprocessableEntity, "layouts/app", "form",
		map[string]string{"Title": "<Signup>", "Heading": "Hi"})
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, `<title>&lt;Signup&gt;</title><h1>Hi</h1>`, rec.Body.String())
}

func TestViewEngine_Errors(t *testing.T) {
	engine := gohttp.NewViewEngine(views, ".html", true)

	rec := httptest.NewRecorder()
	err := engine.ViewWithLayout(rec, http.StatusOK, "layouts/app", "missing", nil)
	require.Error(t, err)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var buf bytes.Buffer
	err = engine.Render(&buf, "layouts/app", "broken", nil)
	assert.ErrorContains(t, err, "render broken")
}

func TestViewEngine_Cache(t *testing.T) {
	fsys := fstest.MapFS{
		"layouts/app.html": {Data: []byte(`{{ template "content" . }}`)},
		"page.html":        {Data: []byte(`{{ define "content" }}v1{{ end }}`)},
	}
	engine := gohttp.NewViewEngine(fsys, ".html", false)

	var buf bytes.Buffer
	require.NoError(t, engine.Render(&buf, "layouts/app", "page", nil))
	fsys["page.html"] = &fstest.MapFile{Data: []byte(`{{ define "content" }}v2{{ end }}`)}

	buf.Reset()
	require.NoError(t, engine.Render(&buf, "layouts/app", "page", nil))
	assert.Equal(t, "v1", buf.String())
}
