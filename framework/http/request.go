package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/km-arc/authforms/framework/http/validation"
	"github.com/km-arc/authforms/framework/routing"
)

const maxBody = 1 << 20 // 1 MB

// ErrBadBody is returned when a request body cannot be read as form input.
var ErrBadBody = errors.New("malformed request body")

// Request wraps *http.Request with Laravel-style helpers.
type Request struct {
	raw *http.Request
}

// NewRequest wraps a standard *http.Request.
func NewRequest(r *http.Request) *Request {
	return &Request{raw: r}
}

// ── Form input ───────────────────────────────────────────────────────────────

// Values reads the submitted values for schema's fields.
//
// A JSON body must be a single object; its values are kept as decoded.
// Anything else is parsed as a url-encoded or multipart form, where only
// fields present in the body are set. In both cases checkbox fields are
// turned into booleans: an unchecked box is simply absent from a form post.
func (req *Request) Values(schema *validation.FormSchema) (validation.Values, error) {
	if req.IsJSONBody() {
		return req.jsonValues(schema)
	}
	return req.formValues(schema)
}

func (req *Request) jsonValues(schema *validation.FormSchema) (validation.Values, error) {
	defer req.raw.Body.Close()
	body, err := io.ReadAll(io.LimitReader(req.raw.Body, maxBody))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	var values validation.Values
	if err := json.Unmarshal(body, &values); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}
	if values == nil {
		return nil, fmt.Errorf("%w: expected a JSON object", ErrBadBody)
	}

	for _, f := range schema.Fields() {
		if f.Type != validation.TypeCheckbox {
			continue
		}
		if s, ok := values[f.Name].(string); ok {
			values[f.Name] = checked(s)
		}
	}
	return values, nil
}

func (req *Request) formValues(schema *validation.FormSchema) (validation.Values, error) {
	req.raw.Body = http.MaxBytesReader(nil, req.raw.Body, maxBody)
	if strings.HasPrefix(req.ContentType(), "multipart/form-data") {
		if err := req.raw.ParseMultipartForm(maxBody); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
		}
	} else if err := req.raw.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadBody, err)
	}

	values := make(validation.Values, schema.Len())
	for _, f := range schema.Fields() {
		vals, present := req.raw.PostForm[f.Name]
		switch {
		case f.Type == validation.TypeCheckbox:
			values[f.Name] = present && len(vals) > 0 && checked(vals[len(vals)-1])
		case present && len(vals) > 0:
			values[f.Name] = vals[0]
		}
	}
	return values, nil
}

// checked reports whether a submitted checkbox value means "ticked".
func checked(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

// ── Input helpers ────────────────────────────────────────────────────────────

// Query returns a query-string value.
func (req *Request) Query(key string, fallback ...string) string {
	v := req.raw.URL.Query().Get(key)
	if v == "" && len(fallback) > 0 {
		return fallback[0]
	}
	return v
}

// RouteParam returns a URL route parameter.
func (req *Request) RouteParam(key string) string {
	return routing.Param(req.raw, key)
}

// Header returns a request header value.
func (req *Request) Header(key string) string {
	return req.raw.Header.Get(key)
}

// IP returns the client IP (respects RealIP middleware).
func (req *Request) IP() string {
	return req.raw.RemoteAddr
}

// ContentType returns the Content-Type header value.
func (req *Request) ContentType() string {
	return req.raw.Header.Get("Content-Type")
}

// IsJSONBody returns true when the body is declared as JSON.
func (req *Request) IsJSONBody() bool {
	return strings.Contains(req.ContentType(), "application/json")
}
