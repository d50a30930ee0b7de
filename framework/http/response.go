package http

import (
	"encoding/json"
	"net/http"

	"github.com/km-arc/authforms/framework/http/validation"
)

// ── Response ─────────────────────────────────────────────────────────────────

// Response wraps http.ResponseWriter with Laravel-style helpers.
type Response struct {
	w http.ResponseWriter
}

// NewResponse wraps a ResponseWriter.
func NewResponse(w http.ResponseWriter) *Response {
	return &Response{w: w}
}

// ── JSON responses ────────────────────────────────────────────────────────────

// JSON sends a JSON response.
//
//	res.JSON(http.StatusOK, map[string]any{"message": "ok"})
func (res *Response) JSON(status int, data any) {
	res.w.Header().Set("Content-Type", "application/json")
	res.w.WriteHeader(status)
	_ = json.NewEncoder(res.w).Encode(data)
}

// Success sends 200 JSON: {"data": v}
func (res *Response) Success(v any) {
	res.JSON(http.StatusOK, envelope{"data": v})
}

// Error sends a JSON error response.
//
//	res.Error(http.StatusBadRequest, "malformed request body")
func (res *Response) Error(status int, message string) {
	res.JSON(status, envelope{"message": message})
}

// NotFound sends 404.
func (res *Response) NotFound(message ...string) {
	res.Error(http.StatusNotFound, first(message, "Not found."))
}

// ValidationResult is the JSON body of a validation answer.
type ValidationResult struct {
	Valid    bool              `json:"valid"`
	Fields   validation.Result `json:"fields"`
	Messages map[string]string `json:"messages,omitempty"`
}

// Validation sends 200 with the per-field statuses and, when given, the
// localized message for each violation. A failed validation is still a
// successful request.
//
//	{"valid": false, "fields": {"email": "valid", "password": "min_length"},
//	 "messages": {"password": "..."}}
func (res *Response) Validation(result validation.Result, messages map[string]string) {
	res.JSON(http.StatusOK, ValidationResult{
		Valid:    result.Passes(),
		Fields:   result,
		Messages: messages,
	})
}

// ── Helpers ──────────────────────────────────────────────────────────────────

type envelope map[string]any

func first(ss []string, fallback string) string {
	if len(ss) > 0 && ss[0] != "" {
		return ss[0]
	}
	return fallback
}
