// Package submission receives form data that passed validation.
package submission

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/km-arc/authforms/framework/http/validation"
)

// Redacted replaces secret values in logs.
const Redacted = "[redacted]"

// Submission is a validated form post.
type Submission struct {
	Form       string
	Values     validation.Values
	Secret     []string // fields never to be logged
	RequestID  string
	RemoteAddr string
}

// Safe returns Values with every secret field replaced by Redacted.
func (s Submission) Safe() validation.Values {
	out := s.Values.Without(s.Secret...)
	for _, name := range s.Secret {
		if _, ok := s.Values[name]; ok {
			out[name] = Redacted
		}
	}
	return out
}

// Handler consumes a valid submission. An error is reported to the user as
// a server error; the submission is not retried.
type Handler interface {
	Handle(ctx context.Context, s Submission) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, s Submission) error

func (f HandlerFunc) Handle(ctx context.Context, s Submission) error { return f(ctx, s) }

// LogHandler writes each submission to a logger and does nothing else.
type LogHandler struct {
	log zerolog.Logger
}

func NewLogHandler(log zerolog.Logger) *LogHandler {
	return &LogHandler{log: log}
}

func (h *LogHandler) Handle(ctx context.Context, s Submission) error {
	safe := s.Safe()
	keys := make([]string, 0, len(safe))
	for k := range safe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	values := zerolog.Dict()
	for _, k := range keys {
		values = values.Interface(k, safe[k])
	}

	h.log.Info().
		Str("form", s.Form).
		Str("request_id", s.RequestID).
		Str("remote", s.RemoteAddr).
		Dict("values", values).
		Msg("form submitted")
	return nil
}
