// Package console implements the command-line actions behind main.go.
package console

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/km-arc/authforms/app/forms"
	"github.com/km-arc/authforms/app/providers"
	"github.com/km-arc/authforms/framework/app"
	"github.com/km-arc/authforms/framework/config"
	"github.com/km-arc/authforms/framework/container"
	gohttp "github.com/km-arc/authforms/framework/http"
	"github.com/km-arc/authforms/framework/http/validation"
	"github.com/km-arc/authforms/resources"
)

// Flags are the global command-line options. Empty values leave the
// environment's settings alone.
type Flags struct {
	EnvFiles  []string
	LogLevel  string
	LogFile   string
	Locale    string
	FormsFile string
}

// Bootstrap creates the application with every provider registered. The
// caller boots it and must Close it.
func Bootstrap(flags *Flags) *app.Application {
	a := app.New(app.Resources{
		Views:  resources.Views(),
		Lang:   resources.Lang(),
		Static: resources.Static(),
	}, flags.EnvFiles...)
	a.Configure(func(cfg *config.Config) {
		if flags.LogLevel != "" {
			cfg.Log.Level = flags.LogLevel
		}
		if flags.LogFile != "" {
			cfg.Log.File = flags.LogFile
		}
		if flags.Locale != "" {
			cfg.App.Locale = flags.Locale
		}
		if flags.FormsFile != "" {
			cfg.Forms.File = flags.FormsFile
		}
	})
	for _, p := range providers.All() {
		// Register only fails for providers added after Boot.
		_ = a.Register(p)
	}
	return a
}

// Serve runs the HTTP server until ctx is cancelled.
func Serve(ctx context.Context, flags *Flags) error {
	a := Bootstrap(flags)
	defer a.Close()
	return a.Run(ctx)
}

// ErrInvalid is returned by Validate when the values break at least one rule.
var ErrInvalid = errors.New("submission is invalid")

// Validate checks the JSON object read from in against form and writes the
// per-field result to out. Checkbox values must be JSON booleans.
func Validate(flags *Flags, form string, in io.Reader, out io.Writer) error {
	a := Bootstrap(flags)
	defer a.Close()
	if err := a.Boot(); err != nil {
		return err
	}

	registry := container.MustResolve[*forms.Registry](a.Container, "forms")
	f, err := registry.Get(form)
	if err != nil {
		return err
	}

	var values validation.Values
	if err := json.NewDecoder(in).Decode(&values); err != nil {
		return fmt.Errorf("read values: %w", err)
	}

	result := validation.Validate(f.Schema, values)
	tr := a.Translator()

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	err = enc.Encode(gohttp.ValidationResult{
		Valid:    result.Passes(),
		Fields:   result,
		Messages: tr.Messages(tr.Fallback(), f.Schema, result),
	})
	if err != nil {
		return err
	}
	if result.Fails() {
		return ErrInvalid
	}
	return nil
}

// Check loads a forms file (the configured one when path is empty) and
// lists its forms, or returns every configuration error found.
func Check(flags *Flags, path string, out io.Writer) error {
	if path == "" {
		path = flags.FormsFile
	}
	if path == "" {
		path = config.Load(flags.EnvFiles...).Forms.File
	}

	registry, err := forms.LoadFile(path)
	if err != nil {
		return err
	}

	source := path
	if source == "" {
		source = "embedded forms"
	}
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s: %d forms OK\n", source, len(registry.All()))
	for _, f := range registry.All() {
		fmt.Fprintf(tw, "  %s\t%s\t%d fields\n", f.Name(), f.Path, f.Schema.Len())
	}
	return tw.Flush()
}
