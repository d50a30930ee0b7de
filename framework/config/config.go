package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config is the central typed configuration struct.
type Config struct {
	App   AppConfig
	Log   LogConfig
	HTTP  HTTPConfig
	Forms FormsConfig
}

type AppConfig struct {
	Name   string `validate:"required"`
	Env    string `validate:"oneof=local production testing"`
	Debug  bool
	URL    string `validate:"required,url"`
	Port   string `validate:"required,numeric"`
	Locale string `validate:"required,bcp47_language_tag"`
}

type LogConfig struct {
	Level string `validate:"oneof=trace debug info warn error fatal panic disabled"`
	File  string // empty logs to stderr
}

type HTTPConfig struct {
	ReadTimeout     time.Duration `validate:"gt=0"`
	WriteTimeout    time.Duration `validate:"gt=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

type FormsConfig struct {
	File string // empty uses the embedded forms
}

// Load reads .env (if present) and populates a Config from environment variables.
// Call once at bootstrap: cfg := config.Load()
func Load(envFiles ...string) *Config {
	files := envFiles
	if len(files) == 0 {
		files = []string{".env"}
	}
	// Non-fatal: .env may not exist in production
	_ = godotenv.Load(files...)

	return &Config{
		App: AppConfig{
			Name:   env("APP_NAME", "AuthForms"),
			Env:    env("APP_ENV", "local"),
			Debug:  envBool("APP_DEBUG", true),
			URL:    env("APP_URL", "http://localhost"),
			Port:   env("APP_PORT", "8000"),
			Locale: env("APP_LOCALE", "pt-BR"),
		},
		Log: LogConfig{
			Level: strings.ToLower(env("LOG_LEVEL", "info")),
			File:  env("LOG_FILE", ""),
		},
		HTTP: HTTPConfig{
			ReadTimeout:     GetDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    GetDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			ShutdownTimeout: GetDuration("HTTP_SHUTDOWN_TIMEOUT", 5*time.Second),
		},
		Forms: FormsConfig{
			File: env("FORMS_FILE", ""),
		},
	}
}

// Validate reports every invalid setting, one line per field.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("config: %w", err)
	}
	errs := make([]error, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, fmt.Errorf("config: %s failed %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value()))
	}
	return errors.Join(errs...)
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string { return ":" + c.App.Port }

var validate = validator.New(validator.WithRequiredStructEnabled())

// Get returns a raw env value, falling back to defaultVal.
func Get(key, defaultVal string) string {
	return env(key, defaultVal)
}

// GetInt returns an int env value.
func GetInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

// GetBool returns a bool env value.
func GetBool(key string, defaultVal bool) bool {
	return envBool(key, defaultVal)
}

// GetDuration returns a duration env value ("5s", "250ms"). A bare integer
// is read as seconds.
func GetDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}

// ── helpers ─────────────────────────────────────────────────────────────────

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
