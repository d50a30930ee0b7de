package container

import "fmt"

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider mirrors Laravel's Illuminate\Support\ServiceProvider.
//
// Register binds factories and must not resolve anything. Boot runs after
// every provider has registered, so it may resolve any binding; an error
// from Boot stops the application from starting.
//
//	type FormsServiceProvider struct{ container.BaseProvider }
//
//	func (p *FormsServiceProvider) Register(app *container.Container) {
//	    app.Singleton("forms", func(c *container.Container) (any, error) {
//	        return forms.Default()
//	    })
//	}
//
//	func (p *FormsServiceProvider) Boot(app *container.Container) error {
//	    _, err := app.Make("forms") // fail fast on a bad forms file
//	    return err
//	}
type ServiceProvider interface {
	Register(app *Container)
	Boot(app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is embeddable and supplies a no-op Boot.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry registers and boots ServiceProviders in order, like
// Laravel's Application::registerConfiguredProviders and bootProviders.
type ProviderRegistry struct {
	app        *Container
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register calls provider.Register once. A provider added after Boot is
// booted immediately and its error returned.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	if r.registered[provider] {
		return nil
	}
	r.registered[provider] = true

	provider.Register(r.app)
	r.providers = append(r.providers, provider)

	if r.booted {
		return boot(r.app, provider)
	}
	return nil
}

// Boot calls Boot on every provider in registration order and stops at the
// first error. Calling it again is a no-op.
func (r *ProviderRegistry) Boot() error {
	if r.booted {
		return nil
	}
	for _, provider := range r.providers {
		if err := boot(r.app, provider); err != nil {
			return err
		}
	}
	r.booted = true
	return nil
}

func boot(app *Container, provider ServiceProvider) error {
	if err := provider.Boot(app); err != nil {
		return fmt.Errorf("boot %T: %w", provider, err)
	}
	return nil
}

// Booted returns true once Boot has succeeded.
func (r *ProviderRegistry) Booted() bool { return r.booted }

// Providers returns the registered providers in order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	out := make([]ServiceProvider, len(r.providers))
	copy(out, r.providers)
	return out
}
