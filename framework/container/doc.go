// Package container provides a small Laravel-style IoC container and the
// Service Provider lifecycle used to assemble the application.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(), safe to resolve everything after this
//  4. Serve requests
//
// # Bindings
//
//	// Transient, new instance every Make()
//	c.Bind("clock", func(c *container.Container) (any, error) { return time.Now, nil })
//
//	// Singleton, built once and reused
//	c.Singleton("translator", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return translation.Load(resources.Lang(), cfg.App.Locale)
//	})
//
//	// Pre-built value
//	c.Instance("config", cfg)
//
//	// Alias
//	c.Alias("translator", "lang")
//
// # Resolving
//
//	raw, err := c.Make("translator")
//	tr, err := container.Resolve[*translation.Translator](c, "translator")
//
// Go has no constructor reflection, so there is no auto-wiring: every
// dependency is built by an explicit factory. Factory errors propagate to
// the outermost Make, wrapped with each abstract on the path. A factory that
// ends up resolving itself fails with ErrCycle instead of recursing forever.
package container
