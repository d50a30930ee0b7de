package container

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
)

var (
	// ErrNotBound is returned when resolving an abstract nothing was registered for.
	ErrNotBound = errors.New("container: no binding")
	// ErrCycle is returned when a factory (indirectly) resolves itself.
	ErrCycle = errors.New("container: circular dependency")
	// ErrType is returned by Resolve when the instance has the wrong type.
	ErrType = errors.New("container: unexpected type")
)

// ── Binding types ─────────────────────────────────────────────────────────────

// Factory builds a concrete value from the container. A returned error
// aborts the resolution and is passed back to the caller of Make.
type Factory func(c *Container) (any, error)

// binding holds a registered factory and whether it is a singleton.
type binding struct {
	factory   Factory
	singleton bool
}

// state is shared by a container and every view handed to a factory.
type state struct {
	mu        sync.RWMutex
	bindings  map[string]*binding
	instances map[string]any
	aliases   map[string]string
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is the IoC container, modelled on Laravel's
// Illuminate\Container\Container.
//
// It supports:
//   - Bind / Singleton / Instance / Alias
//   - Make / Resolve (generic)
//   - cycle detection across nested factories
//
// A Container is safe for concurrent use. Two goroutines racing on the first
// resolution of a singleton may both run its factory; the first stored
// instance wins and is returned to both.
type Container struct {
	*state

	// abstracts being built on this resolution path, outermost first
	stack []string
}

// New creates an empty container.
func New() *Container {
	c := &Container{state: &state{
		bindings:  make(map[string]*binding),
		instances: make(map[string]any),
		aliases:   make(map[string]string),
	}}
	// Bind the container to itself, like Laravel's $app->instance()
	c.Instance("container", c)
	return c
}

// ── Registration ──────────────────────────────────────────────────────────────

// Bind registers a transient factory: every Make builds a new instance.
//
//	c.Bind("submission.handler", func(c *container.Container) (any, error) {
//	    logger, err := container.Resolve[zerolog.Logger](c, "log")
//	    return submission.NewLogHandler(logger), err
//	})
func (c *Container) Bind(abstract string, factory Factory) {
	c.bind(abstract, factory, false)
}

// Singleton registers a factory whose result is cached after first resolution.
//
//	c.Singleton("forms", func(c *container.Container) (any, error) {
//	    cfg, err := container.Resolve[*config.Config](c, "config")
//	    if err != nil {
//	        return nil, err
//	    }
//	    return forms.LoadFile(cfg.Forms.File)
//	})
func (c *Container) Singleton(abstract string, factory Factory) {
	c.bind(abstract, factory, true)
}

// Instance registers a pre-built value as a singleton.
func (c *Container) Instance(abstract string, instance any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	delete(c.bindings, key)
	c.instances[key] = instance
}

func (c *Container) bind(abstract string, factory Factory, singleton bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	key := c.canonical(abstract)
	// Drop a cached instance so it is rebuilt with the new factory
	delete(c.instances, key)
	c.bindings[key] = &binding{factory: factory, singleton: singleton}
}

// Alias registers an alternative name for an abstract.
func (c *Container) Alias(abstract, alias string) {
	if abstract == alias {
		panic(fmt.Sprintf("container: [%s] is aliased to itself", abstract))
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aliases[alias] = c.canonical(abstract)
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Make resolves an abstract from the container.
func (c *Container) Make(abstract string) (any, error) {
	c.mu.RLock()
	key := c.canonical(abstract)
	inst, cached := c.instances[key]
	b, bound := c.bindings[key]
	c.mu.RUnlock()

	if cached {
		return inst, nil
	}
	if !bound {
		return nil, fmt.Errorf("%w for [%s]", ErrNotBound, abstract)
	}
	if slices.Contains(c.stack, key) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrCycle, strings.Join(c.stack, " -> "), key)
	}

	view := &Container{state: c.state, stack: append(slices.Clip(c.stack), key)}
	inst, err := b.factory(view)
	if err != nil {
		return nil, fmt.Errorf("container: resolve [%s]: %w", key, err)
	}
	if !b.singleton {
		return inst, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if prev, ok := c.instances[key]; ok {
		return prev, nil
	}
	c.instances[key] = inst
	return inst, nil
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// Bound reports whether an abstract has been registered.
func (c *Container) Bound(abstract string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	key := c.canonical(abstract)
	_, hasBinding := c.bindings[key]
	_, hasInstance := c.instances[key]
	return hasBinding || hasInstance
}

// canonical resolves an alias to its canonical key (caller holds mu).
func (c *Container) canonical(abstract string) string {
	if target, ok := c.aliases[abstract]; ok {
		return target
	}
	return abstract
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Resolve calls Make and type-asserts the result.
//
//	// Instead of: v, _ := c.Make("translator"); tr := v.(*translation.Translator)
//	// Write:      tr, err := container.Resolve[*translation.Translator](c, "translator")
func Resolve[T any](c *Container, abstract string) (T, error) {
	var zero T
	instance, err := c.Make(abstract)
	if err != nil {
		return zero, err
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%w: [%s] resolved to %T, want %T", ErrType, abstract, instance, zero)
	}
	return typed, nil
}

// MustResolve is like Resolve but panics on error. Use it only after Boot,
// where every binding is known to build.
func MustResolve[T any](c *Container, abstract string) T {
	v, err := Resolve[T](c, abstract)
	if err != nil {
		panic(err)
	}
	return v
}
