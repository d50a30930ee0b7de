package container_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/km-arc/authforms/framework/container"
)

type counter struct{ n int }

func TestBind_Transient(t *testing.T) {
	c := container.New()
	calls := 0
	c.Bind("counter", func(c *container.Container) (any, error) {
		calls++
		return &counter{n: calls}, nil
	})

	a := container.MustResolve[*counter](c, "counter")
	b := container.MustResolve[*counter](c, "counter")
	if a == b {
		t.Error("Bind should build a new instance on every Make")
	}
	if calls != 2 {
		t.Errorf("factory calls: got %d want 2", calls)
	}
}

func TestSingleton_Cached(t *testing.T) {
	c := container.New()
	calls := 0
	c.Singleton("counter", func(c *container.Container) (any, error) {
		calls++
		return &counter{}, nil
	})

	a := container.MustResolve[*counter](c, "counter")
	b := container.MustResolve[*counter](c, "counter")
	if a != b {
		t.Error("Singleton should return the same instance")
	}
	if calls != 1 {
		t.Errorf("factory calls: got %d want 1", calls)
	}
}

func TestSingleton_ReboundDropsInstance(t *testing.T) {
	c := container.New()
	c.Singleton("v", func(c *container.Container) (any, error) { return "old", nil })
	_ = container.MustResolve[string](c, "v")

	c.Singleton("v", func(c *container.Container) (any, error) { return "new", nil })
	if got := container.MustResolve[string](c, "v"); got != "new" {
		t.Errorf("got %q want %q", got, "new")
	}
}

func TestInstance_And_Alias(t *testing.T) {
	c := container.New()
	c.Instance("config", "cfg")
	c.Alias("config", "configuration")

	if got := container.MustResolve[string](c, "configuration"); got != "cfg" {
		t.Errorf("alias: got %q want %q", got, "cfg")
	}
	if !c.Bound("configuration") {
		t.Error("Bound should follow aliases")
	}
	if got := container.MustResolve[*container.Container](c, "container"); got != c {
		t.Error("container should be bound to itself")
	}
}

func TestAlias_Self_Panics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	container.New().Alias("x", "x")
}

func TestMake_Errors(t *testing.T) {
	c := container.New()
	boom := errors.New("boom")
	brokenCalls := 0
	c.Singleton("broken", func(c *container.Container) (any, error) {
		brokenCalls++
		return nil, boom
	})
	c.Singleton("depends", func(c *container.Container) (any, error) { return c.Make("broken") })

	tests := []struct {
		name     string
		abstract string
		want     error
	}{
		{"unbound", "missing", container.ErrNotBound},
		{"factory error", "broken", boom},
		{"nested factory error", "depends", boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := c.Make(tt.abstract)
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v want %v", err, tt.want)
			}
		})
	}

	// "factory error" and "nested factory error" each built it again.
	if brokenCalls != 2 {
		t.Errorf("failed singletons must not be cached: %d factory calls", brokenCalls)
	}
}

func TestMake_Cycle(t *testing.T) {
	c := container.New()
	c.Singleton("a", func(c *container.Container) (any, error) { return c.Make("b") })
	c.Singleton("b", func(c *container.Container) (any, error) { return c.Make("a") })

	_, err := c.Make("a")
	if !errors.Is(err, container.ErrCycle) {
		t.Fatalf("got %v want ErrCycle", err)
	}
}

func TestResolve_WrongType(t *testing.T) {
	c := container.New()
	c.Instance("n", 42)

	_, err := container.Resolve[string](c, "n")
	if !errors.Is(err, container.ErrType) {
		t.Errorf("got %v want ErrType", err)
	}

	defer func() {
		if recover() == nil {
			t.Error("MustResolve should panic")
		}
	}()
	container.MustResolve[string](c, "n")
}

func TestBound(t *testing.T) {
	c := container.New()
	c.Bind("b", func(c *container.Container) (any, error) { return 1, nil })
	c.Instance("a", 2)

	for _, abstract := range []string{"a", "b", "container"} {
		if !c.Bound(abstract) {
			t.Errorf("Bound(%q) = false", abstract)
		}
	}
	if c.Bound("missing") {
		t.Error("Bound(missing) = true")
	}
}

func TestSingleton_Concurrent(t *testing.T) {
	c := container.New()
	c.Singleton("counter", func(c *container.Container) (any, error) { return &counter{}, nil })

	var wg sync.WaitGroup
	results := make([]*counter, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = container.MustResolve[*counter](c, "counter")
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		if r != results[0] {
			t.Errorf("result %d differs from result 0", i)
		}
	}
}
