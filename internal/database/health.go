package database

import (
	"context"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Check probes one backing service.
type Check func(ctx context.Context) error

// Checks names the probes reported by the health endpoint.
type Checks map[string]Check

// Run executes every probe concurrently and returns the failures by name.
// An empty result means all dependencies are reachable.
func (c Checks) Run(ctx context.Context) map[string]string {
	var (
		mu       sync.Mutex
		g        errgroup.Group
		failures = make(map[string]string)
	)
	for name, check := range c {
		g.Go(func() error {
			if err := check(ctx); err != nil {
				mu.Lock()
				failures[name] = err.Error()
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return failures
}

// Names lists the registered probes in sorted order.
func (c Checks) Names() []string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
