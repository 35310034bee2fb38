package resource

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Cache wraps a Resolver so each src is resolved at most once. A failed
// resolution is cached too; retrying within one render would only repeat
// the failure.
type Cache struct {
	next Resolver

	mu      sync.Mutex
	entries map[string]*entry
}

type entry struct {
	res *Resource
	err error
}

// NewCache returns a caching wrapper around next.
func NewCache(next Resolver) *Cache {
	return &Cache{next: next, entries: make(map[string]*entry)}
}

// Resolve returns the cached result for src, resolving it on first use.
func (c *Cache) Resolve(ctx context.Context, src string) (*Resource, error) {
	c.mu.Lock()
	if e, ok := c.entries[src]; ok {
		c.mu.Unlock()
		return e.res, e.err
	}
	c.mu.Unlock()

	res, err := c.next.Resolve(ctx, src)

	c.mu.Lock()
	c.entries[src] = &entry{res: res, err: err}
	c.mu.Unlock()
	return res, err
}

// Prewarm resolves the given srcs concurrently (at most four in flight) so
// the synchronous measure pass finds everything already cached. Individual
// failures are not returned here; they surface as per-node warnings when
// layout asks for the same src.
func (c *Cache) Prewarm(ctx context.Context, srcs []string) {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	seen := make(map[string]bool, len(srcs))
	for _, src := range srcs {
		if src == "" || seen[src] {
			continue
		}
		seen[src] = true
		src := src
		g.Go(func() error {
			c.Resolve(ctx, src) //nolint:errcheck // cached, reported at layout time
			return nil
		})
	}
	g.Wait() //nolint:errcheck // workers never return errors
}
