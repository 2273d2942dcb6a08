package monofilter

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// Cache memoizes solves by normalized hex color for the lifetime of the
// process. It is safe for concurrent use; concurrent requests for the same
// color share a single search.
type Cache struct {
	opt     Options
	mu      sync.RWMutex
	results map[string]SolverResult
	group   singleflight.Group
}

func NewCache(opt Options) *Cache {
	return &Cache{
		opt:     opt,
		results: make(map[string]SolverResult),
	}
}

// Solve returns the cached result for hex, solving it on first use.
func (c *Cache) Solve(hex string) (SolverResult, error) {
	key, err := NormalizeHex(hex)
	if err != nil {
		return SolverResult{}, err
	}
	c.mu.RLock()
	r, ok := c.results[key]
	c.mu.RUnlock()
	if ok {
		return r, nil
	}
	v, err, _ := c.group.Do(key, func() (any, error) {
		c.mu.RLock()
		r, ok := c.results[key]
		c.mu.RUnlock()
		if ok {
			return r, nil
		}
		r, err := SolveHex(key, c.opt)
		if err != nil {
			return SolverResult{}, err
		}
		c.mu.Lock()
		c.results[key] = r
		c.mu.Unlock()
		return r, nil
	})
	if err != nil {
		return SolverResult{}, err
	}
	return v.(SolverResult), nil
}

// SolveAll solves hexes in parallel and returns results in input order.
// The first parse error cancels the remaining work.
func (c *Cache) SolveAll(ctx context.Context, hexes []string) ([]SolverResult, error) {
	out := make([]SolverResult, len(hexes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, h := range hexes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r, err := c.Solve(h)
			if err != nil {
				return err
			}
			out[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Len is the number of memoized colors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.results)
}
