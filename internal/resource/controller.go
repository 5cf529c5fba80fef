package resource

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// Config holds batch limits.
type Config struct {
	// MaxWorkers is the maximum number of documents annotated at once.
	// If 0, defaults to GOMAXPROCS.
	MaxWorkers int64

	// DocsPerSec caps how many documents may start per second.
	// If 0, unlimited.
	DocsPerSec float64

	// Burst is the rate limiter bucket size. If 0, defaults to MaxWorkers.
	Burst int
}

// Controller hands out worker slots and paces document admission.
type Controller struct {
	cfg Config

	workers  *semaphore.Weighted
	limiter  *rate.Limiter // nil if unlimited
	inFlight atomic.Int64
	admitted atomic.Int64
}

// NewController creates a new resource controller.
func NewController(cfg Config) *Controller {
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = int64(runtime.GOMAXPROCS(0))
	}
	if cfg.Burst <= 0 {
		cfg.Burst = int(cfg.MaxWorkers)
	}

	c := &Controller{
		cfg:     cfg,
		workers: semaphore.NewWeighted(cfg.MaxWorkers),
	}
	if cfg.DocsPerSec > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.DocsPerSec), cfg.Burst)
	}
	return c
}

// Acquire waits for the rate limiter and then for a free worker slot.
func (c *Controller) Acquire(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
	}
	if err := c.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	c.inFlight.Add(1)
	c.admitted.Add(1)
	return nil
}

// TryAcquire reserves a worker slot without blocking. It fails when all
// slots are busy or the rate limiter has no token available.
func (c *Controller) TryAcquire() bool {
	if c == nil {
		return true
	}
	if !c.workers.TryAcquire(1) {
		return false
	}
	if c.limiter != nil && !c.limiter.AllowN(time.Now(), 1) {
		c.workers.Release(1)
		return false
	}
	c.inFlight.Add(1)
	c.admitted.Add(1)
	return true
}

// Release frees a worker slot.
func (c *Controller) Release() {
	if c == nil {
		return
	}
	c.inFlight.Add(-1)
	c.workers.Release(1)
}

// InFlight returns the number of held worker slots.
func (c *Controller) InFlight() int64 {
	if c == nil {
		return 0
	}
	return c.inFlight.Load()
}

// Admitted returns how many documents were admitted in total.
func (c *Controller) Admitted() int64 {
	if c == nil {
		return 0
	}
	return c.admitted.Load()
}

// MaxWorkers returns the effective worker limit (0 for a nil controller).
func (c *Controller) MaxWorkers() int64 {
	if c == nil {
		return 0
	}
	return c.cfg.MaxWorkers
}
