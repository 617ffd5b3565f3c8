// Package pacer schedules request start times so that all workers combined
// approximate a single target rate.
package pacer

import (
	"context"
	"math"
	"math/rand"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Model selects how request starts are spread over time.
type Model string

const (
	// ModelSpaced assigns evenly spaced start slots across all callers.
	ModelSpaced Model = "spaced"
	// ModelPoisson samples exponential inter-arrival gaps.
	ModelPoisson Model = "poisson"
	// ModelBucket uses a token bucket and tolerates short bursts.
	ModelBucket Model = "bucket"
)

// Pacer grants permission to start a request. Wait blocks the caller until
// its scheduled slot arrives or ctx is done. Implementations are safe for
// concurrent callers.
type Pacer interface {
	Wait(ctx context.Context) error
}

// New builds a pacer for the given model. rps <= 0 means unlimited: the
// returned pacer never delays.
func New(model Model, rps float64) Pacer {
	if rps <= 0 {
		return unlimited{}
	}
	switch model {
	case ModelPoisson:
		seeded := rand.New(rand.NewSource(time.Now().UnixNano()))
		return NewPoisson(rps, seeded.ExpFloat64)
	case ModelBucket:
		burst := int(math.Ceil(rps))
		if burst < 1 {
			burst = 1
		}
		return &bucket{limiter: rate.NewLimiter(rate.Limit(rps), burst)}
	default:
		return &spaced{interval: time.Duration(float64(time.Second) / rps)}
	}
}

// NewPoisson builds a Poisson pacer with an injectable sampler. The sampler
// must return values distributed as Exp(1).
func NewPoisson(rps float64, sample func() float64) Pacer {
	if rps <= 0 || sample == nil {
		return unlimited{}
	}
	return &poisson{rate: rps, sample: sample}
}

// unlimited never delays but still honors cancellation.
type unlimited struct{}

func (unlimited) Wait(ctx context.Context) error { return ctx.Err() }

// spaced hands out slots at fixed intervals. The next permitted instant is
// computed as max(now, previous slot) + interval under the lock; the wait
// itself happens outside so callers don't serialize on sleep. A pacer that
// has fallen behind schedules relative to now instead of bursting to catch
// up.
type spaced struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time
}

func (s *spaced) Wait(ctx context.Context) error {
	s.mu.Lock()
	now := time.Now()
	slot := s.next
	if slot.Before(now) {
		slot = now
	}
	s.next = slot.Add(s.interval)
	s.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// bucket delegates pacing to a rate.Limiter.
type bucket struct {
	limiter *rate.Limiter
}

func (b *bucket) Wait(ctx context.Context) error {
	return b.limiter.Wait(ctx)
}

// poisson hands out slots whose gaps are exponentially distributed, so the
// combined start sequence approximates a Poisson process at the configured
// rate. The schedule is shared exactly like spaced: each caller claims the
// next instant under the lock and advances it by a freshly sampled gap, then
// sleeps outside. Sampling per caller instead would superimpose one process
// per worker and multiply the aggregate rate.
type poisson struct {
	mu     sync.Mutex
	rate   float64
	sample func() float64
	next   time.Time
}

func (p *poisson) Wait(ctx context.Context) error {
	p.mu.Lock()
	now := time.Now()
	slot := p.next
	if slot.Before(now) {
		slot = now
	}
	p.next = slot.Add(p.gap())
	p.mu.Unlock()

	delay := time.Until(slot)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// gap must be called with the lock held: samplers are not required to be
// goroutine-safe.
func (p *poisson) gap() time.Duration {
	delay := float64(time.Second) * p.sample() / p.rate
	if delay > math.MaxInt64 {
		delay = math.MaxInt64
	}
	return time.Duration(delay)
}
