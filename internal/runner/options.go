package runner

import (
	"context"
	"time"

	"fireworksbench/internal/metrics"
	"fireworksbench/internal/pacer"
)

// Executor runs one full attempt chain and returns its terminal outcome.
// Per-request failures are contained inside the outcome and never abort the
// run.
type Executor interface {
	Execute(ctx context.Context) metrics.Outcome
}

// Recorder accepts terminal outcomes. *metrics.Collector satisfies it.
type Recorder interface {
	Record(out metrics.Outcome)
}

// Options configure the Runner. Concurrency and pacing are fixed for the
// run's duration.
type Options struct {
	Concurrency int           // number of worker goroutines
	Duration    time.Duration // wall-clock limit (0 means no duration cap)
	Total       int           // total request cap (0 means unlimited)
	Pacer       pacer.Pacer   // global pacing shared by all workers (nil means unlimited)
	Executor    Executor      // required
	Recorder    Recorder      // outcome sink (nil outcomes are dropped)
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.Total < 0 {
		o.Total = 0
	}
	if o.Pacer == nil {
		o.Pacer = pacer.New(pacer.ModelSpaced, 0)
	}
}
