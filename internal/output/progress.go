package output

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	"fireworksbench/internal/metrics"
)

// ProgressReporter displays a real-time progress line while the run is
// active.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given
// interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			snap := p.collector.Snapshot()
			total := snap.Total()
			var errs int64
			for _, es := range snap.Errors {
				errs += es.Count
			}
			elapsed := time.Since(p.start)
			rps := 0.0
			if elapsed > 0 {
				rps = float64(total) / elapsed.Seconds()
			}
			fmt.Fprintf(p.writer, "\rRequests: %d | OK (2XX): %d | Errors: %d | RPS: %.1f",
				total, snap.Classes["2XX"].Count, errs, rps)
		case <-p.done:
			return
		}
	}
}
