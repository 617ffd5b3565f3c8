package metrics

import (
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	// DefaultWindowSize bounds the per-class raw sample window retained for
	// inspection. Running aggregates are unaffected by eviction.
	DefaultWindowSize = 10000

	// maxErrorSamples caps the retained error messages per kind.
	maxErrorSamples = 100
)

// Collector accumulates request outcomes from concurrent workers.
//
// Latency data and error data sit behind independent locks so workers
// recording successes never contend with workers recording failures. Each
// critical section holds only O(1) work per Record call.
type Collector struct {
	windowSize int

	latMu   sync.Mutex
	classes map[string]*classSeries

	errMu  sync.Mutex
	errors map[string]*errorSeries
}

// classSeries holds one status class's running aggregates, histogram, and a
// bounded ring of recent raw samples. count/sum/sumSq/min/max are updated at
// insertion time and are never invalidated when the window evicts.
type classSeries struct {
	count  int64
	sum    time.Duration
	sumSq  float64 // seconds squared, for stdev
	min    time.Duration
	max    time.Duration
	hist   *hdrhistogram.Histogram
	window []time.Duration
	next   int // ring cursor, used once the window is full
}

type errorSeries struct {
	count   int64
	samples []string
}

func NewCollector() *Collector {
	return NewCollectorWithWindow(DefaultWindowSize)
}

// NewCollectorWithWindow creates a collector retaining at most windowSize raw
// samples per status class. windowSize <= 0 disables the bound.
func NewCollectorWithWindow(windowSize int) *Collector {
	return &Collector{
		windowSize: windowSize,
		classes:    make(map[string]*classSeries),
		errors:     make(map[string]*errorSeries),
	}
}

// Record folds a terminal outcome into the collector. Safe for any number of
// concurrent callers; once Record returns, the outcome is visible to every
// later Snapshot.
func (c *Collector) Record(out Outcome) {
	c.latMu.Lock()
	series, ok := c.classes[out.Class]
	if !ok {
		series = &classSeries{
			// Track latencies from 1µs up to 60s with 3 significant figures.
			hist: hdrhistogram.New(1, 60_000_000, 3),
		}
		c.classes[out.Class] = series
	}
	series.observe(out.Latency, c.windowSize)
	c.latMu.Unlock()

	if out.Class != ClassError {
		return
	}

	kind := out.ErrKind
	if kind == "" {
		kind = ErrKindTransport
	}
	c.errMu.Lock()
	errs, ok := c.errors[kind]
	if !ok {
		errs = &errorSeries{}
		c.errors[kind] = errs
	}
	errs.count++
	if out.ErrMsg != "" && len(errs.samples) < maxErrorSamples {
		errs.samples = append(errs.samples, out.ErrMsg)
	}
	c.errMu.Unlock()
}

func (s *classSeries) observe(latency time.Duration, windowSize int) {
	s.count++
	s.sum += latency
	secs := latency.Seconds()
	s.sumSq += secs * secs
	if s.count == 1 || latency < s.min {
		s.min = latency
	}
	if latency > s.max {
		s.max = latency
	}

	us := latency.Microseconds()
	if us < s.hist.LowestTrackableValue() {
		us = s.hist.LowestTrackableValue()
	}
	if us > s.hist.HighestTrackableValue() {
		us = s.hist.HighestTrackableValue()
	}
	_ = s.hist.RecordValue(us)

	if windowSize <= 0 || len(s.window) < windowSize {
		s.window = append(s.window, latency)
		return
	}
	// Window full: evict the oldest sample.
	s.window[s.next] = latency
	s.next = (s.next + 1) % windowSize
}

// ClassSnapshot is a point-in-time copy of one status class's statistics.
type ClassSnapshot struct {
	Count  int64
	Sum    time.Duration
	SumSq  float64
	Min    time.Duration
	Max    time.Duration
	P50    time.Duration
	P90    time.Duration
	P99    time.Duration
	Window []time.Duration
}

// Mean returns the average latency across every recorded sample, not just
// the retained window.
func (s ClassSnapshot) Mean() time.Duration {
	if s.Count == 0 {
		return 0
	}
	return time.Duration(int64(s.Sum) / s.Count)
}

// ErrorSnapshot is a point-in-time copy of one error kind's statistics.
type ErrorSnapshot struct {
	Count   int64
	Samples []string
}

// Snapshot is a consistent copy of accumulated statistics. The two halves are
// captured under their own locks: outcomes recorded concurrently with the
// snapshot may or may not be included, but nothing recorded before the
// Snapshot call is ever missing.
type Snapshot struct {
	Classes map[string]ClassSnapshot
	Errors  map[string]ErrorSnapshot
}

// Snapshot copies the current state without blocking further Record calls
// beyond the time the copy itself takes.
func (c *Collector) Snapshot() Snapshot {
	snap := Snapshot{
		Classes: make(map[string]ClassSnapshot),
		Errors:  make(map[string]ErrorSnapshot),
	}

	c.latMu.Lock()
	for class, series := range c.classes {
		cs := ClassSnapshot{
			Count:  series.count,
			Sum:    series.sum,
			SumSq:  series.sumSq,
			Min:    series.min,
			Max:    series.max,
			Window: append([]time.Duration(nil), series.window...),
		}
		if series.hist.TotalCount() > 0 {
			cs.P50 = time.Duration(series.hist.ValueAtQuantile(50)) * time.Microsecond
			cs.P90 = time.Duration(series.hist.ValueAtQuantile(90)) * time.Microsecond
			cs.P99 = time.Duration(series.hist.ValueAtQuantile(99)) * time.Microsecond
		}
		snap.Classes[class] = cs
	}
	c.latMu.Unlock()

	c.errMu.Lock()
	for kind, series := range c.errors {
		snap.Errors[kind] = ErrorSnapshot{
			Count:   series.count,
			Samples: append([]string(nil), series.samples...),
		}
	}
	c.errMu.Unlock()

	return snap
}

// Total returns the number of outcomes reflected in the snapshot.
func (s Snapshot) Total() int64 {
	var total int64
	for _, class := range s.Classes {
		total += class.Count
	}
	return total
}

// ClassNames returns the snapshot's status classes in display order
// ("1XX".."5XX" followed by ERROR).
func (s Snapshot) ClassNames() []string {
	names := make([]string, 0, len(s.Classes))
	for name := range s.Classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrorKinds returns the snapshot's error kinds sorted by descending count,
// then by name for stability.
func (s Snapshot) ErrorKinds() []string {
	kinds := make([]string, 0, len(s.Errors))
	for kind := range s.Errors {
		kinds = append(kinds, kind)
	}
	sort.Slice(kinds, func(i, j int) bool {
		if s.Errors[kinds[i]].Count == s.Errors[kinds[j]].Count {
			return kinds[i] < kinds[j]
		}
		return s.Errors[kinds[i]].Count > s.Errors[kinds[j]].Count
	})
	return kinds
}
