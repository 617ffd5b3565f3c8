package output

import (
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"fireworksbench/internal/metrics"
	"fireworksbench/internal/runner"
)

// ClassReport summarizes one status class.
type ClassReport struct {
	Class string `json:"class" yaml:"class"`
	Count int64  `json:"count" yaml:"count"`

	Min  time.Duration `json:"-" yaml:"-"`
	Max  time.Duration `json:"-" yaml:"-"`
	Mean time.Duration `json:"-" yaml:"-"`
	P50  time.Duration `json:"-" yaml:"-"`
	P90  time.Duration `json:"-" yaml:"-"`
	P99  time.Duration `json:"-" yaml:"-"`

	// Millisecond fields for machine-readable output.
	MinMs  float64 `json:"min_latency_ms" yaml:"min_latency_ms"`
	MaxMs  float64 `json:"max_latency_ms" yaml:"max_latency_ms"`
	MeanMs float64 `json:"mean_latency_ms" yaml:"mean_latency_ms"`
	P50Ms  float64 `json:"p50_latency_ms" yaml:"p50_latency_ms"`
	P90Ms  float64 `json:"p90_latency_ms" yaml:"p90_latency_ms"`
	P99Ms  float64 `json:"p99_latency_ms" yaml:"p99_latency_ms"`
}

// ErrorReport summarizes one error kind.
type ErrorReport struct {
	Kind    string   `json:"kind" yaml:"kind"`
	Count   int64    `json:"count" yaml:"count"`
	Samples []string `json:"samples,omitempty" yaml:"samples,omitempty"`
}

// Report is the final, immutable summary of a run, assembled once from a
// collector snapshot after all workers have stopped.
type Report struct {
	RunID  string `json:"run_id" yaml:"run_id"`
	Target string `json:"target" yaml:"target"`

	TotalRequests int64   `json:"total_requests" yaml:"total_requests"`
	TotalErrors   int64   `json:"total_errors" yaml:"total_errors"`
	ErrorRate     float64 `json:"error_rate" yaml:"error_rate"`

	Elapsed        time.Duration `json:"-" yaml:"-"`
	DurationMs     float64       `json:"duration_ms" yaml:"duration_ms"`
	RequestsPerSec float64       `json:"requests_per_sec" yaml:"requests_per_sec"`
	RequestsPerMin float64       `json:"requests_per_min" yaml:"requests_per_min"`

	// Latency spread across every class combined.
	AmplitudeMs float64 `json:"amplitude_ms" yaml:"amplitude_ms"`
	StdevMs     float64 `json:"stdev_ms" yaml:"stdev_ms"`

	Classes []ClassReport `json:"classes" yaml:"classes"`
	Errors  []ErrorReport `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// Build assembles the report from a snapshot and the runner result.
func Build(target string, snap metrics.Snapshot, result runner.Result) Report {
	rep := Report{
		RunID:      ulid.Make().String(),
		Target:     target,
		Elapsed:    result.Elapsed,
		DurationMs: float64(result.Elapsed) / float64(time.Millisecond),
	}

	var (
		overallCount int64
		overallSum   time.Duration
		overallSumSq float64
		overallMin   time.Duration
		overallMax   time.Duration
	)

	for _, class := range snap.ClassNames() {
		cs := snap.Classes[class]
		cr := ClassReport{
			Class: class,
			Count: cs.Count,
			Min:   cs.Min,
			Max:   cs.Max,
			Mean:  cs.Mean(),
			P50:   cs.P50,
			P90:   cs.P90,
			P99:   cs.P99,
		}
		cr.MinMs = ms(cr.Min)
		cr.MaxMs = ms(cr.Max)
		cr.MeanMs = ms(cr.Mean)
		cr.P50Ms = ms(cr.P50)
		cr.P90Ms = ms(cr.P90)
		cr.P99Ms = ms(cr.P99)
		rep.Classes = append(rep.Classes, cr)

		if overallCount == 0 || cs.Min < overallMin {
			overallMin = cs.Min
		}
		if cs.Max > overallMax {
			overallMax = cs.Max
		}
		overallCount += cs.Count
		overallSum += cs.Sum
		overallSumSq += cs.SumSq
	}

	rep.TotalRequests = result.Attempts
	if rep.TotalRequests == 0 {
		rep.TotalRequests = overallCount
	}

	for _, kind := range snap.ErrorKinds() {
		es := snap.Errors[kind]
		rep.Errors = append(rep.Errors, ErrorReport{
			Kind:    kind,
			Count:   es.Count,
			Samples: es.Samples,
		})
		rep.TotalErrors += es.Count
	}

	if rep.TotalRequests > 0 {
		rep.ErrorRate = float64(rep.TotalErrors) / float64(rep.TotalRequests)
	}
	if result.Elapsed > 0 {
		rep.RequestsPerSec = float64(rep.TotalRequests) / result.Elapsed.Seconds()
		rep.RequestsPerMin = rep.RequestsPerSec * 60
	}

	if overallCount > 0 {
		rep.AmplitudeMs = ms(overallMax - overallMin)
		mean := overallSum.Seconds() / float64(overallCount)
		variance := overallSumSq/float64(overallCount) - mean*mean
		if variance > 0 {
			rep.StdevMs = math.Sqrt(variance) * 1000
		}
	}

	return rep
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
