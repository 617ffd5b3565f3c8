// Package runner provides the core load test execution engine.
//
// A [Runner] owns the run lifecycle (Idle -> Running -> Draining -> Stopped)
// and coordinates a fixed pool of worker goroutines. Each worker loops
// {acquire pace slot -> execute -> record} until the shared stop signal
// fires, either at the wall-clock deadline or on external cancellation; the
// two are treated identically. Workers check the stop signal between
// iterations only; an in-flight attempt chain is never cut short, and the
// executor's own per-attempt timeouts bound how long the drain can take.
//
// # Basic usage
//
//	r := runner.New(runner.Options{
//		Concurrency: 10,
//		Duration:    time.Minute,
//		Pacer:       pacer.New(pacer.ModelSpaced, 100),
//		Executor:    exec,
//		Recorder:    collector,
//	})
//	result := r.Run(ctx)
//
// Pacing is global: all workers share one [pacer.Pacer], so the aggregate
// request start rate approximates the configured target regardless of how
// unevenly individual workers complete.
package runner
