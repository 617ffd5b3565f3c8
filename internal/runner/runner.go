package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// State is the run lifecycle phase.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateDraining
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateDraining:
		return "draining"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Result captures what the worker pool actually did.
type Result struct {
	Attempts int64         // attempt chains started
	Elapsed  time.Duration // wall-clock time from start to last worker exit
}

// Runner owns the run lifecycle: it starts the worker pool, enforces the
// deadline, drains workers cooperatively, and reports how much work was
// done. Lifecycle: Idle -> Running -> Draining -> Stopped.
type Runner struct {
	opt   Options
	state atomic.Int32
}

func New(opt Options) *Runner {
	opt.normalize()
	r := &Runner{opt: opt}
	r.state.Store(int32(StateIdle))
	return r
}

// State returns the current lifecycle phase.
func (r *Runner) State() State {
	return State(r.state.Load())
}

// Run executes the load test until the deadline, the total-request cap, or
// an external cancellation of ctx, whichever comes first. Deadline expiry
// and external cancellation are treated identically: workers observe the
// shared stop signal between iterations and finish their in-flight attempt
// chain before exiting. The executor's own timeouts bound how long the drain
// can take.
func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	r.state.Store(int32(StateRunning))

	stopCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	if r.opt.Duration > 0 {
		deadlineCtx, deadlineCancel := context.WithTimeout(stopCtx, r.opt.Duration)
		stopCtx = deadlineCtx
		defer deadlineCancel()
	}

	// Flip to Draining the moment the stop signal fires, regardless of which
	// source raised it.
	go func() {
		<-stopCtx.Done()
		r.state.CompareAndSwap(int32(StateRunning), int32(StateDraining))
	}()

	var attempts int64
	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for {
				// Stop signal is observed between iterations, never
				// mid-request.
				if stopCtx.Err() != nil {
					return
				}
				if err := r.opt.Pacer.Wait(stopCtx); err != nil {
					return
				}
				n := atomic.AddInt64(&attempts, 1)
				if r.opt.Total > 0 && n > int64(r.opt.Total) {
					atomic.AddInt64(&attempts, -1)
					cancel()
					return
				}

				// The attempt chain runs on its own context so a drain never
				// cuts a request short; the executor's per-attempt timeouts
				// bound it instead.
				out := r.opt.Executor.Execute(context.Background())
				if r.opt.Recorder != nil {
					r.opt.Recorder.Record(out)
				}
			}
		}()
	}
	wg.Wait()
	r.state.Store(int32(StateStopped))

	return Result{
		Attempts: atomic.LoadInt64(&attempts),
		Elapsed:  time.Since(start),
	}
}
