package httpclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"fireworksbench/internal/metrics"
)

// maxBodyReadSize caps how much of a response body is drained per attempt.
// Draining keeps connections reusable without letting a huge payload stall a
// worker.
const maxBodyReadSize = 1024 * 1024

// Executor runs one full attempt chain per Execute call.
type Executor struct {
	client  *http.Client
	builder *RequestBuilder
	timeout time.Duration
	retries int
}

func NewExecutor(client *http.Client, builder *RequestBuilder, timeout time.Duration, retries int) *Executor {
	if retries < 0 {
		retries = 0
	}
	return &Executor{
		client:  client,
		builder: builder,
		timeout: timeout,
		retries: retries,
	}
}

// Execute performs up to retries+1 attempts and returns the terminal
// outcome. A received status code ends the chain immediately and is never
// retried; transport errors and timeouts are retried until attempts run out.
// The outcome latency spans the whole chain, retries included.
func (e *Executor) Execute(ctx context.Context) metrics.Outcome {
	if ctx == nil {
		ctx = context.Background()
	}

	start := time.Now()
	maxAttempts := e.retries + 1

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		code, err := e.attempt(ctx)
		if err == nil {
			return metrics.Outcome{
				Class:    metrics.StatusClass(code),
				Latency:  time.Since(start),
				Attempts: attempt,
			}
		}
		lastErr = err

		// A canceled parent context means the run itself is shutting down
		// hard; don't burn the remaining attempts.
		if ctx.Err() != nil {
			kind, msg := ClassifyError(lastErr)
			return metrics.Outcome{
				Class:    metrics.ClassError,
				Latency:  time.Since(start),
				Attempts: attempt,
				ErrKind:  kind,
				ErrMsg:   msg,
			}
		}
	}

	kind, msg := ClassifyError(lastErr)
	return metrics.Outcome{
		Class:    metrics.ClassError,
		Latency:  time.Since(start),
		Attempts: maxAttempts,
		ErrKind:  kind,
		ErrMsg:   msg,
	}
}

// attempt issues a single request under its own timeout and returns the
// status code, or the transport error that prevented one.
func (e *Executor) attempt(ctx context.Context) (int, error) {
	attemptCtx := ctx
	if e.timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req, err := e.builder.Build(attemptCtx)
	if err != nil {
		return 0, err
	}

	resp, err := e.client.Do(req)
	if err != nil {
		// Surface the per-attempt deadline as the canonical timeout error so
		// classification doesn't depend on url.Error wrapping details.
		if attemptCtx.Err() != nil && ctx.Err() == nil {
			return 0, errors.Join(context.DeadlineExceeded, err)
		}
		return 0, err
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyReadSize))
	return resp.StatusCode, nil
}
