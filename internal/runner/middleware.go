package runner

import (
	"context"

	"fireworksbench/internal/metrics"
)

// FailureLogger logs attempt chains that ended in the ERROR class.
type FailureLogger interface {
	LogFailure(kind, msg string)
}

// loggingExecutor wraps an Executor with failure logging.
type loggingExecutor struct {
	inner  Executor
	logger FailureLogger
}

// WithLogging wraps an Executor so exhausted attempt chains are logged as
// they happen. The outcome itself is passed through unchanged.
func WithLogging(exec Executor, logger FailureLogger) Executor {
	if logger == nil {
		return exec
	}
	return &loggingExecutor{inner: exec, logger: logger}
}

func (l *loggingExecutor) Execute(ctx context.Context) metrics.Outcome {
	out := l.inner.Execute(ctx)
	if out.Class == metrics.ClassError {
		l.logger.LogFailure(out.ErrKind, out.ErrMsg)
	}
	return out
}
