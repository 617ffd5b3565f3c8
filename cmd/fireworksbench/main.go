package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"fireworksbench/internal/config"
	"fireworksbench/internal/httpclient"
	"fireworksbench/internal/metrics"
	"fireworksbench/internal/output"
	"fireworksbench/internal/pacer"
	"fireworksbench/internal/runner"
)

const progressInterval = time.Second

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run wires the engine together. A non-nil return means the run never
// started (setup failure); request-level failures surface in the report, not
// the exit code.
func run(args []string, stdout io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	builder, err := httpclient.NewRequestBuilder(cfg)
	if err != nil {
		return err
	}

	client := httpclient.NewClient()
	collector := metrics.NewCollectorWithWindow(cfg.WindowSize)
	exec := httpclient.NewExecutor(client, builder, cfg.Timeout, cfg.Retries)

	var wrapped runner.Executor = exec
	if cfg.LogErrors {
		wrapped = runner.WithLogging(wrapped, &failureLogger{logger: logger})
	}

	r := runner.New(runner.Options{
		Concurrency: cfg.Concurrency,
		Duration:    cfg.Duration,
		Total:       cfg.Total,
		Pacer:       pacer.New(pacer.Model(cfg.PacingModel), cfg.Rate),
		Executor:    wrapped,
		Recorder:    collector,
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger.WithFields(logrus.Fields{
		"target":      cfg.TargetURL,
		"duration":    cfg.Duration,
		"concurrency": cfg.Concurrency,
		"rate":        cfg.Rate,
		"retries":     cfg.Retries,
	}).Info("starting load test")

	var progress *output.ProgressReporter
	if !cfg.Quiet && cfg.Format == config.FormatText {
		progress = output.NewProgressReporter(collector, progressInterval, stdout)
		progress.Start()
	}

	result := r.Run(ctx)

	if progress != nil {
		progress.Stop()
		fmt.Fprintln(stdout)
	}

	logger.WithFields(logrus.Fields{
		"attempts": result.Attempts,
		"elapsed":  result.Elapsed,
		"state":    r.State().String(),
	}).Info("load test finished")

	rep := output.Build(cfg.TargetURL, collector.Snapshot(), result)
	if err := output.Render(stdout, rep, cfg.Format); err != nil {
		return err
	}
	if cfg.OutputFile != "" {
		if err := output.AppendToFile(cfg.OutputFile, rep, cfg.Format); err != nil {
			return err
		}
	}
	return nil
}

// newLogger builds the lifecycle logger: stderr always, plus an append-mode
// log file when configured.
func newLogger(cfg *config.Config) (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	closeLog := func() {}
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		logger.SetOutput(io.MultiWriter(os.Stderr, f))
		closeLog = func() { _ = f.Close() }
	}
	return logger, closeLog, nil
}

type failureLogger struct {
	logger *logrus.Logger
}

func (l *failureLogger) LogFailure(kind, msg string) {
	l.logger.WithField("kind", kind).Warn(msg)
}
