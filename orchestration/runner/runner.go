// Package runner implements the benchmark loop: rename the working file onto
// the rotated file, create a fresh working file, write three records, close
// it, and report per-phase latency once per window.
package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pingcap/errors"

	"github.com/gurre/fsbench-go/logic/backoff"
	"github.com/gurre/fsbench-go/logic/record"
	"github.com/gurre/fsbench-go/logic/window"
	"github.com/gurre/fsbench-go/state/layout"
)

// FileSystem performs the operations the loop times.
type FileSystem interface {
	MkdirAll(path string) error
	Remove(path string) error
	Rename(oldpath, newpath string) error
	Create(path string) (io.WriteCloser, error)
}

// ReportSink receives a closed window in addition to the stdout line.
type ReportSink interface {
	Publish(ctx context.Context, r window.Report) error
}

// Runner drives the benchmark. It is single-goroutine; none of its methods
// may be called concurrently.
type Runner struct {
	fs              FileSystem
	layout          layout.Layout
	out             io.Writer
	sinks           []ReportSink
	host            string
	errorBackoff    time.Duration
	errorBackoffMax time.Duration
	logger          *slog.Logger

	now func() time.Time

	window   *window.Window
	counter  uint64
	failures int // consecutive failed iterations
}

// NewRunner creates a runner that reports every windowSize successful
// iterations. Operator output goes to out; sinks may be empty.
//
//	r := runner.NewRunner(fs, layout.New(dir), os.Stdout, nil, host, config.ReportEvery, 0, 30*time.Second, logger)
func NewRunner(
	fs FileSystem,
	l layout.Layout,
	out io.Writer,
	sinks []ReportSink,
	host string,
	windowSize uint64,
	errorBackoff, errorBackoffMax time.Duration,
	logger *slog.Logger,
) *Runner {
	return &Runner{
		fs:              fs,
		layout:          l,
		out:             out,
		sinks:           sinks,
		host:            host,
		errorBackoff:    errorBackoff,
		errorBackoffMax: errorBackoffMax,
		logger:          logger,
		now:             time.Now,
		window:          window.New(windowSize),
	}
}

// Counter returns the number of successful iterations so far.
func (r *Runner) Counter() uint64 {
	return r.counter
}

// Pending returns the phase's running sum in the open window.
func (r *Runner) Pending(p window.Phase) time.Duration {
	return r.window.Sum(p)
}

// Prepare prints both paths, creates their directories, and removes any
// files left by an earlier run. Running it twice is the same as once.
func (r *Runner) Prepare() error {
	working, rotated := r.layout.WorkingFile(), r.layout.RotatedFile()
	fmt.Fprintf(r.out, "paths: %s and %s\n", working, rotated)

	for _, dir := range r.layout.Dirs() {
		if err := r.fs.MkdirAll(dir); err != nil {
			return fmt.Errorf("runner: prepare: %w", err)
		}
	}
	for _, p := range []string{working, rotated} {
		if err := r.fs.Remove(p); err != nil {
			return fmt.Errorf("runner: prepare: %w", err)
		}
	}
	return nil
}

// Iterate runs one rename/create/write/close cycle. On failure it prints the
// error and its stack, leaves the counter alone, and returns the error; the
// timings of phases that completed stay in the window.
func (r *Runner) Iterate(ctx context.Context) error {
	working, rotated := r.layout.WorkingFile(), r.layout.RotatedFile()

	t0 := r.now()
	// Fails on the first iteration, when there is no working file yet.
	_ = r.fs.Rename(working, rotated)
	t1 := r.now()
	r.window.Add(window.Rename, t1.Sub(t0))

	f, err := r.fs.Create(working)
	if err != nil {
		return r.fail(err)
	}
	t2 := r.now()
	r.window.Add(window.Open, t2.Sub(t1))

	for _, rec := range record.Records(r.counter) {
		if _, err := io.WriteString(f, rec); err != nil {
			_ = f.Close()
			return r.fail(err)
		}
	}
	t3 := r.now()
	r.window.Add(window.Write, t3.Sub(t2))

	if err := f.Close(); err != nil {
		return r.fail(err)
	}
	t4 := r.now()
	r.window.Add(window.Close, t4.Sub(t3))
	r.window.Add(window.Total, t4.Sub(t0))

	r.counter++
	r.failures = 0
	if r.window.Due(r.counter) {
		r.report(ctx)
	}
	return nil
}

func (r *Runner) fail(err error) error {
	err = errors.Trace(err)
	r.failures++
	fmt.Fprintf(r.out, "exception%s\n", err.Error())
	fmt.Fprintf(r.out, "%+v\n", err)
	r.logger.Debug("iteration failed", "counter", r.counter, "consecutiveFailures", r.failures)
	return err
}

func (r *Runner) report(ctx context.Context) {
	fmt.Fprintln(r.out, r.window.Line(r.counter))

	if len(r.sinks) > 0 {
		rep := r.window.Report(r.counter, r.now(), r.host, r.layout.DataDir())
		for _, s := range r.sinks {
			if err := s.Publish(ctx, rep); err != nil {
				r.logger.Warn("report sink failed", "counter", r.counter, "error", err)
			}
		}
	}

	r.window.Reset()
}

// Run iterates until ctx is cancelled. Failed iterations are retried,
// immediately unless error backoff is configured.
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Info("starting benchmark loop",
		"workingFile", r.layout.WorkingFile(),
		"rotatedFile", r.layout.RotatedFile(),
		"sinks", len(r.sinks))

	for {
		select {
		case <-ctx.Done():
			return r.shutdown()
		default:
		}

		if err := r.Iterate(ctx); err == nil {
			continue
		}

		d := backoff.Duration(r.failures-1, r.errorBackoff, r.errorBackoffMax)
		if d <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return r.shutdown()
		case <-time.After(d):
		}
	}
}

func (r *Runner) shutdown() error {
	r.logger.Info("benchmark loop stopped",
		"iterations", r.counter,
		"pendingTotal", r.window.Sum(window.Total))
	return nil
}
