// Package bench wires configuration, adaptors, and the benchmark loop
// together to run fsbench.
package bench

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/dustin/go-humanize"

	"github.com/gurre/fsbench-go/adaptor/filesystem"
	"github.com/gurre/fsbench-go/adaptor/logfile"
	"github.com/gurre/fsbench-go/adaptor/s3report"
	"github.com/gurre/fsbench-go/logic/window"
	"github.com/gurre/fsbench-go/orchestration/runner"
	"github.com/gurre/fsbench-go/state/config"
	"github.com/gurre/fsbench-go/state/layout"
)

// Run prepares the data directory and runs the benchmark loop, writing
// operator output to stdout and diagnostics to stderr. It blocks until
// SIGTERM/SIGINT is received or ctx is cancelled.
//
//	err := bench.Run(ctx, cfg, os.Stdout, os.Stderr)
func Run(ctx context.Context, cfg config.Bench, stdout, stderr io.Writer) error {
	logOut := stderr
	if cfg.LogDir != "" {
		logWriter := logfile.NewRotatingWriter(filepath.Join(cfg.LogDir, cfg.ProgramName+".log"), cfg.LogMaxBytes, cfg.LogMaxFiles)
		if err := logWriter.Open(); err != nil {
			return fmt.Errorf("bench: open log file: %w", err)
		}
		defer func() { _ = logWriter.Close() }()
		logOut = io.MultiWriter(stderr, logWriter)
	}
	logger := slog.New(slog.NewTextHandler(logOut, nil))

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	host, err := os.Hostname()
	if err != nil {
		logger.Warn("cannot resolve hostname", "error", err)
		host = "unknown"
	}

	op := filesystem.NewOperator()
	probeDataDir(op, cfg.DataDir, logger)

	var sinks []runner.ReportSink
	if cfg.ReportFile != "" {
		journal := logfile.NewRotatingWriter(cfg.ReportFile, cfg.LogMaxBytes, cfg.LogMaxFiles)
		if err := journal.Open(); err != nil {
			return fmt.Errorf("bench: open report file: %w", err)
		}
		defer func() { _ = journal.Close() }()
		sinks = append(sinks, &journalSink{w: journal})
		logger.Info("report journal enabled", "path", journal.Path())
	}
	if cfg.ReportBucket != "" {
		pub, err := newPublisher(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("bench: %w", err)
		}
		sinks = append(sinks, &s3Sink{pub: pub})
		logger.Info("report upload enabled", "bucket", cfg.ReportBucket, "prefix", cfg.ReportPrefix)
	}

	r := runner.NewRunner(
		op,
		layout.New(cfg.DataDir),
		stdout,
		sinks,
		host,
		config.ReportEvery,
		cfg.ErrorBackoff, cfg.ErrorBackoffMax,
		logger,
	)
	if err := r.Prepare(); err != nil {
		return fmt.Errorf("bench: %w", err)
	}
	return r.Run(ctx)
}

func probeDataDir(op *filesystem.Operator, dir string, logger *slog.Logger) {
	u, err := op.Probe(dir)
	if err != nil {
		logger.Warn("cannot probe data directory", "dataDir", dir, "error", err)
		return
	}
	if u.Type == "" {
		return
	}
	logger.Info("data directory",
		"dataDir", dir,
		"fsType", u.Type,
		"blockSize", humanize.IBytes(u.BlockSize),
		"free", humanize.IBytes(u.FreeBytes),
		"total", humanize.IBytes(u.TotalBytes))
}

func newPublisher(ctx context.Context, cfg config.Bench, logger *slog.Logger) (*s3report.Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AWSAccessKeyID != "" && cfg.AWSSecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	return s3report.NewPublisher(awsCfg, cfg.ReportBucket, cfg.ReportPrefix, cfg.S3EndpointOverride, logger), nil
}

// Bridge types adapt adaptor implementations to runner.ReportSink.

// journalSink appends each report as one JSON line.
type journalSink struct {
	w io.Writer
}

func (j *journalSink) Publish(_ context.Context, r window.Report) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	_, err = j.w.Write(append(data, '\n'))
	return err
}

// s3Sink uploads each report as its own object.
type s3Sink struct {
	pub interface {
		Key(host string, counter uint64) string
		Put(ctx context.Context, key string, body []byte) error
	}
}

func (s *s3Sink) Publish(ctx context.Context, r window.Report) error {
	data, err := r.Encode()
	if err != nil {
		return err
	}
	return s.pub.Put(ctx, s.pub.Key(r.Host, r.Counter), data)
}
