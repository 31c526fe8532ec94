// Package config defines the benchmark's configuration struct and its defaults.
// These are pure data types with no I/O; loading is handled by adaptor/configloader.
package config

import "time"

// DataDirEnv is the environment variable naming the directory under test.
const DataDirEnv = "SDC_DATA"

// ReportEvery is the number of successful iterations in one report window.
const ReportEvery = 10000

// Bench holds the benchmark configuration. Only DataDir describes the
// workload; every other field controls logging or where reports go.
type Bench struct {
	// DataDir is the directory under test, taken from $SDC_DATA.
	DataDir string
	// ProgramName names the diagnostic log file.
	ProgramName string
	// LogDir, when set, receives a rotating copy of the diagnostic log.
	LogDir string
	// ReportFile, when set, receives one JSON line per report window.
	ReportFile string
	// ReportBucket, when set, receives one S3 object per report window.
	ReportBucket string
	// ReportPrefix is the key prefix for uploaded reports.
	ReportPrefix string
	// Region is the AWS region for the report bucket.
	Region string
	// S3EndpointOverride overrides the S3 endpoint.
	S3EndpointOverride string
	// AWSAccessKeyID and AWSSecretAccessKey are optional static credentials.
	AWSAccessKeyID     string
	AWSSecretAccessKey string

	// ErrorBackoff is the base pause after a failed iteration. Zero retries immediately.
	ErrorBackoff time.Duration
	// ErrorBackoffMax caps the pause after consecutive failures.
	ErrorBackoffMax time.Duration

	// LogMaxBytes is the size at which log and report files rotate.
	LogMaxBytes int64
	// LogMaxFiles is the number of rotated copies kept.
	LogMaxFiles int
}

// Default returns a Bench config with no data directory and no sinks.
//
//	cfg := config.Default()
//	cfg.DataDir = "/var/lib/sdc"
func Default() Bench {
	return Bench{
		ProgramName:     "fsbench",
		ReportPrefix:    "fsbench",
		ErrorBackoffMax: 30 * time.Second,
		LogMaxBytes:     64 * 1024 * 1024,
		LogMaxFiles:     8,
	}
}

// PublishesReports reports whether any report sink beyond stdout is configured.
func (b Bench) PublishesReports() bool {
	return b.ReportFile != "" || b.ReportBucket != ""
}
