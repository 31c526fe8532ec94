// Package configloader builds the benchmark configuration from the
// environment and an optional YAML file on disk.
package configloader

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/gurre/fsbench-go/state/config"
	"gopkg.in/yaml.v3"
)

// ErrDataDirUnset is returned when $SDC_DATA is missing or blank. The
// command maps it to a dedicated exit status.
var ErrDataDirUnset = errors.New(config.DataDirEnv + " is not defined or is blank")

// rawConfig mirrors the YAML structure of fsbench.yml.
type rawConfig struct {
	ProgramName            string `yaml:"program_name"`
	LogDir                 string `yaml:"log_dir"`
	ReportFile             string `yaml:"report_file"`
	ReportBucket           string `yaml:"report_bucket"`
	ReportPrefix           string `yaml:"report_prefix"`
	Region                 string `yaml:"region"`
	S3EndpointOverride     string `yaml:"s3_endpoint_override"`
	AWSAccessKeyID         string `yaml:"aws_access_key_id"`
	AWSSecretAccessKey     string `yaml:"aws_secret_access_key"`
	ErrorBackoffSeconds    *int   `yaml:"error_backoff_seconds"`
	ErrorBackoffMaxSeconds *int   `yaml:"error_backoff_max_seconds"`
	LogMaxBytes            *int64 `yaml:"log_max_bytes"`
	LogMaxFiles            *int   `yaml:"log_max_files"`
}

// LoadBench reads the data directory from the environment through getenv,
// then overlays the YAML file at path onto defaults. A missing file yields
// defaults; a blank $SDC_DATA yields ErrDataDirUnset before the file is read.
//
//	cfg, err := configloader.LoadBench("/etc/fsbench/fsbench.yml", os.Getenv)
//	if errors.Is(err, configloader.ErrDataDirUnset) { os.Exit(2) }
func LoadBench(path string, getenv func(string) string) (config.Bench, error) {
	dataDir := getenv(config.DataDirEnv)
	if dataDir == "" {
		return config.Bench{}, ErrDataDirUnset
	}

	cfg := config.Default()
	cfg.DataDir = dataDir

	if err := overlayFile(&cfg, path); err != nil {
		return config.Bench{}, err
	}

	if cfg.Region == "" {
		cfg.Region = getenv("AWS_REGION")
	}
	return cfg, nil
}

func overlayFile(cfg *config.Bench, path string) error {
	if path == "" {
		return nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("configloader: %w", err)
	}

	var raw rawConfig
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("configloader: parse %s: %w", path, err)
	}

	if raw.ProgramName != "" {
		cfg.ProgramName = raw.ProgramName
	}
	if raw.LogDir != "" {
		cfg.LogDir = raw.LogDir
	}
	if raw.ReportFile != "" {
		cfg.ReportFile = raw.ReportFile
	}
	if raw.ReportBucket != "" {
		cfg.ReportBucket = raw.ReportBucket
	}
	if raw.ReportPrefix != "" {
		cfg.ReportPrefix = strings.Trim(raw.ReportPrefix, "/")
	}
	if raw.Region != "" {
		cfg.Region = raw.Region
	}
	if raw.S3EndpointOverride != "" {
		cfg.S3EndpointOverride = raw.S3EndpointOverride
	}
	if raw.AWSAccessKeyID != "" {
		cfg.AWSAccessKeyID = raw.AWSAccessKeyID
	}
	if raw.AWSSecretAccessKey != "" {
		cfg.AWSSecretAccessKey = raw.AWSSecretAccessKey
	}
	if raw.ErrorBackoffSeconds != nil {
		cfg.ErrorBackoff = time.Duration(*raw.ErrorBackoffSeconds) * time.Second
	}
	if raw.ErrorBackoffMaxSeconds != nil {
		cfg.ErrorBackoffMax = time.Duration(*raw.ErrorBackoffMaxSeconds) * time.Second
	}
	if raw.LogMaxBytes != nil {
		cfg.LogMaxBytes = *raw.LogMaxBytes
	}
	if raw.LogMaxFiles != nil {
		cfg.LogMaxFiles = *raw.LogMaxFiles
	}

	if cfg.LogMaxBytes <= 0 {
		return fmt.Errorf("configloader: parse %s: log_max_bytes must be positive", path)
	}
	if cfg.LogMaxFiles < 1 {
		return fmt.Errorf("configloader: parse %s: log_max_files must be at least 1", path)
	}
	return nil
}
