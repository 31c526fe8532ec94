// Command fsbench measures filesystem operation latency on the directory
// named by $SDC_DATA. It loops forever renaming, creating, writing, and
// closing a small file, and prints per-phase totals every 10,000 iterations:
//
//	10000 open file time: 649ms  rename file time: 542ms  write file time: 28ms  close file time: 853ms  total time: 2073ms
//
// Usage:
//
//	SDC_DATA=/var/lib/sdc fsbench [config-file]
//
// The optional config file (default /etc/fsbench/fsbench.yml) only controls
// logging and report publishing. Exit status is 2 when $SDC_DATA is unset or
// blank, 1 on any other startup failure, and 0 after SIGINT/SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/gurre/fsbench-go/adaptor/configloader"
	"github.com/gurre/fsbench-go/entrypoint/bench"
)

const defaultConfigPath = "/etc/fsbench/fsbench.yml"

// exitMisconfigured signals a missing or blank $SDC_DATA.
const exitMisconfigured = 2

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Getenv, os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, getenv func(string) string, stdout, stderr io.Writer) int {
	configPath := defaultConfigPath
	if len(args) > 0 {
		configPath = args[0]
	}

	cfg, err := configloader.LoadBench(configPath, getenv)
	if errors.Is(err, configloader.ErrDataDirUnset) {
		fmt.Fprintln(stdout, err)
		return exitMisconfigured
	}
	if err != nil {
		fmt.Fprintf(stderr, "fsbench: %s\n", err)
		return 1
	}

	if err := bench.Run(ctx, cfg, stdout, stderr); err != nil {
		fmt.Fprintf(stderr, "fsbench: %s\n", err)
		return 1
	}
	return 0
}
