// Package window accumulates per-phase latency across one report window and
// renders the window as a summary line and as a JSON report.
package window

import (
	"fmt"
	"time"

	json "github.com/goccy/go-json"
)

// Phase identifies one timed step of an iteration.
type Phase int

const (
	Open Phase = iota
	Rename
	Write
	Close
	Total

	numPhases
)

// String returns the phase name used in log records.
func (p Phase) String() string {
	switch p {
	case Open:
		return "open"
	case Rename:
		return "rename"
	case Write:
		return "write"
	case Close:
		return "close"
	case Total:
		return "total"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Window holds the running sums for one report window. The zero value is
// an empty window ready for use. It is not safe for concurrent use.
type Window struct {
	sums [numPhases]time.Duration
	size uint64
}

// New creates a window that reports every size successful iterations.
//
//	w := window.New(config.ReportEvery)
//	w.Add(window.Rename, elapsed)
func New(size uint64) *Window {
	return &Window{size: size}
}

// Add adds d to the phase's running sum.
func (w *Window) Add(p Phase, d time.Duration) {
	w.sums[p] += d
}

// Sum returns the running sum for a phase.
func (w *Window) Sum(p Phase) time.Duration {
	return w.sums[p]
}

// Due reports whether counter closes a window. Counter is the number of
// successful iterations so far; zero never closes one.
func (w *Window) Due(counter uint64) bool {
	return w.size > 0 && counter > 0 && counter%w.size == 0
}

// Reset zeroes every running sum.
func (w *Window) Reset() {
	w.sums = [numPhases]time.Duration{}
}

// Line renders the operator summary line for counter, without a trailing
// newline. Fields are separated by two spaces and values are whole
// milliseconds, truncated.
//
//	10000 open file time: 649ms  rename file time: 542ms  write file time: 28ms  close file time: 853ms  total time: 2073ms
func (w *Window) Line(counter uint64) string {
	return fmt.Sprintf("%d open file time: %dms  rename file time: %dms  write file time: %dms  close file time: %dms  total time: %dms",
		counter,
		millis(w.sums[Open]),
		millis(w.sums[Rename]),
		millis(w.sums[Write]),
		millis(w.sums[Close]),
		millis(w.sums[Total]),
	)
}

// Report is the machine-readable form of one closed window.
type Report struct {
	Counter    uint64    `json:"counter"`
	OpenMS     int64     `json:"open_ms"`
	RenameMS   int64     `json:"rename_ms"`
	WriteMS    int64     `json:"write_ms"`
	CloseMS    int64     `json:"close_ms"`
	TotalMS    int64     `json:"total_ms"`
	FinishedAt time.Time `json:"finished_at"`
	Host       string    `json:"host"`
	DataDir    string    `json:"data_dir"`
}

// Report snapshots the window for counter. Call it before Reset.
//
//	r := w.Report(counter, time.Now(), host, dataDir)
func (w *Window) Report(counter uint64, finishedAt time.Time, host, dataDir string) Report {
	return Report{
		Counter:    counter,
		OpenMS:     millis(w.sums[Open]),
		RenameMS:   millis(w.sums[Rename]),
		WriteMS:    millis(w.sums[Write]),
		CloseMS:    millis(w.sums[Close]),
		TotalMS:    millis(w.sums[Total]),
		FinishedAt: finishedAt.UTC(),
		Host:       host,
		DataDir:    dataDir,
	}
}

// Encode marshals the report as a single JSON object.
func (r Report) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("window: encode report %d: %w", r.Counter, err)
	}
	return data, nil
}

func millis(d time.Duration) int64 {
	return int64(d / time.Millisecond)
}
