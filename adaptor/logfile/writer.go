// Package logfile provides a size-rotating append-only file writer. The
// benchmark uses it for the diagnostic slog stream and for the JSON report
// journal, both of which would otherwise grow without bound on a host left
// running for days.
package logfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// RotatingWriter is a goroutine-safe io.WriteCloser. When the next write
// would push the current file past maxBytes, the file is shifted to
// {name}.1, older copies move up by one, and anything beyond maxFiles is
// removed.
type RotatingWriter struct {
	path     string
	maxBytes int64
	maxFiles int

	mu   sync.Mutex
	file *os.File
	size int64
}

// NewRotatingWriter creates a writer for path. Call Open before first Write.
//
//	w := logfile.NewRotatingWriter("/var/log/fsbench/reports.jsonl", 64<<20, 8)
//	if err := w.Open(); err != nil { ... }
//	defer w.Close()
func NewRotatingWriter(path string, maxBytes int64, maxFiles int) *RotatingWriter {
	return &RotatingWriter{
		path:     path,
		maxBytes: maxBytes,
		maxFiles: maxFiles,
	}
}

// Path returns the path of the live file.
func (w *RotatingWriter) Path() string {
	return w.path
}

// Open creates the parent directory if needed and opens the live file for
// appending, picking up its current size so a restart rotates on schedule.
func (w *RotatingWriter) Open() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	dir := filepath.Dir(w.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("logfile: mkdir %s: %w", dir, err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("logfile: open %s: %w", w.path, err)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("logfile: stat %s: %w", w.path, err)
	}

	w.file = f
	w.size = info.Size()
	return nil
}

// Write implements io.Writer. A single write larger than maxBytes lands in a
// fresh file whole; it is never split across files.
func (w *RotatingWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return 0, fmt.Errorf("logfile: %s not opened", w.path)
	}

	if w.size > 0 && w.size+int64(len(p)) > w.maxBytes {
		if err := w.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := w.file.Write(p)
	w.size += int64(n)
	return n, err
}

// Close closes the live file. Closing twice is not an error.
func (w *RotatingWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

// rotate shifts path.N-1 -> path.N ... path -> path.1 and opens a fresh
// live file. Caller must hold w.mu.
func (w *RotatingWriter) rotate() error {
	_ = w.file.Close()
	w.file = nil

	_ = os.Remove(fmt.Sprintf("%s.%d", w.path, w.maxFiles))
	for i := w.maxFiles - 1; i >= 1; i-- {
		_ = os.Rename(fmt.Sprintf("%s.%d", w.path, i), fmt.Sprintf("%s.%d", w.path, i+1))
	}
	_ = os.Rename(w.path, w.path+".1")

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return fmt.Errorf("logfile: reopen %s: %w", w.path, err)
	}

	w.file = f
	w.size = 0
	return nil
}
