// Package filesystem provides the file system operations the benchmark times:
// directory preparation, idempotent removal, rename, and buffered create.
package filesystem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
)

// Operator performs file system operations against the real disk.
type Operator struct{}

// NewOperator creates a new file system operator.
//
//	op := filesystem.NewOperator()
//	f, err := op.Create("/tmp/sdc/runInfo/bob/0/bob")
func NewOperator() *Operator {
	return &Operator{}
}

// MkdirAll creates a directory and all parents. Existing directories are fine.
func (o *Operator) MkdirAll(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("filesystem: mkdir %s: %w", path, err)
	}
	return nil
}

// Remove removes a file. Non-existent paths are ignored.
func (o *Operator) Remove(path string) error {
	err := os.Remove(path)
	if err == nil || errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("filesystem: remove %s: %w", path, err)
}

// Rename renames oldpath onto newpath, replacing newpath if it exists.
func (o *Operator) Rename(oldpath, newpath string) error {
	return os.Rename(oldpath, newpath)
}

// Create creates or truncates path for writing. Writes are buffered in
// memory and reach the file on Close.
func (o *Operator) Create(path string) (io.WriteCloser, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("filesystem: create %s: %w", path, err)
	}
	return &bufferedFile{f: f, w: bufio.NewWriter(f)}, nil
}

// bufferedFile defers the write syscalls to Close so that the write phase
// measures only in-process buffering and the close phase measures the flush.
type bufferedFile struct {
	f *os.File
	w *bufio.Writer
}

func (b *bufferedFile) Write(p []byte) (int, error) {
	n, err := b.w.Write(p)
	if err != nil {
		return n, fmt.Errorf("filesystem: write %s: %w", b.f.Name(), err)
	}
	return n, nil
}

// Close flushes buffered data and closes the file. The file is closed even
// when the flush fails; the first error is returned.
func (b *bufferedFile) Close() error {
	flushErr := b.w.Flush()
	closeErr := b.f.Close()
	if flushErr != nil {
		return fmt.Errorf("filesystem: flush %s: %w", b.f.Name(), flushErr)
	}
	if closeErr != nil {
		return fmt.Errorf("filesystem: close %s: %w", b.f.Name(), closeErr)
	}
	return nil
}
