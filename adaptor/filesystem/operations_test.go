package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// TestMkdirAll_Idempotent verifies that creating an existing directory chain
// is not an error, so startup can run more than once.
func TestMkdirAll_Idempotent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "runInfo", "bob", "0")
	op := NewOperator()

	for i := range 2 {
		if err := op.MkdirAll(dir); err != nil {
			t.Fatalf("MkdirAll #%d: %v", i+1, err)
		}
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if !info.IsDir() {
		t.Error("should be a directory")
	}
}

// TestRemove_NonExistentIsNil verifies that removing a missing file succeeds.
func TestRemove_NonExistentIsNil(t *testing.T) {
	op := NewOperator()
	if err := op.Remove(filepath.Join(t.TempDir(), "nope")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
}

// TestRemove_DeletesFile verifies an existing file is removed.
func TestRemove_DeletesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob")
	if err := os.WriteFile(path, []byte("stale"), 0o644); err != nil {
		t.Fatal(err)
	}

	op := NewOperator()
	if err := op.Remove(path); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("file should be gone, stat err = %v", err)
	}
}

// TestRename_ReplacesTarget verifies rename overwrites an existing target,
// which is how the rotated file is refreshed on every iteration.
func TestRename_ReplacesTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bob")
	dst := filepath.Join(dir, "bob.old")
	if err := os.WriteFile(src, []byte("new"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(dst, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}

	op := NewOperator()
	if err := op.Rename(src, dst); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "new" {
		t.Errorf("dst = %q, want %q", got, "new")
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("src should no longer exist")
	}
}

// TestRename_MissingSourceFails verifies the first-iteration case reports an
// error rather than creating anything; callers ignore it.
func TestRename_MissingSourceFails(t *testing.T) {
	dir := t.TempDir()
	op := NewOperator()
	if err := op.Rename(filepath.Join(dir, "bob"), filepath.Join(dir, "bob.old")); err == nil {
		t.Fatal("expected error renaming a missing file")
	}
	if _, err := os.Stat(filepath.Join(dir, "bob.old")); !os.IsNotExist(err) {
		t.Error("target should not exist")
	}
}

// TestCreate_BuffersUntilClose verifies that data reaches the file only
// after Close, so write timings measure buffering and close timings measure
// the flush.
func TestCreate_BuffersUntilClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob")
	op := NewOperator()

	w, err := op.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("hello\n")); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 0 {
		t.Errorf("file has %q before Close, want empty", got)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got, err = os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello\n" {
		t.Errorf("file = %q after Close", got)
	}
}

// TestCreate_Truncates verifies that an existing file is truncated.
func TestCreate_Truncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bob")
	if err := os.WriteFile(path, []byte("a much longer previous content\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	op := NewOperator()
	w, err := op.Create(path)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := w.Write([]byte("x\n")); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	got, _ := os.ReadFile(path)
	if string(got) != "x\n" {
		t.Errorf("file = %q, want truncated content", got)
	}
}

// TestCreate_MissingDirectoryFails verifies that a missing parent surfaces as
// an error the loop can report.
func TestCreate_MissingDirectoryFails(t *testing.T) {
	op := NewOperator()
	_, err := op.Create(filepath.Join(t.TempDir(), "missing", "bob"))
	if err == nil {
		t.Fatal("expected error creating under a missing directory")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want a not-exist cause", err)
	}
}

// TestProbe_ReportsCapacity verifies the probe returns plausible numbers on
// Linux and a zero value elsewhere.
func TestProbe_ReportsCapacity(t *testing.T) {
	op := NewOperator()
	u, err := op.Probe(t.TempDir())
	if err != nil {
		t.Fatalf("Probe: %v", err)
	}
	if runtime.GOOS != "linux" {
		if u != (Usage{}) {
			t.Errorf("Probe on %s = %+v, want zero", runtime.GOOS, u)
		}
		return
	}
	if u.Type == "" {
		t.Error("Type should be set on linux")
	}
	if u.BlockSize == 0 {
		t.Error("BlockSize should be non-zero")
	}
	if u.FreeBytes > u.TotalBytes {
		t.Errorf("FreeBytes %d > TotalBytes %d", u.FreeBytes, u.TotalBytes)
	}
}

// TestProbe_MissingDirectory verifies statfs failures are reported on Linux.
func TestProbe_MissingDirectory(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("statfs probe is linux-only")
	}
	op := NewOperator()
	if _, err := op.Probe(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}
