// Package layout defines where the benchmark's two files live under the
// data directory. All path computation is pure (no I/O).
package layout

import "path/filepath"

// relWorking is the working file's location relative to the data directory.
const relWorking = "/runInfo/bob/0/bob"

// rotatedSuffix turns the working file name into the rotated file name.
const rotatedSuffix = ".old"

// Layout computes the working and rotated file paths from a data directory.
type Layout struct {
	dataDir string
}

// New creates a layout rooted at dataDir.
//
//	l := layout.New("/tmp/sdc")
//	l.WorkingFile() // /tmp/sdc/runInfo/bob/0/bob
func New(dataDir string) Layout {
	return Layout{dataDir: dataDir}
}

// DataDir returns the root the layout was built from.
func (l Layout) DataDir() string {
	return l.dataDir
}

// WorkingFile returns the file written on every iteration.
// Example: /tmp/sdc/runInfo/bob/0/bob
//
// The path is a plain concatenation so the printed value matches $SDC_DATA
// as the operator typed it.
func (l Layout) WorkingFile() string {
	return l.dataDir + relWorking
}

// RotatedFile returns the file the working file is renamed onto.
// Example: /tmp/sdc/runInfo/bob/0/bob.old
func (l Layout) RotatedFile() string {
	return l.WorkingFile() + rotatedSuffix
}

// Dirs returns the distinct parent directories of both files.
func (l Layout) Dirs() []string {
	w := filepath.Dir(l.WorkingFile())
	r := filepath.Dir(l.RotatedFile())
	if w == r {
		return []string{w}
	}
	return []string{w, r}
}
