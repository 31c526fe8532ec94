package filesystem

// Usage describes the file system holding a directory.
type Usage struct {
	// Type is a short file system name such as "ext4", or a hex magic
	// number when the type is not recognised. Empty when unsupported.
	Type string
	// BlockSize is the preferred I/O block size in bytes.
	BlockSize uint64
	// TotalBytes and FreeBytes describe capacity; FreeBytes counts only
	// space available to unprivileged users.
	TotalBytes uint64
	FreeBytes  uint64
}

// Probe reports the file system holding dir. On platforms without statfs it
// returns a zero Usage and no error.
//
//	u, err := op.Probe("/tmp/sdc")
func (o *Operator) Probe(dir string) (Usage, error) {
	return probe(dir)
}
