//go:build linux

package filesystem

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func probe(dir string) (Usage, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(dir, &st); err != nil {
		return Usage{}, fmt.Errorf("filesystem: statfs %s: %w", dir, err)
	}
	bsize := uint64(st.Bsize)
	return Usage{
		Type:       fsTypeName(int64(st.Type)),
		BlockSize:  bsize,
		TotalBytes: st.Blocks * bsize,
		FreeBytes:  st.Bavail * bsize,
	}, nil
}

func fsTypeName(magic int64) string {
	switch magic {
	case unix.EXT4_SUPER_MAGIC:
		return "ext4"
	case unix.XFS_SUPER_MAGIC:
		return "xfs"
	case unix.BTRFS_SUPER_MAGIC:
		return "btrfs"
	case unix.TMPFS_MAGIC:
		return "tmpfs"
	case unix.NFS_SUPER_MAGIC:
		return "nfs"
	case unix.OVERLAYFS_SUPER_MAGIC:
		return "overlay"
	case unix.FUSE_SUPER_MAGIC:
		return "fuse"
	default:
		return fmt.Sprintf("0x%x", magic)
	}
}
