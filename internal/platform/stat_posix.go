//go:build linux || darwin || freebsd || netbsd || openbsd

package platform

import (
	"io/fs"

	"golang.org/x/sys/unix"
)

// Lstat returns the metadata of path without following a final symlink.
func Lstat(path string) (Stat, error) {
	var st unix.Stat_t
	if err := unix.Lstat(path, &st); err != nil {
		return Stat{}, &fs.PathError{Op: "lstat", Path: path, Err: err}
	}
	return Stat{
		Mode:  uint64(st.Mode),
		Size:  uint64(max(st.Size, 0)),
		UID:   st.Uid,
		GID:   st.Gid,
		Atime: uint32(st.Atim.Sec), //nolint:gosec // archive timestamps are 32-bit
		Mtime: uint32(st.Mtim.Sec), //nolint:gosec // archive timestamps are 32-bit
	}, nil
}
