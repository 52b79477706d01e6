//go:build !(linux || darwin || freebsd || netbsd || openbsd)

package platform

import (
	"io/fs"
	"os"
)

// POSIX type and special bits synthesized from fs.FileMode.
const (
	modeRegular = 0o100000
	modeDir     = 0o040000
	modeSymlink = 0o120000
	modeFIFO    = 0o010000
	modeSocket  = 0o140000
	modeChar    = 0o020000
	modeBlock   = 0o060000
	modeSetuid  = 0o4000
	modeSetgid  = 0o2000
	modeSticky  = 0o1000
)

// Lstat returns the metadata of path without following a final symlink.
// Ownership is reported as zero and the access time mirrors the
// modification time.
func Lstat(path string) (Stat, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return Stat{}, err
	}
	mtime := uint32(info.ModTime().Unix()) //nolint:gosec // archive timestamps are 32-bit
	return Stat{
		Mode:  posixMode(info.Mode()),
		Size:  uint64(max(info.Size(), 0)),
		Atime: mtime,
		Mtime: mtime,
	}, nil
}

func posixMode(m fs.FileMode) uint64 {
	mode := uint64(m.Perm())
	switch {
	case m.IsRegular():
		mode |= modeRegular
	case m.IsDir():
		mode |= modeDir
	case m&fs.ModeSymlink != 0:
		mode |= modeSymlink
	case m&fs.ModeNamedPipe != 0:
		mode |= modeFIFO
	case m&fs.ModeSocket != 0:
		mode |= modeSocket
	case m&fs.ModeCharDevice != 0:
		mode |= modeChar
	case m&fs.ModeDevice != 0:
		mode |= modeBlock
	}
	if m&fs.ModeSetuid != 0 {
		mode |= modeSetuid
	}
	if m&fs.ModeSetgid != 0 {
		mode |= modeSetgid
	}
	if m&fs.ModeSticky != 0 {
		mode |= modeSticky
	}
	return mode
}
