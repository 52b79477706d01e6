// Package platform isolates the operating-system calls used to capture entry
// metadata and to open source files safely.
package platform

import "errors"

// ErrSymlink is returned when attempting to open a symbolic link.
var ErrSymlink = errors.New("symbolic links not supported")

// Stat is the metadata captured for one filesystem object.
type Stat struct {
	// Mode holds POSIX st_mode bits, including the file-type bits.
	Mode uint64

	// Size is st_size.
	Size uint64

	UID   uint32
	GID   uint32
	Atime uint32
	Mtime uint32
}
