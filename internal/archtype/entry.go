// Package archtype defines shared types used across the jpak package and its
// internal packages. This avoids circular imports between jpak and the
// collector, format and sink packages.
package archtype

import (
	"io/fs"
	"time"
)

// POSIX file-type bits carried in Entry.Mode.
const (
	ModeTypeMask uint64 = 0o170000
	ModeDir      uint64 = 0o040000
	ModeRegular  uint64 = 0o100000
	ModePermMask uint64 = 0o7777
)

// Kind classifies an archived object.
type Kind uint8

const (
	KindOther Kind = iota
	KindFile
	KindDir
)

// String returns the human-readable name of the kind.
func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	default:
		return "other"
	}
}

// KindOf classifies POSIX st_mode bits.
func KindOf(mode uint64) Kind {
	switch mode & ModeTypeMask {
	case ModeRegular:
		return KindFile
	case ModeDir:
		return KindDir
	default:
		return KindOther
	}
}

// Entry represents one archived filesystem object.
type Entry struct {
	// Path is the archive-relative, slash-separated path (e.g., "src/main.go").
	Path string

	// Size is the uncompressed payload size. Always zero for directories.
	Size uint64

	// Mode holds the POSIX st_mode bits, including the file-type bits.
	Mode uint64

	// UID is the owner's user ID.
	UID uint32

	// GID is the owner's group ID.
	GID uint32

	// Atime is the access time in Unix seconds.
	Atime uint32

	// Mtime is the modification time in Unix seconds.
	Mtime uint32

	// CompressedSize is the compressed length of the block holding this
	// entry's payload. Only populated when reading an archive.
	CompressedSize uint64

	// Source is the on-disk path the payload is read from when packing.
	// It is never stored in the archive.
	Source string
}

// Kind returns the entry's kind derived from its mode bits.
func (e Entry) Kind() Kind {
	return KindOf(e.Mode)
}

// IsDir reports whether the entry is a directory.
func (e Entry) IsDir() bool {
	return e.Kind() == KindDir
}

// Perm returns the permission bits as an fs.FileMode.
func (e Entry) Perm() fs.FileMode {
	return fs.FileMode(e.Mode & 0o777)
}

// ModTime returns the modification time.
func (e Entry) ModTime() time.Time {
	return time.Unix(int64(e.Mtime), 0)
}

// AccessTime returns the access time.
func (e Entry) AccessTime() time.Time {
	return time.Unix(int64(e.Atime), 0)
}

// Block describes one compressed data block recovered from an archive.
type Block struct {
	// Start is the archive offset of the block's compressed unit.
	Start uint64

	// End is the exclusive end offset of the compressed unit.
	End uint64

	// First is the index of the entry that owns the block.
	First int

	// Count is the number of entries spanned, starting at First. Directories
	// interleaved with members are spanned but hold no payload.
	Count int

	// Size is the total uncompressed size of the block's members.
	Size uint64
}

// CompressedSize returns the length of the compressed unit.
func (b Block) CompressedSize() uint64 {
	return b.End - b.Start
}
