package jpak

import (
	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/format"
)

// Re-export types from internal packages for the public API.
type (
	// Entry represents a file or directory in the archive.
	Entry = archtype.Entry

	// Kind classifies an entry.
	Kind = archtype.Kind

	// Block describes one compressed data block of an archive.
	Block = archtype.Block

	// Footer is the fixed-size trailer locating the index.
	Footer = format.Footer
)

// Re-export entry kinds.
const (
	KindOther = archtype.KindOther
	KindFile  = archtype.KindFile
	KindDir   = archtype.KindDir
)

// Format constants.
const (
	// Magic opens every archive.
	Magic = format.Magic

	// FooterSize is the length of the trailer.
	FooterSize = format.FooterSize

	// NoOffset is the block offset stored for directories and for files
	// that continue the previous block.
	NoOffset = format.NoOffset

	// MaxPathLen is the longest entry path an archive can record.
	MaxPathLen = format.MaxPathLen
)

// Summary reports what a pack or unpack produced.
type Summary struct {
	// Entries is the number of entries processed.
	Entries int

	// Files and Dirs split Entries by kind.
	Files int
	Dirs  int

	// Skipped counts files left untouched because they already existed.
	Skipped int

	// Blocks is the number of data blocks written or decoded.
	Blocks int

	// DataBytes is the total uncompressed file payload.
	DataBytes uint64

	// DataSize is the compressed size of the data region.
	DataSize uint64

	// IndexSize is the compressed size of the index.
	IndexSize uint64

	// ArchiveSize is the total archive length.
	ArchiveSize uint64
}
