// Package format defines the on-disk layout of a jpak archive:
//
//	[4]  magic "JPAK"
//	     compressed data blocks, back to back
//	     one compressed unit holding the columnar index
//	[4]  u32 footer magic
//	[8]  u64 entry count
//	[8]  u64 index offset
//	[8]  u64 compressed index length
//
// All integers are little-endian.
package format

import (
	"errors"
	"fmt"
	"io"

	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/binio"
)

const (
	// Magic opens every archive.
	Magic = "JPAK"

	// HeaderSize is the length of the leading magic.
	HeaderSize = len(Magic)

	// FooterMagic is the first field of the trailer.
	FooterMagic uint32 = 12345678

	// FooterSize is the fixed trailer length.
	FooterSize = 4 + 8 + 8 + 8

	// NoOffset is the block offset stored for directories and for files
	// that continue the previous block. Real offsets are never below
	// HeaderSize.
	NoOffset uint64 = 0

	// MaxPathLen is the longest path the u16 length column can record.
	MaxPathLen = 1<<16 - 1
)

// WriteHeader writes the leading magic.
func WriteHeader(w *binio.Writer) error {
	_, err := w.WriteString(Magic)
	return err
}

// CheckHeader verifies the leading magic of src.
func CheckHeader(src io.ReaderAt) error {
	var buf [HeaderSize]byte
	if err := readAt(src, buf[:], 0); err != nil {
		return readErr("header", err)
	}
	if string(buf[:]) != Magic {
		return fmt.Errorf("%w: bad magic %q", archtype.ErrCorruptArchive, buf[:])
	}
	return nil
}

// readAt fills p from off. A full read that also reports io.EOF succeeds.
func readAt(src io.ReaderAt, p []byte, off int64) error {
	n, err := src.ReadAt(p, off)
	if n == len(p) {
		return nil
	}
	if err == nil || errors.Is(err, io.EOF) {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func readErr(what string, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return fmt.Errorf("%w: %s truncated", archtype.ErrCorruptArchive, what)
	}
	return fmt.Errorf("%w: read %s: %w", archtype.ErrIO, what, err)
}
