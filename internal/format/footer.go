package format

import (
	"fmt"
	"io"

	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/binio"
	"github.com/meigma/jpak/internal/sizing"
)

// Footer is the fixed-size trailer locating the index.
type Footer struct {
	// Count is the number of entries in the index.
	Count uint64

	// IndexOffset is the archive offset of the compressed index unit.
	IndexOffset uint64

	// IndexSize is the compressed length of the index unit.
	IndexSize uint64
}

// Encode writes the footer.
func (f Footer) Encode(w *binio.Writer) error {
	_ = w.PutUint32(FooterMagic)
	_ = w.PutUint64(f.Count)
	_ = w.PutUint64(f.IndexOffset)
	return w.PutUint64(f.IndexSize)
}

// ReadFooter reads and validates the trailer of an archive of the given size.
//
// The index range must lie between the header and the footer. Any violation
// is reported as ErrCorruptArchive.
func ReadFooter(src io.ReaderAt, size int64) (Footer, error) {
	if size < int64(HeaderSize+FooterSize) {
		return Footer{}, fmt.Errorf("%w: %d bytes is too small", archtype.ErrCorruptArchive, size)
	}

	var buf [FooterSize]byte
	if err := readAt(src, buf[:], size-FooterSize); err != nil {
		return Footer{}, readErr("footer", err)
	}

	c := binio.NewCursor(buf[:])
	if magic := c.Uint32(); magic != FooterMagic {
		return Footer{}, fmt.Errorf("%w: footer magic %d", archtype.ErrCorruptArchive, magic)
	}
	f := Footer{
		Count:       c.Uint64(),
		IndexOffset: c.Uint64(),
		IndexSize:   c.Uint64(),
	}

	dataEnd := uint64(size) - FooterSize
	if f.IndexSize == 0 || !sizing.InRange(f.IndexOffset, f.IndexSize, uint64(HeaderSize), dataEnd) {
		return Footer{}, fmt.Errorf("%w: index range [%d,+%d) outside [%d,%d)",
			archtype.ErrCorruptArchive, f.IndexOffset, f.IndexSize, HeaderSize, dataEnd)
	}
	return f, nil
}
