package codec

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"

	"github.com/meigma/jpak/internal/archtype"
)

// Decoder decompresses units into a reusable scratch buffer.
//
// A Decoder is not safe for concurrent use.
type Decoder struct {
	scratch bytes.Buffer
	br      *bufio.Reader
	limit   uint64
}

// DecoderOption configures a Decoder.
type DecoderOption func(*Decoder)

// WithLimit caps the decompressed size of a single unit.
// Zero disables the limit.
func WithLimit(limit uint64) DecoderOption {
	return func(d *Decoder) {
		d.limit = limit
	}
}

// NewDecoder creates a Decoder.
func NewDecoder(opts ...DecoderOption) *Decoder {
	d := &Decoder{br: bufio.NewReaderSize(nil, outBufferSize)}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Decode decompresses the unit stored at [off, off+n) of src.
//
// The returned slice aliases the decoder's scratch buffer and is only valid
// until the next call. Decode never reads outside the given range. Any
// malformed or truncated unit yields an error wrapping ErrCorruptBlock.
func (d *Decoder) Decode(src io.ReaderAt, off, n int64) ([]byte, error) {
	return d.decode(src, off, n, d.limit, d.limit > 0)
}

// DecodeExact is like Decode for a unit that must expand to exactly size
// bytes. Output beyond size is never buffered.
func (d *Decoder) DecodeExact(src io.ReaderAt, off, n int64, size uint64) ([]byte, error) {
	if size <= maxPrealloc {
		d.scratch.Reset()
		d.scratch.Grow(int(size))
	}
	data, err := d.decode(src, off, n, size, true)
	if err != nil {
		return nil, err
	}
	if uint64(len(data)) != size {
		return nil, corrupt("unit expands to %d bytes, want %d", len(data), size)
	}
	return data, nil
}

func (d *Decoder) decode(src io.ReaderAt, off, n int64, limit uint64, limited bool) ([]byte, error) {
	d.scratch.Reset()
	section := io.NewSectionReader(src, off, n)

	var h [4]byte
	if _, err := io.ReadFull(section, h[:]); err != nil {
		return nil, corrupt("read unit header: %v", err)
	}
	if h[0] > Preset {
		return nil, corrupt("unknown preset %d", h[0])
	}
	if plen := binary.LittleEndian.Uint16(h[2:4]); plen != PropsLen {
		return nil, corrupt("properties length %d, want %d", plen, PropsLen)
	}

	// Rebuild a .lzma header with an unknown size so the stream must end in
	// its end-of-stream marker.
	var lh [lzma.HeaderLen]byte
	if _, err := io.ReadFull(section, lh[:PropsLen]); err != nil {
		return nil, corrupt("read properties: %v", err)
	}
	for i := PropsLen; i < len(lh); i++ {
		lh[i] = 0xFF
	}

	d.br.Reset(io.MultiReader(bytes.NewReader(lh[:]), section))
	lr, err := lzma.NewReader(d.br)
	if err != nil {
		return nil, corrupt("init decoder: %v", err)
	}

	var r io.Reader = lr
	if limited {
		limit = min(limit, 1<<62)
		r = io.LimitReader(lr, int64(limit)+1)
	}
	if _, err := d.scratch.ReadFrom(r); err != nil {
		return nil, corrupt("decompress: %v", err)
	}
	if limited && uint64(d.scratch.Len()) > limit {
		return nil, corrupt("unit exceeds %d bytes", limit)
	}
	return d.scratch.Bytes(), nil
}

func corrupt(format string, args ...any) error {
	return fmt.Errorf("%w: %s", archtype.ErrCorruptBlock, fmt.Sprintf(format, args...))
}
