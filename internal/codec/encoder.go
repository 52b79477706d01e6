package codec

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// errNoHeader means the LZMA writer closed without emitting its header.
var errNoHeader = errors.New("codec: lzma header not produced")

// Encoder compresses buffers into self-describing units.
//
// An Encoder owns its output buffer and reuses it across calls. It is not
// safe for concurrent use.
type Encoder struct {
	out   *bufio.Writer
	frame frameWriter
}

// NewEncoder creates an Encoder.
func NewEncoder() *Encoder {
	e := &Encoder{}
	e.out = bufio.NewWriterSize(&e.frame, outBufferSize)
	return e
}

// Encode compresses src as one unit and writes it to dst.
// It returns the number of bytes written to dst.
func (e *Encoder) Encode(dst io.Writer, src []byte) (int64, error) {
	e.frame.reset(dst)
	e.out.Reset(&e.frame)

	props := properties
	cfg := lzma.WriterConfig{
		Properties: &props,
		DictCap:    dictCapFor(len(src)),
		EOSMarker:  true,
	}
	lw, err := cfg.NewWriter(e.out)
	if err != nil {
		return 0, fmt.Errorf("create lzma writer: %w", err)
	}

	for off := 0; off < len(src); off += chunkSize {
		end := min(off+chunkSize, len(src))
		if _, err := lw.Write(src[off:end]); err != nil {
			return e.frame.n, fmt.Errorf("compress: %w", err)
		}
	}
	if err := lw.Close(); err != nil {
		return e.frame.n, fmt.Errorf("close lzma writer: %w", err)
	}
	if err := e.out.Flush(); err != nil {
		return e.frame.n, err
	}
	if !e.frame.started {
		return e.frame.n, errNoHeader
	}
	return e.frame.n, nil
}

// frameWriter receives the classic .lzma stream. It holds back the 13-byte
// .lzma header, emits the unit header built from its properties, then passes
// the raw stream through unchanged.
type frameWriter struct {
	dst     io.Writer
	hdr     [lzma.HeaderLen]byte
	have    int
	started bool
	n       int64
}

func (f *frameWriter) reset(dst io.Writer) {
	f.dst = dst
	f.have = 0
	f.started = false
	f.n = 0
}

func (f *frameWriter) Write(p []byte) (int, error) {
	consumed := 0
	if !f.started {
		k := copy(f.hdr[f.have:], p)
		f.have += k
		consumed = k
		p = p[k:]
		if f.have < lzma.HeaderLen {
			return consumed, nil
		}
		if err := f.writeUnitHeader(); err != nil {
			return consumed, err
		}
		f.started = true
	}
	if len(p) == 0 {
		return consumed, nil
	}
	n, err := f.dst.Write(p)
	f.n += int64(n)
	return consumed + n, err
}

func (f *frameWriter) writeUnitHeader() error {
	var h [HeaderLen]byte
	h[0] = Preset
	h[1] = DictClass
	binary.LittleEndian.PutUint16(h[2:4], PropsLen)
	// .lzma header: props code, u32 dict size, u64 uncompressed size.
	copy(h[4:], f.hdr[:PropsLen])
	n, err := f.dst.Write(h[:])
	f.n += int64(n)
	return err
}
