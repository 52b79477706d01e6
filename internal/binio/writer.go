// Package binio provides the little-endian byte-stream primitives used by the
// archive format: a position-tracking buffered writer and a bounds-checked
// read cursor over an in-memory buffer.
package binio

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"
)

// ErrOverflow indicates the position counter exceeded its maximum value.
var ErrOverflow = errors.New("binio: position overflow")

// defaultBufferSize is the output buffer size used by NewWriter.
const defaultBufferSize = 64 * 1024

// Writer wraps an io.Writer, buffers output and tracks the absolute position.
//
// Errors are sticky: once a write fails, every later call returns the same
// error without touching the underlying writer.
type Writer struct {
	bw      *bufio.Writer
	pos     uint64
	err     error
	scratch [8]byte
}

// NewWriter returns a Writer positioned at start.
func NewWriter(w io.Writer, start uint64) *Writer {
	return &Writer{bw: bufio.NewWriterSize(w, defaultBufferSize), pos: start}
}

// Pos returns the absolute position of the next byte to be written.
func (w *Writer) Pos() uint64 {
	return w.pos
}

// Err returns the first error encountered, if any.
func (w *Writer) Err() error {
	return w.err
}

// Write implements io.Writer.
func (w *Writer) Write(p []byte) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.bw.Write(p)
	w.advance(n)
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, w.err
}

// WriteString writes the bytes of s.
func (w *Writer) WriteString(s string) (int, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.bw.WriteString(s)
	w.advance(n)
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, w.err
}

// PutUint16 writes v as two little-endian bytes.
func (w *Writer) PutUint16(v uint16) error {
	binary.LittleEndian.PutUint16(w.scratch[:2], v)
	_, err := w.Write(w.scratch[:2])
	return err
}

// PutUint32 writes v as four little-endian bytes.
func (w *Writer) PutUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.scratch[:4], v)
	_, err := w.Write(w.scratch[:4])
	return err
}

// PutUint64 writes v as eight little-endian bytes.
func (w *Writer) PutUint64(v uint64) error {
	binary.LittleEndian.PutUint64(w.scratch[:8], v)
	_, err := w.Write(w.scratch[:8])
	return err
}

// ReadFrom appends the full contents of r.
func (w *Writer) ReadFrom(r io.Reader) (int64, error) {
	if w.err != nil {
		return 0, w.err
	}
	n, err := w.bw.ReadFrom(r)
	if n > 0 {
		w.advance(int(n))
	}
	if err != nil && w.err == nil {
		w.err = err
	}
	return n, w.err
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if w.err != nil {
		return w.err
	}
	w.err = w.bw.Flush()
	return w.err
}

func (w *Writer) advance(n int) {
	if n <= 0 {
		return
	}
	if w.pos > ^uint64(0)-uint64(n) {
		if w.err == nil {
			w.err = ErrOverflow
		}
		return
	}
	w.pos += uint64(n)
}
