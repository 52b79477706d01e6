// Package mmap provides a read-only view of a whole file, memory-mapped where
// the platform supports it.
package mmap

import (
	"fmt"
	"io"
	"math"
	"os"
)

// View is a read-only image of a file. It implements io.ReaderAt.
//
// Slices returned by Bytes are invalid after Close.
type View struct {
	data   []byte
	mapped bool
	closed bool
}

// Open maps the file at path.
func Open(path string) (*View, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := info.Size()
	if size == 0 {
		return &View{}, nil
	}
	if size > math.MaxInt {
		return nil, fmt.Errorf("mmap %s: %d bytes exceeds address space", path, size)
	}

	data, mapped, err := mapFile(f, int(size))
	if err != nil {
		return nil, fmt.Errorf("mmap %s: %w", path, err)
	}
	return &View{data: data, mapped: mapped}, nil
}

// ReadAt implements io.ReaderAt.
func (v *View) ReadAt(p []byte, off int64) (int, error) {
	if v.closed {
		return 0, os.ErrClosed
	}
	if off < 0 {
		return 0, fmt.Errorf("mmap: negative offset %d", off)
	}
	if off >= int64(len(v.data)) {
		return 0, io.EOF
	}
	n := copy(p, v.data[off:])
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Size returns the file length.
func (v *View) Size() int64 {
	return int64(len(v.data))
}

// Bytes returns the mapped contents.
func (v *View) Bytes() []byte {
	return v.data
}

// Close releases the mapping. Calling Close more than once is a no-op.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true
	data := v.data
	v.data = nil
	if !v.mapped || len(data) == 0 {
		return nil
	}
	return unmap(data)
}
