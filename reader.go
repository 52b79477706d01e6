package jpak

import (
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"slices"

	"github.com/meigma/jpak/internal/codec"
	"github.com/meigma/jpak/internal/format"
	"github.com/meigma/jpak/internal/sizing"
)

// ByteSource provides random access to a whole archive.
//
// *bytes.Reader and the mapped view behind Open satisfy it.
type ByteSource interface {
	io.ReaderAt
	Size() int64
}

// Archive is a validated archive ready for extraction.
//
// The index is decoded and every block boundary recovered when the archive
// is opened; block payloads are decoded on demand. An Archive reuses one
// decoder and is not safe for concurrent use.
type Archive struct {
	src     ByteSource
	footer  Footer
	index   *format.Index
	entries []Entry
	blocks  []Block
	// owner[i] is the block holding entry i's payload, or -1.
	owner  []int
	byPath map[string]int
	dec    *codec.Decoder
	logger *slog.Logger
}

// New opens an archive from src.
//
// It checks the magic and footer, decodes the index and recovers block
// extents from the offset column. Structural problems are reported as
// ErrCorruptArchive.
func New(src ByteSource, opts ...OpenOption) (*Archive, error) {
	cfg := openConfig{maxIndexSize: DefaultMaxIndexSize}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &Archive{src: src, logger: cfg.logger, dec: codec.NewDecoder()}
	if err := format.CheckHeader(src); err != nil {
		return nil, err
	}
	footer, err := format.ReadFooter(src, src.Size())
	if err != nil {
		return nil, err
	}
	a.footer = footer

	// Both values are bounded by src.Size() after ReadFooter.
	off, n := int64(footer.IndexOffset), int64(footer.IndexSize) //nolint:gosec // validated above
	raw, err := codec.NewDecoder(codec.WithLimit(cfg.maxIndexSize)).Decode(src, off, n)
	if err != nil {
		return nil, fmt.Errorf("%w: index: %w", ErrCorruptArchive, err)
	}
	if a.index, err = format.ParseIndex(raw, footer.Count); err != nil {
		return nil, err
	}
	if err := a.recoverBlocks(); err != nil {
		return nil, err
	}

	a.log().Debug("opened archive",
		"entries", len(a.entries),
		"blocks", len(a.blocks),
		"index_offset", footer.IndexOffset,
		"index_size", footer.IndexSize)
	return a, nil
}

// log returns the logger, falling back to a discard logger if nil.
func (a *Archive) log() *slog.Logger {
	if a.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return a.logger
}

// recoverBlocks derives block extents from the offset column. Each real
// offset opens a block that ends where the next real offset begins, or at
// the index for the last block. Files with the sentinel continue the most
// recent block.
func (a *Archive) recoverBlocks() error {
	idx := a.index
	n := idx.Len()
	a.entries = make([]Entry, n)
	a.owner = make([]int, n)
	a.byPath = make(map[string]int, n)

	cur := -1
	prev := uint64(0)
	i := -1
	for e, off := range idx.All() {
		i++
		a.owner[i] = -1

		if off != format.NoOffset {
			switch {
			case e.IsDir():
				return fmt.Errorf("%w: directory %q has block offset %d", ErrCorruptArchive, e.Path, off)
			case off < uint64(format.HeaderSize), off >= a.footer.IndexOffset:
				return fmt.Errorf("%w: %q: block offset %d outside data region", ErrCorruptArchive, e.Path, off)
			case off <= prev:
				return fmt.Errorf("%w: %q: block offset %d not after %d", ErrCorruptArchive, e.Path, off, prev)
			}
			if cur >= 0 {
				a.blocks[cur].End = off
			}
			a.blocks = append(a.blocks, Block{Start: off, First: i})
			cur = len(a.blocks) - 1
			prev = off
		}

		if !e.IsDir() {
			if cur < 0 {
				return fmt.Errorf("%w: %q precedes every block", ErrCorruptArchive, e.Path)
			}
			b := &a.blocks[cur]
			size, ok := sizing.AddUint64(b.Size, e.Size)
			if !ok {
				return fmt.Errorf("%w: block at %d: %w", ErrCorruptArchive, b.Start, ErrSizeOverflow)
			}
			b.Size = size
			b.Count = i - b.First + 1
			a.owner[i] = cur
		}

		if _, dup := a.byPath[e.Path]; !dup {
			a.byPath[e.Path] = i
		}
		a.entries[i] = e
	}
	if cur >= 0 {
		a.blocks[cur].End = a.footer.IndexOffset
	}

	for i, b := range a.owner {
		if b >= 0 {
			a.entries[i].CompressedSize = a.blocks[b].CompressedSize()
		}
	}
	return nil
}

// Footer returns the archive trailer.
func (a *Archive) Footer() Footer {
	return a.footer
}

// Len returns the number of entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns the entries in stored order.
func (a *Archive) Entries() []Entry {
	return slices.Clone(a.entries)
}

// Blocks returns the recovered data blocks in archive order.
func (a *Archive) Blocks() []Block {
	return slices.Clone(a.blocks)
}

// Entry returns the first entry stored under name.
func (a *Archive) Entry(name string) (Entry, bool) {
	i, ok := a.byPath[name]
	if !ok {
		return Entry{}, false
	}
	return a.entries[i], true
}

// ReadFile returns the contents of the file stored under name, decoding
// only the block that holds it.
func (a *Archive) ReadFile(name string) ([]byte, error) {
	i, ok := a.byPath[name]
	if !ok {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrNotExist}
	}
	e := a.entries[i]
	if e.IsDir() {
		return nil, &fs.PathError{Op: "read", Path: name, Err: fs.ErrInvalid}
	}

	b := a.owner[i]
	data, err := a.decodeBlock(b)
	if err != nil {
		return nil, err
	}
	var start uint64
	for j := a.blocks[b].First; j < i; j++ {
		if a.owner[j] == b {
			start += a.entries[j].Size
		}
	}
	return slices.Clone(data[start : start+e.Size]), nil
}

// decodeBlock decodes block b into the archive's scratch buffer. The result
// is valid until the next decode.
func (a *Archive) decodeBlock(b int) ([]byte, error) {
	blk := a.blocks[b]
	// Block bounds lie inside the validated index offset.
	off, n := int64(blk.Start), int64(blk.CompressedSize()) //nolint:gosec // validated in recoverBlocks
	data, err := a.dec.DecodeExact(a.src, off, n, blk.Size)
	if err != nil {
		return nil, fmt.Errorf("block %d at offset %d: %w", b, blk.Start, err)
	}
	return data, nil
}
