package format

import (
	"fmt"
	"io/fs"
	"iter"

	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/binio"
	"github.com/meigma/jpak/internal/sizing"
)

// RecordSize is the fixed per-entry width of the index columns, excluding
// the name bytes.
const RecordSize = 8 + 8 + 4 + 4 + 4 + 4 + 2 + 8

// Index holds entry metadata as parallel columns, one per field, in the
// order they are stored.
type Index struct {
	Sizes    []uint64
	Modes    []uint64
	UIDs     []uint32
	GIDs     []uint32
	Atimes   []uint32
	Mtimes   []uint32
	NameLens []uint16
	Offsets  []uint64

	// Names holds every path concatenated in entry order.
	Names []byte

	// nameStarts[i] is the offset of entry i's path within Names.
	nameStarts []int
}

// NewIndex returns an empty index with room for n entries.
func NewIndex(n int) *Index {
	return &Index{
		Sizes:      make([]uint64, 0, n),
		Modes:      make([]uint64, 0, n),
		UIDs:       make([]uint32, 0, n),
		GIDs:       make([]uint32, 0, n),
		Atimes:     make([]uint32, 0, n),
		Mtimes:     make([]uint32, 0, n),
		NameLens:   make([]uint16, 0, n),
		Offsets:    make([]uint64, 0, n),
		nameStarts: make([]int, 0, n),
	}
}

// Len returns the number of entries.
func (x *Index) Len() int {
	return len(x.Sizes)
}

// Append adds an entry with its stored block offset.
func (x *Index) Append(e archtype.Entry, offset uint64) error {
	if len(e.Path) > MaxPathLen {
		return fmt.Errorf("%w: %d bytes: %.64s...", archtype.ErrPathTooLong, len(e.Path), e.Path)
	}
	x.Sizes = append(x.Sizes, e.Size)
	x.Modes = append(x.Modes, e.Mode)
	x.UIDs = append(x.UIDs, e.UID)
	x.GIDs = append(x.GIDs, e.GID)
	x.Atimes = append(x.Atimes, e.Atime)
	x.Mtimes = append(x.Mtimes, e.Mtime)
	x.NameLens = append(x.NameLens, uint16(len(e.Path)))
	x.Offsets = append(x.Offsets, offset)
	x.nameStarts = append(x.nameStarts, len(x.Names))
	x.Names = append(x.Names, e.Path...)
	return nil
}

// EncodedSize returns the uncompressed length of the serialized index.
func (x *Index) EncodedSize() int {
	return RecordSize*x.Len() + len(x.Names)
}

// Encode writes the columns in stored order followed by the names.
func (x *Index) Encode(w *binio.Writer) error {
	for _, v := range x.Sizes {
		_ = w.PutUint64(v)
	}
	for _, v := range x.Modes {
		_ = w.PutUint64(v)
	}
	for _, col := range [][]uint32{x.UIDs, x.GIDs, x.Atimes, x.Mtimes} {
		for _, v := range col {
			_ = w.PutUint32(v)
		}
	}
	for _, v := range x.NameLens {
		_ = w.PutUint16(v)
	}
	for _, v := range x.Offsets {
		_ = w.PutUint64(v)
	}
	_, _ = w.Write(x.Names)
	return w.Err()
}

// ParseIndex decodes count entries from an uncompressed index.
//
// The data must be exactly as long as the columns and names it declares.
// Every path must be a valid, slash-separated relative path and every mode
// must describe a regular file or a directory. The index retains data.
func ParseIndex(data []byte, count uint64) (*Index, error) {
	fixed, ok := sizing.MulUint64(count, RecordSize)
	if !ok || fixed > uint64(len(data)) {
		return nil, fmt.Errorf("%w: index of %d bytes cannot hold %d entries",
			archtype.ErrCorruptArchive, len(data), count)
	}
	n, err := sizing.ToInt(count, archtype.ErrSizeOverflow)
	if err != nil {
		return nil, fmt.Errorf("%w: %d entries: %w", archtype.ErrCorruptArchive, count, err)
	}

	x := &Index{
		Sizes:    make([]uint64, n),
		Modes:    make([]uint64, n),
		UIDs:     make([]uint32, n),
		GIDs:     make([]uint32, n),
		Atimes:   make([]uint32, n),
		Mtimes:   make([]uint32, n),
		NameLens: make([]uint16, n),
		Offsets:  make([]uint64, n),
	}

	c := binio.NewCursor(data)
	for i := range n {
		x.Sizes[i] = c.Uint64()
	}
	for i := range n {
		x.Modes[i] = c.Uint64()
	}
	for _, col := range [][]uint32{x.UIDs, x.GIDs, x.Atimes, x.Mtimes} {
		for i := range n {
			col[i] = c.Uint32()
		}
	}
	total := 0
	for i := range n {
		x.NameLens[i] = c.Uint16()
		total += int(x.NameLens[i])
	}
	for i := range n {
		x.Offsets[i] = c.Uint64()
	}
	if err := c.Err(); err != nil {
		return nil, fmt.Errorf("%w: index columns: %w", archtype.ErrCorruptArchive, err)
	}
	if c.Remaining() != total {
		return nil, fmt.Errorf("%w: index names hold %d bytes, want %d",
			archtype.ErrCorruptArchive, c.Remaining(), total)
	}
	x.Names = c.Bytes(total)

	x.nameStarts = make([]int, n)
	start := 0
	for i := range n {
		x.nameStarts[i] = start
		start += int(x.NameLens[i])
		if err := x.validate(i); err != nil {
			return nil, err
		}
	}
	return x, nil
}

func (x *Index) validate(i int) error {
	p := x.Path(i)
	if p == "." || !fs.ValidPath(p) {
		return fmt.Errorf("%w: entry %d has invalid path %q", archtype.ErrCorruptArchive, i, p)
	}
	if archtype.KindOf(x.Modes[i]) == archtype.KindOther {
		return fmt.Errorf("%w: entry %q has mode %#o", archtype.ErrCorruptArchive, p, x.Modes[i])
	}
	return nil
}

// Path returns the path of entry i.
func (x *Index) Path(i int) string {
	start := x.nameStarts[i]
	return string(x.Names[start : start+int(x.NameLens[i])])
}

// Entry materializes entry i. CompressedSize is left zero.
func (x *Index) Entry(i int) archtype.Entry {
	return archtype.Entry{
		Path:  x.Path(i),
		Size:  x.Sizes[i],
		Mode:  x.Modes[i],
		UID:   x.UIDs[i],
		GID:   x.GIDs[i],
		Atime: x.Atimes[i],
		Mtime: x.Mtimes[i],
	}
}

// All returns an iterator over every entry and its stored offset.
func (x *Index) All() iter.Seq2[archtype.Entry, uint64] {
	return func(yield func(archtype.Entry, uint64) bool) {
		for i := range x.Len() {
			if !yield(x.Entry(i), x.Offsets[i]) {
				return
			}
		}
	}
}
