package jpak

import (
	"slices"

	"github.com/meigma/jpak/internal/format"
)

// InspectResult describes an archive without extracting any payload.
type InspectResult struct {
	footer    Footer
	entries   []Entry
	blocks    []Block
	size      uint64
	indexSize uint64

	files            int
	dirs             int
	uncompressedSize uint64
}

// Footer returns the archive trailer.
func (r *InspectResult) Footer() Footer {
	return r.footer
}

// Entries returns the entries in stored order.
func (r *InspectResult) Entries() []Entry {
	return slices.Clone(r.entries)
}

// Blocks returns the recovered data blocks.
func (r *InspectResult) Blocks() []Block {
	return slices.Clone(r.blocks)
}

// EntryCount returns the number of entries.
func (r *InspectResult) EntryCount() int {
	return len(r.entries)
}

// FileCount returns the number of regular files.
func (r *InspectResult) FileCount() int {
	return r.files
}

// DirCount returns the number of directories.
func (r *InspectResult) DirCount() int {
	return r.dirs
}

// BlockCount returns the number of data blocks.
func (r *InspectResult) BlockCount() int {
	return len(r.blocks)
}

// ArchiveSize returns the archive length in bytes.
func (r *InspectResult) ArchiveSize() uint64 {
	return r.size
}

// DataSize returns the compressed size of the data region.
func (r *InspectResult) DataSize() uint64 {
	return r.footer.IndexOffset - uint64(format.HeaderSize)
}

// IndexSize returns the compressed size of the index.
func (r *InspectResult) IndexSize() uint64 {
	return r.footer.IndexSize
}

// IndexRawSize returns the uncompressed size of the index.
func (r *InspectResult) IndexRawSize() uint64 {
	return r.indexSize
}

// TotalUncompressedSize returns the sum of all file sizes.
func (r *InspectResult) TotalUncompressedSize() uint64 {
	return r.uncompressedSize
}

// CompressionRatio returns the ratio of compressed data to uncompressed file
// bytes. Returns 1.0 if the archive holds no file bytes.
func (r *InspectResult) CompressionRatio() float64 {
	if r.uncompressedSize == 0 {
		return 1.0
	}
	return float64(r.DataSize()) / float64(r.uncompressedSize)
}

// Inspect returns the metadata of the archive without decoding any block.
func (a *Archive) Inspect() *InspectResult {
	r := &InspectResult{
		footer:    a.footer,
		entries:   a.entries,
		blocks:    a.blocks,
		size:      uint64(a.src.Size()), //nolint:gosec // size is non-negative
		indexSize: uint64(a.index.EncodedSize()),
	}
	for _, e := range a.entries {
		if e.IsDir() {
			r.dirs++
			continue
		}
		r.files++
		r.uncompressedSize += e.Size
	}
	return r
}

// InspectOption configures Inspect.
type InspectOption func(*inspectConfig)

type inspectConfig struct {
	openOpts []OpenOption
}

// InspectWithMaxIndexSize limits the uncompressed index size.
// See OpenWithMaxIndexSize.
func InspectWithMaxIndexSize(limit uint64) InspectOption {
	return func(cfg *inspectConfig) {
		cfg.openOpts = append(cfg.openOpts, OpenWithMaxIndexSize(limit))
	}
}

// Inspect opens the archive at path and returns its metadata.
//
// Only the footer and index are decoded; block payloads are never read.
func Inspect(path string, opts ...InspectOption) (*InspectResult, error) {
	cfg := inspectConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	af, err := Open(path, cfg.openOpts...)
	if err != nil {
		return nil, err
	}
	defer af.Close()
	return af.Inspect(), nil
}
