package jpak

import (
	"fmt"

	"github.com/meigma/jpak/internal/mmap"
)

// ArchiveFile wraps an Archive with its memory-mapped file.
// Close must be called to release the mapping.
type ArchiveFile struct {
	*Archive
	view *mmap.View
}

// Open maps the archive at path read-only and validates it.
//
// The returned ArchiveFile must be closed to release the mapping.
func Open(path string, opts ...OpenOption) (*ArchiveFile, error) {
	view, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open archive: %w", ErrIO, err)
	}
	a, err := New(view, opts...)
	if err != nil {
		_ = view.Close() //nolint:errcheck // already failing
		return nil, err
	}
	return &ArchiveFile{Archive: a, view: view}, nil
}

// Close unmaps the archive. Entries and blocks returned earlier stay valid.
func (f *ArchiveFile) Close() error {
	if f.view == nil {
		return nil
	}
	err := f.view.Close()
	f.view = nil
	return err
}
