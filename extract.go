package jpak

import (
	"context"
	"fmt"
	"os"

	"github.com/meigma/jpak/internal/sink"
)

// Extract recreates the archived tree below dir.
//
// Entries are processed in stored order. Each block is decoded once, when
// its first member is reached, and must expand to exactly the sizes its
// members declare. Directories are created with their recorded permission
// bits plus owner rwx; an existing directory is reused. Files are written to
// a temporary name and renamed into place.
//
// The first error aborts extraction; files already written are left in place.
func (a *Archive) Extract(ctx context.Context, dir string, opts ...ExtractOption) (*Summary, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrConfiguration)
	}
	cfg := extractConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %w", ErrIO, err)
	}
	s, err := sink.New(dir, sink.WithKeepExisting(cfg.keepExisting))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrIO, err)
	}
	defer s.Close()
	a.log().Info("extracting archive", "dir", dir, "entries", len(a.entries), "blocks", len(a.blocks))

	summary := Summary{
		DataSize:    a.footer.IndexOffset - uint64(len(Magic)),
		IndexSize:   a.footer.IndexSize,
		ArchiveSize: uint64(a.src.Size()), //nolint:gosec // size is non-negative
	}
	var (
		data   []byte
		cursor uint64
		cur    = -1
	)
	for i, e := range a.entries {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if e.IsDir() {
			if err := s.Mkdir(e.Path, e.Perm()); err != nil {
				return nil, fmt.Errorf("%w: %w", ErrIO, err)
			}
			summary.Dirs++
		} else {
			if b := a.owner[i]; b != cur {
				var err error
				if data, err = a.decodeBlock(b); err != nil {
					return nil, err
				}
				cur, cursor = b, 0
				summary.Blocks++
			}
			end := cursor + e.Size
			if s.ShouldWrite(e.Path) {
				if err := s.WriteFile(e.Path, data[cursor:end]); err != nil {
					return nil, fmt.Errorf("%w: %w", ErrIO, err)
				}
			} else {
				a.log().Debug("keeping existing file", "path", e.Path)
				summary.Skipped++
			}
			cursor = end
			summary.Files++
			summary.DataBytes += e.Size
		}

		summary.Entries++
		if cfg.progress != nil {
			cfg.progress(ProgressEvent{
				Stage:        StageExtracting,
				Path:         e.Path,
				BytesDone:    summary.DataBytes,
				EntriesDone:  i + 1,
				EntriesTotal: len(a.entries),
				Blocks:       summary.Blocks,
			})
		}
	}

	a.log().Info("archive extracted", "entries", summary.Entries, "skipped", summary.Skipped)
	return &summary, nil
}
