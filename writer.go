package jpak

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/binio"
	"github.com/meigma/jpak/internal/codec"
	"github.com/meigma/jpak/internal/format"
	"github.com/meigma/jpak/internal/platform"
	"github.com/meigma/jpak/internal/sizing"
)

// Write streams an archive of entries to dst.
//
// Entries are stored in the given order. Consecutive files share a block
// until the block's uncompressed size reaches the clump threshold; each file
// is read from its Source path and must still hold at least Size bytes.
// Directories carry no payload. The footer is written last, so a failed Write
// never produces a valid-looking archive.
//
// Write holds one block in memory at a time; a block is the clump threshold
// plus at most one file.
func Write(ctx context.Context, dst io.Writer, entries []Entry, opts ...WriteOption) (*Summary, error) {
	cfg := newWriteConfig(opts)
	if cfg.threshold == 0 {
		return nil, fmt.Errorf("%w: clump threshold must be positive", ErrConfiguration)
	}

	w := &writer{
		cfg:   cfg,
		enc:   codec.NewEncoder(),
		out:   binio.NewWriter(dst, 0),
		total: len(entries),
	}
	w.log().Info("writing archive", "entries", len(entries), "threshold", cfg.threshold)

	if err := w.write(ctx, entries); err != nil {
		return nil, err
	}

	w.log().Info("archive written",
		"entries", w.summary.Entries,
		"blocks", w.summary.Blocks,
		"data_bytes", w.summary.DataBytes,
		"archive_size", w.summary.ArchiveSize)
	return &w.summary, nil
}

// writer holds state for one archive write.
type writer struct {
	cfg writeConfig
	enc *codec.Encoder
	out *binio.Writer

	// block accumulates the raw bytes of the open block.
	block     bytes.Buffer
	open      bool
	openedBy  string
	done      int
	total     int
	summary   Summary
	dataStart uint64
}

// log returns the logger, falling back to a discard logger if nil.
func (w *writer) log() *slog.Logger {
	if w.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return w.cfg.logger
}

// reportProgress sends a progress event if a callback is configured.
func (w *writer) reportProgress(stage ProgressStage, path string) {
	if w.cfg.progress == nil {
		return
	}
	w.cfg.progress(ProgressEvent{
		Stage:        stage,
		Path:         path,
		BytesDone:    w.summary.DataBytes,
		BytesWritten: w.out.Pos(),
		EntriesDone:  w.done,
		EntriesTotal: w.total,
		Blocks:       w.summary.Blocks,
	})
}

func (w *writer) write(ctx context.Context, entries []Entry) error {
	if err := format.WriteHeader(w.out); err != nil {
		return fmt.Errorf("%w: write header: %w", ErrIO, err)
	}
	w.dataStart = w.out.Pos()

	idx := format.NewIndex(len(entries))
	for i := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		e := &entries[i]
		if err := checkPath(e.Path); err != nil {
			return err
		}

		offset := format.NoOffset
		switch e.Kind() {
		case KindDir:
			w.summary.Dirs++
		case KindFile:
			if !w.open || uint64(w.block.Len()) >= w.cfg.threshold {
				if err := w.seal(); err != nil {
					return err
				}
				offset = w.out.Pos()
				w.open = true
				w.openedBy = e.Path
			}
			if err := w.appendFile(e); err != nil {
				return err
			}
			w.summary.Files++
		default:
			return fmt.Errorf("%w: %s: unsupported mode %#o", ErrConfiguration, e.Path, e.Mode)
		}

		if err := idx.Append(*e, offset); err != nil {
			return err
		}
		w.done++
		w.summary.Entries++
	}
	if err := w.seal(); err != nil {
		return err
	}
	return w.writeIndex(idx)
}

// checkPath rejects paths an archive cannot hold or a reader would refuse.
func checkPath(p string) error {
	if len(p) > format.MaxPathLen {
		return fmt.Errorf("%w: %d bytes: %.64s...", ErrPathTooLong, len(p), p)
	}
	if p == "." || !fs.ValidPath(p) {
		return fmt.Errorf("%w: invalid entry path %q", ErrConfiguration, p)
	}
	return nil
}

// appendFile reads exactly e.Size bytes of e.Source into the open block.
func (w *writer) appendFile(e *Entry) error {
	if e.Size == 0 && e.Source == "" {
		return nil
	}
	if e.Source == "" {
		return fmt.Errorf("%w: %s: no source path", ErrConfiguration, e.Path)
	}
	size, err := sizing.ToInt64(e.Size, ErrSizeOverflow)
	if err != nil {
		return fmt.Errorf("%s: %w", e.Path, err)
	}
	if _, ok := sizing.AddUint64(uint64(w.block.Len()), e.Size); !ok {
		return fmt.Errorf("%s: %w", e.Path, ErrSizeOverflow)
	}

	f, err := platform.OpenNoFollow(e.Source)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrIO, e.Source, err)
	}
	defer f.Close()

	n, err := w.block.ReadFrom(io.LimitReader(f, size))
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", ErrIO, e.Source, err)
	}
	if n != size {
		return fmt.Errorf("%w: %s: read %d of %d bytes", ErrIO, e.Source, n, size)
	}
	w.summary.DataBytes += e.Size

	if w.cfg.changeDetection == ChangeDetectionStrict {
		st, err := platform.Lstat(e.Source)
		if err != nil {
			return fmt.Errorf("%w: stat %s: %w", ErrIO, e.Source, err)
		}
		if st.Size != e.Size || st.Mtime != e.Mtime || archtype.KindOf(st.Mode) != KindFile {
			return fmt.Errorf("%w: %s changed during packing", ErrIO, e.Source)
		}
	}
	return nil
}

// seal compresses the open block, if any, and appends it to the archive.
func (w *writer) seal() error {
	if !w.open {
		return nil
	}
	start := w.out.Pos()
	n, err := w.enc.Encode(w.out, w.block.Bytes())
	if err != nil {
		return fmt.Errorf("%w: write block at %d: %w", ErrIO, start, err)
	}
	w.summary.Blocks++
	w.log().Debug("sealed block",
		"offset", start,
		"size", w.block.Len(),
		"compressed", n,
		"first", w.openedBy)
	w.reportProgress(StageCompressing, w.openedBy)

	w.block.Reset()
	w.open = false
	w.openedBy = ""
	return nil
}

// writeIndex appends the compressed index and the footer, then flushes.
func (w *writer) writeIndex(idx *format.Index) error {
	indexOffset := w.out.Pos()
	w.summary.DataSize = indexOffset - w.dataStart
	w.reportProgress(StageWritingIndex, "")

	var raw bytes.Buffer
	raw.Grow(idx.EncodedSize())
	rw := binio.NewWriter(&raw, 0)
	if err := idx.Encode(rw); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}
	if err := rw.Flush(); err != nil {
		return fmt.Errorf("encode index: %w", err)
	}

	n, err := w.enc.Encode(w.out, raw.Bytes())
	if err != nil {
		return fmt.Errorf("%w: write index: %w", ErrIO, err)
	}

	footer := format.Footer{
		Count:       uint64(idx.Len()),
		IndexOffset: indexOffset,
		IndexSize:   uint64(n), //nolint:gosec // n is a byte count
	}
	if err := footer.Encode(w.out); err != nil {
		return fmt.Errorf("%w: write footer: %w", ErrIO, err)
	}
	if err := w.out.Flush(); err != nil {
		return fmt.Errorf("%w: flush: %w", ErrIO, err)
	}

	w.summary.IndexSize = footer.IndexSize
	w.summary.ArchiveSize = w.out.Pos()
	w.log().Debug("index written", "offset", indexOffset, "raw", raw.Len(), "compressed", n)
	return nil
}
