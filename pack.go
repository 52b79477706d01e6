package jpak

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meigma/jpak/internal/collect"
)

// Pack collects roots and writes them as an archive at archivePath.
//
// Each root is walked depth-first with children sorted by name; a root that
// names the current directory contributes its children directly. Only
// regular files and directories are stored.
//
// The archive is written to a temporary file next to archivePath and renamed
// into place once complete, so a failed Pack leaves nothing at archivePath.
func Pack(ctx context.Context, archivePath string, roots []string, opts ...PackOption) (*Summary, error) {
	if archivePath == "" {
		return nil, fmt.Errorf("%w: empty archive path", ErrConfiguration)
	}
	if len(roots) == 0 {
		return nil, fmt.Errorf("%w: no input paths", ErrConfiguration)
	}
	cfg := packConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if c := newWriteConfig(cfg.writeOpts); c.threshold == 0 {
		return nil, fmt.Errorf("%w: clump threshold must be positive", ErrConfiguration)
	}

	entries, err := collect.Collect(roots, cfg.collectOpts...)
	if err != nil {
		return nil, fmt.Errorf("collect: %w", err)
	}

	dir := filepath.Dir(archivePath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("%w: create destination directory: %w", ErrIO, err)
	}
	tmp, err := os.CreateTemp(dir, ".jpak-*")
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %w", ErrIO, err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()        //nolint:errcheck // best-effort cleanup
			_ = os.Remove(tmpPath) //nolint:errcheck // best-effort cleanup
		}
	}()

	summary, err := Write(ctx, tmp, entries, cfg.writeOpts...)
	if err != nil {
		return nil, err
	}
	if err := tmp.Chmod(0o644); err != nil {
		return nil, fmt.Errorf("%w: chmod: %w", ErrIO, err)
	}
	if err := tmp.Sync(); err != nil {
		return nil, fmt.Errorf("%w: sync: %w", ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("%w: close: %w", ErrIO, err)
	}
	if err := os.Rename(tmpPath, archivePath); err != nil {
		return nil, fmt.Errorf("%w: rename to %s: %w", ErrIO, archivePath, err)
	}
	committed = true
	return summary, nil
}
