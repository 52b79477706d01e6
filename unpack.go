package jpak

import (
	"context"
	"fmt"
)

// Unpack opens the archive at archivePath and extracts it into outDir.
//
// Arguments are checked before the archive is touched, and outDir is created
// only after the archive has been validated.
func Unpack(ctx context.Context, archivePath, outDir string, opts ...UnpackOption) (*Summary, error) {
	if archivePath == "" {
		return nil, fmt.Errorf("%w: empty archive path", ErrConfiguration)
	}
	if outDir == "" {
		return nil, fmt.Errorf("%w: empty output directory", ErrConfiguration)
	}
	cfg := unpackConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	af, err := Open(archivePath, cfg.openOpts...)
	if err != nil {
		return nil, err
	}
	defer af.Close()

	return af.Extract(ctx, outDir, cfg.extractOpts...)
}
