package jpak

import "log/slog"

// DefaultMaxIndexSize caps the uncompressed index size when no limit option
// is set.
const DefaultMaxIndexSize = 256 << 20

// openConfig holds configuration for reading an archive.
type openConfig struct {
	maxIndexSize uint64
	logger       *slog.Logger
}

// OpenOption configures New and Open.
type OpenOption func(*openConfig)

// OpenWithMaxIndexSize limits the uncompressed index size.
// Zero disables the limit.
func OpenWithMaxIndexSize(limit uint64) OpenOption {
	return func(c *openConfig) {
		c.maxIndexSize = limit
	}
}

// OpenWithLogger sets the logger for the archive.
func OpenWithLogger(logger *slog.Logger) OpenOption {
	return func(c *openConfig) {
		c.logger = logger
	}
}

// extractConfig holds configuration for Extract.
type extractConfig struct {
	keepExisting bool
	progress     ProgressFunc
}

// ExtractOption configures Extract.
type ExtractOption func(*extractConfig)

// ExtractWithKeepExisting leaves files that already exist untouched.
// By default, existing files are replaced.
func ExtractWithKeepExisting(keep bool) ExtractOption {
	return func(c *extractConfig) {
		c.keepExisting = keep
	}
}

// ExtractWithProgress sets a callback invoked after each extracted entry.
func ExtractWithProgress(fn ProgressFunc) ExtractOption {
	return func(c *extractConfig) {
		c.progress = fn
	}
}

// unpackConfig holds configuration for Unpack.
type unpackConfig struct {
	openOpts    []OpenOption
	extractOpts []ExtractOption
}

// UnpackOption configures Unpack.
type UnpackOption func(*unpackConfig)

// UnpackWithMaxIndexSize limits the uncompressed index size.
// See OpenWithMaxIndexSize.
func UnpackWithMaxIndexSize(limit uint64) UnpackOption {
	return func(c *unpackConfig) {
		c.openOpts = append(c.openOpts, OpenWithMaxIndexSize(limit))
	}
}

// UnpackWithKeepExisting leaves files that already exist untouched.
func UnpackWithKeepExisting(keep bool) UnpackOption {
	return func(c *unpackConfig) {
		c.extractOpts = append(c.extractOpts, ExtractWithKeepExisting(keep))
	}
}

// UnpackWithLogger sets the logger.
func UnpackWithLogger(logger *slog.Logger) UnpackOption {
	return func(c *unpackConfig) {
		c.openOpts = append(c.openOpts, OpenWithLogger(logger))
	}
}

// UnpackWithProgress sets a callback invoked after each extracted entry.
func UnpackWithProgress(fn ProgressFunc) UnpackOption {
	return func(c *unpackConfig) {
		c.extractOpts = append(c.extractOpts, ExtractWithProgress(fn))
	}
}
