package jpak

import "log/slog"

// DefaultClumpThreshold is the block size at which a new block is opened
// when no threshold option is set.
const DefaultClumpThreshold = 1 << 20

// ChangeDetection controls how strictly file changes are detected during packing.
type ChangeDetection uint8

const (
	ChangeDetectionNone ChangeDetection = iota
	ChangeDetectionStrict
)

// writeConfig holds configuration for archive writing.
type writeConfig struct {
	threshold       uint64
	changeDetection ChangeDetection
	logger          *slog.Logger
	progress        ProgressFunc
}

func newWriteConfig(opts []WriteOption) writeConfig {
	cfg := writeConfig{threshold: DefaultClumpThreshold}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WriteOption configures archive writing.
type WriteOption func(*writeConfig)

// WriteWithClumpThreshold sets the uncompressed size at which the open block
// is sealed. A file is always added to the open block whole, so blocks may
// exceed the threshold by up to one file. Zero is rejected with
// ErrConfiguration.
func WriteWithClumpThreshold(n uint64) WriteOption {
	return func(cfg *writeConfig) {
		cfg.threshold = n
	}
}

// WriteWithChangeDetection controls whether the writer verifies files did not
// change between collection and packing. The zero value only checks that
// each file still holds at least its collected size; ChangeDetectionStrict
// also re-stats every file after reading it.
func WriteWithChangeDetection(cd ChangeDetection) WriteOption {
	return func(cfg *writeConfig) {
		cfg.changeDetection = cd
	}
}

// WriteWithLogger sets the logger for write operations.
func WriteWithLogger(logger *slog.Logger) WriteOption {
	return func(cfg *writeConfig) {
		cfg.logger = logger
	}
}

// WriteWithProgress sets a callback for block and index progress.
func WriteWithProgress(fn ProgressFunc) WriteOption {
	return func(cfg *writeConfig) {
		cfg.progress = fn
	}
}
