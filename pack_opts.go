package jpak

import (
	"log/slog"

	"github.com/meigma/jpak/internal/collect"
)

// packConfig holds configuration for Pack.
type packConfig struct {
	writeOpts   []WriteOption
	collectOpts []collect.Option
}

// PackOption configures Pack.
type PackOption func(*packConfig)

// PackWithClumpThreshold sets the block clump threshold.
// See WriteWithClumpThreshold.
func PackWithClumpThreshold(n uint64) PackOption {
	return func(c *packConfig) {
		c.writeOpts = append(c.writeOpts, WriteWithClumpThreshold(n))
	}
}

// PackWithChangeDetection controls file change detection.
// See WriteWithChangeDetection.
func PackWithChangeDetection(cd ChangeDetection) PackOption {
	return func(c *packConfig) {
		c.writeOpts = append(c.writeOpts, WriteWithChangeDetection(cd))
	}
}

// PackWithExcludes skips paths matching any of the given doublestar
// patterns. Patterns match archive paths, so "**/*.o" excludes object files
// at any depth and "vendor" prunes a top-level vendor directory.
func PackWithExcludes(patterns ...string) PackOption {
	return func(c *packConfig) {
		c.collectOpts = append(c.collectOpts, collect.WithExcludes(patterns...))
	}
}

// PackWithLogger sets the logger for collection and writing.
func PackWithLogger(logger *slog.Logger) PackOption {
	return func(c *packConfig) {
		c.collectOpts = append(c.collectOpts, collect.WithLogger(logger))
		c.writeOpts = append(c.writeOpts, WriteWithLogger(logger))
	}
}

// PackWithProgress sets a callback for collection, block and index progress.
func PackWithProgress(fn ProgressFunc) PackOption {
	return func(c *packConfig) {
		c.collectOpts = append(c.collectOpts, collect.WithProgress(fn))
		c.writeOpts = append(c.writeOpts, WriteWithProgress(fn))
	}
}
