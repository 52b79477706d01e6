package archtype

import "errors"

// Sentinel errors for archive operations.
var (
	// ErrIO is returned when an underlying read, write, seek or stat fails.
	// The originating error is wrapped alongside it.
	ErrIO = errors.New("jpak: i/o failure")

	// ErrCorruptArchive is returned when the footer or index is inconsistent.
	ErrCorruptArchive = errors.New("jpak: corrupt archive")

	// ErrCorruptBlock is returned when a compressed block cannot be decoded.
	ErrCorruptBlock = errors.New("jpak: corrupt block")

	// ErrConfiguration is returned for unusable arguments or options.
	ErrConfiguration = errors.New("jpak: invalid configuration")

	// ErrPathTooLong is returned when an entry path does not fit the index.
	ErrPathTooLong = errors.New("jpak: path too long")

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = errors.New("jpak: size overflow")
)
