package jpak

import "github.com/meigma/jpak/internal/archtype"

// Sentinel errors re-exported from internal/archtype.
var (
	// ErrIO is returned when reading sources or writing output fails.
	// The underlying error remains reachable through errors.Is and errors.As.
	ErrIO = archtype.ErrIO

	// ErrCorruptArchive is returned when the magic, footer or index is invalid.
	ErrCorruptArchive = archtype.ErrCorruptArchive

	// ErrCorruptBlock is returned when a data block cannot be decoded or
	// does not expand to the size its entries declare.
	ErrCorruptBlock = archtype.ErrCorruptBlock

	// ErrConfiguration is returned for unusable arguments or options.
	ErrConfiguration = archtype.ErrConfiguration

	// ErrPathTooLong is returned when an entry path exceeds MaxPathLen bytes.
	ErrPathTooLong = archtype.ErrPathTooLong

	// ErrSizeOverflow is returned when byte counts exceed supported limits.
	ErrSizeOverflow = archtype.ErrSizeOverflow
)
