package jpak

import "github.com/meigma/jpak/internal/archtype"

// Re-export progress types from internal/archtype.
type (
	// ProgressEvent represents a progress update during pack or unpack.
	ProgressEvent = archtype.ProgressEvent

	// ProgressStage identifies the current phase of an operation.
	ProgressStage = archtype.ProgressStage

	// ProgressFunc receives progress updates during operations.
	// It is called synchronously from the operation's goroutine.
	ProgressFunc = archtype.ProgressFunc
)

// Re-export progress stage constants.
const (
	// StageCollecting indicates input paths are being walked.
	StageCollecting = archtype.StageCollecting

	// StageCompressing indicates a data block was sealed and written.
	StageCompressing = archtype.StageCompressing

	// StageWritingIndex indicates the index and footer are being written.
	StageWritingIndex = archtype.StageWritingIndex

	// StageExtracting indicates an entry was extracted.
	StageExtracting = archtype.StageExtracting
)
