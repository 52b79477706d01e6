package archtype

// ProgressEvent represents a progress update during packing or unpacking.
type ProgressEvent struct {
	// Stage identifies the current phase of the operation.
	Stage ProgressStage

	// Path is the entry currently being processed, if applicable.
	Path string

	// BytesDone is the number of uncompressed bytes completed so far.
	BytesDone uint64

	// BytesWritten is the number of archive bytes produced or consumed so far.
	BytesWritten uint64

	// EntriesDone is the number of entries completed.
	EntriesDone int

	// EntriesTotal is the total number of entries.
	// Zero indicates the total is unknown (e.g., during collection).
	EntriesTotal int

	// Blocks is the number of data blocks sealed or decoded so far.
	Blocks int
}

// ProgressStage identifies the current phase of an operation.
type ProgressStage uint8

// Progress stages for pack and unpack operations.
const (
	// StageCollecting indicates the input paths are being walked.
	StageCollecting ProgressStage = iota

	// StageCompressing indicates a data block was sealed and written.
	StageCompressing

	// StageWritingIndex indicates the index and footer are being written.
	StageWritingIndex

	// StageExtracting indicates entries are being extracted.
	StageExtracting
)

// String returns the string representation of the stage.
func (s ProgressStage) String() string {
	switch s {
	case StageCollecting:
		return "collecting"
	case StageCompressing:
		return "compressing"
	case StageWritingIndex:
		return "writing index"
	case StageExtracting:
		return "extracting"
	default:
		return "unknown"
	}
}

// ProgressFunc receives progress updates during operations.
type ProgressFunc func(ProgressEvent)
