package testutil

import (
	"encoding/binary"
)

// Mode values for test entries.
const (
	FileMode uint64 = 0o100644
	DirMode  uint64 = 0o040755
)

// IndexEntry holds one row of a hand-built index.
type IndexEntry struct {
	Path   string
	Size   uint64
	Mode   uint64
	UID    uint32
	GID    uint32
	Atime  uint32
	Mtime  uint32
	Offset uint64
}

// BuildIndex lays entries out column by column, exactly as an archive stores
// its uncompressed index. It is written independently of the format package
// so tests can cross-check the encoder.
func BuildIndex(entries []IndexEntry) []byte {
	var b []byte
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint64(b, e.Size)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint64(b, e.Mode)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, e.UID)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, e.GID)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, e.Atime)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint32(b, e.Mtime)
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint16(b, uint16(len(e.Path)))
	}
	for _, e := range entries {
		b = binary.LittleEndian.AppendUint64(b, e.Offset)
	}
	for _, e := range entries {
		b = append(b, e.Path...)
	}
	return b
}

// BuildFooter encodes a 28-byte trailer.
func BuildFooter(magic uint32, count, indexOffset, indexSize uint64) []byte {
	b := binary.LittleEndian.AppendUint32(nil, magic)
	b = binary.LittleEndian.AppendUint64(b, count)
	b = binary.LittleEndian.AppendUint64(b, indexOffset)
	return binary.LittleEndian.AppendUint64(b, indexSize)
}
