package jpak

import (
	"bytes"
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/meigma/jpak/internal/codec"
	"github.com/meigma/jpak/internal/format"
	"github.com/meigma/jpak/internal/testutil"
)

// fileEntry writes content under dir and returns an entry sourced from it.
func fileEntry(t *testing.T, dir, name, content string) Entry {
	t.Helper()
	src := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0o755))
	require.NoError(t, os.WriteFile(src, []byte(content), 0o644))
	return Entry{
		Path:   name,
		Size:   uint64(len(content)),
		Mode:   testutil.FileMode,
		Mtime:  1700000000,
		Source: src,
	}
}

func dirEntry(name string) Entry {
	return Entry{Path: name, Mode: testutil.DirMode, Mtime: 1700000000}
}

// writeArchive writes entries to memory and opens the result.
func writeArchive(t *testing.T, entries []Entry, opts ...WriteOption) ([]byte, *Archive) {
	t.Helper()
	var buf bytes.Buffer
	_, err := Write(context.Background(), &buf, entries, opts...)
	require.NoError(t, err)
	a, err := New(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	return buf.Bytes(), a
}

// storedOffsets decodes the offset column of an archive.
func storedOffsets(t *testing.T, data []byte) []uint64 {
	t.Helper()
	src := bytes.NewReader(data)
	footer, err := format.ReadFooter(src, src.Size())
	require.NoError(t, err)
	raw, err := codec.NewDecoder().Decode(src, int64(footer.IndexOffset), int64(footer.IndexSize))
	require.NoError(t, err)
	idx, err := format.ParseIndex(raw, footer.Count)
	require.NoError(t, err)
	return idx.Offsets
}

// rawArchive assembles an archive by hand. Each block payload is encoded in
// order after the magic; rows receives the block offsets and returns the
// index rows to store.
func rawArchive(t *testing.T, blocks [][]byte, rows func(offsets []uint64) []testutil.IndexEntry) []byte {
	t.Helper()
	enc := codec.NewEncoder()
	var buf bytes.Buffer
	buf.WriteString(format.Magic)

	offsets := make([]uint64, len(blocks))
	for i, b := range blocks {
		offsets[i] = uint64(buf.Len())
		_, err := enc.Encode(&buf, b)
		require.NoError(t, err)
	}

	entries := rows(offsets)
	indexOffset := uint64(buf.Len())
	n, err := enc.Encode(&buf, testutil.BuildIndex(entries))
	require.NoError(t, err)
	buf.Write(testutil.BuildFooter(format.FooterMagic, uint64(len(entries)), indexOffset, uint64(n)))
	return buf.Bytes()
}

// footerMagicOffset is where the trailer begins in an encoded archive.
func footerMagicOffset(data []byte) int {
	return len(data) - format.FooterSize
}

func readFooterMagic(data []byte) uint32 {
	return binary.LittleEndian.Uint32(data[footerMagicOffset(data):])
}
