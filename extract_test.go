package jpak

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meigma/jpak/internal/testutil"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	entries := []Entry{
		dirEntry("top"),
		fileEntry(t, src, "top/a.txt", "alpha"),
		dirEntry("top/sub"),
		fileEntry(t, src, "top/sub/b.txt", strings.Repeat("beta", 100)),
		fileEntry(t, src, "top/sub/empty", ""),
		dirEntry("top/hollow"),
		fileEntry(t, src, "c.txt", "gamma"),
	}
	_, a := writeArchive(t, entries, WriteWithClumpThreshold(64))

	out := t.TempDir()
	summary, err := a.Extract(context.Background(), out)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{
		"top/":          "",
		"top/a.txt":     "alpha",
		"top/sub/":      "",
		"top/sub/b.txt": strings.Repeat("beta", 100),
		"top/sub/empty": "",
		"top/hollow/":   "",
		"c.txt":         "gamma",
	}, testutil.ReadTree(t, out))

	assert.Equal(t, 7, summary.Entries)
	assert.Equal(t, 4, summary.Files)
	assert.Equal(t, 3, summary.Dirs)
	assert.Equal(t, len(a.Blocks()), summary.Blocks)
	assert.Equal(t, uint64(410), summary.DataBytes)
	assert.Zero(t, summary.Skipped)
}

func TestExtractDirectoryOnly(t *testing.T) {
	t.Parallel()

	_, a := writeArchive(t, []Entry{dirEntry("d")})
	out := t.TempDir()
	_, err := a.Extract(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"d/": ""}, testutil.ReadTree(t, out))
}

func TestExtractDirectoryPermissions(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions")
	}

	_, a := writeArchive(t, []Entry{
		{Path: "ro", Mode: testutil.DirMode&^0o777 | 0o555},
		{Path: "open", Mode: testutil.DirMode&^0o777 | 0o750},
	})
	out := t.TempDir()
	_, err := a.Extract(context.Background(), out)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(out, "ro"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm()&0o700)
	info, err = os.Stat(filepath.Join(out, "open"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o750), info.Mode().Perm()&0o750)
}

func TestExtractExistingDirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, a := writeArchive(t, []Entry{dirEntry("d"), fileEntry(t, dir, "d/f", "new")})

	out := t.TempDir()
	testutil.WriteTree(t, out, map[string]string{"d/other": "keep"})
	_, err := a.Extract(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"d/": "", "d/f": "new", "d/other": "keep"}, testutil.ReadTree(t, out))
}

func TestExtractDirectoryOverFile(t *testing.T) {
	t.Parallel()

	_, a := writeArchive(t, []Entry{dirEntry("d")})
	out := t.TempDir()
	testutil.WriteTree(t, out, map[string]string{"d": "file"})

	_, err := a.Extract(context.Background(), out)
	assert.ErrorIs(t, err, ErrIO)
}

func TestExtractStaysInsideDir(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}

	_, a := writeArchive(t, []Entry{fileEntry(t, t.TempDir(), "d/x", "escaped")})
	outside := t.TempDir()
	out := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(out, "d")))

	_, err := a.Extract(context.Background(), out)
	require.ErrorIs(t, err, ErrIO)

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestExtractKeepExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, a := writeArchive(t, []Entry{
		fileEntry(t, dir, "a", "new a"),
		fileEntry(t, dir, "b", "new b"),
	})

	out := t.TempDir()
	testutil.WriteTree(t, out, map[string]string{"a": "old a"})
	summary, err := a.Extract(context.Background(), out, ExtractWithKeepExisting(true))
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, map[string]string{"a": "old a", "b": "new b"}, testutil.ReadTree(t, out))

	summary, err = a.Extract(context.Background(), out)
	require.NoError(t, err)
	assert.Zero(t, summary.Skipped)
	assert.Equal(t, map[string]string{"a": "new a", "b": "new b"}, testutil.ReadTree(t, out))
}

func TestExtractCorruptBlock(t *testing.T) {
	t.Parallel()

	data := rawArchive(t, [][]byte{[]byte("ok"), []byte("toolong")}, func(off []uint64) []testutil.IndexEntry {
		return []testutil.IndexEntry{
			{Path: "first", Size: 2, Mode: testutil.FileMode, Offset: off[0]},
			{Path: "second", Size: 3, Mode: testutil.FileMode, Offset: off[1]},
		}
	})
	a, err := New(bytes.NewReader(data))
	require.NoError(t, err)

	out := t.TempDir()
	_, err = a.Extract(context.Background(), out)
	require.ErrorIs(t, err, ErrCorruptBlock)
	assert.Equal(t, map[string]string{"first": "ok"}, testutil.ReadTree(t, out))
}

func TestExtractProgress(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, a := writeArchive(t, []Entry{dirEntry("d"), fileEntry(t, dir, "d/f", "data")})

	var events []ProgressEvent
	_, err := a.Extract(context.Background(), t.TempDir(),
		ExtractWithProgress(func(e ProgressEvent) { events = append(events, e) }))
	require.NoError(t, err)

	require.Len(t, events, 2)
	assert.Equal(t, StageExtracting, events[0].Stage)
	assert.Equal(t, "d", events[0].Path)
	assert.Equal(t, "d/f", events[1].Path)
	assert.Equal(t, 2, events[1].EntriesDone)
	assert.Equal(t, uint64(4), events[1].BytesDone)
}

func TestExtractCancellation(t *testing.T) {
	t.Parallel()

	_, a := writeArchive(t, []Entry{dirEntry("d")})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := t.TempDir()
	_, err := a.Extract(ctx, out)
	require.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, testutil.ReadTree(t, out))
}

func TestExtractEmptyDir(t *testing.T) {
	t.Parallel()

	_, a := writeArchive(t, nil)
	_, err := a.Extract(context.Background(), "")
	assert.ErrorIs(t, err, ErrConfiguration)
}
