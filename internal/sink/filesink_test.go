package sink

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSink(t *testing.T, dir string, opts ...Option) *FileSink {
	t.Helper()
	s, err := New(dir, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestMkdir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newSink(t, dir)

	require.NoError(t, s.Mkdir("a", 0o755))
	require.NoError(t, s.Mkdir("a", 0o755), "existing directory is fine")
	require.NoError(t, s.Mkdir("x/y/z", 0o755), "missing parents are created")

	info, err := os.Stat(filepath.Join(dir, "x", "y", "z"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	require.NoError(t, os.WriteFile(filepath.Join(dir, "file"), []byte("f"), 0o644))
	err = s.Mkdir("file", 0o755)
	assert.ErrorIs(t, err, ErrNotDir)
}

func TestMkdirAddsOwnerBits(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("posix permissions")
	}

	dir := t.TempDir()
	s := newSink(t, dir)
	require.NoError(t, s.Mkdir("ro", 0o500))
	require.NoError(t, s.WriteFile("ro/inside.txt", []byte("ok")))

	info, err := os.Stat(filepath.Join(dir, "ro"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o700), info.Mode().Perm()&0o700)
}

func TestWriteFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	s := newSink(t, dir)
	require.NoError(t, s.WriteFile("deep/nested/f.txt", []byte("hello")))

	got, err := os.ReadFile(filepath.Join(dir, "deep", "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	require.NoError(t, s.WriteFile("deep/nested/f.txt", []byte("replaced")))
	got, err = os.ReadFile(filepath.Join(dir, "deep", "nested", "f.txt"))
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(got))

	entries, err := os.ReadDir(filepath.Join(dir, "deep", "nested"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}

func TestKeepExisting(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old.txt"), []byte("old"), 0o644))

	s := newSink(t, dir, WithKeepExisting(true))
	assert.False(t, s.ShouldWrite("old.txt"))
	assert.True(t, s.ShouldWrite("new.txt"))

	assert.True(t, newSink(t, dir).ShouldWrite("old.txt"))
}

func TestDiscard(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	w, err := newSink(t, dir).Writer("gone.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("partial"))
	require.NoError(t, err)
	require.NoError(t, w.Discard())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestNewMissingDestination(t *testing.T) {
	t.Parallel()

	_, err := New(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestSymlinkEscape(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}

	outside := t.TempDir()
	dir := t.TempDir()
	require.NoError(t, os.Symlink(outside, filepath.Join(dir, "d")))
	s := newSink(t, dir)

	assert.Error(t, s.WriteFile("d/x", []byte("escaped")))
	assert.Error(t, s.WriteFile("d/deeper/x", []byte("escaped")))
	assert.ErrorIs(t, s.Mkdir("d", 0o755), ErrNotDir)

	entries, err := os.ReadDir(outside)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing written through the symlink")
}

func TestSymlinkReplacedNotFollowed(t *testing.T) {
	t.Parallel()
	if runtime.GOOS == "windows" {
		t.Skip("symlinks need privileges")
	}

	target := filepath.Join(t.TempDir(), "target.txt")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644))
	dir := t.TempDir()
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "f.txt")))

	require.NoError(t, newSink(t, dir).WriteFile("f.txt", []byte("new")))

	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "original", string(got))

	info, err := os.Lstat(filepath.Join(dir, "f.txt"))
	require.NoError(t, err)
	assert.True(t, info.Mode().IsRegular(), "the link itself is replaced")
}
