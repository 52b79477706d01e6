// Package sink materializes extracted entries on the local filesystem.
package sink

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
)

// ErrNotDir is returned when a directory entry collides with an existing
// non-directory.
var ErrNotDir = errors.New("exists and is not a directory")

// Committer is a pending file that becomes visible only on Commit.
type Committer interface {
	io.Writer
	Commit() error
	Discard() error
}

// FileSink writes entries below a destination directory.
//
// Every operation goes through an os.Root opened on the destination, so
// names and existing symlinks cannot resolve outside it. Files are written
// to a temporary file in the same directory, then renamed to the final path
// on Commit. Partially written files are never visible at the final path.
type FileSink struct {
	destDir      string
	root         *os.Root
	keepExisting bool
}

// Option configures a FileSink.
type Option func(*FileSink)

// WithKeepExisting leaves files that already exist untouched.
// By default, existing files are replaced.
func WithKeepExisting(keep bool) Option {
	return func(s *FileSink) {
		s.keepExisting = keep
	}
}

// New opens destDir, which must exist, and returns a FileSink writing below
// it. The caller must Close the sink.
//
// Names passed to the sink are slash-separated paths relative to destDir and
// must already satisfy fs.ValidPath. Parent directories are created as
// needed.
func New(destDir string, opts ...Option) (*FileSink, error) {
	root, err := os.OpenRoot(destDir)
	if err != nil {
		return nil, fmt.Errorf("open destination %s: %w", destDir, err)
	}
	s := &FileSink{destDir: destDir, root: root}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close releases the destination directory handle.
func (s *FileSink) Close() error {
	return s.root.Close()
}

func (s *FileSink) path(name string) string {
	return filepath.Join(s.destDir, filepath.FromSlash(name))
}

func (s *FileSink) mkdirParent(name string) error {
	dir := path.Dir(name)
	if dir == "." {
		return nil
	}
	if err := s.root.MkdirAll(filepath.FromSlash(dir), 0o750); err != nil {
		return fmt.Errorf("create directory %s: %w", s.path(dir), err)
	}
	return nil
}

// Mkdir creates the directory name with perm plus owner rwx, so extraction
// can always descend into it. An existing directory is left as is; a symlink
// in its place is rejected.
func (s *FileSink) Mkdir(name string, perm fs.FileMode) error {
	if err := s.mkdirParent(name); err != nil {
		return err
	}
	rel := filepath.FromSlash(name)
	err := s.root.Mkdir(rel, perm.Perm()|0o700)
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return fmt.Errorf("create directory %s: %w", s.path(name), err)
	}
	info, statErr := s.root.Lstat(rel)
	if statErr != nil {
		return fmt.Errorf("create directory %s: %w", s.path(name), statErr)
	}
	if !info.IsDir() {
		return fmt.Errorf("create directory %s: %w", s.path(name), ErrNotDir)
	}
	return nil
}

// ShouldWrite reports whether name should be written. It is false only when
// existing files are kept and name already exists.
func (s *FileSink) ShouldWrite(name string) bool {
	if !s.keepExisting {
		return true
	}
	_, err := s.root.Lstat(filepath.FromSlash(name))
	return err != nil
}

// Writer returns a Committer that writes to a temp file and renames on Commit.
func (s *FileSink) Writer(name string) (Committer, error) {
	if err := s.mkdirParent(name); err != nil {
		return nil, err
	}

	destRel := filepath.FromSlash(name)
	// Same directory as the target so the rename stays on one filesystem.
	tempFile, tempRel, err := createTempFile(s.root, filepath.Dir(destRel), ".jpak-")
	if err != nil {
		return nil, fmt.Errorf("create temp file for %s: %w", s.path(name), err)
	}
	if err := tempFile.Chmod(0o644); err != nil {
		_ = tempFile.Close()       //nolint:errcheck // best-effort cleanup
		_ = s.root.Remove(tempRel) //nolint:errcheck // best-effort cleanup
		return nil, fmt.Errorf("chmod temp file: %w", err)
	}

	return &fileCommitter{
		destPath: s.path(name),
		destRel:  destRel,
		tempFile: tempFile,
		tempRel:  tempRel,
		root:     s.root,
	}, nil
}

// WriteFile writes data to name in one step.
func (s *FileSink) WriteFile(name string, data []byte) error {
	w, err := s.Writer(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		_ = w.Discard() //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("write %s: %w", name, err)
	}
	return w.Commit()
}

// fileCommitter writes to a temp file and renames on Commit.
type fileCommitter struct {
	destPath string
	destRel  string
	tempFile *os.File
	tempRel  string
	root     *os.Root
}

// Write implements io.Writer.
func (c *fileCommitter) Write(p []byte) (int, error) {
	return c.tempFile.Write(p)
}

// Commit closes the temp file and renames it to the final path.
func (c *fileCommitter) Commit() error {
	if err := c.tempFile.Close(); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := c.root.Rename(c.tempRel, c.destRel); err != nil {
		_ = c.root.Remove(c.tempRel) //nolint:errcheck // best-effort cleanup
		return fmt.Errorf("rename to %s: %w", c.destPath, err)
	}
	return nil
}

// Discard closes and removes the temp file.
func (c *fileCommitter) Discard() error {
	_ = c.tempFile.Close() //nolint:errcheck // we're cleaning up
	return c.root.Remove(c.tempRel)
}

func createTempFile(root *os.Root, dir, prefix string) (*os.File, string, error) {
	const attempts = 10
	for range attempts {
		name, err := randomSuffix()
		if err != nil {
			return nil, "", err
		}
		relPath := filepath.Join(dir, prefix+name)
		f, err := root.OpenFile(relPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600)
		if err == nil {
			return f, relPath, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, "", err
		}
	}
	return nil, "", errors.New("exhausted retries")
}

func randomSuffix() (string, error) {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "", err
	}
	return hex.EncodeToString(b[:]), nil
}
