// Package collect walks input paths into the ordered entry sequence an
// archive is built from.
//
// Directories are expanded depth-first with their children sorted byte-wise,
// and each directory is emitted before its descendants. Only regular files
// and directories are kept, so two walks of an unchanged tree always yield
// the same sequence.
package collect

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/meigma/jpak/internal/archtype"
	"github.com/meigma/jpak/internal/platform"
)

type config struct {
	logger   *slog.Logger
	excludes []string
	progress archtype.ProgressFunc
}

// Option configures a collection.
type Option func(*config)

// WithLogger sets the logger for skipped and stripped entries.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = logger
	}
}

// WithExcludes drops entries whose archive path matches any of the given
// doublestar patterns (e.g. "**/*.tmp", "build/**"). A matching directory is
// pruned together with its subtree.
func WithExcludes(patterns ...string) Option {
	return func(cfg *config) {
		cfg.excludes = append(cfg.excludes, patterns...)
	}
}

// WithProgress reports one StageCollecting event per collected entry.
func WithProgress(fn archtype.ProgressFunc) Option {
	return func(cfg *config) {
		cfg.progress = fn
	}
}

// Collect returns the entries for roots, in order.
//
// A root that cannot be stat'ed fails the whole collection with ErrIO.
// Unreadable directories below a root are logged and kept without their
// children; symlinks, devices, sockets and pipes are dropped.
func Collect(roots []string, opts ...Option) ([]archtype.Entry, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	for _, p := range cfg.excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("%w: bad exclude pattern %q", archtype.ErrConfiguration, p)
		}
	}

	c := &collector{cfg: cfg}
	for _, root := range roots {
		st, err := platform.Lstat(root)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", archtype.ErrIO, err)
		}
		name, stripped := ArchivePath(root)
		if stripped {
			c.log().Warn("removing leading path elements", "root", root, "path", name)
		}
		c.visit(root, name, st)
	}
	return c.entries, nil
}

type collector struct {
	cfg     config
	entries []archtype.Entry
}

// log returns the logger, falling back to a discard logger if nil.
func (c *collector) log() *slog.Logger {
	if c.cfg.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.cfg.logger
}

// visit emits src under the archive path name. An empty name means src is a
// directory whose children are placed at the archive root.
func (c *collector) visit(src, name string, st platform.Stat) {
	if name != "" && c.excluded(name) {
		c.log().Debug("excluded", "path", name)
		return
	}

	switch archtype.KindOf(st.Mode) {
	case archtype.KindFile:
		if name == "" {
			name = filepath.Base(src)
		}
		c.emit(archtype.Entry{
			Path:   name,
			Size:   st.Size,
			Mode:   st.Mode,
			UID:    st.UID,
			GID:    st.GID,
			Atime:  st.Atime,
			Mtime:  st.Mtime,
			Source: src,
		})
	case archtype.KindDir:
		if name != "" {
			c.emit(archtype.Entry{
				Path:  name,
				Mode:  st.Mode,
				UID:   st.UID,
				GID:   st.GID,
				Atime: st.Atime,
				Mtime: st.Mtime,
			})
		}
		c.walkDir(src, name)
	default:
		c.log().Debug("skipping unsupported file type", "path", src, "mode", fmt.Sprintf("%#o", st.Mode))
	}
}

func (c *collector) walkDir(src, name string) {
	children, err := readDirNames(src)
	if err != nil {
		c.log().Warn("could not access directory", "path", src, "error", err)
		return
	}
	slices.Sort(children)

	for _, child := range children {
		childSrc := filepath.Join(src, child)
		st, err := platform.Lstat(childSrc)
		if err != nil {
			c.log().Warn("could not stat entry", "path", childSrc, "error", err)
			continue
		}
		childName := child
		if name != "" {
			childName = path.Join(name, child)
		}
		c.visit(childSrc, childName, st)
	}
}

func (c *collector) emit(e archtype.Entry) {
	c.entries = append(c.entries, e)
	if c.cfg.progress != nil {
		c.cfg.progress(archtype.ProgressEvent{
			Stage:       archtype.StageCollecting,
			Path:        e.Path,
			BytesDone:   e.Size,
			EntriesDone: len(c.entries),
		})
	}
}

func (c *collector) excluded(name string) bool {
	for _, p := range c.cfg.excludes {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

func readDirNames(dir string) ([]string, error) {
	f, err := os.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdirnames(-1)
}

// ArchivePath converts a root given on the command line into its archive
// path: cleaned, slash-separated, with any volume name, leading "/" and
// leading ".." elements removed. A root that refers to the current
// directory maps to "". The second result reports whether anything other
// than cleaning was removed.
func ArchivePath(root string) (string, bool) {
	cleaned := filepath.Clean(root)
	p := filepath.ToSlash(cleaned[len(filepath.VolumeName(cleaned)):])
	orig := p

	p = strings.TrimLeft(p, "/")
	for p == ".." || strings.HasPrefix(p, "../") {
		p = strings.TrimLeft(strings.TrimPrefix(p, ".."), "/")
	}
	if p == "." {
		return "", false
	}
	return p, p != orig
}
