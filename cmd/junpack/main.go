// Command junpack extracts or lists a jpak archive.
package main

import (
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/meigma/jpak"
	"github.com/meigma/jpak/internal/cliutil"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "junpack: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "junpack",
		Usage:           "extract a jpak archive into a directory",
		ArgsUsage:       "<archive> <outdir>",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "list",
				Aliases: []string{"l"},
				Usage:   "print the index and statistics instead of extracting",
			},
			&cli.BoolFlag{
				Name:  "keep-existing",
				Usage: "leave files that already exist in the output directory untouched",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "print only errors",
			},
			cliutil.LogLevelFlag(),
		},
		Action: unpack,
	}
}

func unpack(c *cli.Context) error {
	logger, err := cliutil.Logger(c)
	if err != nil {
		return err
	}

	if c.Bool("list") {
		if c.NArg() != 1 {
			return cliutil.UsageError(c, "--list expects exactly one archive, got %d arguments", c.NArg())
		}
		af, err := jpak.Open(c.Args().First(), jpak.OpenWithLogger(logger))
		if err != nil {
			return err
		}
		defer af.Close()
		return list(c.App.Writer, af.Inspect())
	}

	if c.NArg() != 2 {
		return cliutil.UsageError(c, "expected an archive and an output directory, got %d arguments", c.NArg())
	}
	out := c.App.Writer
	if c.Bool("quiet") {
		out = io.Discard
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	archive, dir := c.Args().Get(0), c.Args().Get(1)
	summary, err := jpak.Unpack(ctx, archive, dir,
		jpak.UnpackWithLogger(logger),
		jpak.UnpackWithKeepExisting(c.Bool("keep-existing")))
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d files, %d directories from %d blocks into %s\n",
		archive, summary.Files, summary.Dirs, summary.Blocks, dir)
	if summary.Skipped > 0 {
		fmt.Fprintf(out, "  kept %d existing files\n", summary.Skipped)
	}
	fmt.Fprintf(out, "  %s extracted\n", humanize.IBytes(summary.DataBytes))
	return nil
}

// list prints one row per entry followed by archive statistics.
func list(w io.Writer, res *jpak.InspectResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "MODE\tUID\tGID\tSIZE\tBLOCK\tMODIFIED\tPATH\t")
	for _, e := range res.Entries() {
		mode := fs.FileMode(e.Mode & 0o777)
		if e.IsDir() {
			mode |= fs.ModeDir
		}
		fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%d\t%s\t%s\t\n",
			mode, e.UID, e.GID, e.Size, e.CompressedSize,
			e.ModTime().UTC().Format("2006-01-02 15:04"), e.Path)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\n%d entries (%d files, %d directories) in %d blocks\n",
		res.EntryCount(), res.FileCount(), res.DirCount(), res.BlockCount())
	fmt.Fprintf(w, "data   %s -> %s (ratio %.3f)\n",
		humanize.IBytes(res.TotalUncompressedSize()), humanize.IBytes(res.DataSize()), res.CompressionRatio())
	fmt.Fprintf(w, "index  %s -> %s\n", humanize.IBytes(res.IndexRawSize()), humanize.IBytes(res.IndexSize()))
	fmt.Fprintf(w, "total  %s\n", humanize.IBytes(res.ArchiveSize()))
	return nil
}
