// Command jpack packs files and directories into a jpak archive.
package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/dustin/go-humanize"
	"github.com/urfave/cli/v2"

	"github.com/meigma/jpak"
	"github.com/meigma/jpak/internal/cliutil"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "jpack: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "jpack",
		Usage:           "pack files and directories into a jpak archive",
		ArgsUsage:       "<archive> <path>...",
		HideHelpCommand: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "threshold",
				Value:   humanize.IBytes(jpak.DefaultClumpThreshold),
				Usage:   "seal a block once it holds `SIZE` bytes (e.g. 512KiB, 4MB)",
				EnvVars: []string{"JPAK_THRESHOLD"},
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "skip paths matching `GLOB`; ** matches any number of directories",
			},
			&cli.BoolFlag{
				Name:  "strict",
				Usage: "fail if a file changes while it is being packed",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "print only errors",
			},
			cliutil.LogLevelFlag(),
		},
		Action: pack,
	}
}

func pack(c *cli.Context) error {
	if c.NArg() < 2 {
		return cliutil.UsageError(c, "expected an archive and at least one path, got %d arguments", c.NArg())
	}
	threshold, err := humanize.ParseBytes(c.String("threshold"))
	if err != nil {
		return fmt.Errorf("--threshold: %w", err)
	}
	logger, err := cliutil.Logger(c)
	if err != nil {
		return err
	}

	out := c.App.Writer
	if c.Bool("quiet") {
		out = io.Discard
	}

	opts := []jpak.PackOption{
		jpak.PackWithClumpThreshold(threshold),
		jpak.PackWithLogger(logger),
		jpak.PackWithProgress(progressPrinter(out)),
	}
	if patterns := c.StringSlice("exclude"); len(patterns) > 0 {
		opts = append(opts, jpak.PackWithExcludes(patterns...))
	}
	if c.Bool("strict") {
		opts = append(opts, jpak.PackWithChangeDetection(jpak.ChangeDetectionStrict))
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt)
	defer stop()

	archive := c.Args().First()
	summary, err := jpak.Pack(ctx, archive, c.Args().Tail(), opts...)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "%s: %d files, %d directories in %d blocks\n",
		archive, summary.Files, summary.Dirs, summary.Blocks)
	fmt.Fprintf(out, "  data  %s -> %s\n", humanize.IBytes(summary.DataBytes), humanize.IBytes(summary.DataSize))
	fmt.Fprintf(out, "  index %s\n", humanize.IBytes(summary.IndexSize))
	fmt.Fprintf(out, "  total %s\n", humanize.IBytes(summary.ArchiveSize))
	return nil
}

// progressPrinter prints one line per sealed block.
func progressPrinter(w io.Writer) jpak.ProgressFunc {
	return func(e jpak.ProgressEvent) {
		switch e.Stage {
		case jpak.StageCompressing:
			fmt.Fprintf(w, "block %d: %d/%d entries, %s read, %s written\n",
				e.Blocks, e.EntriesDone, e.EntriesTotal,
				humanize.IBytes(e.BytesDone), humanize.IBytes(e.BytesWritten))
		case jpak.StageWritingIndex:
			fmt.Fprintf(w, "writing index for %d entries\n", e.EntriesTotal)
		}
	}
}
