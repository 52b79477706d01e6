// Package cliutil holds flag and logging helpers shared by the jpack and
// junpack commands.
package cliutil

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/urfave/cli/v2"
)

const logLevel = "log-level"

// LogLevelFlag returns the flag selecting the level of the stderr logger.
func LogLevelFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    logLevel,
		Value:   "warn",
		Usage:   "log `LEVEL` (debug, info, warn, error)",
		EnvVars: []string{"JPAK_LOG_LEVEL"},
	}
}

// NewLogger returns a text logger writing to w at the named level.
func NewLogger(w io.Writer, level string) (*slog.Logger, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return nil, fmt.Errorf("--log-level: %w", err)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: l})), nil
}

// Logger builds the logger selected by LogLevelFlag.
func Logger(c *cli.Context) (*slog.Logger, error) {
	return NewLogger(c.App.ErrWriter, c.String(logLevel))
}

// UsageError reports a wrong argument count together with the command's
// usage line.
func UsageError(c *cli.Context, format string, args ...any) error {
	return fmt.Errorf("%s\nusage: %s [options] %s", fmt.Sprintf(format, args...), c.App.Name, c.App.ArgsUsage)
}
