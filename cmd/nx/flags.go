package main

import (
	"context"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/nxpack/internal/logger"
)

const envDataDir = "NX_DATA_DIR"

var (
	dataDir   string
	jsonOut   bool
	logLevel  string
	logFormat string
	debug     bool
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "data-dir",
			Aliases:     []string{"d"},
			Usage:       "directory of .nx containers; bare container names are looked up here",
			Sources:     cli.EnvVars(envDataDir),
			Destination: &dataDir,
		},
		&cli.BoolFlag{
			Name:        "json",
			Usage:       "print JSON instead of text",
			Destination: &jsonOut,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "warn",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging (shorthand for --log-level=debug)",
			Destination: &debug,
		},
	}
}

// setup applies the config file and installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	applyGlobalConfig(cmd, LoadConfig())
	level := logLevel
	if debug {
		level = "debug"
	}
	log := logger.Setup(errWriter(cmd), level, logFormat)
	return logger.WithContext(ctx, log), nil
}

func outWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func errWriter(cmd *cli.Command) io.Writer {
	if w := cmd.Root().ErrWriter; w != nil {
		return w
	}
	return os.Stderr
}
