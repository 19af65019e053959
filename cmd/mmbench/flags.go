package main

import (
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/mmbench/internal/bench"
	"github.com/samcharles93/mmbench/internal/logger"
)

var (
	order       int64
	trials      int64
	deviceIndex int64
	localSize   int64
	jsonOut     bool
	logLevel    string
	logFormat   string
)

func benchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Int64Flag{
			Name:        "order",
			Aliases:     []string{"n"},
			Usage:       "matrix order N (matrices are NxN)",
			Value:       bench.DefaultOrder,
			Destination: &order,
		},
		&cli.Int64Flag{
			Name:        "trials",
			Aliases:     []string{"count"},
			Usage:       "timed trials per strategy",
			Value:       bench.DefaultTrials,
			Destination: &trials,
		},
		&cli.Int64Flag{
			Name:        "device",
			Aliases:     []string{"d"},
			Usage:       "device index (see 'list-devices')",
			Destination: &deviceIndex,
		},
		&cli.Int64Flag{
			Name:        "local",
			Usage:       "tiled kernel work group size (0 = default geometry)",
			Destination: &localSize,
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (text, json)",
			Value:       "text",
			Destination: &logFormat,
		},
	}
}

func newLogger() logger.Logger {
	level := logger.ParseLevel(logLevel)
	if logFormat == "json" {
		return logger.JSON(os.Stderr, level)
	}
	return logger.Text(os.Stderr, level)
}
