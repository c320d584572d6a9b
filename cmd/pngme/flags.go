package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/samcharles93/pngme/internal/logger"
	"github.com/samcharles93/pngme/pkg/png"
)

var (
	configFile string
	logLevel   string
	logFormat  string
	strict     bool

	// cfg holds the config file loaded by setup.
	cfg Config
)

// Seams for tests.
var (
	stdin      io.Reader = os.Stdin
	stdout     io.Writer = os.Stdout
	stderr     io.Writer = os.Stderr
	stdinIsTTY           = isTTY
)

func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Usage:       "path to config.yaml (default: $" + envConfig + " or the user config dir)",
			Destination: &configFile,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "log level (debug, info, warn, error)",
			Value:       "info",
			Destination: &logLevel,
		},
		&cli.StringFlag{
			Name:        "log-format",
			Usage:       "log format (pretty, json, text)",
			Value:       "pretty",
			Destination: &logFormat,
		},
		&cli.BoolFlag{
			Name:        "strict",
			Usage:       "reject chunk types with the reserved bit set",
			Destination: &strict,
		},
	}
}

// setup loads the config file, lets it fill flags the user did not set and
// installs the logger in the context.
func setup(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	loaded, err := LoadConfig(resolveConfigPath(configFile))
	if err != nil {
		return ctx, err
	}
	cfg = loaded
	applyGlobalConfig(cmd, cfg)

	level, err := logger.ParseLevel(logLevel)
	if err != nil {
		return ctx, err
	}
	log, err := logger.New(logFormat, level, stderr)
	if err != nil {
		return ctx, err
	}
	return logger.WithContext(ctx, log), nil
}

func parseOptions() []png.Option {
	if strict {
		return []png.Option{png.WithStrict()}
	}
	return nil
}

// chunkTypeOrDefault falls back to the configured chunk type.
func chunkTypeOrDefault(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if cfg.ChunkType != "" {
		return cfg.ChunkType, nil
	}
	return "", fmt.Errorf("--chunk is required (or set chunk_type in %s)", resolveConfigPath(configFile))
}

func isTTY() bool {
	st, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (st.Mode() & os.ModeCharDevice) != 0
}
