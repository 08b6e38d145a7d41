// Package logging builds the process logger and carries it through contexts.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config controls logger output.
type Config struct {
	Level      string
	Format     string // console or json
	File       string // optional rotated log file
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// New builds the root logger. The returned closer releases the log file, if any.
func New(cfg Config, out io.Writer) (zerolog.Logger, io.Closer, error) {
	if out == nil {
		out = os.Stderr
	}

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	var console io.Writer = out
	if cfg.Format == "" || cfg.Format == "console" {
		console = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	writer := console
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		// Log directory is owner-only.
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0700); err != nil {
			return zerolog.Nop(), nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			MaxAge:     cfg.MaxAgeDays,
			Compress:   cfg.Compress,
		}
		writer = io.MultiWriter(console, fileWriter)
		closer = fileWriter
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()

	// Contexts without an attached logger fall back to the root logger.
	zerolog.DefaultContextLogger = &logger

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
