// Package logging builds the zap loggers used across partslist.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// TimestampLayout names per-run log directories and files.
const TimestampLayout = "2006-01-02_15-04-05"

// Config holds logging configuration.
type Config struct {
	Level       string // debug, info, warn, error
	Format      string // "json" or "console"
	Dir         string // per-run log root; empty disables file logging
	Development bool
	// Quiet drops stderr output; the run file, if any, is still written.
	Quiet bool
}

// Logger is a zap logger plus the run file it writes to.
type Logger struct {
	*zap.Logger
	// File is the per-run log file, or "" when file logging is off.
	File string

	closer io.Closer
}

// New builds a logger. When cfg.Dir is set, every run also writes to
// <dir>/<timestamp>/<timestamp>.log.
func New(cfg Config, now time.Time) (*Logger, error) {
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	ec := zap.NewProductionEncoderConfig()
	if cfg.Development {
		ec = zap.NewDevelopmentEncoderConfig()
	}
	ec.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if cfg.Format == "json" {
		enc = zapcore.NewJSONEncoder(ec)
	} else {
		enc = zapcore.NewConsoleEncoder(ec)
	}

	var sinks []zapcore.WriteSyncer
	if !cfg.Quiet {
		sinks = append(sinks, zapcore.Lock(os.Stderr))
	}

	// zap's OutputPaths treat "C:\..." as a URL scheme, so the run file is
	// opened here and handed over as a WriteSyncer.
	l := &Logger{}
	if cfg.Dir != "" {
		stamp := now.Format(TimestampLayout)
		runDir := filepath.Join(cfg.Dir, stamp)
		if err := os.MkdirAll(runDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		l.File = filepath.Join(runDir, stamp+".log")
		f, err := os.OpenFile(l.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		l.closer = f
		sinks = append(sinks, zapcore.AddSync(f))
	}

	if len(sinks) == 0 {
		l.Logger = zap.NewNop()
		return l, nil
	}

	opts := []zap.Option{zap.AddCaller(), zap.ErrorOutput(zapcore.Lock(os.Stderr))}
	if cfg.Development {
		opts = append(opts, zap.Development(), zap.AddStacktrace(zapcore.WarnLevel))
	}
	core := zapcore.NewCore(enc, zapcore.NewMultiWriteSyncer(sinks...), level)
	l.Logger = zap.New(core, opts...)
	return l, nil
}

// Close flushes buffered entries and closes the run file.
func (l *Logger) Close() error {
	_ = l.Sync()
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}
