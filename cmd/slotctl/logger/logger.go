// Package logger holds the slotctl process logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// L is the global logger instance. It discards all output until Init
// enables it.
var L = discard()

const (
	logPrefix     = "slotctl-"
	logSuffix     = ".log"
	retentionDays = 30
)

// Options configures the logger.
type Options struct {
	Stderr bool       // Text logs on stderr
	LogDir string     // JSON logs in a dated file under this directory
	Level  slog.Level // Minimum level. Default: LevelInfo
}

// Init configures logging. With neither Stderr nor LogDir set, all log
// output is discarded. The returned close function releases the log file.
func Init(opts Options) (func() error, error) {
	noop := func() error { return nil }
	if !opts.Stderr && opts.LogDir == "" {
		L = discard()
		return noop, nil
	}
	hopts := &slog.HandlerOptions{Level: opts.Level}

	if opts.LogDir == "" {
		L = slog.New(slog.NewTextHandler(os.Stderr, hopts))
		return noop, nil
	}

	if err := os.MkdirAll(opts.LogDir, 0o755); err != nil {
		return nil, err
	}

	// Clean up old logs (best-effort, ignore errors)
	cleanOldLogs(opts.LogDir, time.Now())

	filename := filepath.Join(opts.LogDir, logPrefix+time.Now().Format(time.DateOnly)+logSuffix)
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}

	h := slog.Handler(slog.NewJSONHandler(f, hopts))
	if opts.Stderr {
		h = fanout{h, slog.NewTextHandler(os.Stderr, hopts)}
	}
	L = slog.New(h)
	return f.Close, nil
}

// Enabled reports whether Init turned logging on.
func Enabled() bool {
	return L.Handler() != discardHandler
}

var discardHandler = slog.NewTextHandler(io.Discard, nil)

func discard() *slog.Logger { return slog.New(discardHandler) }

// cleanOldLogs removes log files older than retentionDays.
func cleanOldLogs(logDir string, now time.Time) {
	cutoff := now.AddDate(0, 0, -retentionDays)

	entries, err := os.ReadDir(logDir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, logPrefix) || !strings.HasSuffix(name, logSuffix) {
			continue
		}

		// Parse date from filename: slotctl-2024-01-05.log
		dateStr := strings.TrimPrefix(strings.TrimSuffix(name, logSuffix), logPrefix)
		logDate, err := time.Parse(time.DateOnly, dateStr)
		if err != nil {
			continue
		}

		if logDate.Before(cutoff) {
			os.Remove(filepath.Join(logDir, name))
		}
	}
}
