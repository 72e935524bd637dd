// Package diaglog writes the append-only diagnostic log used by the
// dialog-driven mode. Each entry is one timestamped text record.
package diaglog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Log is an open diagnostic log.
type Log struct {
	*slog.Logger
	path   string
	closer io.Closer
}

// Open opens (creating if needed) the log file at path for appending.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("diaglog: mkdir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("diaglog: open %s: %w", path, err)
	}
	l := New(f)
	l.path = path
	l.closer = f
	return l, nil
}

// New returns a Log writing to w. Close is a no-op for logs built this way.
func New(w io.Writer) *Log {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	return &Log{Logger: slog.New(h)}
}

// Discard returns a Log that drops every entry.
func Discard() *Log {
	return New(io.Discard)
}

// Path returns the file backing the log, or "" when it has none.
func (l *Log) Path() string { return l.path }

// Close closes the underlying file.
func (l *Log) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
