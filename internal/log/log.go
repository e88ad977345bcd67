// Package log provides the logging setup shared across docquery.
//
// Loggers are plain *slog.Logger values injected through constructors, never
// reached through globals. Components add context with logger.With:
//
//	engine, err := rag.New(rag.Config{Logger: logger.With("component", "rag"), ...})
//
// Tests use NewNop to silence output, or NewWithWriter with a bytes.Buffer
// to assert on it.
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger aliases *slog.Logger so dependents stay compatible with the whole
// slog ecosystem without a wrapper interface.
type Logger = *slog.Logger

// Config holds logger options.
type Config struct {
	// Level is the minimum level emitted. Default: slog.LevelInfo.
	Level slog.Level

	// JSON switches from text to JSON output.
	JSON bool

	// AddSource annotates records with file:line.
	AddSource bool
}

// New creates a logger writing to stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// NewNop returns a logger that discards everything. Test use only —
// production code always wants New or NewWithWriter.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
