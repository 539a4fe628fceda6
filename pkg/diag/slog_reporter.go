package diag

import (
	"context"
	"log/slog"
)

// SlogReporter writes findings to an slog.Logger.
// Useful for development when you want findings on the console.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a SlogReporter that writes to the given slog.Logger.
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	return &SlogReporter{logger: logger}
}

// Report writes the finding to the slog logger. Warnings map to LevelWarn,
// everything else to LevelError.
func (a *SlogReporter) Report(f Finding) {
	level := slog.LevelError
	if f.Severity == SeverityWarning {
		level = slog.LevelWarn
	}

	attrs := []slog.Attr{
		slog.String("kind", f.Kind.String()),
		slog.String("path", f.Path),
	}
	if f.Detail != "" {
		attrs = append(attrs, slog.String("detail", f.Detail))
	}

	a.logger.LogAttrs(context.Background(), level, "finding", attrs...)
}

// Compile-time interface satisfaction check.
var _ Reporter = (*SlogReporter)(nil)
