package progress

import (
	"context"
	"log/slog"

	"github.com/socotra-protocol/contracts/internal/usecase"
)

// LogSink writes progress and the deployment log through slog. Used in
// non-interactive runs where a spinner would only add noise.
type LogSink struct {
	log *slog.Logger
}

// NewLogSink creates a new slog backed progress sink
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log.With("component", "progress")}
}

// OnProgress logs the event at debug level
func (s *LogSink) OnProgress(ctx context.Context, event usecase.ProgressEvent) {
	s.log.DebugContext(ctx, "progress",
		"stage", event.Stage,
		"current", event.Current,
		"total", event.Total,
		"message", event.Message,
	)
}

// Info logs the message at info level
func (s *LogSink) Info(message string) {
	s.log.Info(message)
}

// Error logs the message at error level
func (s *LogSink) Error(message string) {
	s.log.Error(message)
}

var _ usecase.ProgressSink = (*LogSink)(nil)
