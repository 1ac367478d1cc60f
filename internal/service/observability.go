package service

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// CommandEvent captures lightweight execution telemetry for one roadmap
// command.
type CommandEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// CommandObserver receives command execution events.
type CommandObserver interface {
	ObserveCommand(ctx context.Context, event CommandEvent)
}

// NoopCommandObserver ignores all events.
type NoopCommandObserver struct{}

func (NoopCommandObserver) ObserveCommand(context.Context, CommandEvent) {}

type logCommandObserver struct {
	logger *slog.Logger
}

// NewLogCommandObserver writes command events to the provided writer.
func NewLogCommandObserver(w io.Writer) CommandObserver {
	if w == nil {
		return NoopCommandObserver{}
	}
	return &logCommandObserver{
		logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})),
	}
}

func (o *logCommandObserver) ObserveCommand(ctx context.Context, event CommandEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"command", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "roadmap_command", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "roadmap_command", attrs...)
}
