package commands

import (
	"context"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// TelemetryStatus captures the result category for command execution.
type TelemetryStatus string

const (
	TelemetryStatusSuccess      TelemetryStatus = "success"
	TelemetryStatusFailed       TelemetryStatus = "failed"
	TelemetryStatusContextError TelemetryStatus = "context_error"
)

// TelemetryInfo describes a command execution outcome provided to telemetry callbacks.
type TelemetryInfo struct {
	Command   string
	Operation string
	Fields    map[string]any
	Duration  time.Duration
	Error     error
	Status    TelemetryStatus
	Logger    interfaces.Logger
}

// Event is the dotted log event for the outcome, keyed on the operation when one is set,
// e.g. "site.build.completed" or "diagrams.render.failed".
func (info TelemetryInfo) Event() string {
	prefix := info.Operation
	if prefix == "" {
		prefix = "command.execute"
	}
	switch info.Status {
	case TelemetryStatusSuccess:
		return prefix + ".completed"
	case TelemetryStatusContextError:
		return prefix + ".cancelled"
	default:
		return prefix + ".failed"
	}
}

// Telemetry is invoked once per execution, after the wrapped function returns.
type Telemetry[T command.Message] func(ctx context.Context, msg T, info TelemetryInfo)

// DefaultTelemetry logs the outcome with its duration. The execution logger carried in
// info takes precedence over the fallback.
func DefaultTelemetry[T command.Message](fallback interfaces.Logger) Telemetry[T] {
	fallback = logging.Ensure(fallback)
	return func(_ context.Context, _ T, info TelemetryInfo) {
		entry := info.Logger
		if entry == nil {
			entry = logging.WithFields(fallback, info.Fields)
		}
		args := []any{"duration_ms", info.Duration.Milliseconds()}
		if info.Status == TelemetryStatusSuccess {
			entry.Info(info.Event(), args...)
			return
		}
		entry.Error(info.Event(), append(args, "error", info.Error)...)
	}
}
