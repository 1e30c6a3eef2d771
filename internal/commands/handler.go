package commands

import (
	"context"
	"errors"
	"time"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// HandlerOption configures a Handler instance.
type HandlerOption[T command.Message] func(*Handler[T])

// Handler wraps command execution with shared concerns (context, logging, error tagging).
// Builds run to completion so there is no default timeout.
type Handler[T command.Message] struct {
	exec      command.CommandFunc[T]
	logger    interfaces.Logger
	timeout   time.Duration
	operation string
	fields    func(T) map[string]any
	telemetry Telemetry[T]
}

// NewHandler creates a handler that satisfies go-command's Commander interface.
func NewHandler[T command.Message](fn command.CommandFunc[T], opts ...HandlerOption[T]) *Handler[T] {
	if fn == nil {
		panic("commands: handler function cannot be nil")
	}
	h := &Handler[T]{
		exec:   fn,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Execute conforms to command.Commander[T].Execute and applies validation, context management,
// logging, and error categorisation before delegating to the wrapped function.
func (h *Handler[T]) Execute(ctx context.Context, msg T) error {
	if err := command.ValidateMessage(msg); err != nil {
		return wrapValidationError(err)
	}

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := h.withTimeout(ctx)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return wrapContextError(err)
	}

	fields := map[string]any{
		"command": command.GetMessageType(msg),
	}
	if h.operation != "" {
		fields["operation"] = h.operation
	}
	if h.fields != nil {
		for key, value := range h.fields(msg) {
			fields[key] = value
		}
	}
	logger := logging.WithFields(h.logger, fields)
	logger.Debug("command.execute.start")

	started := time.Now()
	err := h.exec(ctx, msg)
	status := TelemetryStatusSuccess
	switch {
	case err != nil && isContextError(err):
		status = TelemetryStatusContextError
		err = wrapContextError(err)
	case err != nil:
		status = TelemetryStatusFailed
		err = wrapExecuteError(err)
	case ctx.Err() != nil:
		status = TelemetryStatusContextError
		err = wrapContextError(ctx.Err())
	}

	if h.telemetry != nil {
		h.telemetry(ctx, msg, TelemetryInfo{
			Command:   command.GetMessageType(msg),
			Operation: h.operation,
			Fields:    fields,
			Duration:  time.Since(started),
			Error:     err,
			Status:    status,
			Logger:    logger,
		})
		return err
	}

	switch status {
	case TelemetryStatusSuccess:
		logger.Info("command.execute.success")
	case TelemetryStatusContextError:
		logger.Error("command.execute.context_error", "error", err)
	default:
		logger.Error("command.execute.failed", "error", err)
	}
	return err
}

// WithTimeout bounds execution. Zero or negative disables the deadline.
func WithTimeout[T command.Message](timeout time.Duration) HandlerOption[T] {
	return func(h *Handler[T]) {
		if timeout <= 0 {
			h.timeout = 0
			return
		}
		h.timeout = timeout
	}
}

// WithLogger injects the logger used during execution. Defaults to a no-op logger.
func WithLogger[T command.Message](logger interfaces.Logger) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.logger = logging.Ensure(logger)
	}
}

// WithOperation sets a human-friendly operation name emitted with every log entry.
func WithOperation[T command.Message](operation string) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.operation = operation
	}
}

// WithMessageFields adds message specific fields to every log entry.
func WithMessageFields[T command.Message](fn func(T) map[string]any) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.fields = fn
	}
}

// WithTelemetry replaces the outcome log line with the supplied callback.
func WithTelemetry[T command.Message](telemetry Telemetry[T]) HandlerOption[T] {
	return func(h *Handler[T]) {
		h.telemetry = telemetry
	}
}

func (h *Handler[T]) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if h.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, h.timeout)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
