package diagramscmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-folio/internal/commands"
	"github.com/goliatone/go-folio/internal/diagrams"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Prerenderer is the diagram service surface used by the handlers.
type Prerenderer interface {
	Run(ctx context.Context) (diagrams.Report, error)
	ProcessFile(ctx context.Context, path string) diagrams.FileResult
	GenerateGraphs(ctx context.Context) ([]diagrams.GraphResult, error)
}

// ErrDiagramsFailed is returned by strict runs that left blocks or files unprocessed.
var ErrDiagramsFailed = errors.New("diagrams: blocks failed to render")

// RenderDiagramsHandler runs the pre-renderer through the shared command handler.
type RenderDiagramsHandler struct {
	inner *commands.Handler[RenderDiagramsCommand]
}

// NewRenderDiagramsHandler constructs a handler wired to the diagram service.
func NewRenderDiagramsHandler(service Prerenderer, logger interfaces.Logger, opts ...commands.HandlerOption[RenderDiagramsCommand]) *RenderDiagramsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg RenderDiagramsCommand) error {
		var (
			report diagrams.Report
			err    error
		)
		if len(msg.Paths) == 0 {
			report, err = service.Run(ctx)
		} else {
			for _, path := range msg.Paths {
				if ctxErr := ctx.Err(); ctxErr != nil {
					err = ctxErr
					break
				}
				report.Files = append(report.Files, service.ProcessFile(ctx, path))
			}
		}
		if msg.ResultCallback != nil {
			msg.ResultCallback(report)
		}
		if err != nil {
			return err
		}
		if msg.Strict && (report.Failed() > 0 || len(report.Errors()) > 0) {
			return fmt.Errorf("%w: %d blocks, %d files", ErrDiagramsFailed, report.Failed(), len(report.Errors()))
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[RenderDiagramsCommand]{
		commands.WithLogger[RenderDiagramsCommand](baseLogger),
		commands.WithOperation[RenderDiagramsCommand]("diagrams.render"),
		commands.WithMessageFields(func(msg RenderDiagramsCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Paths) > 0 {
				fields["paths"] = len(msg.Paths)
			}
			if msg.Strict {
				fields["strict"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[RenderDiagramsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &RenderDiagramsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[RenderDiagramsCommand].
func (h *RenderDiagramsHandler) Execute(ctx context.Context, msg RenderDiagramsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// GenerateGraphsHandler renders the standalone graph sources.
type GenerateGraphsHandler struct {
	inner *commands.Handler[GenerateGraphsCommand]
}

// NewGenerateGraphsHandler constructs a handler wired to the diagram service.
func NewGenerateGraphsHandler(service Prerenderer, logger interfaces.Logger, opts ...commands.HandlerOption[GenerateGraphsCommand]) *GenerateGraphsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg GenerateGraphsCommand) error {
		results, err := service.GenerateGraphs(ctx)
		if msg.ResultCallback != nil {
			msg.ResultCallback(results)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[GenerateGraphsCommand]{
		commands.WithLogger[GenerateGraphsCommand](baseLogger),
		commands.WithOperation[GenerateGraphsCommand]("diagrams.graphs"),
		commands.WithTelemetry(commands.DefaultTelemetry[GenerateGraphsCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &GenerateGraphsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[GenerateGraphsCommand].
func (h *GenerateGraphsHandler) Execute(ctx context.Context, msg GenerateGraphsCommand) error {
	return h.inner.Execute(ctx, msg)
}
