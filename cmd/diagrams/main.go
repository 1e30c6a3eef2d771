// Command diagrams pre-renders every mermaid block under the content root into
// light and dark SVGs and rewrites the source files to reference them.
// Configuration comes from folio.yaml and FOLIO_* variables.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goliatone/go-folio/cmd/internal/bootstrap"
	diagramscmd "github.com/goliatone/go-folio/internal/commands/diagrams"
	"github.com/goliatone/go-folio/internal/diagrams"
)

func main() {
	if len(os.Args) > 1 {
		fmt.Fprintln(os.Stderr, "usage: diagrams (configure with folio.yaml or FOLIO_* variables)")
		os.Exit(2)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context) (err error) {
	module, _, err := bootstrap.BuildModule(bootstrap.Options{})
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := module.Close(); err == nil {
			err = closeErr
		}
	}()

	logger := module.Logger("folio.cli")
	logger.Info("diagrams.cli.started", "root", module.Config().Diagrams.Root)
	return module.Handlers().RenderDiagrams.Execute(ctx, diagramscmd.RenderDiagramsCommand{
		ResultCallback: func(report diagrams.Report) {
			logger.Info("diagrams.cli.completed",
				"rendered", report.Rendered(),
				"failed", report.Failed(),
				"updated", len(report.Updated()),
			)
		},
	})
}
