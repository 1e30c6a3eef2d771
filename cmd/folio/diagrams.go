package main

import (
	"fmt"
	"io"

	diagramscmd "github.com/goliatone/go-folio/internal/commands/diagrams"
	"github.com/goliatone/go-folio/internal/diagrams"
	"github.com/spf13/cobra"
)

func newDiagramsCommand(a *app) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "diagrams [file...]",
		Short: "Pre-render mermaid blocks into light and dark SVGs",
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.module.Handlers().RenderDiagrams.Execute(cmd.Context(), diagramscmd.RenderDiagramsCommand{
				Paths:          args,
				Strict:         strict,
				ResultCallback: func(report diagrams.Report) { printReport(cmd.OutOrStdout(), report) },
			})
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any block could not be rendered")
	cmd.Flags().Int("workers", 0, "process files in parallel")
	cmd.Flags().String("engine", "", "mmdc or browser")
	return cmd
}

func newGraphsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "graphs",
		Short: "Render standalone mermaid sources from the graphs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.module.Handlers().GenerateGraphs.Execute(cmd.Context(), diagramscmd.GenerateGraphsCommand{
				ResultCallback: func(results []diagrams.GraphResult) {
					out := cmd.OutOrStdout()
					for _, result := range results {
						if result.Err != nil {
							fmt.Fprintf(out, "failed %s: %v\n", result.Source, result.Err)
							continue
						}
						for _, artifact := range result.Artifacts {
							fmt.Fprintf(out, "generated %s\n", artifact)
						}
					}
				},
			})
		},
	}
}

func printReport(out io.Writer, report diagrams.Report) {
	for _, file := range report.Files {
		switch {
		case file.Err != nil:
			fmt.Fprintf(out, "failed %s: %v\n", file.Path, file.Err)
		case file.Rewritten:
			fmt.Fprintf(out, "updated %s (%d of %d diagrams)\n", file.Path, file.Rendered, file.Blocks)
		case file.Failed > 0:
			fmt.Fprintf(out, "unchanged %s (%d diagrams failed)\n", file.Path, file.Failed)
		}
	}
	fmt.Fprintf(out, "%d diagrams rendered, %d failed, %d files updated\n",
		report.Rendered(), report.Failed(), len(report.Updated()))
}
