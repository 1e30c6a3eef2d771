package main

import (
	"fmt"
	"time"

	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/spf13/cobra"
)

func newBuildCommand(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "build [slug...]",
		Short: "Render the blog into the output directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *generator.BuildResult
			err := a.module.Handlers().BuildSite.Execute(cmd.Context(), sitecmd.BuildSiteCommand{
				Slugs:          args,
				DryRun:         dryRun,
				ResultCallback: func(r *generator.BuildResult) { result = r },
			})
			if result != nil {
				printBuildResult(cmd, result)
			}
			return err
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "render without writing files")
	cmd.Flags().String("out", "", "output directory")
	cmd.Flags().String("base-url", "", "absolute site URL used by sitemap and feed")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}

func printBuildResult(cmd *cobra.Command, result *generator.BuildResult) {
	out := cmd.OutOrStdout()
	mode := "built"
	if result.DryRun {
		mode = "rendered (dry run)"
	}
	fmt.Fprintf(out, "%s %d pages, %d assets in %s [build %s]\n",
		mode, result.PagesBuilt, result.AssetsBuilt, result.Duration.Round(time.Millisecond), result.BuildID)
	for _, route := range result.Skipped {
		fmt.Fprintf(out, "  skipped %s\n", route)
	}
	for _, diag := range result.Diagnostics {
		for _, warning := range diag.Warnings {
			fmt.Fprintf(out, "  %s: %s\n", diag.Slug, warning)
		}
	}
}
