package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/spf13/cobra"
)

func newShowCommand(a *app) *cobra.Command {
	var (
		asHTML  bool
		outline bool
		width   int
	)
	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Preview a post in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result sitecmd.ShowPostResult
			err := a.module.Handlers().ShowPost.Execute(cmd.Context(), sitecmd.ShowPostCommand{
				Slug:     args[0],
				Render:   asHTML || outline,
				Callback: func(r sitecmd.ShowPostResult) { result = r },
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			switch {
			case outline:
				writeOutline(out, result.Document.Outline, 0)
				return nil
			case asHTML:
				_, err := out.Write(result.Document.HTML)
				return err
			}
			return preview(out, result.Post, width)
		},
	}
	cmd.Flags().BoolVar(&asHTML, "html", false, "print rendered HTML instead of a terminal preview")
	cmd.Flags().BoolVar(&outline, "outline", false, "print the heading outline")
	cmd.Flags().IntVar(&width, "width", 100, "word wrap width")
	return cmd
}

func preview(out io.Writer, post *interfaces.Post, width int) error {
	summary := post.Summary()
	var header strings.Builder
	header.WriteString("# " + posts.DisplayTitle(summary) + "\n\n")
	if !summary.FrontMatter.Date.IsZero() {
		header.WriteString("*" + summary.FrontMatter.Date.Format("January 2, 2006") + "*")
	}
	if len(summary.FrontMatter.Tags) > 0 {
		header.WriteString("  `" + strings.Join(summary.FrontMatter.Tags, "` `") + "`")
	}
	header.WriteString("\n\n")

	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return err
	}
	rendered, err := renderer.Render(header.String() + string(post.Body))
	if err != nil {
		return err
	}
	if _, err := io.WriteString(out, rendered); err != nil {
		return err
	}
	for _, warning := range post.Warnings {
		fmt.Fprintf(out, "warning: %s\n", warning)
	}
	return nil
}

func writeOutline(out io.Writer, headings []interfaces.Heading, depth int) {
	for _, heading := range headings {
		fmt.Fprintf(out, "%s- %s (#%s)\n", strings.Repeat("  ", depth), heading.Text, heading.ID)
		writeOutline(out, heading.Children, depth+1)
	}
}
