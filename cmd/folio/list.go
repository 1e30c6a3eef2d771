package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	draftStyle  = cellStyle.Foreground(lipgloss.Color("8"))
)

func newListCommand(a *app) *cobra.Command {
	var tag string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List posts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.module.Handlers().ListPosts.Execute(cmd.Context(), sitecmd.ListPostsCommand{
				Tag: tag,
				Callback: func(summaries []interfaces.PostSummary) {
					if len(summaries) == 0 {
						fmt.Fprintln(cmd.OutOrStdout(), "No blog posts yet.")
						return
					}
					fmt.Fprintln(cmd.OutOrStdout(), postTable(summaries))
				},
			})
		},
	}
	cmd.Flags().StringVar(&tag, "tag", "", "only list posts with this tag")
	cmd.Flags().Bool("drafts", false, "include draft posts")
	return cmd
}

func postTable(summaries []interfaces.PostSummary) string {
	rows := make([][]string, 0, len(summaries))
	for _, summary := range summaries {
		date := "-"
		if !summary.FrontMatter.Date.IsZero() {
			date = summary.FrontMatter.Date.Format("2006-01-02")
		}
		rows = append(rows, []string{
			date,
			summary.Slug,
			posts.DisplayTitle(summary),
			strings.Join(summary.FrontMatter.Tags, ", "),
		})
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("DATE", "SLUG", "TITLE", "TAGS").
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if row >= 0 && row < len(summaries) && summaries[row].FrontMatter.Draft {
				return draftStyle
			}
			return cellStyle
		}).
		String()
}
