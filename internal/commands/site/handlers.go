package sitecmd

import (
	"context"
	"slices"
	"strings"

	"github.com/goliatone/go-folio/internal/commands"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// SiteBuilder is the generator surface used by BuildSiteHandler.
type SiteBuilder interface {
	Build(ctx context.Context, opts generator.BuildOptions) (*generator.BuildResult, error)
}

// BuildSiteHandler runs generator builds through the shared command handler.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler constructs a handler wired to the provided generator.
func NewBuildSiteHandler(builder SiteBuilder, logger interfaces.Logger, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		options := generator.BuildOptions{DryRun: msg.DryRun}
		for _, slug := range msg.Slugs {
			options.Slugs = append(options.Slugs, strings.TrimSpace(slug))
		}
		result, err := builder.Build(ctx, options)
		if msg.ResultCallback != nil && result != nil {
			msg.ResultCallback(result)
		}
		return err
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand]("site.build"),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{}
			if len(msg.Slugs) > 0 {
				fields["slugs"] = len(msg.Slugs)
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[BuildSiteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ListPostsHandler returns the post index.
type ListPostsHandler struct {
	inner *commands.Handler[ListPostsCommand]
}

// NewListPostsHandler constructs a handler over the post service.
func NewListPostsHandler(posts interfaces.PostService, logger interfaces.Logger, opts ...commands.HandlerOption[ListPostsCommand]) *ListPostsHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ListPostsCommand) error {
		summaries, err := posts.List(ctx)
		if err != nil {
			return err
		}
		if tag := strings.TrimSpace(msg.Tag); tag != "" {
			summaries = slices.DeleteFunc(summaries, func(summary interfaces.PostSummary) bool {
				return !slices.ContainsFunc(summary.FrontMatter.Tags, func(candidate string) bool {
					return strings.EqualFold(candidate, tag)
				})
			})
		}
		msg.Callback(summaries)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ListPostsCommand]{
		commands.WithLogger[ListPostsCommand](baseLogger),
		commands.WithOperation[ListPostsCommand]("site.list"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ListPostsHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ListPostsCommand].
func (h *ListPostsHandler) Execute(ctx context.Context, msg ListPostsCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ShowPostHandler resolves a post and optionally renders it.
type ShowPostHandler struct {
	inner *commands.Handler[ShowPostCommand]
}

// NewShowPostHandler constructs a handler over the post service and content renderer.
func NewShowPostHandler(posts interfaces.PostService, renderer interfaces.ContentRenderer, logger interfaces.Logger, opts ...commands.HandlerOption[ShowPostCommand]) *ShowPostHandler {
	baseLogger := logging.Ensure(logger)

	exec := func(ctx context.Context, msg ShowPostCommand) error {
		post, err := posts.Get(ctx, strings.TrimSpace(msg.Slug))
		if err != nil {
			return err
		}
		result := ShowPostResult{Post: post}
		if msg.Render && renderer != nil {
			doc, err := renderer.RenderPost(ctx, post, interfaces.RenderOptions{})
			if err != nil {
				return err
			}
			result.Document = doc
		}
		msg.Callback(result)
		return nil
	}

	handlerOpts := []commands.HandlerOption[ShowPostCommand]{
		commands.WithLogger[ShowPostCommand](baseLogger),
		commands.WithOperation[ShowPostCommand]("site.show"),
		commands.WithMessageFields(func(msg ShowPostCommand) map[string]any {
			return map[string]any{"slug": msg.Slug}
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ShowPostHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ShowPostCommand].
func (h *ShowPostHandler) Execute(ctx context.Context, msg ShowPostCommand) error {
	return h.inner.Execute(ctx, msg)
}
