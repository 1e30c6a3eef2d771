package generator

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"html/template"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultMermaidModule is loaded by post pages that still carry diagram blocks.
const DefaultMermaidModule = "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.esm.min.mjs"

// Config captures runtime behaviour toggles for the generator.
type Config struct {
	OutputDir       string
	BaseURL         string
	SiteTitle       string
	SiteDescription string
	StyleURL        string
	StaticDir       string
	MermaidModule   string
	CleanBuild      bool
	GenerateSitemap bool
	GenerateRobots  bool
	GenerateFeed    bool
}

// BuildOptions narrows the scope of a generator run.
type BuildOptions struct {
	// Slugs limits post pages to the listed identifiers. Empty builds every indexed post.
	Slugs  []string
	DryRun bool
}

// BuildResult reports aggregated build metadata.
type BuildResult struct {
	BuildID      string
	PagesBuilt   int
	PagesSkipped int
	Skipped      []string
	AssetsBuilt  int
	Duration     time.Duration
	Rendered     []RenderedPage
	Diagnostics  []RenderDiagnostic
	DryRun       bool
}

// RenderedPage describes one page produced by a build.
type RenderedPage struct {
	Route        string
	Output       string
	Slug         string
	Template     string
	Checksum     string
	LastModified time.Time
	Size         int
}

// RenderDiagnostic records the outcome of a single page.
type RenderDiagnostic struct {
	Route    string
	Slug     string
	Skipped  bool
	Warnings []string
	Err      error
	Duration time.Duration
}

// SiteMetadata is shared by every page.
type SiteMetadata struct {
	Title       string
	Description string
	BaseURL     string
	FeedURL     string
	StyleURL    string
	GeneratedAt time.Time
}

// Dependencies lists the services required by the generator.
type Dependencies struct {
	Posts    interfaces.PostService
	Renderer interfaces.ContentRenderer
	Pages    interfaces.PageRenderer
	Logger   interfaces.Logger
}

// Service renders the blog into static files.
type Service struct {
	cfg    Config
	deps   Dependencies
	logger interfaces.Logger
	now    func() time.Time
	newID  func() string
}

// NewService wires a generator with the provided configuration and dependencies.
// A nil Pages renderer falls back to the embedded templates.
func NewService(cfg Config, deps Dependencies) *Service {
	if deps.Pages == nil {
		deps.Pages = NewTemplates()
	}
	if strings.TrimSpace(cfg.SiteTitle) == "" {
		cfg.SiteTitle = "Blog"
	}
	if strings.TrimSpace(cfg.MermaidModule) == "" {
		cfg.MermaidModule = DefaultMermaidModule
	}
	return &Service{
		cfg:    cfg,
		deps:   deps,
		logger: logging.Ensure(deps.Logger),
		now:    time.Now,
		newID:  func() string { return uuid.NewString() },
	}
}

// Build renders the index, every post page, the feeds and copies static assets.
// A slug that no longer resolves is skipped with a diagnostic. Any other failure aborts the build.
func (s *Service) Build(ctx context.Context, opts BuildOptions) (*BuildResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.deps.Posts == nil {
		return nil, dependencyMissing("posts")
	}
	if s.deps.Renderer == nil {
		return nil, dependencyMissing("renderer")
	}

	start := time.Now()
	generatedAt := s.now()
	result := &BuildResult{
		BuildID: s.newID(),
		DryRun:  opts.DryRun,
	}
	logger := logging.WithFields(s.logger, map[string]any{"build_id": result.BuildID})
	logger.Info("generator.build.started", "output", s.cfg.OutputDir, "dry_run", opts.DryRun)

	writer := newArtifactWriter(s.cfg.OutputDir, opts.DryRun)
	if s.cfg.CleanBuild {
		if err := writer.Clean(ctx); err != nil {
			return result, writeFailed(s.cfg.OutputDir, err)
		}
	}

	summaries, err := s.deps.Posts.List(ctx)
	if err != nil {
		logger.Error("generator.build.failed", "stage", "list", "error", err)
		return result, err
	}

	site := SiteMetadata{
		Title:       s.cfg.SiteTitle,
		Description: s.cfg.SiteDescription,
		BaseURL:     strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"),
		StyleURL:    s.cfg.StyleURL,
		GeneratedAt: generatedAt,
	}
	if s.cfg.GenerateFeed {
		site.FeedURL = "/feed.xml"
	}

	cards := make([]PostCard, 0, len(summaries))
	for _, summary := range summaries {
		cards = append(cards, newPostCard(summary))
	}
	index := IndexPage{
		Site:        site,
		PageTitle:   site.Title,
		Description: site.Description,
		Posts:       cards,
	}
	for _, route := range []string{"/", "/" + postsSection + "/"} {
		if err := s.writePage(ctx, writer, result, PageIndex, route, "", latestDate(summaries), index); err != nil {
			logger.Error("generator.build.failed", "stage", "index", "error", err)
			return result, err
		}
	}

	slugs := opts.Slugs
	if len(slugs) == 0 {
		slugs = make([]string, 0, len(summaries))
		for _, summary := range summaries {
			slugs = append(slugs, summary.Slug)
		}
	}

	for _, slug := range slugs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.buildPost(ctx, writer, result, site, slug, logger); err != nil {
			logger.Error("generator.build.failed", "stage", "post", "slug", slug, "error", err)
			return result, err
		}
	}

	if s.cfg.GenerateSitemap {
		body := buildSitemap(site.BaseURL, result.Rendered, generatedAt)
		if err := s.writeArtifact(ctx, writer, "sitemap.xml", categorySitemap, "application/xml", body); err != nil {
			return result, err
		}
	}
	if s.cfg.GenerateRobots {
		body := buildRobots(site.BaseURL, s.cfg.GenerateSitemap)
		if err := s.writeArtifact(ctx, writer, "robots.txt", categoryRobots, "text/plain", body); err != nil {
			return result, err
		}
	}
	if s.cfg.GenerateFeed {
		body := buildRSSFeed(site, feedItems(site.BaseURL, summaries), generatedAt)
		if err := s.writeArtifact(ctx, writer, "feed.xml", categoryFeed, "application/rss+xml", body); err != nil {
			return result, err
		}
	}

	assets, err := collectStaticAssets(ctx, s.cfg.StaticDir)
	if err != nil {
		return result, err
	}
	for _, asset := range assets {
		if err := s.copyAsset(ctx, writer, asset); err != nil {
			return result, err
		}
		result.AssetsBuilt++
	}

	result.Duration = time.Since(start)
	logger.Info("generator.build.completed",
		"pages", result.PagesBuilt,
		"skipped", result.PagesSkipped,
		"assets", result.AssetsBuilt,
		"duration", result.Duration.String(),
	)
	return result, nil
}

func (s *Service) buildPost(ctx context.Context, writer artifactWriter, result *BuildResult, site SiteMetadata, slug string, logger interfaces.Logger) error {
	route := PostRoute(slug)
	started := time.Now()
	post, err := s.deps.Posts.Get(ctx, slug)
	if err != nil {
		if posts.IsNotFound(err) {
			result.PagesSkipped++
			result.Skipped = append(result.Skipped, route)
			result.Diagnostics = append(result.Diagnostics, RenderDiagnostic{
				Route:    route,
				Slug:     slug,
				Skipped:  true,
				Err:      err,
				Duration: time.Since(started),
			})
			logger.Warn("generator.page.skipped", "slug", slug, "route", route, "error", err)
			return nil
		}
		return err
	}

	doc, err := s.deps.Renderer.RenderPost(ctx, post, interfaces.RenderOptions{})
	if err != nil {
		result.Diagnostics = append(result.Diagnostics, RenderDiagnostic{
			Route:    route,
			Slug:     slug,
			Warnings: slices.Clone(post.Warnings),
			Err:      err,
			Duration: time.Since(started),
		})
		return err
	}

	card := newPostCard(post.Summary())
	page := PostPage{
		Site:          site,
		PageTitle:     card.Title + " | " + site.Title,
		Description:   card.Description,
		IndexRoute:    "/" + postsSection + "/",
		Post:          card,
		Body:          template.HTML(doc.HTML),
		Outline:       doc.Outline,
		Diagrams:      doc.Diagrams,
		MermaidScript: s.cfg.MermaidModule,
	}
	if err := s.writePage(ctx, writer, result, PagePost, route, slug, post.LastModified, page); err != nil {
		return err
	}
	result.Diagnostics = append(result.Diagnostics, RenderDiagnostic{
		Route:    route,
		Slug:     slug,
		Warnings: slices.Clone(post.Warnings),
		Duration: time.Since(started),
	})
	logger.Debug("generator.page.rendered", "slug", slug, "route", route, "diagrams", doc.Diagrams)
	return nil
}

func (s *Service) writePage(ctx context.Context, writer artifactWriter, result *BuildResult, name, route, slug string, lastModified time.Time, data any) error {
	var buf bytes.Buffer
	if err := s.deps.Pages.Render(&buf, name, data); err != nil {
		return fmt.Errorf("generator: render %s: %w", route, err)
	}
	output := buildOutputPath(route)
	sum := sha256.Sum256(buf.Bytes())
	page := RenderedPage{
		Route:        route,
		Output:       output,
		Slug:         slug,
		Template:     name,
		Checksum:     hex.EncodeToString(sum[:]),
		LastModified: lastModified,
		Size:         buf.Len(),
	}
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        output,
		Content:     bytes.NewReader(buf.Bytes()),
		Category:    categoryPage,
		ContentType: "text/html; charset=utf-8",
	}); err != nil {
		return writeFailed(output, err)
	}
	result.PagesBuilt++
	result.Rendered = append(result.Rendered, page)
	return nil
}

func (s *Service) writeArtifact(ctx context.Context, writer artifactWriter, target string, category writeCategory, contentType, body string) error {
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        target,
		Content:     strings.NewReader(body),
		Category:    category,
		ContentType: contentType,
	}); err != nil {
		return writeFailed(target, err)
	}
	return nil
}

func (s *Service) copyAsset(ctx context.Context, writer artifactWriter, asset staticAsset) error {
	file, err := os.Open(asset.Source)
	if err != nil {
		return writeFailed(asset.Path, err)
	}
	defer file.Close()
	if err := writer.WriteFile(ctx, writeFileRequest{
		Path:        asset.Path,
		Content:     file,
		Category:    categoryAsset,
		ContentType: asset.ContentType,
	}); err != nil {
		return writeFailed(asset.Path, err)
	}
	return nil
}

func latestDate(summaries []interfaces.PostSummary) time.Time {
	var latest time.Time
	for _, summary := range summaries {
		if summary.FrontMatter.Date.After(latest) {
			latest = summary.FrontMatter.Date
		}
	}
	return latest
}
