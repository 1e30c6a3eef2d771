package render

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DefaultExtensions is the plugin list used when neither the config nor the
// call names any.
var DefaultExtensions = []string{"gfm", "table", "highlight", "diagram"}

// Config holds the renderer defaults.
type Config struct {
	Extensions       []string
	HardWraps        bool
	SafeMode         bool
	HighlightStyle   string
	HighlightCSS     bool
	LineNumbers      bool
	DiagramLanguages []string
}

// Service implements interfaces.ContentRenderer with goldmark.
type Service struct {
	cfg    Config
	custom map[string]goldmark.Extender
	logger interfaces.Logger
}

// Option mutates a Service during construction.
type Option func(*Service)

// WithLogger sets the logger used for render diagnostics.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// WithExtension registers a named extender that takes precedence over the
// built in registry.
func WithExtension(name string, ext goldmark.Extender) Option {
	return func(s *Service) {
		if ext == nil {
			return
		}
		s.custom[strings.ToLower(strings.TrimSpace(name))] = ext
	}
}

var _ interfaces.ContentRenderer = (*Service)(nil)

// NewService constructs a renderer with the supplied defaults.
func NewService(cfg Config, opts ...Option) *Service {
	if len(cfg.Extensions) == 0 {
		cfg.Extensions = append([]string(nil), DefaultExtensions...)
	}
	s := &Service{
		cfg:    cfg,
		custom: map[string]goldmark.Extender{},
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Render converts markdown into HTML and an outline. Transform failures return
// ErrRenderFailed.
func (s *Service) Render(ctx context.Context, markdown []byte, opts interfaces.RenderOptions) (*interfaces.RenderedDocument, error) {
	return s.render(ctx, "document", markdown, opts)
}

// RenderPost renders post.Body with the post's metadata bound as scope.
// Entries in opts.Scope override the metadata.
func (s *Service) RenderPost(ctx context.Context, post *interfaces.Post, opts interfaces.RenderOptions) (*interfaces.RenderedDocument, error) {
	if post == nil {
		return nil, errors.New("render: post is nil")
	}
	scope := PostScope(post)
	maps.Copy(scope, opts.Scope)
	opts.Scope = scope
	return s.render(ctx, post.Slug, post.Body, opts)
}

// PostScope returns the variables bound for a post: every raw metadata key
// plus the typed fields and slug.
func PostScope(post *interfaces.Post) map[string]any {
	scope := make(map[string]any, len(post.FrontMatter.Raw)+6)
	maps.Copy(scope, post.FrontMatter.Raw)
	scope["slug"] = post.Slug
	scope["title"] = post.FrontMatter.Title
	scope["description"] = post.FrontMatter.Description
	scope["tags"] = append([]string(nil), post.FrontMatter.Tags...)
	if !post.FrontMatter.Date.IsZero() {
		scope["date"] = post.FrontMatter.Date
	}
	return scope
}

func (s *Service) render(ctx context.Context, target string, markdown []byte, opts interfaces.RenderOptions) (doc *interfaces.RenderedDocument, err error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	engine := s.engine(opts)

	// goldmark reports some malformed input by panicking inside extensions.
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("render.panic", "target", target, "panic", r)
			doc, err = nil, renderFailed(target, r)
		}
	}()

	root := engine.Parser().Parse(text.NewReader(markdown))

	var buf bytes.Buffer
	if renderErr := engine.Renderer().Render(&buf, markdown, root); renderErr != nil {
		s.logger.Error("render.failed", "target", target, "error", renderErr)
		return nil, renderFailed(target, renderErr)
	}

	out := &interfaces.RenderedDocument{
		HTML:     buf.Bytes(),
		Outline:  buildOutline(root, markdown),
		Diagrams: countDiagrams(root),
		Scope:    opts.Scope,
	}
	s.logger.Debug("render.completed", "target", target, "bytes", len(out.HTML), "diagrams", out.Diagrams)
	return out, nil
}

func (s *Service) engine(opts interfaces.RenderOptions) goldmark.Markdown {
	names := opts.Extensions
	if len(names) == 0 {
		names = s.cfg.Extensions
	}
	extenders, unknown := collectExtensions(s.cfg, names, s.custom)
	for _, name := range unknown {
		s.logger.Warn("render.extension.unknown", "extension", name)
	}

	rendererOptions := []renderer.Option{}
	if opts.HardWraps || s.cfg.HardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}
	if !opts.SafeMode && !s.cfg.SafeMode {
		// Pre-rendered diagram snippets are raw HTML inside the markdown.
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return goldmark.New(
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(rendererOptions...),
		goldmark.WithExtensions(extenders...),
	)
}
