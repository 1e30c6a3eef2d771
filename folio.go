package folio

import (
	"io/fs"

	"github.com/goliatone/go-folio/internal/commands"
	diagramscmd "github.com/goliatone/go-folio/internal/commands/diagrams"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/di"
	"github.com/goliatone/go-folio/internal/diagrams"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// PostService exports the post index and resolver contract.
type PostService = interfaces.PostService

// ContentRenderer exports the markdown renderer contract.
type ContentRenderer = interfaces.ContentRenderer

// DiagramEngine exports the diagram engine contract.
type DiagramEngine = interfaces.DiagramEngine

// GeneratorService exports the static site generator.
type GeneratorService = *generator.Service

// DiagramService exports the mermaid pre-renderer.
type DiagramService = *diagrams.Service

type (
	Post             = interfaces.Post
	PostSummary      = interfaces.PostSummary
	FrontMatter      = interfaces.FrontMatter
	RenderedDocument = interfaces.RenderedDocument
	BuildOptions     = generator.BuildOptions
	BuildResult      = generator.BuildResult
	DiagramReport    = diagrams.Report
	GraphResult      = diagrams.GraphResult
)

var (
	ErrPostNotFound            = posts.ErrPostNotFound
	ErrContentStoreUnavailable = posts.ErrContentStoreUnavailable
	ErrFrontMatterMalformed    = posts.ErrFrontMatterMalformed
)

// Option customises module construction.
type Option = di.Option

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return di.WithLoggerProvider(provider)
}

// WithContentFS serves posts from fsys instead of the content directory.
func WithContentFS(fsys fs.FS) Option { return di.WithContentFS(fsys) }

// WithDiagramEngine overrides the configured diagram engine.
func WithDiagramEngine(engine DiagramEngine) Option { return di.WithDiagramEngine(engine) }

// WithPageRenderer replaces the embedded page templates.
func WithPageRenderer(pages interfaces.PageRenderer) Option { return di.WithPageRenderer(pages) }

// Module represents the top level pipeline façade.
type Module struct {
	container *di.Container
}

// New constructs a module from cfg.
func New(cfg Config, opts ...Option) (*Module, error) {
	container, err := di.NewContainer(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return &Module{container: container}, nil
}

// Container exposes the underlying DI container for advanced integrations.
func (m *Module) Container() *di.Container {
	return m.container
}

// Config returns the validated configuration.
func (m *Module) Config() Config {
	return m.container.Config
}

// Posts returns the post index and resolver.
func (m *Module) Posts() PostService {
	return m.container.PostService()
}

// Renderer returns the content renderer.
func (m *Module) Renderer() ContentRenderer {
	return m.container.Renderer()
}

// Diagrams returns the diagram pre-renderer.
func (m *Module) Diagrams() DiagramService {
	return m.container.DiagramService()
}

// Generator returns the static site generator.
func (m *Module) Generator() GeneratorService {
	return m.container.Generator()
}

// Logger returns a logger scoped to module, e.g. "folio.cli".
func (m *Module) Logger(module string) interfaces.Logger {
	return m.container.LoggerProvider().GetLogger(module)
}

// Close releases engine and logger resources.
func (m *Module) Close() error {
	if m == nil || m.container == nil {
		return nil
	}
	return m.container.Close()
}

// Handlers groups the command handlers built over the module services.
type Handlers struct {
	BuildSite      *sitecmd.BuildSiteHandler
	ListPosts      *sitecmd.ListPostsHandler
	ShowPost       *sitecmd.ShowPostHandler
	RenderDiagrams *diagramscmd.RenderDiagramsHandler
	GenerateGraphs *diagramscmd.GenerateGraphsHandler
}

// Handlers builds the command handlers with command-scoped loggers.
func (m *Module) Handlers() Handlers {
	provider := m.container.LoggerProvider()
	return Handlers{
		BuildSite:      sitecmd.NewBuildSiteHandler(m.container.Generator(), commands.CommandLogger(provider, "site")),
		ListPosts:      sitecmd.NewListPostsHandler(m.container.PostService(), commands.CommandLogger(provider, "site")),
		ShowPost:       sitecmd.NewShowPostHandler(m.container.PostService(), m.container.Renderer(), commands.CommandLogger(provider, "site")),
		RenderDiagrams: diagramscmd.NewRenderDiagramsHandler(m.container.DiagramService(), commands.CommandLogger(provider, "diagrams")),
		GenerateGraphs: diagramscmd.NewGenerateGraphsHandler(m.container.DiagramService(), commands.CommandLogger(provider, "diagrams")),
	}
}

// All lists the handlers for registries and dispatchers.
func (h Handlers) All() []any {
	return []any{h.BuildSite, h.ListPosts, h.ShowPost, h.RenderDiagrams, h.GenerateGraphs}
}
