package di

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/goliatone/go-folio/internal/diagrams"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/internal/logging/gologger"
	"github.com/goliatone/go-folio/internal/logging/zaplogger"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/internal/render"
	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Container wires the pipeline services from a single Config.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	contentFS      fs.FS
	engine         interfaces.DiagramEngine
	pages          interfaces.PageRenderer
	validator      *posts.Validator

	store     *posts.Store
	posts     *posts.Service
	renderer  *render.Service
	diagrams  *diagrams.Service
	generator *generator.Service

	closers []func() error
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithLoggerProvider overrides the provider selected by Config.Logging.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		if provider != nil {
			c.loggerProvider = provider
		}
	}
}

// WithContentFS serves posts from fsys instead of Config.Content.Dir on disk.
func WithContentFS(fsys fs.FS) Option {
	return func(c *Container) {
		c.contentFS = fsys
	}
}

// WithDiagramEngine overrides the engine selected by Config.Diagrams.Engine.
func WithDiagramEngine(engine interfaces.DiagramEngine) Option {
	return func(c *Container) {
		c.engine = engine
	}
}

// WithPageRenderer replaces the embedded page templates.
func WithPageRenderer(pages interfaces.PageRenderer) Option {
	return func(c *Container) {
		c.pages = pages
	}
}

// WithValidator replaces the front-matter validator built from Config.Content.SchemaPath.
func WithValidator(validator *posts.Validator) Option {
	return func(c *Container) {
		c.validator = validator
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Container{Config: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}

	if err := c.configureLoggerProvider(); err != nil {
		return nil, err
	}
	if err := c.configurePosts(); err != nil {
		return nil, err
	}
	c.configureRenderer()
	if err := c.configureDiagrams(); err != nil {
		return nil, err
	}
	c.configureGenerator()
	return c, nil
}

func (c *Container) configureLoggerProvider() error {
	if c.loggerProvider != nil {
		return nil
	}
	logCfg := c.Config.Logging
	switch strings.ToLower(strings.TrimSpace(logCfg.Provider)) {
	case "gologger":
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     logCfg.Level,
			Format:    logCfg.Format,
			AddSource: logCfg.AddSource,
			Focus:     logCfg.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	case "zap":
		provider, err := zaplogger.NewProvider(zaplogger.Config{
			Level:  logCfg.Level,
			Format: logCfg.Format,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
		c.closers = append(c.closers, provider.Sync)
	default:
		opts := console.Options{}
		if level, ok := console.ParseLevel(logCfg.Level); ok {
			opts.MinLevel = &level
		}
		c.loggerProvider = console.NewProvider(opts)
	}
	return nil
}

func (c *Container) configurePosts() error {
	content := c.Config.Content
	storeCfg := posts.StoreConfig{Dir: content.Dir, Extension: content.ContentExtension()}
	if c.contentFS != nil {
		c.store = posts.NewStore(c.contentFS, storeCfg)
	} else {
		c.store = posts.NewDirStore(storeCfg)
	}

	if c.validator == nil {
		if path := strings.TrimSpace(content.SchemaPath); path != "" {
			validator, err := posts.NewSchemaValidator(path)
			if err != nil {
				return err
			}
			c.validator = validator
		} else {
			c.validator = posts.NewValidator()
		}
	}

	c.posts = posts.NewService(c.store, posts.Config{IncludeDrafts: content.IncludeDrafts},
		posts.WithValidator(c.validator),
		posts.WithLogger(logging.PostsLogger(c.loggerProvider)),
	)
	return nil
}

func (c *Container) configureRenderer() {
	md := c.Config.Markdown
	c.renderer = render.NewService(render.Config{
		Extensions:       md.Extensions,
		HardWraps:        md.HardWraps,
		SafeMode:         md.SafeMode,
		HighlightStyle:   md.HighlightStyle,
		HighlightCSS:     md.HighlightCSS,
		LineNumbers:      md.LineNumbers,
		DiagramLanguages: []string{c.Config.Diagrams.Language},
	}, render.WithLogger(logging.RenderLogger(c.loggerProvider)))
}

func (c *Container) configureDiagrams() error {
	cfg := c.Config.Diagrams
	if c.engine == nil {
		engine, err := diagrams.NewEngine(cfg)
		if err != nil {
			return err
		}
		c.engine = engine
		if closer, ok := engine.(io.Closer); ok {
			c.closers = append(c.closers, closer.Close)
		}
	}
	root := cfg.Root
	if strings.TrimSpace(root) == "" {
		root = c.Config.Content.Dir
	}
	c.diagrams = diagrams.NewService(diagrams.Config{
		Root:            root,
		Extension:       c.Config.Content.ContentExtension(),
		Language:        cfg.Language,
		OutputDir:       cfg.OutputDir,
		PublicPath:      cfg.PublicPath,
		Workers:         cfg.Workers,
		GraphsDir:       cfg.GraphsDir,
		GraphsOutputDir: cfg.GraphsOutputDir,
	}, c.engine, diagrams.WithLogger(logging.DiagramsLogger(c.loggerProvider)))
	return nil
}

func (c *Container) configureGenerator() {
	cfg := c.Config.Generator
	c.generator = generator.NewService(generator.Config{
		OutputDir:       cfg.OutputDir,
		BaseURL:         cfg.BaseURL,
		SiteTitle:       cfg.SiteTitle,
		SiteDescription: cfg.SiteDescription,
		StyleURL:        cfg.StyleURL,
		StaticDir:       cfg.StaticDir,
		CleanBuild:      cfg.CleanBuild,
		GenerateSitemap: cfg.GenerateSitemap,
		GenerateRobots:  cfg.GenerateRobots,
		GenerateFeed:    cfg.GenerateFeed,
	}, generator.Dependencies{
		Posts:    c.posts,
		Renderer: c.renderer,
		Pages:    c.pages,
		Logger:   logging.GeneratorLogger(c.loggerProvider),
	})
}

// LoggerProvider returns the active logger provider.
func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// PostService returns the post index and resolver.
func (c *Container) PostService() *posts.Service { return c.posts }

// Renderer returns the goldmark content renderer.
func (c *Container) Renderer() *render.Service { return c.renderer }

// DiagramService returns the mermaid pre-renderer.
func (c *Container) DiagramService() *diagrams.Service { return c.diagrams }

// DiagramEngine returns the engine used by the pre-renderer.
func (c *Container) DiagramEngine() interfaces.DiagramEngine { return c.engine }

// Generator returns the static site generator.
func (c *Container) Generator() *generator.Service { return c.generator }

// Close releases the diagram engine and flushes buffered loggers.
func (c *Container) Close() error {
	var errs error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil && !isIgnorableSyncError(err) {
			errs = errors.Join(errs, err)
		}
	}
	c.closers = nil
	return errs
}

// zap reports EINVAL/ENOTTY when syncing a terminal stdout.
func isIgnorableSyncError(err error) bool {
	var pathErr *os.PathError
	return errors.As(err, &pathErr) && pathErr.Op == "sync"
}
