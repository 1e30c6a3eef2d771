package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrContentDirRequired         = errors.New("folio config: content directory is required")
	ErrContentExtensionInvalid    = errors.New("folio config: content extension must start with a dot")
	ErrDiagramLanguageRequired    = errors.New("folio config: diagram language is required")
	ErrDiagramOutputDirRequired   = errors.New("folio config: diagram output directory is required")
	ErrDiagramEngineUnknown       = errors.New("folio config: diagram engine is invalid")
	ErrDiagramWorkersInvalid      = errors.New("folio config: diagram workers must be zero or positive")
	ErrMarkdownExtensionUnknown   = errors.New("folio config: markdown extension is invalid")
	ErrGeneratorOutputDirRequired = errors.New("folio config: generator output directory is required")
	ErrLoggingProviderRequired    = errors.New("folio config: logging provider is required")
	ErrLoggingProviderUnknown     = errors.New("folio config: logging provider is invalid")
	ErrLoggingLevelInvalid        = errors.New("folio config: logging level is invalid")
	ErrLoggingFormatInvalid       = errors.New("folio config: logging format is invalid")
)

// Config is passed explicitly into every pipeline entry point. Nothing in the
// module reads package level state.
type Config struct {
	Content   ContentConfig   `mapstructure:"content"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Diagrams  DiagramsConfig  `mapstructure:"diagrams"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ContentConfig locates the post store.
type ContentConfig struct {
	Dir           string `mapstructure:"dir"`
	Extension     string `mapstructure:"extension"`
	IncludeDrafts bool   `mapstructure:"include_drafts"`
	// SchemaPath points at an optional JSON schema applied to front matter.
	SchemaPath string `mapstructure:"schema_path"`
}

// MarkdownConfig selects goldmark extensions and highlighting options.
type MarkdownConfig struct {
	Extensions     []string `mapstructure:"extensions"`
	HardWraps      bool     `mapstructure:"hard_wraps"`
	SafeMode       bool     `mapstructure:"safe_mode"`
	HighlightStyle string   `mapstructure:"highlight_style"`
	HighlightCSS   bool     `mapstructure:"highlight_css"`
	LineNumbers    bool     `mapstructure:"line_numbers"`
}

// DiagramsConfig drives the offline diagram pre-renderer.
type DiagramsConfig struct {
	// Root is walked recursively for files carrying diagram fences.
	Root            string `mapstructure:"root"`
	Language        string `mapstructure:"language"`
	OutputDir       string `mapstructure:"output_dir"`
	PublicPath      string `mapstructure:"public_path"`
	Engine          string `mapstructure:"engine"`
	MermaidCLI      string `mapstructure:"mermaid_cli"`
	MermaidScript   string `mapstructure:"mermaid_script"`
	BrowserBin      string `mapstructure:"browser_bin"`
	Background      string `mapstructure:"background"`
	Workers         int    `mapstructure:"workers"`
	GraphsDir       string `mapstructure:"graphs_dir"`
	GraphsOutputDir string `mapstructure:"graphs_output_dir"`
}

// GeneratorConfig captures behaviour for the static site generator.
type GeneratorConfig struct {
	OutputDir       string `mapstructure:"output_dir"`
	BaseURL         string `mapstructure:"base_url"`
	SiteTitle       string `mapstructure:"site_title"`
	SiteDescription string `mapstructure:"site_description"`
	StyleURL        string `mapstructure:"style_url"`
	StaticDir       string `mapstructure:"static_dir"`
	CleanBuild      bool   `mapstructure:"clean_build"`
	DryRun          bool   `mapstructure:"dry_run"`
	GenerateSitemap bool   `mapstructure:"generate_sitemap"`
	GenerateRobots  bool   `mapstructure:"generate_robots"`
	GenerateFeed    bool   `mapstructure:"generate_feed"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// Engine identifiers accepted by DiagramsConfig.Engine.
const (
	EngineMermaidCLI = "mmdc"
	EngineBrowser    = "browser"
)

// DefaultMarkdownExtensions mirrors the plugin list the blog has always used:
// tables and highlighting, plus GFM and client side diagram blocks.
var DefaultMarkdownExtensions = []string{"gfm", "table", "highlight", "diagram"}

// KnownMarkdownExtensions lists every extension name the renderer registers.
var KnownMarkdownExtensions = []string{
	"gfm", "table", "strikethrough", "linkify", "tasklist", "footnote",
	"definition", "typographer", "highlight", "diagram",
}

// DefaultConfig returns the defaults used by the CLIs.
func DefaultConfig() Config {
	return Config{
		Content: ContentConfig{
			Dir:       "content/blogs",
			Extension: ".md",
		},
		Markdown: MarkdownConfig{
			Extensions:     append([]string(nil), DefaultMarkdownExtensions...),
			HighlightStyle: "github",
		},
		Diagrams: DiagramsConfig{
			Root:            "content",
			Language:        "mermaid",
			OutputDir:       "public/diagrams",
			PublicPath:      "/diagrams",
			Engine:          EngineMermaidCLI,
			MermaidCLI:      "mmdc",
			MermaidScript:   "https://cdn.jsdelivr.net/npm/mermaid@10/dist/mermaid.min.js",
			Background:      "transparent",
			Workers:         0,
			GraphsDir:       "mermaid",
			GraphsOutputDir: "public/graphs",
		},
		Generator: GeneratorConfig{
			OutputDir:       "dist",
			SiteTitle:       "Blog",
			StaticDir:       "public",
			CleanBuild:      true,
			GenerateSitemap: true,
			GenerateRobots:  true,
			GenerateFeed:    true,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if ext := strings.TrimSpace(cfg.Content.Extension); ext != "" && !strings.HasPrefix(ext, ".") {
		return fmt.Errorf("%w: %s", ErrContentExtensionInvalid, ext)
	}
	for _, name := range cfg.Markdown.Extensions {
		if !isKnownExtension(name) {
			return fmt.Errorf("%w: %s", ErrMarkdownExtensionUnknown, name)
		}
	}
	if strings.TrimSpace(cfg.Diagrams.Language) == "" {
		return ErrDiagramLanguageRequired
	}
	if strings.TrimSpace(cfg.Diagrams.OutputDir) == "" {
		return ErrDiagramOutputDirRequired
	}
	switch engine := normalize(cfg.Diagrams.Engine); engine {
	case "", EngineMermaidCLI, EngineBrowser:
	default:
		return fmt.Errorf("%w: %s", ErrDiagramEngineUnknown, engine)
	}
	if cfg.Diagrams.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrDiagramWorkersInvalid, cfg.Diagrams.Workers)
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrGeneratorOutputDirRequired
	}

	provider := normalize(cfg.Logging.Provider)
	if provider == "" {
		return ErrLoggingProviderRequired
	}
	if !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider != "console" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

// ContentExtension returns the configured extension, defaulting to ".md".
func (cfg ContentConfig) ContentExtension() string {
	if ext := strings.TrimSpace(cfg.Extension); ext != "" {
		return ext
	}
	return ".md"
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isKnownExtension(name string) bool {
	name = normalize(name)
	for _, known := range KnownMarkdownExtensions {
		if known == name {
			return true
		}
	}
	return false
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger", "zap":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
