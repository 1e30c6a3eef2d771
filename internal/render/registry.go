package render

import (
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
)

// extensionFactory builds an extender from the service configuration.
type extensionFactory func(cfg Config) goldmark.Extender

var extensionRegistry = map[string]extensionFactory{
	"gfm":           static(extension.GFM),
	"table":         static(extension.Table),
	"tables":        static(extension.Table),
	"strikethrough": static(extension.Strikethrough),
	"linkify":       static(extension.Linkify),
	"autolink":      static(extension.Linkify),
	"tasklist":      static(extension.TaskList),
	"definition":    static(extension.DefinitionList),
	"footnote":      static(extension.Footnote),
	"typographer":   static(extension.Typographer),
	"highlight":     newHighlighting,
	"diagram": func(cfg Config) goldmark.Extender {
		return NewDiagramExtension(cfg.DiagramLanguages...)
	},
}

func static(ext goldmark.Extender) extensionFactory {
	return func(Config) goldmark.Extender { return ext }
}

func newHighlighting(cfg Config) goldmark.Extender {
	style := strings.TrimSpace(cfg.HighlightStyle)
	if style == "" {
		style = "github"
	}
	return highlighting.NewHighlighting(
		highlighting.WithStyle(style),
		highlighting.WithFormatOptions(
			chromahtml.WithClasses(cfg.HighlightCSS),
			chromahtml.WithLineNumbers(cfg.LineNumbers),
		),
	)
}

// collectExtensions resolves names against the registry and custom extenders.
// Unknown names are returned separately so callers can report them.
func collectExtensions(cfg Config, names []string, custom map[string]goldmark.Extender) ([]goldmark.Extender, []string) {
	var (
		extenders []goldmark.Extender
		unknown   []string
	)
	seen := map[string]struct{}{}

	for _, name := range names {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if ext, ok := custom[key]; ok {
			extenders = append(extenders, ext)
			continue
		}
		factory, ok := extensionRegistry[key]
		if !ok {
			unknown = append(unknown, key)
			continue
		}
		extenders = append(extenders, factory(cfg))
	}
	return extenders, unknown
}
