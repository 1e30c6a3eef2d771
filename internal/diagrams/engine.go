package diagrams

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-folio/internal/runtimeconfig"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// EngineTheme maps a site theme to the mermaid theme name.
func EngineTheme(theme interfaces.DiagramTheme) string {
	if theme == interfaces.DiagramThemeDark {
		return "dark"
	}
	return "default"
}

// NewEngine builds the engine selected in cfg. Callers should close the result
// when it implements io.Closer.
func NewEngine(cfg runtimeconfig.DiagramsConfig) (interfaces.DiagramEngine, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Engine)) {
	case "", runtimeconfig.EngineMermaidCLI:
		return NewCLIEngine(CLIConfig{
			Bin:        cfg.MermaidCLI,
			Background: cfg.Background,
		}), nil
	case runtimeconfig.EngineBrowser:
		return NewBrowserEngine(BrowserConfig{
			Bin:        cfg.BrowserBin,
			Script:     cfg.MermaidScript,
			Background: cfg.Background,
		}), nil
	default:
		return nil, fmt.Errorf("diagrams: unknown engine %q", cfg.Engine)
	}
}
