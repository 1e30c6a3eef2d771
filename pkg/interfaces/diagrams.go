package interfaces

import "context"

// DiagramTheme selects the colour scheme an engine renders with.
type DiagramTheme string

const (
	DiagramThemeLight DiagramTheme = "light"
	DiagramThemeDark  DiagramTheme = "dark"
)

// DiagramThemes lists the themes every diagram is rendered in, in order.
var DiagramThemes = []DiagramTheme{DiagramThemeLight, DiagramThemeDark}

// DiagramEngine renders diagram source into a static SVG document. Calls are
// blocking; the caller owns scheduling.
type DiagramEngine interface {
	Render(ctx context.Context, source string, theme DiagramTheme) ([]byte, error)
}
