package interfaces

import "context"

// ContentRenderer turns post bodies into rendered documents. Implementations
// delegate the markdown transform to an external engine; the pipeline only
// selects extensions and binds the post's metadata as scope.
type ContentRenderer interface {
	Render(ctx context.Context, markdown []byte, opts RenderOptions) (*RenderedDocument, error)
	RenderPost(ctx context.Context, post *Post, opts RenderOptions) (*RenderedDocument, error)
}

// RenderOptions customises a single render. Empty values fall back to the
// renderer defaults.
type RenderOptions struct {
	// Extensions names the engine plugins to apply (e.g. "table", "highlight").
	Extensions []string
	HardWraps  bool
	// SafeMode drops raw HTML from the output.
	SafeMode bool
	// Scope binds variables exposed alongside the rendered output.
	Scope map[string]any
}

// RenderedDocument is the build-time output for one post body.
type RenderedDocument struct {
	HTML []byte
	// Outline is the heading tree of the document.
	Outline []Heading
	// Diagrams counts diagram blocks left for client-side rendering.
	Diagrams int
	Scope    map[string]any
}

// Heading is one node of a document outline.
type Heading struct {
	Level    int       `json:"level"`
	ID       string    `json:"id,omitempty"`
	Text     string    `json:"text"`
	Children []Heading `json:"children,omitempty"`
}
