// Package generator exposes the static blog generator for hosts that bring
// their own post source, renderer or page layouts.
package generator

import internal "github.com/goliatone/go-folio/internal/generator"

type (
	Service          = internal.Service
	Config           = internal.Config
	BuildOptions     = internal.BuildOptions
	BuildResult      = internal.BuildResult
	RenderedPage     = internal.RenderedPage
	RenderDiagnostic = internal.RenderDiagnostic
	Dependencies     = internal.Dependencies
	SiteMetadata     = internal.SiteMetadata
	Templates        = internal.Templates
	IndexPage        = internal.IndexPage
	PostPage         = internal.PostPage
	PostCard         = internal.PostCard
)

const (
	PageIndex = internal.PageIndex
	PagePost  = internal.PagePost
)

var (
	ErrArtifactWriteFailed = internal.ErrArtifactWriteFailed
	ErrDependencyMissing   = internal.ErrDependencyMissing
)

// NewService wires a generator with the supplied configuration and dependencies.
func NewService(cfg Config, deps Dependencies) *Service {
	return internal.NewService(cfg, deps)
}

// NewTemplates returns the embedded page layouts.
func NewTemplates() *Templates {
	return internal.NewTemplates()
}

// PostRoute is the public route of a post page.
func PostRoute(slug string) string {
	return internal.PostRoute(slug)
}
