package interfaces

import (
	"context"
	"time"
)

// PostService exposes the build-time view of the content store: an ordered
// index of summaries and single post resolution by slug.
type PostService interface {
	// List returns every post summary ordered by publish date, newest first.
	List(ctx context.Context) ([]PostSummary, error)
	// Slugs returns the identifiers used to generate static paths.
	Slugs(ctx context.Context) ([]string, error)
	// Get loads one post (metadata and body) by slug.
	Get(ctx context.Context, slug string) (*Post, error)
}

// FrontMatter is the typed metadata header of a post. Optional fields keep
// their zero value when absent; Custom keeps keys the pipeline does not know
// about and Raw keeps every key as decoded.
type FrontMatter struct {
	Title       string         `yaml:"title,omitempty" json:"title,omitempty"`
	Date        time.Time      `yaml:"date,omitempty" json:"date,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Tags        []string       `yaml:"tags,omitempty" json:"tags,omitempty"`
	Draft       bool           `yaml:"draft,omitempty" json:"draft,omitempty"`
	Custom      map[string]any `yaml:",inline" json:"custom,omitempty"`
	Raw         map[string]any `yaml:"-" json:"-"`
}

// PostSummary is the listing projection of a Post. It never carries the body.
type PostSummary struct {
	Slug        string      `json:"slug"`
	FrontMatter FrontMatter `json:"front_matter"`
}

// Post is a fully loaded content file.
type Post struct {
	Slug         string
	FilePath     string
	FrontMatter  FrontMatter
	Body         []byte
	LastModified time.Time
	// Checksum stores the SHA-256 digest of the source file.
	Checksum []byte
	// Warnings lists metadata problems found while parsing. They never fail a build.
	Warnings []string
}

// Summary projects the post onto its listing view.
func (p *Post) Summary() PostSummary {
	if p == nil {
		return PostSummary{}
	}
	return PostSummary{
		Slug:        p.Slug,
		FrontMatter: p.FrontMatter,
	}
}
