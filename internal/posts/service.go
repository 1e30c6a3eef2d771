package posts

import (
	"cmp"
	"context"
	"crypto/sha256"
	"slices"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config controls index building.
type Config struct {
	IncludeDrafts bool
}

// Service implements interfaces.PostService over a Store.
type Service struct {
	cfg       Config
	store     *Store
	validator *Validator
	logger    interfaces.Logger
}

// Option mutates a Service during construction.
type Option func(*Service)

// WithValidator replaces the default typed validator.
func WithValidator(v *Validator) Option {
	return func(s *Service) {
		if v != nil {
			s.validator = v
		}
	}
}

// WithLogger sets the logger used for warnings and progress.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

var _ interfaces.PostService = (*Service)(nil)

// NewService constructs a post service backed by store.
func NewService(store *Store, cfg Config, opts ...Option) *Service {
	s := &Service{
		cfg:       cfg,
		store:     store,
		validator: NewValidator(),
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// List returns every published post ordered by date, newest first. Equal
// dates are ordered by slug and undated posts sort last.
func (s *Service) List(ctx context.Context) ([]interfaces.PostSummary, error) {
	posts, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	summaries := make([]interfaces.PostSummary, 0, len(posts))
	for _, post := range posts {
		summaries = append(summaries, post.Summary())
	}
	SortSummaries(summaries)

	s.logger.Debug("posts.list.completed", "dir", s.store.Dir(), "count", len(summaries))
	return summaries, nil
}

// Slugs returns the identifiers of listed posts in index order.
func (s *Service) Slugs(ctx context.Context) ([]string, error) {
	summaries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	slugs := make([]string, len(summaries))
	for i, summary := range summaries {
		slugs[i] = summary.Slug
	}
	return slugs, nil
}

// Get resolves one post by slug. Drafts are hidden unless IncludeDrafts is set.
func (s *Service) Get(ctx context.Context, slug string) (*interfaces.Post, error) {
	file, err := s.store.Read(ctx, slug)
	if err != nil {
		if IsNotFound(err) {
			s.logger.Debug("posts.get.not_found", "slug", slug)
		}
		return nil, err
	}
	post := s.load(file)
	if post.FrontMatter.Draft && !s.cfg.IncludeDrafts {
		return nil, notFound(slug)
	}
	return post, nil
}

func (s *Service) loadAll(ctx context.Context) ([]*interfaces.Post, error) {
	slugs, err := s.store.Slugs(ctx)
	if err != nil {
		s.logger.Error("posts.list.failed", "dir", s.store.Dir(), "error", err)
		return nil, err
	}

	posts := make([]*interfaces.Post, 0, len(slugs))
	for _, slug := range slugs {
		file, err := s.store.Read(ctx, slug)
		if err != nil {
			if IsNotFound(err) {
				// Listed a moment ago; a vanished file means the store changed under us.
				err = storeUnavailable("read", slug+s.store.Extension(), err)
			}
			s.logger.Error("posts.list.failed", "slug", slug, "error", err)
			return nil, err
		}
		post := s.load(file)
		if post.FrontMatter.Draft && !s.cfg.IncludeDrafts {
			continue
		}
		posts = append(posts, post)
	}
	return posts, nil
}

func (s *Service) load(file *File) *interfaces.Post {
	logger := logging.WithPostContext(s.logger, file.Slug, file.Path, "load")

	var warnings []string
	parsed, err := Parse(file.Data)
	if err != nil {
		warnings = append(warnings, "front matter: "+err.Error())
		parsed = Parsed{
			FrontMatter: emptyFrontMatter(),
			Body:        file.Data,
		}
	}
	warnings = append(warnings, parsed.Warnings...)
	warnings = append(warnings, s.validator.Validate(file.Slug, parsed.FrontMatter)...)

	for _, warning := range warnings {
		logger.Warn("posts.frontmatter.warning", "warning", warning)
	}

	sum := sha256.Sum256(file.Data)
	return &interfaces.Post{
		Slug:         file.Slug,
		FilePath:     file.Path,
		FrontMatter:  parsed.FrontMatter,
		Body:         parsed.Body,
		LastModified: file.ModTime,
		Checksum:     sum[:],
		Warnings:     warnings,
	}
}

func emptyFrontMatter() interfaces.FrontMatter {
	return interfaces.FrontMatter{
		Custom: map[string]any{},
		Raw:    map[string]any{},
	}
}

// SortSummaries orders summaries newest first; ties break on slug and zero
// dates sort last.
func SortSummaries(summaries []interfaces.PostSummary) {
	slices.SortStableFunc(summaries, func(a, b interfaces.PostSummary) int {
		ad, bd := a.FrontMatter.Date, b.FrontMatter.Date
		switch {
		case ad.IsZero() && !bd.IsZero():
			return 1
		case !ad.IsZero() && bd.IsZero():
			return -1
		}
		if c := bd.Compare(ad); c != 0 {
			return c
		}
		return cmp.Compare(a.Slug, b.Slug)
	})
}
