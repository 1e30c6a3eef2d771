package diagrams

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-folio/internal/logging"
	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Config controls the pre-renderer.
type Config struct {
	// Root is walked recursively for content files.
	Root string
	// Extension selects content files, ".md" when empty.
	Extension string
	// Language is the fence tag marking a diagram, "mermaid" when empty.
	Language string
	// OutputDir receives <slug>-diagram-<n>-<theme>.svg artifacts.
	OutputDir string
	// PublicPath is the URL prefix used in rewritten image references.
	PublicPath string
	// Workers above one processes files in parallel, one task per file.
	Workers int

	GraphsDir       string
	GraphsOutputDir string
}

// Service scans content files, renders diagram blocks to light/dark SVG pairs
// and rewrites the sources to reference them.
type Service struct {
	cfg    Config
	engine interfaces.DiagramEngine
	logger interfaces.Logger
}

// Option mutates a Service during construction.
type Option func(*Service)

// WithLogger sets the progress logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *Service) {
		s.logger = logging.Ensure(logger)
	}
}

// NewService constructs a pre-renderer around engine.
func NewService(cfg Config, engine interfaces.DiagramEngine, opts ...Option) *Service {
	if strings.TrimSpace(cfg.Extension) == "" {
		cfg.Extension = ".md"
	}
	if strings.TrimSpace(cfg.Language) == "" {
		cfg.Language = "mermaid"
	}
	if strings.TrimSpace(cfg.PublicPath) == "" {
		cfg.PublicPath = "/diagrams"
	}
	s := &Service{
		cfg:    cfg,
		engine: engine,
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// FileResult summarises one processed file.
type FileResult struct {
	Path      string
	Slug      string
	Blocks    int
	Rendered  int
	Failed    int
	Rewritten bool
	Artifacts []string
	// SharedSlug is set when another file under Root has the same slug. Such
	// files draw diagram indexes from one sequence.
	SharedSlug bool
	Err        error
}

// Report summarises a Run.
type Report struct {
	Files []FileResult
}

// Rendered counts converted blocks across files.
func (r Report) Rendered() int {
	total := 0
	for _, f := range r.Files {
		total += f.Rendered
	}
	return total
}

// Failed counts blocks left in place across files.
func (r Report) Failed() int {
	total := 0
	for _, f := range r.Files {
		total += f.Failed
	}
	return total
}

// Updated lists the rewritten files.
func (r Report) Updated() []string {
	var out []string
	for _, f := range r.Files {
		if f.Rewritten {
			out = append(out, f.Path)
		}
	}
	return out
}

// Errors collects per-file failures such as unreadable sources.
func (r Report) Errors() []error {
	var out []error
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f.Err)
		}
	}
	return out
}

// Run processes every content file under Root. Block and file failures are
// logged and recorded in the report; only setup failures and cancellation
// return an error.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if s.engine == nil {
		return Report{}, errors.New("diagrams: engine is required")
	}
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return Report{}, fmt.Errorf("diagrams: create output dir: %w", err)
	}

	files, err := s.discover(s.cfg.Root, func(path string) bool {
		return filepath.Ext(path) == s.cfg.Extension
	})
	if err != nil {
		return Report{}, err
	}

	alloc, shared := s.prescan(files)
	process := func(ctx context.Context, path string) FileResult {
		result := s.processFile(ctx, path, alloc)
		result.SharedSlug = shared[result.Slug]
		return result
	}

	results := make([]FileResult, len(files))
	if s.cfg.Workers > 1 {
		group, gctx := errgroup.WithContext(ctx)
		group.SetLimit(s.cfg.Workers)
		for i, path := range files {
			group.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = process(gctx, path)
				return nil
			})
		}
		if err := group.Wait(); err != nil {
			return Report{Files: results}, err
		}
	} else {
		for i, path := range files {
			if err := ctx.Err(); err != nil {
				return Report{Files: results[:i]}, err
			}
			results[i] = process(ctx, path)
		}
	}

	report := Report{Files: results}
	s.logger.Info("diagrams.run.completed",
		"files", len(files),
		"rendered", report.Rendered(),
		"failed", report.Failed(),
		"updated", len(report.Updated()),
	)
	return report, ctx.Err()
}

// ProcessFile runs Scan, Render, Rewrite and Persist for one file.
func (s *Service) ProcessFile(ctx context.Context, path string) FileResult {
	return s.processFile(ctx, path, nil)
}

func (s *Service) processFile(ctx context.Context, path string, alloc *indexAllocator) FileResult {
	slug := fileSlug(path)
	result := FileResult{Path: path, Slug: slug}
	logger := logging.WithPostContext(s.logger, slug, path, "diagrams")
	logger.Info("diagrams.file.processing")

	info, err := os.Stat(path)
	if err != nil {
		result.Err = fmt.Errorf("diagrams: stat %s: %w", path, err)
		logger.Error("diagrams.file.failed", "error", result.Err)
		return result
	}
	source, err := os.ReadFile(path)
	if err != nil {
		result.Err = fmt.Errorf("diagrams: read %s: %w", path, err)
		logger.Error("diagrams.file.failed", "error", result.Err)
		return result
	}

	blocks := ScanBody(source, posts.BodyOffset(source), s.cfg.Language)
	result.Blocks = len(blocks)
	if len(blocks) == 0 {
		return result
	}

	base := alloc.reserve(slug, NextIndex(source, slug), len(blocks))
	var replacements []Replacement
	for position, block := range blocks {
		if ctx.Err() != nil {
			break
		}
		id := DiagramID(slug, base+position)
		artifacts, err := s.renderBlock(ctx, id, block.Code)
		if err != nil {
			result.Failed++
			logger.Error("diagrams.block.failed", "diagram", id, "error", err)
			continue
		}
		result.Rendered++
		result.Artifacts = append(result.Artifacts, artifacts...)
		replacements = append(replacements, Replacement{Block: block, Text: Snippet(s.cfg.PublicPath, id)})
		logger.Info("diagrams.block.rendered", "diagram", id)
	}

	if len(replacements) == 0 {
		return result
	}
	if err := os.WriteFile(path, Rewrite(source, replacements), info.Mode().Perm()); err != nil {
		result.Err = fmt.Errorf("diagrams: write %s: %w", path, err)
		logger.Error("diagrams.file.failed", "error", result.Err)
		return result
	}
	result.Rewritten = true
	logger.Info("diagrams.file.updated", "diagrams", len(replacements))
	return result
}

func fileSlug(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

// prescan seeds the index allocator with every index already referenced by
// files sharing a slug and reports the slugs that more than one file uses.
func (s *Service) prescan(files []string) (*indexAllocator, map[string]bool) {
	bySlug := map[string][]string{}
	for _, path := range files {
		slug := fileSlug(path)
		bySlug[slug] = append(bySlug[slug], path)
	}

	alloc := &indexAllocator{next: map[string]int{}}
	shared := map[string]bool{}
	for slug, paths := range bySlug {
		if len(paths) < 2 {
			continue
		}
		shared[slug] = true
		s.logger.Warn("diagrams.slug.shared", "slug", slug, "files", paths)
		for _, path := range paths {
			source, err := os.ReadFile(path)
			if err != nil {
				continue
			}
			alloc.reserve(slug, NextIndex(source, slug), 0)
		}
	}
	return alloc, shared
}

// indexAllocator hands out diagram indexes per slug for one run.
type indexAllocator struct {
	mu   sync.Mutex
	next map[string]int
}

// reserve returns the first index for n new diagrams of slug, never below
// floor. A nil allocator returns floor.
func (a *indexAllocator) reserve(slug string, floor, n int) int {
	if a == nil {
		return floor
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	base := max(floor, a.next[slug])
	a.next[slug] = base + n
	return base
}

// renderBlock writes both theme variants. A failure of either theme fails the
// block so a fence is never swapped for half an image pair.
func (s *Service) renderBlock(ctx context.Context, id, code string) ([]string, error) {
	var written []string
	for _, theme := range interfaces.DiagramThemes {
		svg, err := s.engine.Render(ctx, code, theme)
		if err != nil {
			return nil, blockFailed(id, string(theme), err)
		}
		target := filepath.Join(s.cfg.OutputDir, fmt.Sprintf("%s-%s.svg", id, theme))
		if err := os.WriteFile(target, svg, 0o644); err != nil {
			return nil, blockFailed(id, string(theme), err)
		}
		written = append(written, target)
	}
	return written, nil
}

func (s *Service) discover(root string, keep func(string) bool) ([]string, error) {
	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return fs.SkipDir
			}
			return nil
		}
		if keep(path) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("diagrams: walk %s: %w", root, err)
	}
	slices.Sort(files)
	return files, nil
}
