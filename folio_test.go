package folio_test

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	folio "github.com/goliatone/go-folio"
	sitecmd "github.com/goliatone/go-folio/internal/commands/site"
	"github.com/goliatone/go-folio/internal/logging/console"
	"github.com/goliatone/go-folio/pkg/interfaces"
	"github.com/google/go-cmp/cmp"
)

type svgEngine struct{}

func (svgEngine) Render(_ context.Context, _ string, theme interfaces.DiagramTheme) ([]byte, error) {
	return []byte("<svg data-theme=\"" + string(theme) + "\"/>"), nil
}

type recordingRegistry struct {
	handlers []any
	fail     bool
}

func (r *recordingRegistry) RegisterCommand(handler any) error {
	r.handlers = append(r.handlers, handler)
	if r.fail {
		return errors.New("registry closed")
	}
	return nil
}

func blogFS() fstest.MapFS {
	return fstest.MapFS{
		"a.md": {Data: []byte("---\ntitle: First\ndate: 2023-01-01\ntags: [intro, meta]\n---\n# Hello\n\nBody with `code`.\n")},
		"b.md": {Data: []byte("---\ntitle: Flow\ndate: 2024-06-15\n---\n## Diagram\n\n```mermaid\ngraph TD; A-->B;\n```\n")},
	}
}

func newModule(t *testing.T, mutate func(*folio.Config)) *folio.Module {
	t.Helper()
	cfg := folio.DefaultConfig()
	cfg.Generator.OutputDir = filepath.Join(t.TempDir(), "dist")
	cfg.Generator.StaticDir = ""
	if mutate != nil {
		mutate(&cfg)
	}
	module, err := folio.New(cfg,
		folio.WithContentFS(blogFS()),
		folio.WithDiagramEngine(svgEngine{}),
		folio.WithLoggerProvider(console.NewProvider(console.Options{Writer: io.Discard})),
	)
	if err != nil {
		t.Fatalf("folio.New: %v", err)
	}
	t.Cleanup(func() { _ = module.Close() })
	return module
}

func TestModuleListsPostsNewestFirst(t *testing.T) {
	module := newModule(t, nil)

	summaries, err := module.Posts().List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var slugs []string
	for _, summary := range summaries {
		slugs = append(slugs, summary.Slug)
	}
	if diff := cmp.Diff([]string{"b", "a"}, slugs); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}

	if _, err := module.Posts().Get(context.Background(), "missing-post"); !errors.Is(err, folio.ErrPostNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestModuleBuildRendersSite(t *testing.T) {
	module := newModule(t, nil)

	var result *folio.BuildResult
	err := module.Handlers().BuildSite.Execute(context.Background(), sitecmd.BuildSiteCommand{
		ResultCallback: func(r *folio.BuildResult) { result = r },
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if result == nil || result.PagesBuilt != 4 || result.BuildID == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	out := module.Config().Generator.OutputDir
	page, err := os.ReadFile(filepath.Join(out, "blogs", "b", "index.html"))
	if err != nil {
		t.Fatalf("read post page: %v", err)
	}
	if !strings.Contains(string(page), `<pre class="mermaid">`) {
		t.Fatalf("expected client-side diagram block:\n%s", page)
	}
	if _, err := os.Stat(filepath.Join(out, "feed.xml")); err != nil {
		t.Fatalf("expected feed: %v", err)
	}
}

func TestModuleRenderPostOutline(t *testing.T) {
	module := newModule(t, nil)

	post, err := module.Posts().Get(context.Background(), "a")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	doc, err := module.Renderer().RenderPost(context.Background(), post, interfaces.RenderOptions{})
	if err != nil {
		t.Fatalf("RenderPost: %v", err)
	}
	if len(doc.Outline) != 1 || doc.Outline[0].Text != "Hello" {
		t.Fatalf("unexpected outline %+v", doc.Outline)
	}
	if doc.Scope["slug"] != "a" {
		t.Fatalf("expected slug in scope, got %+v", doc.Scope)
	}
}

func TestRegisterCommandsJoinsErrors(t *testing.T) {
	module := newModule(t, nil)

	registry := &recordingRegistry{}
	result, err := module.RegisterCommands(folio.RegistrationOptions{Registry: registry})
	if err != nil {
		t.Fatalf("RegisterCommands: %v", err)
	}
	if len(registry.handlers) != 5 || len(result.Handlers.All()) != 5 {
		t.Fatalf("expected five handlers, got %d", len(registry.handlers))
	}

	failing := &recordingRegistry{fail: true}
	if _, err := module.RegisterCommands(folio.RegistrationOptions{Registry: failing}); err == nil {
		t.Fatal("expected joined registration error")
	}
	if len(failing.handlers) != 5 {
		t.Fatalf("expected registration to continue after failures, got %d", len(failing.handlers))
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := folio.DefaultConfig()
	cfg.Logging.Provider = "syslog"
	if _, err := folio.New(cfg); !errors.Is(err, folio.ErrLoggingProviderUnknown) {
		t.Fatalf("expected logging provider error, got %v", err)
	}
}
