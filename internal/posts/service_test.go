package posts

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func newFixtureService(t *testing.T, cfg Config) *Service {
	t.Helper()
	store := NewDirStore(StoreConfig{Dir: filepath.Join("testdata", "blog")})
	return NewService(store, cfg)
}

func TestListOrdersNewestFirst(t *testing.T) {
	svc := newFixtureService(t, Config{})

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}

	var slugs []string
	for _, summary := range summaries {
		slugs = append(slugs, summary.Slug)
	}
	if diff := cmp.Diff([]string{"b", "no-tags", "a"}, slugs); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	for i := 1; i < len(summaries); i++ {
		if summaries[i-1].FrontMatter.Date.Before(summaries[i].FrontMatter.Date) {
			t.Fatalf("summary %d is older than summary %d", i-1, i)
		}
	}
}

func TestEveryListedSlugResolves(t *testing.T) {
	svc := newFixtureService(t, Config{})
	ctx := context.Background()

	slugs, err := svc.Slugs(ctx)
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if len(slugs) == 0 {
		t.Fatal("expected fixture slugs")
	}
	for _, slug := range slugs {
		post, err := svc.Get(ctx, slug)
		if err != nil {
			t.Fatalf("Get(%q): %v", slug, err)
		}
		if post.Slug != slug {
			t.Fatalf("expected slug %q, got %q", slug, post.Slug)
		}
		if len(post.Checksum) != 32 {
			t.Fatalf("expected sha256 checksum for %q", slug)
		}
	}
}

func TestGetReturnsBodyAndMetadata(t *testing.T) {
	svc := newFixtureService(t, Config{})

	post, err := svc.Get(context.Background(), "b")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if post.FrontMatter.Title != "Diagrams at Build Time" {
		t.Fatalf("unexpected title %q", post.FrontMatter.Title)
	}
	if !strings.Contains(string(post.Body), "graph TD; A-->B;") {
		t.Fatalf("expected body to contain diagram source, got %q", post.Body)
	}
	if strings.Contains(string(post.Body), "title:") {
		t.Fatalf("front matter leaked into body")
	}
	if post.FilePath != filepath.Join("testdata", "blog", "b.md") {
		t.Fatalf("unexpected file path %q", post.FilePath)
	}
	if len(post.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", post.Warnings)
	}
}

func TestGetMissingPostIsNotFound(t *testing.T) {
	svc := newFixtureService(t, Config{})

	for _, slug := range []string{"missing-post", "../blog/a", "drafts/nested", ""} {
		_, err := svc.Get(context.Background(), slug)
		if !errors.Is(err, ErrPostNotFound) {
			t.Fatalf("Get(%q): expected ErrPostNotFound, got %v", slug, err)
		}
		if !goerrors.IsCategory(err, goerrors.CategoryNotFound) {
			t.Fatalf("Get(%q): expected not found category, got %v", slug, err)
		}
	}
}

func TestListMissingDirectoryIsFatal(t *testing.T) {
	store := NewDirStore(StoreConfig{Dir: filepath.Join(t.TempDir(), "nope")})
	svc := NewService(store, Config{})

	summaries, err := svc.List(context.Background())
	if !errors.Is(err, ErrContentStoreUnavailable) {
		t.Fatalf("expected ErrContentStoreUnavailable, got %v", err)
	}
	if summaries != nil {
		t.Fatalf("expected no partial listing, got %v", summaries)
	}
	if !goerrors.IsCategory(err, goerrors.CategoryInternal) {
		t.Fatalf("expected internal category, got %v", err)
	}
}

func TestListWithoutTagsHasEmptyTags(t *testing.T) {
	svc := newFixtureService(t, Config{})

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	for _, summary := range summaries {
		if summary.Slug == "no-tags" {
			if len(summary.FrontMatter.Tags) != 0 {
				t.Fatalf("expected empty tags, got %v", summary.FrontMatter.Tags)
			}
			return
		}
	}
	t.Fatal("no-tags fixture missing from listing")
}

func TestListTwoPostsExample(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md": {Data: []byte("---\ndate: 2023-01-01\n---\nA\n")},
		"b.md": {Data: []byte("---\ndate: 2024-06-15\n---\nB\n")},
	}
	svc := NewService(NewStore(fsys, StoreConfig{}), Config{})

	summaries, err := svc.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(summaries) != 2 || summaries[0].Slug != "b" || summaries[1].Slug != "a" {
		t.Fatalf("expected b before a, got %+v", summaries)
	}
}

func TestListBreaksTiesBySlugAndSortsUndatedLast(t *testing.T) {
	fsys := fstest.MapFS{
		"zeta.md":    {Data: []byte("---\ndate: 2024-01-01\n---\n")},
		"alpha.md":   {Data: []byte("---\ndate: 2024-01-01\n---\n")},
		"undated.md": {Data: []byte("---\ntitle: No date\n---\n")},
		"older.md":   {Data: []byte("---\ndate: 2020-01-01\n---\n")},
	}
	svc := NewService(NewStore(fsys, StoreConfig{}), Config{})

	slugs, err := svc.Slugs(context.Background())
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if diff := cmp.Diff([]string{"alpha", "zeta", "older", "undated"}, slugs); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestMalformedFrontMatterDegradesToBody(t *testing.T) {
	source := "---\ntitle: Broken\n\nno closing delimiter\n"
	fsys := fstest.MapFS{"broken.md": {Data: []byte(source)}}
	svc := NewService(NewStore(fsys, StoreConfig{}), Config{})

	post, err := svc.Get(context.Background(), "broken")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(post.Body) != source {
		t.Fatalf("expected whole file as body, got %q", post.Body)
	}
	if post.FrontMatter.Title != "" {
		t.Fatalf("expected empty metadata, got %+v", post.FrontMatter)
	}
	if !containsPrefix(post.Warnings, "front matter:") {
		t.Fatalf("expected a front matter warning, got %v", post.Warnings)
	}
}

func TestDraftsAreHiddenUnlessIncluded(t *testing.T) {
	fsys := fstest.MapFS{
		"live.md":  {Data: []byte("---\ntitle: Live\ndate: 2024-01-01\n---\n")},
		"draft.md": {Data: []byte("---\ntitle: Draft\ndate: 2024-02-01\ndraft: true\n---\n")},
	}

	hidden := NewService(NewStore(fsys, StoreConfig{}), Config{})
	slugs, err := hidden.Slugs(context.Background())
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if diff := cmp.Diff([]string{"live"}, slugs); diff != "" {
		t.Fatalf("unexpected slugs (-want +got):\n%s", diff)
	}
	if _, err := hidden.Get(context.Background(), "draft"); !IsNotFound(err) {
		t.Fatalf("expected hidden draft to be not found, got %v", err)
	}

	shown := NewService(NewStore(fsys, StoreConfig{}), Config{IncludeDrafts: true})
	slugs, err = shown.Slugs(context.Background())
	if err != nil {
		t.Fatalf("Slugs: %v", err)
	}
	if diff := cmp.Diff([]string{"draft", "live"}, slugs); diff != "" {
		t.Fatalf("unexpected slugs (-want +got):\n%s", diff)
	}
}

func TestValidationWarningsAreLogged(t *testing.T) {
	fsys := fstest.MapFS{"bare.md": {Data: []byte("just a body\n")}}
	logger := &warnRecorder{}
	svc := NewService(NewStore(fsys, StoreConfig{}), Config{}, WithLogger(logger))

	post, err := svc.Get(context.Background(), "bare")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if diff := cmp.Diff([]string{"date: date is missing, post will sort last", "title: title is missing"}, post.Warnings); diff != "" {
		t.Fatalf("warnings mismatch (-want +got):\n%s", diff)
	}
	if logger.warns != 2 {
		t.Fatalf("expected 2 warn entries, got %d", logger.warns)
	}
}

func TestListReadsUnreadableFileAsFatal(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permissions are not enforced for root")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "locked.md")
	if err := os.WriteFile(path, []byte("---\ntitle: Locked\n---\n"), 0o000); err != nil {
		t.Fatalf("write: %v", err)
	}
	svc := NewService(NewDirStore(StoreConfig{Dir: dir}), Config{})

	if _, err := svc.List(context.Background()); !errors.Is(err, ErrContentStoreUnavailable) {
		t.Fatalf("expected ErrContentStoreUnavailable, got %v", err)
	}
}

func TestDisplayTitleFallsBackToSlug(t *testing.T) {
	if got := DisplayTitle(interfaces.PostSummary{Slug: "diagrams-at-build_time"}); got != "Diagrams At Build Time" {
		t.Fatalf("unexpected fallback title %q", got)
	}
	summary := interfaces.PostSummary{Slug: "x", FrontMatter: interfaces.FrontMatter{Title: "Set"}}
	if got := DisplayTitle(summary); got != "Set" {
		t.Fatalf("expected explicit title, got %q", got)
	}
}

func containsPrefix(values []string, prefix string) bool {
	for _, value := range values {
		if strings.HasPrefix(value, prefix) {
			return true
		}
	}
	return false
}

type warnRecorder struct {
	warns int
}

func (r *warnRecorder) Trace(string, ...any) {}
func (r *warnRecorder) Debug(string, ...any) {}
func (r *warnRecorder) Info(string, ...any)  {}
func (r *warnRecorder) Warn(string, ...any)  { r.warns++ }
func (r *warnRecorder) Error(string, ...any) {}
func (r *warnRecorder) Fatal(string, ...any) {}
func (r *warnRecorder) WithFields(map[string]any) interfaces.Logger {
	return r
}
func (r *warnRecorder) WithContext(context.Context) interfaces.Logger {
	return r
}

func TestSlugsWithInnerDotsListAndResolve(t *testing.T) {
	fsys := fstest.MapFS{
		"a.md":             {Data: []byte("---\ndate: 2023-01-01\n---\nA\n")},
		"v1..2-notes.md":   {Data: []byte("---\ndate: 2024-02-01\ntitle: Notes\n---\nN\n")},
		"release.v2.md":    {Data: []byte("---\ndate: 2022-01-01\n---\nR\n")},
		"...md":            {Data: []byte("hidden\n")},
		"drafts/nested.md": {Data: []byte("nested\n")},
	}
	svc := NewService(NewStore(fsys, StoreConfig{}), Config{})
	ctx := context.Background()

	summaries, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	var slugs []string
	for _, summary := range summaries {
		slugs = append(slugs, summary.Slug)
	}
	if diff := cmp.Diff([]string{"v1..2-notes", "a", "release.v2"}, slugs); diff != "" {
		t.Fatalf("slugs mismatch (-want +got):\n%s", diff)
	}

	for _, slug := range slugs {
		if _, err := svc.Get(ctx, slug); err != nil {
			t.Fatalf("Get(%q): %v", slug, err)
		}
	}
	if _, err := svc.Get(ctx, ".."); !errors.Is(err, ErrPostNotFound) {
		t.Fatalf("expected %q to be rejected, got %v", "..", err)
	}
}
