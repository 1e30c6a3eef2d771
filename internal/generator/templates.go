package generator

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sync"
	"time"

	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	// PageIndex names the post list layout.
	PageIndex = "index"
	// PagePost names the single post layout.
	PagePost = "post"

	displayDateLayout = "January 2, 2006"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates renders the embedded page layouts. Each page is parsed together with
// the shared layout so both can define a "content" block.
type Templates struct {
	once  sync.Once
	err   error
	pages map[string]*template.Template
}

// NewTemplates returns the embedded page renderer.
func NewTemplates() *Templates {
	return &Templates{}
}

var _ interfaces.PageRenderer = (*Templates)(nil)

func (t *Templates) load() {
	t.pages = map[string]*template.Template{}
	for _, name := range []string{PageIndex, PagePost} {
		tpl, err := template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			t.err = fmt.Errorf("generator: parse %s template: %w", name, err)
			return
		}
		t.pages[name] = tpl
	}
}

// Render executes the named page into w.
func (t *Templates) Render(w io.Writer, name string, data any) error {
	t.once.Do(t.load)
	if t.err != nil {
		return t.err
	}
	tpl, ok := t.pages[name]
	if !ok {
		return fmt.Errorf("generator: unknown page template %q", name)
	}
	return tpl.ExecuteTemplate(w, "layout", data)
}

// PostCard is the view of a post used on list pages.
type PostCard struct {
	Slug        string
	Route       string
	Title       string
	Description string
	Date        string
	DateISO     string
	Tags        []string
}

// IndexPage is the data bound to the index layout.
type IndexPage struct {
	Site        SiteMetadata
	PageTitle   string
	Description string
	Posts       []PostCard
}

// PostPage is the data bound to the post layout.
type PostPage struct {
	Site          SiteMetadata
	PageTitle     string
	Description   string
	IndexRoute    string
	Post          PostCard
	Body          template.HTML
	Outline       []interfaces.Heading
	Diagrams      int
	MermaidScript string
}

func newPostCard(summary interfaces.PostSummary) PostCard {
	card := PostCard{
		Slug:        summary.Slug,
		Route:       PostRoute(summary.Slug),
		Title:       posts.DisplayTitle(summary),
		Description: summary.FrontMatter.Description,
		Tags:        summary.FrontMatter.Tags,
	}
	if !summary.FrontMatter.Date.IsZero() {
		card.Date = formatDisplayDate(summary.FrontMatter.Date)
		card.DateISO = summary.FrontMatter.Date.UTC().Format(time.RFC3339)
	}
	return card
}

func formatDisplayDate(date time.Time) string {
	if date.IsZero() {
		return ""
	}
	return date.Format(displayDateLayout)
}
