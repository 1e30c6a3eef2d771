package posts

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// DisplayTitle returns the post title, falling back to a title cased slug.
func DisplayTitle(summary interfaces.PostSummary) string {
	if title := strings.TrimSpace(summary.FrontMatter.Title); title != "" {
		return title
	}
	words := strings.FieldsFunc(summary.Slug, func(r rune) bool {
		return r == '-' || r == '_'
	})
	return cases.Title(language.English).String(strings.Join(words, " "))
}
