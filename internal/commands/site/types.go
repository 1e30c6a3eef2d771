package sitecmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-folio/internal/generator"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const (
	buildSiteMessageType = "folio.site.build"
	listPostsMessageType = "folio.site.list"
	showPostMessageType  = "folio.site.show"
)

// BuildSiteCommand renders the blog into the configured output directory.
type BuildSiteCommand struct {
	// Slugs limits post pages to the listed identifiers.
	Slugs          []string                     `json:"slugs,omitempty"`
	DryRun         bool                         `json:"dry_run,omitempty"`
	ResultCallback func(*generator.BuildResult) `json:"-"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects blank slug filters.
func (m BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Slugs, validation.Each(validation.By(nonBlank("folio.site.build.slug_invalid", "slugs must not contain empty values")))),
	)
}

// ListPostsCommand returns the post index, newest first.
type ListPostsCommand struct {
	// Tag keeps only posts carrying the tag (case-insensitive).
	Tag      string                         `json:"tag,omitempty"`
	Callback func([]interfaces.PostSummary) `json:"-"`
}

// Type implements command.Message.
func (ListPostsCommand) Type() string { return listPostsMessageType }

// Validate requires a callback since the handler has no other output.
func (m ListPostsCommand) Validate() error {
	if m.Callback == nil {
		return validation.Errors{
			"callback": validation.NewError("folio.site.list.callback_required", "callback is required"),
		}
	}
	return nil
}

// ShowPostResult carries a resolved post and, when requested, its rendered document.
type ShowPostResult struct {
	Post     *interfaces.Post
	Document *interfaces.RenderedDocument
}

// ShowPostCommand resolves a single post by slug.
type ShowPostCommand struct {
	Slug     string               `json:"slug"`
	Render   bool                 `json:"render,omitempty"`
	Callback func(ShowPostResult) `json:"-"`
}

// Type implements command.Message.
func (ShowPostCommand) Type() string { return showPostMessageType }

// Validate ensures a slug and a callback are present.
func (m ShowPostCommand) Validate() error {
	errs := validation.Errors{}
	if err := validation.Validate(m.Slug, validation.Required, validation.By(nonBlank("folio.site.show.slug_required", "slug is required"))); err != nil {
		errs["slug"] = err
	}
	if m.Callback == nil {
		errs["callback"] = validation.NewError("folio.site.show.callback_required", "callback is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func nonBlank(code, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return validation.NewError(code, message)
		}
		return nil
	}
}
