package posts

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrContentStoreUnavailable reports a missing or unreadable content
	// directory. It is fatal to a build; no partial listing is returned.
	ErrContentStoreUnavailable = errors.New("posts: content store unavailable")
	// ErrFrontMatterMalformed reports an opening delimiter without a closing one.
	ErrFrontMatterMalformed = errors.New("posts: front matter malformed")
	// ErrPostNotFound reports an unknown slug.
	ErrPostNotFound = errors.New("posts: post not found")
)

const (
	codeStoreUnavailable = "CONTENT_STORE_UNAVAILABLE"
	codeFrontMatter      = "FRONTMATTER_MALFORMED"
	codeNotFound         = "POST_NOT_FOUND"
)

func storeUnavailable(op, path string, err error) error {
	cause := fmt.Errorf("%w: %s %s: %v", ErrContentStoreUnavailable, op, path, err)
	return goerrors.Wrap(cause, goerrors.CategoryInternal, "content store unavailable").
		WithTextCode(codeStoreUnavailable)
}

func malformed(reason string) error {
	cause := fmt.Errorf("%w: %s", ErrFrontMatterMalformed, reason)
	return goerrors.Wrap(cause, goerrors.CategoryBadInput, "front matter malformed").
		WithTextCode(codeFrontMatter)
}

func notFound(slug string) error {
	cause := fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	return goerrors.Wrap(cause, goerrors.CategoryNotFound, "post not found").
		WithTextCode(codeNotFound)
}

// IsNotFound reports whether err identifies a missing post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound)
}
