package render

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrRenderFailed reports a markdown transform failure. It is fatal to the page.
var ErrRenderFailed = errors.New("render: markdown transform failed")

const codeRenderFailed = "RENDER_FAILED"

func renderFailed(target string, cause any) error {
	err := fmt.Errorf("%w: %s: %v", ErrRenderFailed, target, cause)
	return goerrors.Wrap(err, goerrors.CategoryInternal, "markdown render failed").
		WithTextCode(codeRenderFailed)
}
