package diagrams

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

// ErrDiagramRenderFailed reports a failed block. The block stays in place and
// the batch carries on.
var ErrDiagramRenderFailed = errors.New("diagrams: render failed")

const codeDiagramRenderFailed = "DIAGRAM_RENDER_FAILED"

func blockFailed(id string, theme string, err error) error {
	cause := fmt.Errorf("%w: %s (%s): %v", ErrDiagramRenderFailed, id, theme, err)
	return goerrors.Wrap(cause, goerrors.CategoryExternal, "diagram render failed").
		WithTextCode(codeDiagramRenderFailed)
}
