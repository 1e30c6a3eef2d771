package interfaces

import "io"

// PageRenderer executes a named page layout against the supplied data.
type PageRenderer interface {
	Render(w io.Writer, name string, data any) error
}
