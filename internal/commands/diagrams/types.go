package diagramscmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-folio/internal/diagrams"
)

const (
	renderDiagramsMessageType = "folio.diagrams.render"
	generateGraphsMessageType = "folio.diagrams.graphs"
)

// RenderDiagramsCommand pre-renders mermaid blocks in content files.
type RenderDiagramsCommand struct {
	// Paths limits the run to the listed files. Empty processes the whole content root.
	Paths []string `json:"paths,omitempty"`
	// Strict turns any failed block into a command failure.
	Strict         bool                  `json:"strict,omitempty"`
	ResultCallback func(diagrams.Report) `json:"-"`
}

// Type implements command.Message.
func (RenderDiagramsCommand) Type() string { return renderDiagramsMessageType }

// Validate rejects blank path filters.
func (m RenderDiagramsCommand) Validate() error {
	return validation.ValidateStruct(&m,
		validation.Field(&m.Paths, validation.Each(validation.By(func(value any) error {
			path, _ := value.(string)
			if strings.TrimSpace(path) == "" {
				return validation.NewError("folio.diagrams.render.path_invalid", "paths must not contain empty values")
			}
			return nil
		}))),
	)
}

// GenerateGraphsCommand renders standalone mermaid sources from the graphs directory.
type GenerateGraphsCommand struct {
	ResultCallback func([]diagrams.GraphResult) `json:"-"`
}

// Type implements command.Message.
func (GenerateGraphsCommand) Type() string { return generateGraphsMessageType }

// Validate implements command.Message validation.
func (GenerateGraphsCommand) Validate() error { return nil }
