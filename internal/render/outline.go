package render

import (
	"bytes"

	"github.com/yuin/goldmark/ast"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// buildOutline collects headings into a tree. A heading nests under the
// closest preceding heading with a lower level.
func buildOutline(doc ast.Node, source []byte) []interfaces.Heading {
	var flat []interfaces.Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		entry := interfaces.Heading{
			Level: heading.Level,
			Text:  string(nodeText(heading, source)),
		}
		if id, ok := heading.AttributeString("id"); ok {
			if raw, ok := id.([]byte); ok {
				entry.ID = string(raw)
			}
		}
		flat = append(flat, entry)
		return ast.WalkSkipChildren, nil
	})
	return nest(flat)
}

func nest(flat []interfaces.Heading) []interfaces.Heading {
	var roots []interfaces.Heading
	// path holds the open headings, outermost first.
	type frame struct {
		level int
		node  *interfaces.Heading
	}
	var path []frame

	for _, heading := range flat {
		for len(path) > 0 && path[len(path)-1].level >= heading.Level {
			path = path[:len(path)-1]
		}
		if len(path) == 0 {
			roots = append(roots, heading)
			path = append(path, frame{level: heading.Level, node: &roots[len(roots)-1]})
			continue
		}
		parent := path[len(path)-1].node
		parent.Children = append(parent.Children, heading)
		path = append(path, frame{level: heading.Level, node: &parent.Children[len(parent.Children)-1]})
	}
	return roots
}

func nodeText(n ast.Node, source []byte) []byte {
	var buf bytes.Buffer
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch typed := child.(type) {
		case *ast.Text:
			buf.Write(typed.Segment.Value(source))
			if typed.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(typed.Value)
		default:
			buf.Write(nodeText(child, source))
		}
	}
	return buf.Bytes()
}
