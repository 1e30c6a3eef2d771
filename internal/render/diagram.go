package render

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// KindDiagram identifies diagram blocks in the goldmark AST.
var KindDiagram = ast.NewNodeKind("Diagram")

// Diagram replaces a fenced code block whose language marks it as a diagram.
// It renders as a <pre> element picked up by the client side diagram script.
type Diagram struct {
	ast.BaseBlock
	Language string
	Source   []byte
}

// Kind implements ast.Node.
func (n *Diagram) Kind() ast.NodeKind { return KindDiagram }

// IsRaw implements ast.Node.
func (n *Diagram) IsRaw() bool { return true }

// Dump implements ast.Node.
func (n *Diagram) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"Language": n.Language,
		"Source":   string(n.Source),
	}, nil)
}

// DiagramExtension turns fenced blocks tagged with one of Languages into
// Diagram nodes.
type DiagramExtension struct {
	Languages []string
}

// NewDiagramExtension returns an extender for the given languages, "mermaid"
// when none are supplied.
func NewDiagramExtension(languages ...string) *DiagramExtension {
	if len(languages) == 0 {
		languages = []string{"mermaid"}
	}
	return &DiagramExtension{Languages: languages}
}

// Extend implements goldmark.Extender.
func (e *DiagramExtension) Extend(m goldmark.Markdown) {
	languages := make(map[string]struct{}, len(e.Languages))
	for _, lang := range e.Languages {
		if lang = strings.ToLower(strings.TrimSpace(lang)); lang != "" {
			languages[lang] = struct{}{}
		}
	}
	m.Parser().AddOptions(parser.WithASTTransformers(
		util.Prioritized(&diagramTransformer{languages: languages}, 100),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(&diagramRenderer{}, 100),
	))
}

type diagramTransformer struct {
	languages map[string]struct{}
}

func (t *diagramTransformer) Transform(doc *ast.Document, reader text.Reader, _ parser.Context) {
	source := reader.Source()

	var blocks []*ast.FencedCodeBlock
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !ok {
			return ast.WalkContinue, nil
		}
		if _, match := t.languages[strings.ToLower(string(fcb.Language(source)))]; match {
			blocks = append(blocks, fcb)
		}
		return ast.WalkSkipChildren, nil
	})

	for _, fcb := range blocks {
		var buf bytes.Buffer
		lines := fcb.Lines()
		for i := 0; i < lines.Len(); i++ {
			segment := lines.At(i)
			buf.Write(segment.Value(source))
		}
		node := &Diagram{
			Language: strings.ToLower(string(fcb.Language(source))),
			Source:   buf.Bytes(),
		}
		parent := fcb.Parent()
		parent.ReplaceChild(parent, fcb, node)
	}
}

type diagramRenderer struct{}

func (r *diagramRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindDiagram, r.render)
}

func (r *diagramRenderer) render(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*Diagram)
	_, _ = w.WriteString(`<pre class="`)
	_, _ = w.Write(util.EscapeHTML([]byte(n.Language)))
	_, _ = w.WriteString(`">`)
	_, _ = w.Write(util.EscapeHTML(n.Source))
	_, _ = w.WriteString("</pre>\n")
	return ast.WalkSkipChildren, nil
}

func countDiagrams(doc ast.Node) int {
	count := 0
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if entering && n.Kind() == KindDiagram {
			count++
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return count
}
