package diagrams

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestScanFindsFencedBlocks(t *testing.T) {
	source := "intro\n```mermaid\ngraph TD; A-->B;\n```\ntext\n```go\nx := 1\n```\n```Mermaid\r\nsequenceDiagram\r\n```\r\n```mermaid\nunterminated\n"
	blocks := Scan([]byte(source), "mermaid")

	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Code != "graph TD; A-->B;" {
		t.Fatalf("unexpected code %q", blocks[0].Code)
	}
	if got := source[blocks[0].Start:blocks[0].End]; got != "```mermaid\ngraph TD; A-->B;\n```" {
		t.Fatalf("unexpected span %q", got)
	}
	if blocks[1].Code != "sequenceDiagram" {
		t.Fatalf("unexpected CRLF code %q", blocks[1].Code)
	}
}

func TestScanBodySkipsFrontMatter(t *testing.T) {
	source := "+++\nexample = \"\"\"\n```mermaid\ngraph TD; X-->Y;\n```\n\"\"\"\n+++\n\n```mermaid\ngraph TD; A-->B;\n```\n"
	offset := strings.Index(source, "+++\n\n") + len("+++\n")

	blocks := ScanBody([]byte(source), offset, "mermaid")
	if len(blocks) != 1 || blocks[0].Code != "graph TD; A-->B;" {
		t.Fatalf("expected only the body block, got %+v", blocks)
	}
	if !strings.HasPrefix(source[blocks[0].Start:], "```mermaid\ngraph TD; A-->B;") {
		t.Fatalf("offsets must be relative to the whole file")
	}
}

func TestRewriteReplacesByPosition(t *testing.T) {
	source := []byte("a\n```mermaid\nsame\n```\nb\n```mermaid\nsame\n```\nc\n")
	blocks := Scan(source, "mermaid")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}

	out := Rewrite(source, []Replacement{
		{Block: blocks[0], Text: "FIRST"},
		{Block: blocks[1], Text: "SECOND"},
	})
	if diff := cmp.Diff("a\nFIRST\nb\nSECOND\nc\n", string(out)); diff != "" {
		t.Fatalf("rewrite mismatch (-want +got):\n%s", diff)
	}

	only := Rewrite(source, []Replacement{{Block: blocks[1], Text: "SECOND"}})
	if diff := cmp.Diff("a\n```mermaid\nsame\n```\nb\nSECOND\nc\n", string(only)); diff != "" {
		t.Fatalf("second block rewrite mismatch (-want +got):\n%s", diff)
	}
}

func TestSnippet(t *testing.T) {
	want := `<div class="mermaid-diagram">
  <img src="/diagrams/post-diagram-0-light.svg" alt="Diagram" class="block dark:hidden w-full" />
  <img src="/diagrams/post-diagram-0-dark.svg" alt="Diagram" class="hidden dark:block w-full" />
</div>`
	if diff := cmp.Diff(want, Snippet("/diagrams/", DiagramID("post", 0))); diff != "" {
		t.Fatalf("snippet mismatch (-want +got):\n%s", diff)
	}
}

func TestNextIndex(t *testing.T) {
	source := []byte(Snippet("/diagrams", "post-diagram-0") + "\n" + Snippet("/diagrams", "post-diagram-3") +
		"\n<img src=\"/diagrams/other-post-diagram-9-light.svg\" />\n")

	if got := NextIndex(source, "post"); got != 4 {
		t.Fatalf("expected next index 4, got %d", got)
	}
	if got := NextIndex(source, "other-post"); got != 10 {
		t.Fatalf("expected next index 10, got %d", got)
	}
	if got := NextIndex([]byte("nothing here"), "post"); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}
