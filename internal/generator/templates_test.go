package generator

import (
	"bytes"
	"strings"
	"testing"
)

func TestTemplatesRejectUnknownPage(t *testing.T) {
	var buf bytes.Buffer
	if err := NewTemplates().Render(&buf, "missing", nil); err == nil {
		t.Fatal("expected unknown template error")
	}
}

func TestTemplatesEscapeMetadata(t *testing.T) {
	var buf bytes.Buffer
	err := NewTemplates().Render(&buf, PageIndex, IndexPage{
		Site:      SiteMetadata{Title: "Folio"},
		PageTitle: "Folio",
		Posts:     []PostCard{{Route: "/blogs/x/", Title: "<script>x</script>"}},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(buf.String(), "<script>x</script>") {
		t.Fatalf("expected escaped title:\n%s", buf.String())
	}
}
