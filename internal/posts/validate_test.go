package posts

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func TestValidatorReportsMissingFields(t *testing.T) {
	warnings := NewValidator().Validate("ok-slug", interfaces.FrontMatter{})
	if len(warnings) != 2 {
		t.Fatalf("expected title and date warnings, got %v", warnings)
	}
	if !strings.HasPrefix(warnings[0], "date:") || !strings.HasPrefix(warnings[1], "title:") {
		t.Fatalf("expected sorted warnings, got %v", warnings)
	}
}

func TestValidatorFlagsUnsafeSlug(t *testing.T) {
	fm := interfaces.FrontMatter{Title: "x", Date: time.Now()}
	warnings := NewValidator().Validate("Hello World!", fm)
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "slug:") {
		t.Fatalf("expected slug warning, got %v", warnings)
	}
}

func TestSchemaValidatorAddsWarnings(t *testing.T) {
	validator, err := NewSchemaValidator(filepath.Join("testdata", "frontmatter.schema.json"))
	if err != nil {
		t.Fatalf("NewSchemaValidator: %v", err)
	}

	parsed, err := Parse([]byte("---\ntitle: Hi\ndate: 2024-01-01\ntags: [1, two]\n---\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	warnings := validator.Validate("hi", parsed.FrontMatter)
	if len(warnings) == 0 {
		t.Fatal("expected schema warnings")
	}
	var sawRequired, sawType bool
	for _, warning := range warnings {
		if strings.HasPrefix(warning, "schema /:") && strings.Contains(warning, "description") {
			sawRequired = true
		}
		if strings.HasPrefix(warning, "schema /tags/0:") {
			sawType = true
		}
	}
	if !sawRequired || !sawType {
		t.Fatalf("expected required and type warnings, got %v", warnings)
	}
}

func TestSchemaValidatorFromString(t *testing.T) {
	validator, err := NewSchemaValidatorFromString(`{"type":"object","properties":{"title":{"type":"string","minLength":3}}}`)
	if err != nil {
		t.Fatalf("NewSchemaValidatorFromString: %v", err)
	}
	fm := interfaces.FrontMatter{
		Title: "Hi",
		Date:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Raw:   map[string]any{"title": "Hi"},
	}
	warnings := validator.Validate("hi", fm)
	if len(warnings) != 1 || !strings.HasPrefix(warnings[0], "schema /title:") {
		t.Fatalf("expected minLength warning, got %v", warnings)
	}
}
