package posts

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-slug"
	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

// Validator reports metadata problems as warnings. Nothing it finds fails a
// build; missing fields surface in logs instead of at render time.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator returns a validator without schema checks.
func NewValidator() *Validator {
	return &Validator{}
}

// NewSchemaValidator compiles the JSON schema at path and applies it to the
// raw front matter in addition to the typed checks.
func NewSchemaValidator(path string) (*Validator, error) {
	schema, err := jsonschema.Compile(path)
	if err != nil {
		return nil, fmt.Errorf("posts: compile front matter schema %s: %w", path, err)
	}
	return &Validator{schema: schema}, nil
}

// NewSchemaValidatorFromString compiles an inline schema document.
func NewSchemaValidatorFromString(schema string) (*Validator, error) {
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("frontmatter.json", strings.NewReader(schema)); err != nil {
		return nil, fmt.Errorf("posts: add front matter schema: %w", err)
	}
	compiled, err := compiler.Compile("frontmatter.json")
	if err != nil {
		return nil, fmt.Errorf("posts: compile front matter schema: %w", err)
	}
	return &Validator{schema: compiled}, nil
}

// Validate returns sorted, human readable warnings for fm and slug.
func (v *Validator) Validate(slugValue string, fm interfaces.FrontMatter) []string {
	var warnings []string

	err := validation.ValidateStruct(&fm,
		validation.Field(&fm.Title, validation.Required.Error("title is missing")),
		validation.Field(&fm.Date, validation.Required.Error("date is missing, post will sort last")),
		validation.Field(&fm.Tags, validation.Each(validation.Length(1, 64))),
	)
	var fieldErrs validation.Errors
	if errors.As(err, &fieldErrs) {
		for _, key := range slices.Sorted(maps.Keys(fieldErrs)) {
			warnings = append(warnings, fmt.Sprintf("%s: %v", key, fieldErrs[key]))
		}
	} else if err != nil {
		warnings = append(warnings, err.Error())
	}

	if slugValue != "" && !slug.IsValid(slugValue) {
		warnings = append(warnings, fmt.Sprintf("slug: %q is not URL safe", slugValue))
	}

	if v != nil && v.schema != nil {
		warnings = append(warnings, v.schemaWarnings(fm.Raw)...)
	}
	return warnings
}

func (v *Validator) schemaWarnings(raw map[string]any) []string {
	doc, err := jsonCompatible(raw)
	if err != nil {
		return []string{fmt.Sprintf("schema: %v", err)}
	}
	err = v.schema.Validate(doc)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return []string{fmt.Sprintf("schema: %v", err)}
	}

	var out []string
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			location := strings.TrimSpace(node.InstanceLocation)
			if location == "" {
				location = "/"
			}
			out = append(out, fmt.Sprintf("schema %s: %s", location, strings.TrimSpace(node.Message)))
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(validationErr)
	slices.Sort(out)
	return out
}

// jsonCompatible round trips value through encoding/json so the schema sees
// strings for dates and json.Number for numerics.
func jsonCompatible(value map[string]any) (any, error) {
	if value == nil {
		value = map[string]any{}
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(encoded))
	dec.UseNumber()
	var out any
	if err := dec.Decode(&out); err != nil {
		return nil, err
	}
	return out, nil
}
