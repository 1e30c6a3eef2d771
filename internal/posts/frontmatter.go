package posts

import (
	"bufio"
	"bytes"
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

var knownKeys = []string{"title", "date", "description", "tags", "draft"}

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// Parsed is the result of splitting a content file.
type Parsed struct {
	FrontMatter interfaces.FrontMatter
	Body        []byte
	// Warnings lists values that could not be coerced into the typed fields.
	Warnings []string
}

// ParseFrontMatter splits source into typed metadata and body. A file with no
// header is all body. An unterminated header returns ErrFrontMatterMalformed.
func ParseFrontMatter(source []byte) (interfaces.FrontMatter, []byte, error) {
	parsed, err := Parse(source)
	if err != nil {
		return interfaces.FrontMatter{}, nil, err
	}
	return parsed.FrontMatter, parsed.Body, nil
}

// Parse is ParseFrontMatter plus coercion warnings.
func Parse(source []byte) (Parsed, error) {
	if err := checkTerminated(source); err != nil {
		return Parsed{}, err
	}

	raw := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &raw)
	if err != nil {
		return Parsed{}, malformed(err.Error())
	}

	raw = normalizeMap(raw)
	fm, warnings := coerce(raw)
	return Parsed{FrontMatter: fm, Body: body, Warnings: warnings}, nil
}

// BodyOffset returns the byte offset at which the body starts within source.
// Malformed headers yield 0 so callers treat the whole file as body.
func BodyOffset(source []byte) int {
	if checkTerminated(source) != nil {
		return 0
	}
	body, err := frontmatter.Parse(bytes.NewReader(source), &map[string]any{})
	if err != nil || !bytes.HasSuffix(source, body) {
		return 0
	}
	return len(source) - len(body)
}

func checkTerminated(source []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(source))
	scanner.Buffer(make([]byte, 0, 64*1024), len(source)+1)

	// Leading blank lines are skipped, matching the header detection rules.
	var delim string
	for scanner.Scan() {
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\ufeff"))
		if line == "" {
			continue
		}
		if line != "---" && line != "+++" {
			return nil
		}
		delim = line
		break
	}
	if delim == "" {
		return nil
	}
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == delim {
			return nil
		}
	}
	return malformed(fmt.Sprintf("missing closing %q delimiter", delim))
}

func coerce(raw map[string]any) (interfaces.FrontMatter, []string) {
	var warnings []string
	fm := interfaces.FrontMatter{
		Custom: map[string]any{},
		Raw:    raw,
	}

	for key, value := range raw {
		if !slices.Contains(knownKeys, key) {
			fm.Custom[key] = value
		}
	}

	if value, ok := raw["title"]; ok && value != nil {
		fm.Title = scalarString(value)
	}
	if value, ok := raw["description"]; ok && value != nil {
		fm.Description = scalarString(value)
	}
	if value, ok := raw["date"]; ok && value != nil {
		date, err := coerceDate(value)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		fm.Date = date
	}
	if value, ok := raw["tags"]; ok && value != nil {
		tags, err := coerceTags(value)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		fm.Tags = tags
	}
	if value, ok := raw["draft"]; ok && value != nil {
		draft, err := coerceBool(value)
		if err != nil {
			warnings = append(warnings, err.Error())
		}
		fm.Draft = draft
	}
	return fm, warnings
}

func coerceDate(value any) (time.Time, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed, nil
	case string:
		trimmed := strings.TrimSpace(typed)
		for _, layout := range dateLayouts {
			if parsed, err := time.Parse(layout, trimmed); err == nil {
				return parsed, nil
			}
		}
		return time.Time{}, fmt.Errorf("date: unrecognised value %q", typed)
	default:
		return time.Time{}, fmt.Errorf("date: unsupported type %T", value)
	}
}

func coerceTags(value any) ([]string, error) {
	switch typed := value.(type) {
	case []string:
		return compactTags(typed), nil
	case []any:
		out := make([]string, 0, len(typed))
		for _, item := range typed {
			if item == nil {
				continue
			}
			out = append(out, scalarString(item))
		}
		return compactTags(out), nil
	case string:
		return compactTags(strings.Split(typed, ",")), nil
	default:
		return nil, fmt.Errorf("tags: unsupported type %T", value)
	}
}

func compactTags(tags []string) []string {
	out := tags[:0:0]
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func coerceBool(value any) (bool, error) {
	switch typed := value.(type) {
	case bool:
		return typed, nil
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(typed))
		if err != nil {
			return false, fmt.Errorf("draft: unrecognised value %q", typed)
		}
		return parsed, nil
	default:
		return false, fmt.Errorf("draft: unsupported type %T", value)
	}
}

func scalarString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

// normalizeMap converts the map[interface{}]interface{} values produced by
// YAML decoders into map[string]any recursively.
func normalizeMap(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = normalizeValue(value)
	}
	return out
}

func normalizeValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return normalizeMap(typed)
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}

// MarshalFrontMatter renders fm as a "---" delimited YAML header. Known keys
// come first in a fixed order followed by custom keys sorted by name.
func MarshalFrontMatter(fm interfaces.FrontMatter) ([]byte, error) {
	mapping := &yaml.Node{Kind: yaml.MappingNode}
	add := func(key string, value *yaml.Node) {
		mapping.Content = append(mapping.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
			value,
		)
	}

	if fm.Title != "" {
		add("title", strNode(fm.Title))
	}
	if !fm.Date.IsZero() {
		add("date", &yaml.Node{Kind: yaml.ScalarNode, Value: formatDate(fm.Date)})
	}
	if fm.Description != "" {
		add("description", strNode(fm.Description))
	}
	if len(fm.Tags) > 0 {
		seq := &yaml.Node{Kind: yaml.SequenceNode}
		for _, tag := range fm.Tags {
			seq.Content = append(seq.Content, strNode(tag))
		}
		add("tags", seq)
	}
	if fm.Draft {
		add("draft", &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: "true"})
	}
	for _, key := range slices.Sorted(maps.Keys(fm.Custom)) {
		if slices.Contains(knownKeys, key) {
			continue
		}
		var node yaml.Node
		if err := node.Encode(fm.Custom[key]); err != nil {
			return nil, fmt.Errorf("marshal front matter %s: %w", key, err)
		}
		add(key, &node)
	}

	var buf bytes.Buffer
	buf.WriteString("---\n")
	if len(mapping.Content) > 0 {
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(&yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{mapping}}); err != nil {
			return nil, fmt.Errorf("marshal front matter: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("marshal front matter: %w", err)
		}
	}
	buf.WriteString("---\n")
	return buf.Bytes(), nil
}

// Compose rebuilds a content file from metadata and body.
func Compose(fm interfaces.FrontMatter, body []byte) ([]byte, error) {
	header, err := MarshalFrontMatter(fm)
	if err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(header)+len(body)+1)
	out = append(out, header...)
	out = append(out, '\n')
	out = append(out, body...)
	return out, nil
}

func strNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

func formatDate(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 && t.Location() == time.UTC {
		return t.Format("2006-01-02")
	}
	return t.Format(time.RFC3339Nano)
}
