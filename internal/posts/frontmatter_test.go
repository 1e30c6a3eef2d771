package posts

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func TestParseFrontMatterExtractsTypedFields(t *testing.T) {
	source := []byte(`---
title: Hello
date: 2024-06-15
description: A post
tags: [go, blog]
series: pipeline
---

Body text.
`)
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if fm.Title != "Hello" || fm.Description != "A post" {
		t.Fatalf("unexpected strings: %+v", fm)
	}
	if want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC); !fm.Date.Equal(want) {
		t.Fatalf("expected date %v, got %v", want, fm.Date)
	}
	if diff := cmp.Diff([]string{"go", "blog"}, fm.Tags); diff != "" {
		t.Fatalf("tags mismatch (-want +got):\n%s", diff)
	}
	if fm.Custom["series"] != "pipeline" {
		t.Fatalf("expected custom key to be kept, got %#v", fm.Custom)
	}
	if _, ok := fm.Custom["title"]; ok {
		t.Fatalf("known keys must not leak into Custom")
	}
	if _, ok := fm.Raw["title"]; !ok {
		t.Fatalf("expected raw map to include title")
	}
	if strings.TrimSpace(string(body)) != "Body text." {
		t.Fatalf("unexpected body %q", body)
	}
}

func TestParseFrontMatterWithoutHeaderIsAllBody(t *testing.T) {
	source := []byte("# Just markdown\n\nNo metadata.\n")
	fm, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if string(body) != string(source) {
		t.Fatalf("expected whole file as body, got %q", body)
	}
	if fm.Title != "" || !fm.Date.IsZero() || fm.Tags != nil {
		t.Fatalf("expected empty metadata, got %+v", fm)
	}
}

func TestParseFrontMatterRejectsUnterminatedHeader(t *testing.T) {
	_, _, err := ParseFrontMatter([]byte("---\ntitle: Broken\n\nbody without closing\n"))
	if !errors.Is(err, ErrFrontMatterMalformed) {
		t.Fatalf("expected ErrFrontMatterMalformed, got %v", err)
	}
}

func TestParseFrontMatterMissingTagsIsEmpty(t *testing.T) {
	fm, _, err := ParseFrontMatter([]byte("---\ntitle: Untagged\ndate: 2023-05-10\n---\nbody\n"))
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if len(fm.Tags) != 0 {
		t.Fatalf("expected no tags, got %v", fm.Tags)
	}
}

func TestParseCoercesDatesAndTags(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		wantDate time.Time
		wantTags []string
		warnings int
	}{
		{
			name:     "rfc3339",
			header:   `date: "2024-06-15T10:30:00Z"`,
			wantDate: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "space separated",
			header:   `date: "2024-06-15 10:30:00"`,
			wantDate: time.Date(2024, 6, 15, 10, 30, 0, 0, time.UTC),
		},
		{
			name:     "comma tags",
			header:   `tags: "go, diagrams , "`,
			wantTags: []string{"go", "diagrams"},
		},
		{
			name:     "bad date",
			header:   `date: "next tuesday"`,
			warnings: 1,
		},
		{
			name:     "bad tags",
			header:   `tags: 42`,
			warnings: 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := Parse([]byte("---\n" + tc.header + "\n---\nbody\n"))
			if err != nil {
				t.Fatalf("Parse: %v", err)
			}
			if !parsed.FrontMatter.Date.Equal(tc.wantDate) {
				t.Fatalf("expected date %v, got %v", tc.wantDate, parsed.FrontMatter.Date)
			}
			if diff := cmp.Diff(tc.wantTags, parsed.FrontMatter.Tags); diff != "" {
				t.Fatalf("tags mismatch (-want +got):\n%s", diff)
			}
			if len(parsed.Warnings) != tc.warnings {
				t.Fatalf("expected %d warnings, got %v", tc.warnings, parsed.Warnings)
			}
		})
	}
}

func TestComposeRoundTrip(t *testing.T) {
	original := interfaces.FrontMatter{
		Title:       "Round: trip",
		Date:        time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC),
		Description: "Parse, compose, parse again",
		Tags:        []string{"go", "yaml"},
		Draft:       true,
		Custom:      map[string]any{"author": "Ada", "weight": 3},
	}
	body := []byte("Some *markdown*.\n")

	composed, err := Compose(original, body)
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	if !strings.HasPrefix(string(composed), "---\ntitle: ") || !strings.Contains(string(composed), "\ndate: 2024-06-15\n") {
		t.Fatalf("unexpected header layout:\n%s", composed)
	}

	first, firstBody, err := ParseFrontMatter(composed)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	ignore := cmpopts.IgnoreFields(interfaces.FrontMatter{}, "Raw")
	if diff := cmp.Diff(original, first, ignore); diff != "" {
		t.Fatalf("metadata mismatch after first parse (-want +got):\n%s", diff)
	}
	if strings.TrimSpace(string(firstBody)) != strings.TrimSpace(string(body)) {
		t.Fatalf("body mismatch: %q", firstBody)
	}

	again, err := Compose(first, firstBody)
	if err != nil {
		t.Fatalf("Compose again: %v", err)
	}
	second, _, err := ParseFrontMatter(again)
	if err != nil {
		t.Fatalf("ParseFrontMatter again: %v", err)
	}
	if diff := cmp.Diff(first, second, ignore); diff != "" {
		t.Fatalf("parse is not idempotent (-first +second):\n%s", diff)
	}
}

func TestMarshalFrontMatterKeepsTimestamps(t *testing.T) {
	fm := interfaces.FrontMatter{Date: time.Date(2024, 6, 15, 9, 5, 0, 0, time.UTC)}
	out, err := MarshalFrontMatter(fm)
	if err != nil {
		t.Fatalf("MarshalFrontMatter: %v", err)
	}
	if !strings.Contains(string(out), "date: 2024-06-15T09:05:00Z") {
		t.Fatalf("expected RFC3339 date, got:\n%s", out)
	}
}

func TestBodyOffset(t *testing.T) {
	source := []byte("---\ntitle: x\n---\nbody\n")
	offset := BodyOffset(source)
	_, body, err := ParseFrontMatter(source)
	if err != nil {
		t.Fatalf("ParseFrontMatter: %v", err)
	}
	if string(source[offset:]) != string(body) {
		t.Fatalf("offset %d does not point at body %q", offset, body)
	}
	if got := BodyOffset([]byte("---\nunterminated\n")); got != 0 {
		t.Fatalf("expected 0 for malformed header, got %d", got)
	}
	if got := BodyOffset([]byte("plain")); got != 0 {
		t.Fatalf("expected 0 without header, got %d", got)
	}
}

func TestParseFrontMatterAcceptsTOMLAndJSON(t *testing.T) {
	cases := map[string]string{
		"toml": "+++\ntitle = \"Alt\"\ndate = \"2024-06-15\"\ntags = [\"go\"]\n+++\nbody\n",
		"json": "{\n  \"title\": \"Alt\",\n  \"date\": \"2024-06-15\",\n  \"tags\": [\"go\"]\n}\nbody\n",
	}
	want := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	for name, source := range cases {
		fm, body, err := ParseFrontMatter([]byte(source))
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", name, err)
		}
		if fm.Title != "Alt" || !fm.Date.Equal(want) {
			t.Fatalf("%s: unexpected metadata %+v", name, fm)
		}
		if diff := cmp.Diff([]string{"go"}, fm.Tags); diff != "" {
			t.Fatalf("%s: tags mismatch (-want +got):\n%s", name, diff)
		}
		if strings.TrimSpace(string(body)) != "body" {
			t.Fatalf("%s: unexpected body %q", name, body)
		}
	}
}
