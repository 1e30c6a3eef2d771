package generator

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-folio/pkg/interfaces"
)

func TestBuildSitemapSortsAndDeduplicates(t *testing.T) {
	fallback := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	pages := []RenderedPage{
		{Route: "/blogs/b/", LastModified: time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)},
		{Route: "/"},
		{Route: "/blogs/b/"},
	}

	got := buildSitemap("https://example.com", pages, fallback)
	if strings.Count(got, "<url>") != 2 {
		t.Fatalf("expected two entries:\n%s", got)
	}
	root := strings.Index(got, "<loc>https://example.com/</loc>")
	post := strings.Index(got, "<loc>https://example.com/blogs/b/</loc>")
	if root < 0 || post < 0 || root > post {
		t.Fatalf("expected sorted locations:\n%s", got)
	}
	if !strings.Contains(got, "<lastmod>2024-01-02T00:00:00Z</lastmod>") {
		t.Fatalf("expected fallback lastmod:\n%s", got)
	}
}

func TestBuildRobotsWithoutSitemap(t *testing.T) {
	got := buildRobots("", false)
	if got != "User-agent: *\nAllow: /\n" {
		t.Fatalf("unexpected robots %q", got)
	}
}

func TestBuildRSSFeedEscapesAndFallsBackToSlugTitle(t *testing.T) {
	now := time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)
	summaries := []interfaces.PostSummary{
		{Slug: "tips-and-tricks", FrontMatter: interfaces.FrontMatter{Description: "a < b"}},
	}
	feed := buildRSSFeed(SiteMetadata{Title: "Folio & Co", BaseURL: "https://example.com"}, feedItems("https://example.com", summaries), now)

	for _, fragment := range []string{
		"<title>Folio &amp; Co</title>",
		"<title>Tips And Tricks</title>",
		"<description>a &lt; b</description>",
		`<guid isPermaLink="true">https://example.com/blogs/tips-and-tricks/</guid>`,
		"<pubDate>Mon, 01 Jul 2024 00:00:00 +0000</pubDate>",
	} {
		if !strings.Contains(feed, fragment) {
			t.Fatalf("expected %q in feed:\n%s", fragment, feed)
		}
	}
}

func TestBuildOutputPath(t *testing.T) {
	cases := map[string]string{
		"/":                 "index.html",
		"":                  "index.html",
		"/blogs/":           "blogs/index.html",
		"/blogs/my%20post/": "blogs/my post/index.html",
	}
	for route, want := range cases {
		if got := buildOutputPath(route); got != want {
			t.Fatalf("buildOutputPath(%q) = %q, want %q", route, got, want)
		}
	}
}
