package generator

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/goliatone/go-folio/internal/posts"
	"github.com/goliatone/go-folio/pkg/interfaces"
)

const maxFeedItems = 100

type feedItem struct {
	Title       string
	Summary     string
	Link        string
	GUID        string
	PublishedAt time.Time
	Categories  []string
}

// feedItems expects summaries in index order, newest first.
func feedItems(baseURL string, summaries []interfaces.PostSummary) []feedItem {
	items := make([]feedItem, 0, min(len(summaries), maxFeedItems))
	for _, summary := range summaries {
		if len(items) == maxFeedItems {
			break
		}
		link := absoluteURL(baseURL, PostRoute(summary.Slug))
		items = append(items, feedItem{
			Title:       posts.DisplayTitle(summary),
			Summary:     strings.TrimSpace(summary.FrontMatter.Description),
			Link:        link,
			GUID:        link,
			PublishedAt: summary.FrontMatter.Date,
			Categories:  summary.FrontMatter.Tags,
		})
	}
	return items
}

func buildRSSFeed(site SiteMetadata, items []feedItem, generatedAt time.Time) string {
	baseLink := baseURLWithFallback(site.BaseURL)

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(`<rss version="2.0">` + "\n")
	builder.WriteString("  <channel>\n")
	builder.WriteString(fmt.Sprintf("    <title>%s</title>\n", escapeXML(site.Title)))
	builder.WriteString(fmt.Sprintf("    <link>%s</link>\n", escapeXML(baseLink)))
	builder.WriteString(fmt.Sprintf("    <description>%s</description>\n", escapeXML(site.Description)))
	builder.WriteString(fmt.Sprintf("    <lastBuildDate>%s</lastBuildDate>\n", generatedAt.UTC().Format(time.RFC1123Z)))
	for _, item := range items {
		pub := item.PublishedAt
		if pub.IsZero() {
			pub = generatedAt
		}
		builder.WriteString("    <item>\n")
		builder.WriteString(fmt.Sprintf("      <title>%s</title>\n", escapeXML(item.Title)))
		builder.WriteString(fmt.Sprintf("      <link>%s</link>\n", escapeXML(item.Link)))
		builder.WriteString(fmt.Sprintf("      <guid isPermaLink=\"true\">%s</guid>\n", escapeXML(item.GUID)))
		builder.WriteString(fmt.Sprintf("      <pubDate>%s</pubDate>\n", pub.UTC().Format(time.RFC1123Z)))
		for _, category := range item.Categories {
			builder.WriteString(fmt.Sprintf("      <category>%s</category>\n", escapeXML(category)))
		}
		if item.Summary != "" {
			builder.WriteString(fmt.Sprintf("      <description>%s</description>\n", escapeXML(item.Summary)))
		}
		builder.WriteString("    </item>\n")
	}
	builder.WriteString("  </channel>\n")
	builder.WriteString(`</rss>` + "\n")
	return builder.String()
}

func escapeXML(value string) string {
	return html.EscapeString(value)
}
