package generator

import (
	"net/url"
	"path"
	"strings"
)

const postsSection = "blogs"

// PostRoute is the public route of a post page.
func PostRoute(slug string) string {
	return "/" + postsSection + "/" + url.PathEscape(slug) + "/"
}

// buildOutputPath maps a route to the file written for it.
func buildOutputPath(route string) string {
	clean := strings.Trim(strings.TrimSpace(route), " \t\r\n/")
	if clean == "" {
		return "index.html"
	}
	if unescaped, err := url.PathUnescape(clean); err == nil {
		clean = unescaped
	}
	return path.Join(clean, "index.html")
}

func absoluteURL(baseURL, route string) string {
	base := baseURLWithFallback(baseURL)
	if !strings.HasPrefix(route, "/") {
		route = "/" + route
	}
	return base + route
}

func baseURLWithFallback(baseURL string) string {
	base := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if base == "" {
		return "http://localhost"
	}
	return base
}
