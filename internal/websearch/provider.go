package websearch

import (
	"context"
	"fmt"
	"strings"
)

// NoResults is the fixed sentinel returned when a search yields nothing.
const NoResults = "No results found."

// Result is a single search result entry.
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Response is a normalized search response.
type Response struct {
	Query    string   `json:"query"`
	Provider string   `json:"provider"`
	Results  []Result `json:"results"`
}

// Provider performs web searches.
type Provider interface {
	Name() string
	Search(ctx context.Context, query string, limit int) (Response, error)
}

// Format renders results as a numbered list, one line per result, in
// provider order. Missing fields get placeholder text so every line keeps
// the same shape. Zero results yield the NoResults sentinel.
func Format(results []Result) string {
	if len(results) == 0 {
		return NoResults
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		title := strings.TrimSpace(r.Title)
		if title == "" {
			title = "No title"
		}
		snippet := strings.TrimSpace(r.Snippet)
		if snippet == "" {
			snippet = "No snippet"
		}
		link := strings.TrimSpace(r.URL)
		if link == "" {
			link = "No URL"
		}
		lines = append(lines, fmt.Sprintf("%d. %s: %s (%s)", i+1, title, snippet, link))
	}

	return strings.Join(lines, "\n")
}
