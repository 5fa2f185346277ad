package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// TavilyProvider calls the Tavily search API.
type TavilyProvider struct {
	baseURL   string
	apiKey    string
	userAgent string
	client    *http.Client
}

// NewTavilyProvider creates a Tavily search provider.
func NewTavilyProvider(baseURL, userAgent, apiKey string, timeout time.Duration) *TavilyProvider {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = "https://api.tavily.com"
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = "AskMate/0.1"
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TavilyProvider{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

func (p *TavilyProvider) Name() string {
	return "tavily"
}

type tavilyRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit"`
}

type tavilyResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
	Content string `json:"content"`
}

type tavilyResponse struct {
	Results []tavilyResult `json:"results"`
}

func (p *TavilyProvider) Search(ctx context.Context, query string, limit int) (Response, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = 3
	}
	if p.apiKey == "" {
		return Response{}, fmt.Errorf("tavily API key is missing")
	}

	payload, err := json.Marshal(tavilyRequest{Query: query, Limit: limit})
	if err != nil {
		return Response{}, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/search", bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("User-Agent", p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf("search request failed with status %d", resp.StatusCode)
	}

	var decoded tavilyResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return Response{}, fmt.Errorf("failed to decode response: %w", err)
	}

	results := make([]Result, 0, limit)
	for _, res := range decoded.Results {
		if len(results) >= limit {
			break
		}
		snippet := res.Snippet
		if snippet == "" {
			// Tavily calls the snippet field "content"
			snippet = res.Content
		}
		results = append(results, Result{
			Title:   strings.TrimSpace(res.Title),
			URL:     strings.TrimSpace(res.URL),
			Snippet: strings.TrimSpace(snippet),
			Source:  p.Name(),
		})
	}

	return Response{
		Query:    query,
		Provider: p.Name(),
		Results:  results,
	}, nil
}
