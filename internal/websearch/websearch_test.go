package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		results  []Result
		expected string
	}{
		{
			name:     "no results",
			results:  nil,
			expected: NoResults,
		},
		{
			name: "single result",
			results: []Result{
				{Title: "F1 Results", Snippet: "Driver X won", URL: "http://example.com"},
			},
			expected: "1. F1 Results: Driver X won (http://example.com)",
		},
		{
			name: "multiple results keep provider order",
			results: []Result{
				{Title: "First", Snippet: "one", URL: "http://a.example"},
				{Title: "Second", Snippet: "two", URL: "http://b.example"},
			},
			expected: "1. First: one (http://a.example)\n2. Second: two (http://b.example)",
		},
		{
			name: "missing fields get placeholders",
			results: []Result{
				{},
			},
			expected: "1. No title: No snippet (No URL)",
		},
		{
			name: "whitespace-only fields get placeholders",
			results: []Result{
				{Title: "  ", Snippet: "\t", URL: " "},
			},
			expected: "1. No title: No snippet (No URL)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Format(tt.results)
			if got != tt.expected {
				t.Errorf("Format() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestFormat_NeverEmpty(t *testing.T) {
	if Format(nil) == "" {
		t.Error("Format of zero results must return the sentinel, not an empty string")
	}
}

func TestTavilyProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/search" {
			t.Errorf("Expected path /search, got %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer tavily-key" {
			t.Errorf("Expected bearer credential, got %s", r.Header.Get("Authorization"))
		}

		var reqBody tavilyRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if reqBody.Query != "latest F1 race" {
			t.Errorf("Expected query 'latest F1 race', got %q", reqBody.Query)
		}
		if reqBody.Limit != 3 {
			t.Errorf("Expected limit 3, got %d", reqBody.Limit)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"title": "F1 Results", "url": "http://example.com", "content": "Driver X won"},
			{"title": "Standings", "url": "http://example.org", "snippet": "Driver X leads"}
		]}`))
	}))
	defer server.Close()

	provider := NewTavilyProvider(server.URL, "", "tavily-key", 10*time.Second)

	resp, err := provider.Search(context.Background(), "latest F1 race", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Provider != "tavily" {
		t.Errorf("Expected provider 'tavily', got %q", resp.Provider)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(resp.Results))
	}
	// The "content" field maps onto the snippet
	if resp.Results[0].Snippet != "Driver X won" {
		t.Errorf("Expected snippet from content field, got %q", resp.Results[0].Snippet)
	}
	if resp.Results[1].Snippet != "Driver X leads" {
		t.Errorf("Expected snippet field, got %q", resp.Results[1].Snippet)
	}
}

func TestTavilyProvider_Search_LimitTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": [
			{"title": "a", "url": "http://a", "content": "1"},
			{"title": "b", "url": "http://b", "content": "2"},
			{"title": "c", "url": "http://c", "content": "3"}
		]}`))
	}))
	defer server.Close()

	provider := NewTavilyProvider(server.URL, "", "key", 0)

	resp, err := provider.Search(context.Background(), "q", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Results) != 2 {
		t.Errorf("Expected results truncated to 2, got %d", len(resp.Results))
	}
}

func TestTavilyProvider_Search_ZeroResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"results": []}`))
	}))
	defer server.Close()

	provider := NewTavilyProvider(server.URL, "", "key", 0)

	resp, err := provider.Search(context.Background(), "q", 3)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(resp.Results) != 0 {
		t.Errorf("Expected no results, got %d", len(resp.Results))
	}
	if Format(resp.Results) != NoResults {
		t.Errorf("Expected NoResults sentinel, got %q", Format(resp.Results))
	}
}

func TestTavilyProvider_Search_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	provider := NewTavilyProvider(server.URL, "", "bad-key", 0)

	_, err := provider.Search(context.Background(), "q", 3)
	if err == nil {
		t.Error("Expected error for non-2xx status")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Errorf("Expected status 401 in error, got: %v", err)
	}
}

func TestTavilyProvider_Search_MissingKey(t *testing.T) {
	provider := NewTavilyProvider("https://api.tavily.com", "", "", 0)

	_, err := provider.Search(context.Background(), "q", 3)
	if err == nil {
		t.Error("Expected error when API key is missing")
	}
}

func TestTavilyProvider_Defaults(t *testing.T) {
	provider := NewTavilyProvider("", "", "key", 0)

	if provider.baseURL != "https://api.tavily.com" {
		t.Errorf("Expected default base URL, got %q", provider.baseURL)
	}
	if provider.client.Timeout != 10*time.Second {
		t.Errorf("Expected default 10s timeout, got %v", provider.client.Timeout)
	}
	if provider.Name() != "tavily" {
		t.Errorf("Expected name 'tavily', got %q", provider.Name())
	}
}

func TestDuckDuckGoProvider_Search(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "go language" {
			t.Errorf("Expected query 'go language', got %q", r.URL.Query().Get("q"))
		}
		if r.URL.Query().Get("format") != "json" {
			t.Errorf("Expected format=json, got %q", r.URL.Query().Get("format"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"Heading": "Go",
			"AbstractText": "Go is a programming language.",
			"AbstractURL": "https://golang.org",
			"Results": [{"Text": "Go homepage", "FirstURL": "https://go.dev"}],
			"RelatedTopics": [{"Text": "Goroutines", "FirstURL": "https://go.dev/tour"}]
		}`))
	}))
	defer server.Close()

	provider := NewDuckDuckGoProvider(server.URL, "", 0)

	resp, err := provider.Search(context.Background(), "go language", 2)
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if resp.Provider != "duckduckgo" {
		t.Errorf("Expected provider 'duckduckgo', got %q", resp.Provider)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("Expected 2 results (limit), got %d", len(resp.Results))
	}
	if resp.Results[0].Title != "Go" {
		t.Errorf("Expected abstract first, got %q", resp.Results[0].Title)
	}
}

func TestDuckDuckGoProvider_Search_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewDuckDuckGoProvider(server.URL, "", 0)

	_, err := provider.Search(context.Background(), "q", 3)
	if err == nil {
		t.Error("Expected error for non-2xx status")
	}
}
