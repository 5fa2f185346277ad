package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNew(t *testing.T) {
	client := New("test-api-key", "https://api.test.com", "test-model", 1000)

	if client.apiKey != "test-api-key" {
		t.Errorf("Expected apiKey 'test-api-key', got '%s'", client.apiKey)
	}
	if client.baseURL != "https://api.test.com" {
		t.Errorf("Expected baseURL 'https://api.test.com', got '%s'", client.baseURL)
	}
	if client.model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", client.model)
	}
	if client.maxTokens != 1000 {
		t.Errorf("Expected maxTokens 1000, got %d", client.maxTokens)
	}
}

func TestNew_TrimTrailingSlash(t *testing.T) {
	client := New("key", "https://api.test.com/", "model", 1000)

	if client.baseURL != "https://api.test.com" {
		t.Errorf("Expected baseURL without trailing slash, got '%s'", client.baseURL)
	}
}

func TestClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Verify request
		if r.Method != "POST" {
			t.Errorf("Expected POST method, got %s", r.Method)
		}
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("Expected path /v1/chat/completions, got %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", r.Header.Get("Content-Type"))
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("Expected Authorization header, got %s", r.Header.Get("Authorization"))
		}

		// Verify request body
		var reqBody chatRequest
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}
		if reqBody.Model != "test-model" {
			t.Errorf("Expected model 'test-model', got '%s'", reqBody.Model)
		}
		if reqBody.Temperature != 0.2 {
			t.Errorf("Expected temperature 0.2, got %f", reqBody.Temperature)
		}
		if len(reqBody.Messages) != 2 {
			t.Errorf("Expected 2 messages, got %d", len(reqBody.Messages))
		}

		// Send response
		resp := chatResponse{
			ID:      "test-id",
			Object:  "chat.completion",
			Created: time.Now().Unix(),
			Model:   "test-model",
			Choices: []struct {
				Index        int     `json:"index"`
				Message      Message `json:"message"`
				FinishReason string  `json:"finish_reason"`
			}{
				{
					Index: 0,
					Message: Message{
						Role:    "assistant",
						Content: "Paris is the capital of France.",
					},
					FinishReason: "stop",
				},
			},
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New("test-key", server.URL, "test-model", 1000)

	messages := []Message{
		{Role: "system", Content: "You are helpful."},
		{Role: "user", Content: "What is the capital of France?"},
	}

	content, err := client.Chat(context.Background(), messages, 0.2)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}

	if content != "Paris is the capital of France." {
		t.Errorf("Expected response content, got '%s'", content)
	}
}

func TestClient_Chat_ZeroTemperature(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var reqBody map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&reqBody); err != nil {
			t.Fatalf("Failed to decode request body: %v", err)
		}

		// A greedy classification call must still carry the temperature field
		if _, ok := reqBody["temperature"]; !ok {
			t.Error("Expected temperature field in request body")
		}
		if temp, _ := reqBody["temperature"].(float64); temp != 0 {
			t.Errorf("Expected temperature 0, got %v", reqBody["temperature"])
		}

		resp := chatResponse{
			ID: "test-id",
			Choices: []struct {
				Index        int     `json:"index"`
				Message      Message `json:"message"`
				FinishReason string  `json:"finish_reason"`
			}{
				{Index: 0, Message: Message{Role: "assistant", Content: "No"}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New("test-key", server.URL, "test-model", 1000)

	content, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "Question"}}, 0)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if content != "No" {
		t.Errorf("Expected 'No', got '%s'", content)
	}
}

func TestClient_Chat_ErrorResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"message": "Invalid request", "type": "invalid_request_error"}}`))
	}))
	defer server.Close()

	client := New("test-key", server.URL, "test-model", 1000)

	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "Hello"}}, 0.2)
	if err == nil {
		t.Error("Expected error for bad request")
	}
	if !strings.Contains(err.Error(), "status 400") {
		t.Errorf("Expected status 400 in error, got: %v", err)
	}
}

func TestClient_Chat_EmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{ID: "test-id"}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New("test-key", server.URL, "test-model", 1000)

	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "Hello"}}, 0.2)
	if err == nil {
		t.Error("Expected error for empty response")
	}
	if !strings.Contains(err.Error(), "empty response") {
		t.Errorf("Expected 'empty response' in error, got: %v", err)
	}
}

func TestClient_Chat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := chatResponse{
			Error: &struct {
				Message string `json:"message"`
				Type    string `json:"type"`
				Code    string `json:"code"`
			}{
				Message: "Rate limit exceeded",
				Type:    "rate_limit_error",
				Code:    "rate_limit",
			},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	client := New("test-key", server.URL, "test-model", 1000)

	_, err := client.Chat(context.Background(), []Message{{Role: "user", Content: "Hello"}}, 0.2)
	if err == nil {
		t.Error("Expected error for API error response")
	}
	if !strings.Contains(err.Error(), "Rate limit exceeded") {
		t.Errorf("Expected 'Rate limit exceeded' in error, got: %v", err)
	}
}

func TestHandleResponse_InvalidJSON(t *testing.T) {
	client := New("test-key", "https://api.test.com", "test-model", 1000)

	body := bytes.NewBufferString("invalid json")
	_, err := client.handleResponse(body)
	if err == nil {
		t.Error("Expected error for invalid JSON")
	}
}
