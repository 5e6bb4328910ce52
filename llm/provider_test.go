package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenAICompatChat(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var body struct {
			Model    string    `json:"model"`
			Messages []Message `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		if body.Model != "test-model" {
			t.Errorf("model = %q", body.Model)
		}
		if len(body.Messages) != 1 || body.Messages[0].Content != "hello" {
			t.Errorf("messages = %+v", body.Messages)
		}

		json.NewEncoder(w).Encode(map[string]any{
			"model": "test-model",
			"choices": []map[string]any{
				{"message": map[string]string{"content": "world"}, "finish_reason": "stop"},
			},
			"usage": map[string]int{"prompt_tokens": 3, "completion_tokens": 2, "total_tokens": 5},
		})
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{BaseURL: srv.URL, Model: "test-model", APIKey: "test-key"})
	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{{Role: "user", Content: "hello"}},
	})
	if err != nil {
		t.Fatalf("Chat: %v", err)
	}
	if resp.Content != "world" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TotalTokens != 5 {
		t.Errorf("TotalTokens = %d", resp.TotalTokens)
	}
}

// Client errors are not retried and surface immediately.
func TestOpenAICompatClientError(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, `{"error": "bad request"}`, http.StatusBadRequest)
	}))
	defer srv.Close()

	p := NewOpenAICompat(Config{BaseURL: srv.URL, Model: "m"})
	if _, err := p.Chat(context.Background(), ChatRequest{}); err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (no retry on 400)", calls)
	}
}

func TestNewProvider(t *testing.T) {
	for _, name := range []string{"openai", "ollama", "groq", "custom"} {
		if _, err := NewProvider(Config{Provider: name, BaseURL: "http://localhost:1"}); err != nil {
			t.Errorf("NewProvider(%q): %v", name, err)
		}
	}
	if _, err := NewProvider(Config{Provider: "bogus"}); err == nil {
		t.Error("unknown provider should fail")
	}
}
