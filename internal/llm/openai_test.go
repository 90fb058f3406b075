package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	ResponseFormat *struct {
		Type       string `json:"type"`
		JSONSchema struct {
			Name   string `json:"name"`
			Strict bool   `json:"strict"`
		} `json:"json_schema"`
	} `json:"response_format"`
}

func chatServer(t *testing.T, status int, reply string, finish string, got *chatRequest) string {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got != nil {
			_ = json.NewDecoder(r.Body).Decode(got)
		}
		w.Header().Set("Content-Type", "application/json")
		if status != http.StatusOK {
			w.WriteHeader(status)
			json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"type": "server_error", "message": "nope"},
			})
			return
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": reply},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}))
	t.Cleanup(server.Close)
	return server.URL + "/v1"
}

func TestOpenAI_Complete(t *testing.T) {
	var got chatRequest
	url := chatServer(t, http.StatusOK, "  Question: Capital of MP?\nCorrect Answer: B  ", "stop", &got)
	p, err := newOpenAI(Backend{APIKey: "k", Model: "gpt-mini", BaseURL: url})
	if err != nil {
		t.Fatalf("newOpenAI: %v", err)
	}

	c, err := p.Complete(context.Background(), Prompt{System: "sys", User: "ask", MaxTokens: 100})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != "Question: Capital of MP?\nCorrect Answer: B" {
		t.Errorf("text = %q", c.Text)
	}
	if c.Usage.Input != 40 || c.Usage.Output != 25 {
		t.Errorf("usage = %+v", c.Usage)
	}

	if got.Model != "gpt-4o-mini" {
		t.Errorf("alias not resolved: %q", got.Model)
	}
	if len(got.Messages) != 2 || got.Messages[0].Role != "system" || got.Messages[1].Content != "ask" {
		t.Errorf("unexpected messages: %+v", got.Messages)
	}
	if got.ResponseFormat != nil {
		t.Error("free-text prompt should not set a response format")
	}
}

func TestOpenAI_StructuredRequestsSchema(t *testing.T) {
	var got chatRequest
	url := chatServer(t, http.StatusOK, `{"name":"Asha","age":11}`, "stop", &got)
	p, _ := newOpenAI(Backend{APIKey: "k", Model: "gpt-4o", BaseURL: url})

	c, err := p.Complete(context.Background(), Prompt{User: "ask", Schema: testSchema()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Text != `{"name":"Asha","age":11}` {
		t.Errorf("text = %q", c.Text)
	}
	if got.ResponseFormat == nil || got.ResponseFormat.Type != "json_schema" {
		t.Fatalf("expected json_schema response format, got %+v", got.ResponseFormat)
	}
	if got.ResponseFormat.JSONSchema.Name != "test-object" || !got.ResponseFormat.JSONSchema.Strict {
		t.Errorf("unexpected schema block: %+v", got.ResponseFormat.JSONSchema)
	}
}

func TestOpenAI_StructuredMismatch(t *testing.T) {
	url := chatServer(t, http.StatusOK, `{"name":"Asha"}`, "stop", nil)
	p, _ := newOpenAI(Backend{APIKey: "k", Model: "gpt-4o", BaseURL: url})

	_, err := p.Complete(context.Background(), Prompt{User: "ask", Schema: testSchema()})
	if k, ok := KindOf(err); !ok || k != Malformed {
		t.Fatalf("expected malformed error, got %v", err)
	}
}

func TestOpenAI_ErrorStatus(t *testing.T) {
	tests := []struct {
		status int
		want   Kind
	}{
		{http.StatusTooManyRequests, RateLimited},
		{http.StatusInternalServerError, Unavailable},
		{http.StatusUnauthorized, Rejected},
	}
	for _, tt := range tests {
		url := chatServer(t, tt.status, "", "", nil)
		p, _ := newOpenAI(Backend{APIKey: "k", Model: "gpt-4o", BaseURL: url})

		_, err := p.Complete(context.Background(), Prompt{User: "ask"})
		if k, ok := KindOf(err); !ok || k != tt.want {
			t.Errorf("status %d: kind = %v (%v), want %v", tt.status, k, err, tt.want)
		}
	}
}

func TestOpenRouter_UsesModelVerbatim(t *testing.T) {
	var got chatRequest
	url := chatServer(t, http.StatusOK, "ok", "stop", &got)
	p, err := newOpenRouter(Backend{APIKey: "k", Model: "google/gemini-2.0-flash-exp", BaseURL: url})
	if err != nil {
		t.Fatalf("newOpenRouter: %v", err)
	}
	if p.Name() != "openrouter" {
		t.Errorf("name = %q", p.Name())
	}
	if _, err := p.Complete(context.Background(), Prompt{User: "ask"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Model != "google/gemini-2.0-flash-exp" {
		t.Errorf("model = %q", got.Model)
	}

	if _, err := newOpenRouter(Backend{Model: "x"}); err == nil {
		t.Error("expected missing key error")
	}
}
