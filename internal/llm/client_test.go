package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"askbuilding/internal/config"
)

func newTestClient(url string) *Client {
	return New(&config.OllamaConfig{
		URL:         url,
		Model:       "qwen2.5-coder:1.5b",
		MaxTokens:   256,
		Temperature: 0,
		Timeout:     5 * time.Second,
	}, zap.NewNop().Sugar())
}

func replyServer(t *testing.T, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		var req map[string]any
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("bad request body: %v", err)
		}
		if req["model"] != "qwen2.5-coder:1.5b" {
			t.Errorf("model = %v", req["model"])
		}
		if req["stream"] != false {
			t.Errorf("stream = %v", req["stream"])
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
}

func TestGenerateQueryReplyShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"response field", `{"response": "MATCH (r:Room) RETURN r"}`},
		{"result field", `{"result": "MATCH (r:Room) RETURN r"}`},
		{"output blocks", `{"output": [{"content": "MATCH (r:Room) RETURN r"}]}`},
		{"choices array", `{"choices": [{"message": {"content": "MATCH (r:Room) RETURN r"}}]}`},
		{"text field", `{"text": "MATCH (r:Room) RETURN r"}`},
		{"fenced response", "{\"response\": \"```cypher\\nMATCH (r:Room) RETURN r\\n```\"}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := replyServer(t, tt.body)
			defer srv.Close()

			got, err := newTestClient(srv.URL).GenerateQuery(context.Background(), "write a query")
			if err != nil {
				t.Fatalf("GenerateQuery: %v", err)
			}
			if got != "MATCH (r:Room) RETURN r" {
				t.Errorf("query = %q", got)
			}
		})
	}
}

func TestGenerateQueryErrors(t *testing.T) {
	t.Run("non-2xx status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "model not found", http.StatusNotFound)
		}))
		defer srv.Close()

		if _, err := newTestClient(srv.URL).GenerateQuery(context.Background(), "q"); err == nil {
			t.Error("expected error for 404")
		}
	})

	t.Run("unreachable endpoint", func(t *testing.T) {
		if _, err := newTestClient("http://127.0.0.1:1").GenerateQuery(context.Background(), "q"); err == nil {
			t.Error("expected transport error")
		}
	})
}

func TestGenerateQueryNonJSONBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("MATCH (r:Room) RETURN r"))
	}))
	defer srv.Close()

	// Non-JSON bodies fail to decode; that is reported, not silently used.
	if _, err := newTestClient(srv.URL).GenerateQuery(context.Background(), "q"); err == nil {
		t.Error("expected decode error for non-JSON body")
	}
}

func TestGenerateQueryEmptyJSONFallsBackToBody(t *testing.T) {
	srv := replyServer(t, `{"done": true}`)
	defer srv.Close()

	got, err := newTestClient(srv.URL).GenerateQuery(context.Background(), "q")
	if err != nil {
		t.Fatalf("GenerateQuery: %v", err)
	}
	if got != `{"done": true}` {
		t.Errorf("fallback body = %q", got)
	}
}
