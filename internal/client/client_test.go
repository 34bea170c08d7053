package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/yildizm/PitchRoast/internal/roast"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()

	config := DefaultConfig()
	config.BaseURL = baseURL

	c, err := New(config)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestClient_New(t *testing.T) {
	c, err := New(nil)
	if err != nil {
		t.Fatalf("Failed to create client with defaults: %v", err)
	}
	if c.BaseURL() != "http://localhost:8000" {
		t.Errorf("Expected default base URL, got %s", c.BaseURL())
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"https", func(c *Config) { c.BaseURL = "https://roast.example.com/api" }, false},
		{"brutal", func(c *Config) { c.Intensity = IntensityBrutal }, false},
		{"empty base url", func(c *Config) { c.BaseURL = "" }, true},
		{"bad scheme", func(c *Config) { c.BaseURL = "ftp://localhost" }, true},
		{"no host", func(c *Config) { c.BaseURL = "http://" }, true},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, true},
		{"bad intensity", func(c *Config) { c.Intensity = "Gentle" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := DefaultConfig()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_Analyze(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/analyze" {
			t.Errorf("Expected path '/analyze', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected JSON content type, got '%s'", ct)
		}

		var req AnalyzeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if req.Pitch != "We sell ice to penguins" {
			t.Errorf("Expected exact pitch text, got '%s'", req.Pitch)
		}
		if req.Intensity != "Normal" {
			t.Errorf("Expected intensity Normal, got '%s'", req.Intensity)
		}

		w.Header().Set("Content-Type", "application/x-ndjson")
		_, _ = w.Write([]byte(`{"type":"log","message":"Step 1"}` + "\n"))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	body, err := c.Analyze(context.Background(), "We sell ice to penguins")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	defer func() { _ = body.Close() }()

	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if !strings.Contains(string(data), "Step 1") {
		t.Errorf("Unexpected body: %s", data)
	}
}

func TestClient_Chat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat" {
			t.Errorf("Expected path '/chat', got '%s'", r.URL.Path)
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("Failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 {
			t.Errorf("Expected 2 messages, got %d", len(req.Messages))
		}
		if req.Messages[1].Role != roast.RoleUser || req.Messages[1].Kind != roast.KindText {
			t.Errorf("Unexpected last message: %+v", req.Messages[1])
		}
		if req.Context != `{"verdict":{}}` {
			t.Errorf("Expected context to round-trip, got '%s'", req.Context)
		}

		for _, part := range []string{"Hel", "lo"} {
			_, _ = w.Write([]byte(`{"type":"chunk","content":"` + part + `"}` + "\n"))
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	messages := []roast.ChatMessage{
		roast.AssistantMessage("Your idea scored 2/10."),
		roast.UserMessage("But penguins love ice"),
	}
	body, err := c.Chat(context.Background(), messages, `{"verdict":{}}`)
	if err != nil {
		t.Fatalf("Chat() error = %v", err)
	}
	defer func() { _ = body.Close() }()

	data, _ := io.ReadAll(body)
	if strings.Count(string(data), "chunk") != 2 {
		t.Errorf("Expected 2 chunk events, got %s", data)
	}
}

func TestClient_StatusError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{
			name:       "service error shape",
			status:     http.StatusBadGateway,
			body:       `{"error":"LLM Provider Error","detail":"upstream quota"}`,
			wantDetail: "LLM Provider Error: upstream quota",
		},
		{
			name:       "validation detail list",
			status:     http.StatusUnprocessableEntity,
			body:       `{"detail":[{"loc":["body","pitch"],"msg":"field required"}]}`,
			wantDetail: "field required",
		},
		{
			name:       "plain text body",
			status:     http.StatusInternalServerError,
			body:       "oops",
			wantDetail: "Internal Server Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			c := newTestClient(t, server.URL)
			_, err := c.Analyze(context.Background(), "pitch")
			if err == nil {
				t.Fatal("Expected error for failure status")
			}

			var ce *Error
			if !errors.As(err, &ce) {
				t.Fatalf("Expected *Error, got %T", err)
			}
			if ce.StatusCode != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, ce.StatusCode)
			}
			if !strings.Contains(ce.Detail, tt.wantDetail) {
				t.Errorf("Expected detail containing %q, got %q", tt.wantDetail, ce.Detail)
			}
			if !IsStatusError(err) {
				t.Error("Expected IsStatusError to be true")
			}
		})
	}
}

func TestClient_EmptyBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Length", "0")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.Analyze(context.Background(), "pitch")
	if !errors.Is(err, ErrNoBody) {
		t.Errorf("Expected ErrNoBody, got %v", err)
	}
}

func TestClient_NetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url)
	_, err := c.Analyze(context.Background(), "pitch")
	if err == nil {
		t.Fatal("Expected error for closed server")
	}
	if !IsNetworkError(err) {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestClient_Canceled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	c := newTestClient(t, server.URL)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Analyze(ctx, "pitch")
	var ce *Error
	if !errors.As(err, &ce) {
		t.Fatalf("Expected *Error, got %v", err)
	}
	if ce.Type != ErrTypeTimeout {
		t.Errorf("Expected timeout error, got %s", ce.Type)
	}
}

func TestClient_Validation(t *testing.T) {
	c := newTestClient(t, "http://localhost:8000")

	if _, err := c.Analyze(context.Background(), "   "); err == nil {
		t.Error("Expected error for blank pitch")
	}
	if _, err := c.Chat(context.Background(), nil, "ctx"); err == nil {
		t.Error("Expected error for empty transcript")
	}
}

func TestClient_Health(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/" {
			t.Errorf("Unexpected request %s %s", r.Method, r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(HealthResponse{Message: "Roast My Startup Idea API is running"})
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	msg, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health() error = %v", err)
	}
	if msg != "Roast My Startup Idea API is running" {
		t.Errorf("Unexpected health message: %s", msg)
	}
}

func TestError_Is(t *testing.T) {
	err := NewErrorWithCause(ErrTypeNetwork, "request failed", "/analyze", errors.New("dial tcp"))

	if !errors.Is(err, &Error{Type: ErrTypeNetwork}) {
		t.Error("Expected errors.Is to match on type")
	}
	if errors.Is(err, &Error{Type: ErrTypeProvider}) {
		t.Error("Expected errors.Is not to match a different type")
	}
	if !strings.Contains(err.Error(), "dial tcp") {
		t.Errorf("Expected cause in message, got %s", err.Error())
	}
}
