package services

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/state"
)

func TestNewAnthropicService(t *testing.T) {
	apiKey := "test-api-key"
	modelName := "claude-3-sonnet-20240229"
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	service := NewAnthropicService(apiKey, modelName, "", log)

	if service.apiKey != apiKey {
		t.Errorf("Expected API key %s, got %s", apiKey, service.apiKey)
	}

	if service.modelName != modelName {
		t.Errorf("Expected model name %s, got %s", modelName, service.modelName)
	}

	if service.baseURL != anthropicBaseURL {
		t.Errorf("Expected base URL %s, got %s", anthropicBaseURL, service.baseURL)
	}

	if service.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
}

func TestSplitMessages(t *testing.T) {
	tests := []struct {
		name                   string
		messages               []chat.Message
		expectedSystem         string
		expectedNonSystemCount int
	}{
		{
			name: "single system message",
			messages: []chat.Message{
				{Role: chat.RoleSystem, Content: "You are the narrator."},
				{Role: chat.RoleUser, Content: "Hello"},
				{Role: chat.RoleNarrator, Content: "Hi there!"},
			},
			expectedSystem:         "You are the narrator.",
			expectedNonSystemCount: 2,
		},
		{
			name: "system and summary messages are combined",
			messages: []chat.Message{
				{Role: chat.RoleSystem, Content: "You are the narrator."},
				{Role: chat.RoleSummary, Content: "[Trang 1] Tóm tắt."},
				{Role: chat.RoleUser, Content: "Hello"},
				{Role: chat.RoleSystem, Content: "Be concise."},
			},
			expectedSystem:         "You are the narrator.\n\n[Trang 1] Tóm tắt.\n\nBe concise.",
			expectedNonSystemCount: 1,
		},
		{
			name: "no system messages",
			messages: []chat.Message{
				{Role: chat.RoleUser, Content: "Hello"},
				{Role: chat.RoleNarrator, Content: "Hi there!"},
			},
			expectedSystem:         "",
			expectedNonSystemCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			systemPrompt, rest := splitMessages(tt.messages)

			if systemPrompt != tt.expectedSystem {
				t.Errorf("Expected system prompt '%s', got '%s'", tt.expectedSystem, systemPrompt)
			}

			if len(rest) != tt.expectedNonSystemCount {
				t.Errorf("Expected %d non-system messages, got %d", tt.expectedNonSystemCount, len(rest))
			}

			for _, msg := range rest {
				if msg.Role == chat.RoleSystem || msg.Role == chat.RoleSummary {
					t.Errorf("Found %s message in non-system messages", msg.Role)
				}
			}
		})
	}
}

func anthropicServer(t *testing.T, status int, reply string, seen *AnthropicChatRequest) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/messages" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		if seen != nil {
			if err := json.NewDecoder(r.Body).Decode(seen); err != nil {
				t.Errorf("failed to decode request: %v", err)
			}
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, reply)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAnthropicService_Narrate(t *testing.T) {
	var seen AnthropicChatRequest
	srv := anthropicServer(t, http.StatusOK,
		`{"content":[{"type":"text","text":"Gió nổi. "},{"type":"text","text":"[EXP_CHANGE: value=5]"}]}`, &seen)
	service := NewAnthropicService("test-key", "narrator-model", "summary-model", nil).WithBaseURL(srv.URL + "/")

	got, err := service.Narrate(context.Background(), []chat.Message{
		{Role: chat.RoleSystem, Content: "system"},
		{Role: chat.RoleUser, Content: "Ta ngồi thiền."},
	})
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if got != "Gió nổi. [EXP_CHANGE: value=5]" {
		t.Errorf("unexpected reply %q", got)
	}
	if seen.Model != "narrator-model" {
		t.Errorf("Expected narrator model, got %s", seen.Model)
	}
	if seen.System != "system" || len(seen.Messages) != 1 {
		t.Errorf("system prompt not split out: %+v", seen)
	}
}

func TestAnthropicService_NarrateEmpty(t *testing.T) {
	srv := anthropicServer(t, http.StatusOK, `{"content":[]}`, nil)
	service := NewAnthropicService("test-key", "m", "", nil).WithBaseURL(srv.URL)

	got, err := service.Narrate(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "?"}})
	if err != nil {
		t.Fatalf("Narrate failed: %v", err)
	}
	if got != msgNoResponse {
		t.Errorf("Expected %q, got %q", msgNoResponse, got)
	}
}

func TestAnthropicService_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"http status", http.StatusTooManyRequests, `{"error":{"type":"rate_limit","message":"slow down"}}`},
		{"api error", http.StatusOK, `{"error":{"type":"invalid","message":"bad"}}`},
		{"bad json", http.StatusOK, `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := anthropicServer(t, tt.status, tt.body, nil)
			service := NewAnthropicService("test-key", "m", "", nil).WithBaseURL(srv.URL)
			if _, err := service.Narrate(context.Background(), []chat.Message{{Role: chat.RoleUser, Content: "?"}}); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}

func TestAnthropicService_Summarize(t *testing.T) {
	var seen AnthropicChatRequest
	srv := anthropicServer(t, http.StatusOK, `{"content":[{"type":"text","text":"  Lâm Phong nhập môn.  "}]}`, &seen)
	service := NewAnthropicService("test-key", "narrator-model", "summary-model", nil).WithBaseURL(srv.URL)

	got, err := service.Summarize(context.Background(), pagination.SummaryRequest{
		Page: 1, FromTurn: 1, ToTurn: 10,
		World:    state.WorldConfig{PlayerName: "Lâm Phong"},
		Messages: []chat.Message{{Role: chat.RoleUser, Content: "Ta bái sư.", Turn: 3}},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if got != "Lâm Phong nhập môn." {
		t.Errorf("unexpected summary %q", got)
	}
	if seen.Model != "summary-model" {
		t.Errorf("Expected summary model, got %s", seen.Model)
	}
	if seen.MaxTokens != SummaryAnthropicMaxTokens {
		t.Errorf("Expected %d max tokens, got %d", SummaryAnthropicMaxTokens, seen.MaxTokens)
	}
	if len(seen.Messages) != 1 || !strings.Contains(seen.Messages[0].Content, "Ta bái sư.") {
		t.Errorf("transcript missing from summary request: %+v", seen.Messages)
	}
}
