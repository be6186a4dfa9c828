package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/prompts"
)

const (
	anthropicBaseURL = "https://api.anthropic.com/v1"
	anthropicVersion = "2023-06-01"

	DefaultAnthropicTemperature = 0.7
	DefaultAnthropicMaxTokens   = 2048
	SummaryAnthropicMaxTokens   = 512
)

// AnthropicService implements NarrativeService and Summarizer for Anthropic Claude
type AnthropicService struct {
	apiKey       string
	modelName    string
	summaryModel string
	baseURL      string
	httpClient   *http.Client
	logger       *slog.Logger
}

var (
	_ NarrativeService = (*AnthropicService)(nil)
	_ Summarizer       = (*AnthropicService)(nil)
)

type AnthropicChatRequest struct {
	Model         string        `json:"model"`
	MaxTokens     int           `json:"max_tokens"`
	Temperature   *float64      `json:"temperature,omitempty"`
	Messages      []wireMessage `json:"messages"`
	System        string        `json:"system,omitempty"`
	Stream        bool          `json:"stream,omitempty"`
	StopSequences []string      `json:"stop_sequences,omitempty"`
}

type AnthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type AnthropicChatResponse struct {
	ID         string                  `json:"id"`
	Type       string                  `json:"type"`
	Role       string                  `json:"role"`
	Content    []AnthropicContentBlock `json:"content"`
	Model      string                  `json:"model"`
	StopReason string                  `json:"stop_reason"`
	Usage      struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// NewAnthropicService creates the service. summaryModel may be empty, in
// which case summaries use modelName.
func NewAnthropicService(apiKey string, modelName string, summaryModel string, logger *slog.Logger) *AnthropicService {
	return &AnthropicService{
		apiKey:       apiKey,
		modelName:    modelName,
		summaryModel: summaryModel,
		baseURL:      anthropicBaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
		logger: logger,
	}
}

// WithBaseURL points the service at a different API host.
func (a *AnthropicService) WithBaseURL(url string) *AnthropicService {
	a.baseURL = strings.TrimRight(url, "/")
	return a
}

// chatCompletion makes a chat completion request to Anthropic with the specified model
func (a *AnthropicService) chatCompletion(ctx context.Context, systemPrompt string, messages []wireMessage, modelName string, maxTokens int) (string, error) {
	temperature := DefaultAnthropicTemperature
	anthropicReq := AnthropicChatRequest{
		Model:       modelName,
		MaxTokens:   maxTokens,
		Temperature: &temperature,
		Messages:    messages,
		System:      systemPrompt,
	}

	reqBody, err := json.Marshal(anthropicReq)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.baseURL+"/messages", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-api-key", a.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("content-type", "application/json")

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var anthropicResp AnthropicChatResponse
	if err := json.Unmarshal(body, &anthropicResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if anthropicResp.Error != nil {
		return "", fmt.Errorf("API error: %s", anthropicResp.Error.Message)
	}

	var sb strings.Builder
	for _, content := range anthropicResp.Content {
		if content.Type == "text" {
			sb.WriteString(content.Text)
		}
	}

	if a.logger != nil {
		a.logger.Debug("Anthropic completion",
			"model", modelName,
			"input_tokens", anthropicResp.Usage.InputTokens,
			"output_tokens", anthropicResp.Usage.OutputTokens)
	}
	return sb.String(), nil
}

// Narrate returns the narrator's reply for a composed prompt.
func (a *AnthropicService) Narrate(ctx context.Context, messages []chat.Message) (string, error) {
	system, rest := splitMessages(messages)
	content, err := a.chatCompletion(ctx, system, rest, a.modelName, DefaultAnthropicMaxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return msgNoResponse, nil
	}
	return content, nil
}

// Summarize condenses a closed page. An empty reply is returned as is so the
// pagination controller can substitute its placeholder.
func (a *AnthropicService) Summarize(ctx context.Context, req pagination.SummaryRequest) (string, error) {
	model := a.modelName
	if a.summaryModel != "" {
		model = a.summaryModel
	}
	system, rest := splitMessages(prompts.SummaryPrompt(req))
	content, err := a.chatCompletion(ctx, system, rest, model, SummaryAnthropicMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to summarize page %d: %w", req.Page, err)
	}
	return strings.TrimSpace(content), nil
}
