package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/pagination"
	"github.com/jwebster45206/realm-engine/pkg/prompts"
)

const (
	DefaultOpenAITemperature = 0.7
	DefaultOpenAIMaxTokens   = 2048
	SummaryOpenAIMaxTokens   = 512
)

// OpenAIService implements NarrativeService and Summarizer for any
// OpenAI-compatible chat completions endpoint (OpenAI, Venice, Ollama).
type OpenAIService struct {
	apiKey       string
	baseURL      string
	modelName    string
	summaryModel string
	httpClient   *http.Client
}

var (
	_ NarrativeService = (*OpenAIService)(nil)
	_ Summarizer       = (*OpenAIService)(nil)
)

// OpenAIChatRequest represents the request structure for chat completions
type OpenAIChatRequest struct {
	Model       string        `json:"model"`
	Messages    []wireMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Stream      bool          `json:"stream"`
}

// OpenAIChatChoice represents a single choice in the response
type OpenAIChatChoice struct {
	Index        int         `json:"index"`
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// OpenAIChatResponse represents the response structure for chat completions
type OpenAIChatResponse struct {
	ID      string             `json:"id"`
	Model   string             `json:"model"`
	Choices []OpenAIChatChoice `json:"choices"`
	Error   *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// NewOpenAIService creates a service against baseURL, e.g.
// https://api.openai.com/v1 or http://localhost:11434/v1.
func NewOpenAIService(apiKey string, baseURL string, modelName string, summaryModel string) *OpenAIService {
	return &OpenAIService{
		apiKey:       apiKey,
		baseURL:      strings.TrimRight(baseURL, "/"),
		modelName:    modelName,
		summaryModel: summaryModel,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (o *OpenAIService) chatCompletion(ctx context.Context, messages []chat.Message, modelName string, maxTokens int) (string, error) {
	system, rest := splitMessages(messages)
	wire := rest
	if system != "" {
		wire = append([]wireMessage{{Role: chat.RoleSystem, Content: system}}, rest...)
	}

	reqBody, err := json.Marshal(OpenAIChatRequest{
		Model:       modelName,
		Messages:    wire,
		Temperature: DefaultOpenAITemperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewBuffer(reqBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	if o.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+o.apiKey)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(req)
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

	var chatResp OpenAIChatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("API error: %s", chatResp.Error.Message)
	}

	if len(chatResp.Choices) == 0 {
		return "", nil
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (o *OpenAIService) Narrate(ctx context.Context, messages []chat.Message) (string, error) {
	content, err := o.chatCompletion(ctx, messages, o.modelName, DefaultOpenAIMaxTokens)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(content) == "" {
		return msgNoResponse, nil
	}
	return content, nil
}

func (o *OpenAIService) Summarize(ctx context.Context, req pagination.SummaryRequest) (string, error) {
	model := o.modelName
	if o.summaryModel != "" {
		model = o.summaryModel
	}
	content, err := o.chatCompletion(ctx, prompts.SummaryPrompt(req), model, SummaryOpenAIMaxTokens)
	if err != nil {
		return "", fmt.Errorf("failed to summarize page %d: %w", req.Page, err)
	}
	return strings.TrimSpace(content), nil
}
