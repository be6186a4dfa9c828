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
)

// MaxImageBytes caps how much of an image response is read.
const MaxImageBytes = 8 << 20

// HTTPImageService posts a prompt to an image endpoint that answers with the
// raw image bytes.
type HTTPImageService struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

var _ ImageService = (*HTTPImageService)(nil)

type imageRequest struct {
	Prompt string `json:"prompt"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

func NewHTTPImageService(url, apiKey string) *HTTPImageService {
	return &HTTPImageService{
		url:    url,
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (s *HTTPImageService) GenerateImage(ctx context.Context, prompt string) ([]byte, string, error) {
	reqBody, err := json.Marshal(imageRequest{Prompt: prompt, Width: 512, Height: 512})
	if err != nil {
		return nil, "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewBuffer(reqBody))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("failed to make request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image request failed with status %d: %s", resp.StatusCode, string(body))
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(body)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", fmt.Errorf("image service returned %s", contentType)
	}
	if len(body) == 0 {
		return nil, "", fmt.Errorf("image service returned no data")
	}
	return body, contentType, nil
}
