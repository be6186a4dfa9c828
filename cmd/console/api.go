package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/handlers"
	"github.com/jwebster45206/realm-engine/internal/session"
)

// apiClient talks to the realm-engine HTTP API.
type apiClient struct {
	http    *http.Client
	baseURL string
}

func (c *apiClient) testConnection() bool {
	resp, err := c.http.Get(c.baseURL + "/health")
	if err != nil {
		return false
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()
	return resp.StatusCode == http.StatusOK
}

// do sends body as JSON (when non-nil) and decodes a successful reply into out.
func (c *apiClient) do(method, path string, body any, want int, out any) error {
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		rd = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.baseURL+path, rd)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close() // Ignore error in defer
	}()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != want {
		var errorResp handlers.ErrorResponse
		if err := json.Unmarshal(data, &errorResp); err != nil || errorResp.Error == "" {
			return fmt.Errorf("API returned status %d: %s", resp.StatusCode, string(data))
		}
		return fmt.Errorf("%s", errorResp.Error)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

func (c *apiClient) listWorlds() ([]handlers.WorldSummary, error) {
	var worlds []handlers.WorldSummary
	err := c.do(http.MethodGet, "/v1/worlds", nil, http.StatusOK, &worlds)
	return worlds, err
}

func (c *apiClient) createSession(worldFile string) (*handlers.SessionView, error) {
	var view handlers.SessionView
	err := c.do(http.MethodPost, "/v1/sessions", handlers.CreateSessionRequest{World: worldFile}, http.StatusCreated, &view)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return &view, nil
}

func (c *apiClient) getSession(id uuid.UUID) (*handlers.SessionView, error) {
	var view handlers.SessionView
	if err := c.do(http.MethodGet, "/v1/sessions/"+id.String(), nil, http.StatusOK, &view); err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	return &view, nil
}

func (c *apiClient) playTurn(id uuid.UUID, message string) (*session.TurnOutcome, error) {
	var out session.TurnOutcome
	err := c.do(http.MethodPost, "/v1/sessions/"+id.String()+"/turns", handlers.TurnRequest{Message: message}, http.StatusOK, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *apiClient) rollback(id uuid.UUID) (*handlers.SessionView, error) {
	var view handlers.SessionView
	if err := c.do(http.MethodPost, "/v1/sessions/"+id.String()+"/rollback", nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *apiClient) getPage(id uuid.UUID, page int) (*handlers.PageView, error) {
	var view handlers.PageView
	if err := c.do(http.MethodGet, fmt.Sprintf("/v1/sessions/%s/pages/%d", id, page), nil, http.StatusOK, &view); err != nil {
		return nil, err
	}
	return &view, nil
}
