package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPImageService_GenerateImage(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nrest")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req imageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Portrait of Mộc Thanh", req.Prompt)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(png)
	}))
	defer srv.Close()

	data, ct, err := NewHTTPImageService(srv.URL, "secret").GenerateImage(context.Background(), "Portrait of Mộc Thanh")
	require.NoError(t, err)
	assert.Equal(t, png, data)
	assert.Equal(t, "image/png", ct)
}

func TestHTTPImageService_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		status int
		ctype  string
		body   string
	}{
		{"server error", http.StatusInternalServerError, "text/plain", "boom"},
		{"not an image", http.StatusOK, "application/json", `{"error":"nope"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}))
			defer srv.Close()

			_, _, err := NewHTTPImageService(srv.URL, "").GenerateImage(context.Background(), "x")
			assert.Error(t, err)
		})
	}
}

func TestMocks(t *testing.T) {
	llm := NewMockLLM("first", "second")
	ctx := context.Background()

	r1, _ := llm.Narrate(ctx, nil)
	r2, _ := llm.Narrate(ctx, nil)
	r3, _ := llm.Narrate(ctx, nil)
	assert.Equal(t, []string{"first", "second", "Mock response"}, []string{r1, r2, r3})

	llm.SetNarrateError(errors.New("down"))
	_, err := llm.Narrate(ctx, nil)
	assert.Error(t, err)

	narrate, _ := llm.GetCalls()
	assert.Len(t, narrate, 4)

	img := NewMockImageService()
	data, ct, err := img.GenerateImage(ctx, "p")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, []string{"p"}, img.Calls())
}
