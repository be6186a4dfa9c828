package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/config"
)

func TestNew_ProductionIsJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "production", LogLevel: slog.LevelInfo}, &buf)

	id := uuid.New()
	WithError(WithSession(log, id), errors.New("boom")).Info("turn failed")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Expected JSON log line, got %q: %v", buf.String(), err)
	}
	if rec["session_id"] != id.String() {
		t.Errorf("Expected session_id %s, got %v", id, rec["session_id"])
	}
	if rec["error"] != "boom" {
		t.Errorf("Expected error boom, got %v", rec["error"])
	}
}

func TestNew_DevelopmentIsTextAndLevelled(t *testing.T) {
	var buf bytes.Buffer
	log := New(&config.Config{Environment: "development", LogLevel: slog.LevelWarn}, &buf)

	log.Info("hidden")
	WithRequestID(log, "req-1").Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("Info line should be filtered at warn level: %q", out)
	}
	if !strings.Contains(out, "request_id=req-1") {
		t.Errorf("Expected text handler output with request_id, got %q", out)
	}
}
