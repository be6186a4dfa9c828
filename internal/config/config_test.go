package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, slog.LevelInfo, cfg.LogLevel)
	assert.Equal(t, 10, cfg.PageSize)
	assert.Equal(t, 30, cfg.HistoryLimit)
	assert.Equal(t, 168*time.Hour, cfg.SaveTTL)
	assert.Equal(t, AvatarModeInline, cfg.AvatarMode)
	assert.Equal(t, 256, cfg.SessionCacheSize)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdleTTL)
	assert.False(t, cfg.Engine().AutoGenerateAvatars)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("REALM_ENV", "production")
	t.Setenv("LOG_LEVEL", "WARNING")
	t.Setenv("PAGE_SIZE", "5")
	t.Setenv("SAVE_TTL", "2h")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("AUTO_AVATARS", "true")
	t.Setenv("IMAGE_SERVICE_URL", "http://images.local/generate")
	t.Setenv("REQUIRE_BREAKTHROUGH", "true")
	t.Setenv("SESSION_CACHE_SIZE", "16")
	t.Setenv("SESSION_IDLE_TTL", "5m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.Equal(t, 5, cfg.PageSize)
	assert.Equal(t, 2*time.Hour, cfg.SaveTTL)
	assert.Equal(t, "openai", cfg.LLMProvider)
	assert.Equal(t, 16, cfg.SessionCacheSize)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdleTTL)

	ec := cfg.Engine()
	assert.True(t, ec.AutoGenerateAvatars)
	assert.True(t, ec.RequireBreakthrough)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero page size", "PAGE_SIZE", "0"},
		{"bad page size", "PAGE_SIZE", "ten"},
		{"negative history", "HISTORY_LIMIT", "-1"},
		{"unknown provider", "LLM_PROVIDER", "carrier-pigeon"},
		{"unknown avatar mode", "AVATAR_MODE", "psychic"},
		{"zero session cache", "SESSION_CACHE_SIZE", "0"},
		{"negative idle ttl", "SESSION_IDLE_TTL", "-1m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestProgression(t *testing.T) {
	cfg := &Config{}
	table, err := cfg.Progression()
	require.NoError(t, err)
	assert.True(t, table.Enabled())

	path := filepath.Join(t.TempDir(), "ladder.yaml")
	require.NoError(t, os.WriteFile(path, []byte("realms: [Phàm Nhân, Luyện Khí]\n"), 0o644))
	cfg.ProgressionFile = path
	table, err = cfg.Progression()
	require.NoError(t, err)
	assert.Equal(t, []string{"Phàm Nhân", "Luyện Khí"}, table.Realms)

	cfg.ProgressionFile = filepath.Join(t.TempDir(), "missing.yaml")
	_, err = cfg.Progression()
	assert.Error(t, err)
}
