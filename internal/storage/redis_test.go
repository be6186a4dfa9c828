package storage

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/chat"
	"github.com/jwebster45206/realm-engine/pkg/progression"
	"github.com/jwebster45206/realm-engine/pkg/state"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T, dataDir string) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	s, err := NewRedisStorage("redis://"+mr.Addr(), dataDir, time.Hour, logger)
	if err != nil {
		mr.Close()
		t.Fatalf("Failed to create storage: %v", err)
	}
	return s, mr
}

func newSession() *storage.SessionData {
	kb := state.NewKnowledgeBase(state.WorldConfig{PlayerName: "Lâm Phong"}, progression.Default())
	return &storage.SessionData{
		ID:            kb.ID,
		KnowledgeBase: kb,
		Messages: []chat.Message{
			chat.NewMessage(chat.RoleUser, "Ta bước vào sơn môn.", 1),
			chat.NewMessage(chat.RoleNarrator, "Trưởng lão nhìn ngươi.", 1),
		},
	}
}

func TestRedisStorage_Ping(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()

	require.NoError(t, s.Ping(context.Background()))
	require.NoError(t, s.WaitForConnection(context.Background()))
}

func TestRedisStorage_SessionRoundTrip(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	sess := newSession()
	sess.KnowledgeBase.PlayerStats.Exp = 42
	require.NoError(t, s.SaveSession(ctx, sess))
	assert.False(t, sess.CreatedAt.IsZero())

	loaded, err := s.LoadSession(ctx, sess.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, 42, loaded.KnowledgeBase.PlayerStats.Exp)
	assert.Equal(t, "Lâm Phong", loaded.KnowledgeBase.WorldConfig.PlayerName)
	assert.Len(t, loaded.Messages, 2)
	assert.Equal(t, chat.RoleNarrator, loaded.Messages[1].Role)

	ttl := mr.TTL(sessionKey(sess.ID))
	assert.Equal(t, time.Hour, ttl)
}

func TestRedisStorage_LoadSession_NotFound(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()

	loaded, err := s.LoadSession(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_LoadSession_Corrupt(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()

	id := uuid.New()
	require.NoError(t, mr.Set(sessionKey(id), "{not json"))
	_, err := s.LoadSession(context.Background(), id)
	assert.Error(t, err)
}

func TestRedisStorage_DeleteSession(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	sess := newSession()
	require.NoError(t, s.SaveSession(ctx, sess))
	require.NoError(t, s.DeleteSession(ctx, sess.ID))

	loaded, err := s.LoadSession(ctx, sess.ID)
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestRedisStorage_SaveSession_Nil(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()

	assert.Error(t, s.SaveSession(context.Background(), nil))
	assert.Error(t, s.SaveSession(context.Background(), &storage.SessionData{ID: uuid.New()}))
}

func TestRedisStorage_Avatars(t *testing.T) {
	s, mr := setupTestRedis(t, t.TempDir())
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	img := []byte{0x89, 'P', 'N', 'G', 0x00, 0x01}
	ref, err := s.PutAvatar(ctx, img, "image/png")
	require.NoError(t, err)
	assert.Contains(t, ref, storage.AvatarRefPrefix)
	assert.True(t, mr.Exists(ref))

	data, ct, err := s.GetAvatar(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, img, data)
	assert.Equal(t, "image/png", ct)

	data, ct, err = s.GetAvatar(ctx, storage.AvatarRefPrefix+uuid.NewString())
	assert.NoError(t, err)
	assert.Nil(t, data)
	assert.Empty(t, ct)

	_, _, err = s.GetAvatar(ctx, "https://example.com/a.png")
	assert.Error(t, err)

	_, err = s.PutAvatar(ctx, nil, "image/png")
	assert.Error(t, err)
}

const testWorld = `name: Thanh Vân Giới
world:
  theme: Tu tiên
  setting: Một đại lục nơi tông môn tranh đoạt linh mạch.
  playerName: Lâm Phong
  difficulty: normal
progression:
  realms: [Phàm Nhân, Luyện Khí, Trúc Cơ]
opening: Ngươi tỉnh dậy dưới chân núi Thanh Vân.
`

func writeWorld(t *testing.T, dir, name, body string) {
	t.Helper()
	worlds := filepath.Join(dir, "worlds")
	require.NoError(t, os.MkdirAll(worlds, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(worlds, name), []byte(body), 0o644))
}

func TestRedisStorage_Worlds(t *testing.T) {
	dir := t.TempDir()
	writeWorld(t, dir, "thanh_van.yaml", testWorld)
	writeWorld(t, dir, "bare.yml", "name: Hoang Mạc\nworld:\n  theme: Hoang mạc\n")
	writeWorld(t, dir, "broken.yaml", "progression:\n  realms: [A, A]\n")
	writeWorld(t, dir, "notes.txt", "ignored")

	s, mr := setupTestRedis(t, dir)
	defer mr.Close()
	defer s.Close()
	ctx := context.Background()

	worlds, err := s.ListWorlds(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"Thanh Vân Giới": "thanh_van.yaml",
		"Hoang Mạc":      "bare.yml",
	}, worlds)

	w, err := s.GetWorld(ctx, "thanh_van.yaml")
	require.NoError(t, err)
	assert.Equal(t, "Lâm Phong", w.Config.PlayerName)
	assert.Equal(t, []string{"Phàm Nhân", "Luyện Khí", "Trúc Cơ"}, w.Progression.Realms)
	assert.Contains(t, w.Opening, "Thanh Vân")

	bare, err := s.GetWorld(ctx, "bare.yml")
	require.NoError(t, err)
	assert.Equal(t, progression.DefaultRealms, bare.Progression.Realms)

	_, err = s.GetWorld(ctx, "broken.yaml")
	assert.Error(t, err)

	_, err = s.GetWorld(ctx, "missing.yaml")
	assert.Error(t, err)
}

func TestRedisStorage_ListWorlds_NoDirectory(t *testing.T) {
	s, mr := setupTestRedis(t, filepath.Join(t.TempDir(), "absent"))
	defer mr.Close()
	defer s.Close()

	worlds, err := s.ListWorlds(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, worlds)
}
