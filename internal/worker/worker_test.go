package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/internal/services"
	"github.com/jwebster45206/realm-engine/internal/services/queue"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAvatarProcessor_Process(t *testing.T) {
	images := services.NewMockImageService()
	store := storage.NewMockStorage()
	events := engine.NewMemoryAvatarQueue()
	p := NewAvatarProcessor(images, store, events, testLogger())

	ctx := context.Background()
	sessionID := uuid.New()
	job := engine.AvatarJob{NPCID: "npc-1", Name: "Mộc Thanh", Prompt: "Portrait of Mộc Thanh", Seed: "s1"}

	require.NoError(t, p.Process(ctx, sessionID, job))
	assert.Equal(t, []string{"Portrait of Mộc Thanh"}, images.Calls())

	evs, err := events.Drain(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "npc-1", evs[0].NPCID)
	assert.Equal(t, "s1", evs[0].Seed)

	data, ct, err := store.GetAvatar(ctx, evs[0].URL)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, "image/png", ct)
}

func TestAvatarProcessor_ImageFailure(t *testing.T) {
	images := services.NewMockImageService()
	images.SetError(errors.New("gpu on fire"))
	events := engine.NewMemoryAvatarQueue()
	p := NewAvatarProcessor(images, storage.NewMockStorage(), events, testLogger())

	sessionID := uuid.New()
	err := p.Process(context.Background(), sessionID, engine.AvatarJob{NPCID: "npc-1", Name: "A"})
	assert.Error(t, err)

	evs, _ := events.Drain(context.Background(), sessionID)
	assert.Empty(t, evs)
}

func TestAsyncScheduler(t *testing.T) {
	images := services.NewMockImageService()
	events := engine.NewMemoryAvatarQueue()
	s := NewAsyncScheduler(NewAvatarProcessor(images, storage.NewMockStorage(), events, testLogger()), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	sessionID := uuid.New()
	s.Schedule(ctx, sessionID, []engine.AvatarJob{
		{NPCID: "a", Name: "A", Prompt: "pa"},
		{NPCID: "b", Name: "B", Prompt: "pb"},
	})
	// Jobs outlive the scheduling context.
	cancel()
	s.Wait()

	evs, err := events.Drain(context.Background(), sessionID)
	require.NoError(t, err)
	assert.Len(t, evs, 2)
	assert.ElementsMatch(t, []string{"pa", "pb"}, images.Calls())
}

func TestQueueSchedulerAndWorker(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := queue.NewClient("redis://"+mr.Addr(), testLogger())
	require.NoError(t, err)
	defer client.Close()

	q := queue.NewAvatarQueue(client)
	ctx := context.Background()
	sessionID := uuid.New()

	NewQueueScheduler(q, testLogger()).Schedule(ctx, sessionID, []engine.AvatarJob{
		{NPCID: "npc-1", Name: "Mộc Thanh", Prompt: "Portrait", Seed: "s1"},
	})
	depth, err := q.JobDepth(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, depth)

	w := New(q, NewAvatarProcessor(services.NewMockImageService(), storage.NewMockStorage(), q, testLogger()), testLogger(), "test-worker")
	req, err := q.BlockingDequeueJob(ctx, time.Second)
	require.NoError(t, err)
	require.NotNil(t, req)
	require.NoError(t, w.processRequest(req))

	evs, err := q.Drain(ctx, sessionID)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, "npc-1", evs[0].NPCID)
	assert.Contains(t, evs[0].URL, storage.AvatarRefPrefix)
}
