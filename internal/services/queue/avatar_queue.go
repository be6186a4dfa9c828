package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/engine"
	"github.com/jwebster45206/realm-engine/pkg/queue"
	"github.com/redis/go-redis/v9"
)

// JobsKey is the shared list portrait workers pull from.
const JobsKey = "avatar-jobs"

// AvatarQueue carries portrait jobs to workers and finished avatar events
// back to the owning session.
type AvatarQueue struct {
	client *Client
}

var _ engine.AvatarQueue = (*AvatarQueue)(nil)

func NewAvatarQueue(client *Client) *AvatarQueue {
	return &AvatarQueue{
		client: client,
	}
}

func eventsKey(sessionID uuid.UUID) string {
	return fmt.Sprintf("avatar-events:%s", sessionID.String())
}

// Push appends a finished avatar event to the session's queue
func (q *AvatarQueue) Push(ctx context.Context, sessionID uuid.UUID, ev engine.AvatarEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to serialize avatar event: %w", err)
	}
	if err := q.client.rdb.RPush(ctx, eventsKey(sessionID), data).Err(); err != nil {
		return fmt.Errorf("failed to push avatar event: %w", err)
	}
	return nil
}

// Drain removes and returns all avatar events queued for a session.
// Malformed entries are skipped.
func (q *AvatarQueue) Drain(ctx context.Context, sessionID uuid.UUID) ([]engine.AvatarEvent, error) {
	key := eventsKey(sessionID)

	pipe := q.client.rdb.TxPipeline()
	rng := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("failed to drain avatar events: %w", err)
	}

	raw := rng.Val()
	events := make([]engine.AvatarEvent, 0, len(raw))
	for _, r := range raw {
		var ev engine.AvatarEvent
		if err := json.Unmarshal([]byte(r), &ev); err != nil {
			q.client.logger.Warn("Dropping malformed avatar event", "session_id", sessionID, "error", err)
			continue
		}
		events = append(events, ev)
	}
	return events, nil
}

// Depth returns the number of avatar events waiting for a session
func (q *AvatarQueue) Depth(ctx context.Context, sessionID uuid.UUID) (int, error) {
	count, err := q.client.rdb.LLen(ctx, eventsKey(sessionID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get queue depth: %w", err)
	}
	return int(count), nil
}

// EnqueueJob adds a portrait job to the shared job queue
func (q *AvatarQueue) EnqueueJob(ctx context.Context, req *queue.AvatarRequest) error {
	data, err := req.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to serialize request: %w", err)
	}
	if err := q.client.rdb.RPush(ctx, JobsKey, data).Err(); err != nil {
		return fmt.Errorf("failed to enqueue request: %w", err)
	}
	return nil
}

// BlockingDequeueJob waits up to timeout for the next job. It returns nil
// when the wait times out.
func (q *AvatarQueue) BlockingDequeueJob(ctx context.Context, timeout time.Duration) (*queue.AvatarRequest, error) {
	result, err := q.client.rdb.BLPop(ctx, timeout, JobsKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to dequeue request: %w", err)
	}

	// BLPop returns [key, value]
	if len(result) != 2 {
		return nil, fmt.Errorf("unexpected BLPop result: %v", result)
	}

	req, err := queue.FromJSON([]byte(result[1]))
	if err != nil {
		return nil, fmt.Errorf("failed to parse request: %w", err)
	}
	return req, nil
}

// JobDepth returns the number of jobs waiting in the shared queue
func (q *AvatarQueue) JobDepth(ctx context.Context) (int, error) {
	count, err := q.client.rdb.LLen(ctx, JobsKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to get request queue depth: %w", err)
	}
	return int(count), nil
}
