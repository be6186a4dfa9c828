package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/storage"
)

// PutAvatar stores image bytes under a fresh avatar:<uuid> key and returns
// that key as the reference kept on the NPC.
func (r *RedisStorage) PutAvatar(ctx context.Context, data []byte, contentType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("avatar data cannot be empty")
	}
	ref := storage.AvatarRefPrefix + uuid.NewString()

	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, ref, "data", data, "contentType", contentType)
	pipe.Expire(ctx, ref, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to store avatar", "ref", ref, "error", err)
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	return ref, nil
}

// GetAvatar returns the bytes and content type stored under ref, or nil
// when it does not exist.
func (r *RedisStorage) GetAvatar(ctx context.Context, ref string) ([]byte, string, error) {
	if !strings.HasPrefix(ref, storage.AvatarRefPrefix) {
		return nil, "", fmt.Errorf("not an avatar reference: %q", ref)
	}
	fields, err := r.client.HGetAll(ctx, ref).Result()
	if err != nil {
		return nil, "", fmt.Errorf("failed to load avatar: %w", err)
	}
	data, ok := fields["data"]
	if !ok {
		return nil, "", nil
	}
	return []byte(data), fields["contentType"], nil
}
