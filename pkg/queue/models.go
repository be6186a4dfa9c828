package queue

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/engine"
)

// AvatarRequest is one portrait job waiting in the shared job queue.
type AvatarRequest struct {
	RequestID string           `json:"request_id"`
	SessionID uuid.UUID        `json:"session_id"`
	Job       engine.AvatarJob `json:"job"`

	EnqueuedAt time.Time `json:"enqueued_at"`
}

// NewAvatarRequest wraps job for sessionID with a fresh request id.
func NewAvatarRequest(sessionID uuid.UUID, job engine.AvatarJob) *AvatarRequest {
	return &AvatarRequest{
		RequestID:  uuid.NewString(),
		SessionID:  sessionID,
		Job:        job,
		EnqueuedAt: time.Now().UTC(),
	}
}

// ToJSON converts the request to JSON bytes for Redis
func (r *AvatarRequest) ToJSON() ([]byte, error) {
	return json.Marshal(r)
}

// FromJSON parses a request from JSON bytes
func FromJSON(data []byte) (*AvatarRequest, error) {
	var req AvatarRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	if req.SessionID == uuid.Nil {
		return nil, fmt.Errorf("avatar request %q has no session id", req.RequestID)
	}
	if req.Job.NPCID == "" {
		return nil, fmt.Errorf("avatar request %q has no npc id", req.RequestID)
	}
	return &req, nil
}
