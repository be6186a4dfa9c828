package queue

import (
	"testing"

	"github.com/google/uuid"
	"github.com/jwebster45206/realm-engine/pkg/engine"
)

func TestFromJSON(t *testing.T) {
	sessionID := uuid.New()
	req := NewAvatarRequest(sessionID, engine.AvatarJob{NPCID: "npc-1", Name: "Mộc Thanh", Prompt: "Portrait", Seed: "s"})

	data, err := req.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON failed: %v", err)
	}
	got, err := FromJSON(data)
	if err != nil {
		t.Fatalf("FromJSON failed: %v", err)
	}
	if got.SessionID != sessionID || got.Job.NPCID != "npc-1" || got.RequestID != req.RequestID {
		t.Errorf("unexpected request %+v", got)
	}

	tests := []struct {
		name string
		data string
	}{
		{"invalid json", `{`},
		{"missing session", `{"request_id":"r","job":{"npcId":"n"}}`},
		{"missing npc", `{"request_id":"r","session_id":"` + sessionID.String() + `","job":{}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := FromJSON([]byte(tt.data)); err == nil {
				t.Error("Expected an error")
			}
		})
	}
}
