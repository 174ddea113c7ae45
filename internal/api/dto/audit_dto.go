package dto

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/cryptid/internal/domain"
)

// AuditEntryResponse renders an audit entry.
type AuditEntryResponse struct {
	ID        string          `json:"id"`
	EventType string          `json:"event_type"`
	Key       string          `json:"key"`
	ActorID   *string         `json:"actor_id"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// NewAuditListResponse maps audit entries.
func NewAuditListResponse(entries []domain.AuditEntry) []AuditEntryResponse {
	out := make([]AuditEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditEntryResponse{
			ID:        e.ID,
			EventType: e.EventType,
			Key:       e.Key,
			ActorID:   e.ActorID,
			Payload:   e.Payload,
			CreatedAt: e.CreatedAt,
		})
	}
	return out
}
