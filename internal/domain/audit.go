package domain

import (
	"encoding/json"
	"time"
)

// AuditEntry is an immutable record of a published domain event.
type AuditEntry struct {
	ID        string
	EventType string
	Key       string
	ActorID   *string
	Payload   json.RawMessage
	CreatedAt time.Time
}

// AuditFilter narrows an audit listing. Zero values match everything.
type AuditFilter struct {
	Key   string
	Limit int
}
