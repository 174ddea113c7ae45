package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCreatureCreated EventType = "creature_created"
	EventCreatureUpdated EventType = "creature_updated"
	EventCreatureDeleted EventType = "creature_deleted"
	EventExplorerCreated EventType = "explorer_created"
	EventExplorerUpdated EventType = "explorer_updated"
	EventExplorerDeleted EventType = "explorer_deleted"
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventTokenIssued     EventType = "token_issued"
)

// AllEventTypes lists every type services publish.
var AllEventTypes = []EventType{
	EventCreatureCreated, EventCreatureUpdated, EventCreatureDeleted,
	EventExplorerCreated, EventExplorerUpdated, EventExplorerDeleted,
	EventUserCreated, EventUserUpdated, EventUserDeleted,
	EventTokenIssued,
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Key       string      `json:"key"`
	ActorID   string      `json:"actor_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New builds an event for the entity identified by key, attributing it to the
// actor stored in ctx, if any.
func New(ctx context.Context, eventType EventType, key string, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Key:       key,
		ActorID:   ActorFromContext(ctx),
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// RenamedPayload is attached to update events that changed the entity key.
type RenamedPayload struct {
	OldKey string `json:"old_key"`
	NewKey string `json:"new_key"`
}

// TokenIssuedPayload describes an access token handed out by the auth endpoints.
type TokenIssuedPayload struct {
	Roles     []string   `json:"roles"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
	Refreshed bool       `json:"refreshed"`
}

type actorKey struct{}

// WithActor returns a context attributing published events to subjectID.
func WithActor(ctx context.Context, subjectID string) context.Context {
	return context.WithValue(ctx, actorKey{}, subjectID)
}

// ActorFromContext returns the subject stored by WithActor.
func ActorFromContext(ctx context.Context) string {
	actor, _ := ctx.Value(actorKey{}).(string)
	return actor
}
