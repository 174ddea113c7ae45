package service

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository"
)

// AuditService records every published domain event in the log and, when a
// store is configured, in the audit table.
type AuditService struct {
	dispatcher events.Dispatcher
	store      repository.AuditRepository
	logger     *zap.Logger
}

// NewAuditService creates the service. store may be nil.
func NewAuditService(dispatcher events.Dispatcher, store repository.AuditRepository, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, store: store, logger: logger}
}

// RegisterHandlers subscribes to events.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, eventType := range events.AllEventTypes {
		a.dispatcher.Subscribe(eventType, a.handle)
	}
}

// List returns recorded entries, newest first.
func (a *AuditService) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	if a.store == nil {
		return []domain.AuditEntry{}, nil
	}
	return a.store.List(ctx, filter)
}

func (a *AuditService) handle(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("key", event.Key),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}
	a.logger.Info("audit", fields...)

	if a.store == nil {
		return nil
	}
	entry, err := toAuditEntry(event)
	if err != nil {
		return err
	}
	return a.store.Create(ctx, entry)
}

func toAuditEntry(event events.Event) (*domain.AuditEntry, error) {
	entry := &domain.AuditEntry{
		ID:        event.ID,
		EventType: string(event.Type),
		Key:       event.Key,
		CreatedAt: event.Timestamp,
	}
	if event.ActorID != "" {
		actor := event.ActorID
		entry.ActorID = &actor
	}
	if event.Payload != nil {
		payload, err := json.Marshal(event.Payload)
		if err != nil {
			return nil, err
		}
		entry.Payload = payload
	}
	return entry, nil
}
