package service

import (
	"context"

	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository"
)

// CreatureService coordinates creature workflows.
type CreatureService struct {
	creatures  repository.CreatureRepository
	dispatcher events.Dispatcher
}

// NewCreatureService constructs the service.
func NewCreatureService(creatures repository.CreatureRepository, dispatcher events.Dispatcher) *CreatureService {
	return &CreatureService{creatures: creatures, dispatcher: dispatcher}
}

// Create stores a new creature.
func (s *CreatureService) Create(ctx context.Context, creature *domain.Creature) (*domain.Creature, error) {
	if err := s.creatures.Create(ctx, creature); err != nil {
		return nil, err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventCreatureCreated, creature.Name, nil))
	return creature, nil
}

// List returns every creature ordered by name.
func (s *CreatureService) List(ctx context.Context) ([]domain.Creature, error) {
	return s.creatures.List(ctx)
}

// Get returns the creature called name.
func (s *CreatureService) Get(ctx context.Context, name string) (*domain.Creature, error) {
	return s.creatures.GetByName(ctx, name)
}

// Replace overwrites every field of the creature called name, possibly renaming it.
func (s *CreatureService) Replace(ctx context.Context, name string, creature *domain.Creature) (*domain.Creature, error) {
	if err := s.creatures.Replace(ctx, name, creature); err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, name, creature.Name)
	return creature, nil
}

// Modify applies the set fields of patch to the creature called name.
func (s *CreatureService) Modify(ctx context.Context, name string, patch domain.CreaturePatch) (*domain.Creature, error) {
	creature, err := s.creatures.Modify(ctx, name, patch)
	if err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, name, creature.Name)
	return creature, nil
}

// Delete removes the creature called name.
func (s *CreatureService) Delete(ctx context.Context, name string) error {
	if err := s.creatures.Delete(ctx, name); err != nil {
		return err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventCreatureDeleted, name, nil))
	return nil
}

func (s *CreatureService) publishUpdated(ctx context.Context, oldName, newName string) {
	var payload interface{}
	if oldName != newName {
		payload = events.RenamedPayload{OldKey: oldName, NewKey: newName}
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventCreatureUpdated, newName, payload))
}
