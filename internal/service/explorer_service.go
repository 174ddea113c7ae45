package service

import (
	"context"

	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository"
)

// ExplorerService coordinates explorer workflows.
type ExplorerService struct {
	explorers  repository.ExplorerRepository
	dispatcher events.Dispatcher
}

// NewExplorerService constructs the service.
func NewExplorerService(explorers repository.ExplorerRepository, dispatcher events.Dispatcher) *ExplorerService {
	return &ExplorerService{explorers: explorers, dispatcher: dispatcher}
}

// Create stores a new explorer.
func (s *ExplorerService) Create(ctx context.Context, explorer *domain.Explorer) (*domain.Explorer, error) {
	if err := s.explorers.Create(ctx, explorer); err != nil {
		return nil, err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventExplorerCreated, explorer.Name, nil))
	return explorer, nil
}

// List returns every explorer ordered by name.
func (s *ExplorerService) List(ctx context.Context) ([]domain.Explorer, error) {
	return s.explorers.List(ctx)
}

// Get returns the explorer called name.
func (s *ExplorerService) Get(ctx context.Context, name string) (*domain.Explorer, error) {
	return s.explorers.GetByName(ctx, name)
}

// Replace overwrites every field of the explorer called name, possibly renaming it.
func (s *ExplorerService) Replace(ctx context.Context, name string, explorer *domain.Explorer) (*domain.Explorer, error) {
	if err := s.explorers.Replace(ctx, name, explorer); err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, name, explorer.Name)
	return explorer, nil
}

// Modify applies the set fields of patch to the explorer called name.
func (s *ExplorerService) Modify(ctx context.Context, name string, patch domain.ExplorerPatch) (*domain.Explorer, error) {
	explorer, err := s.explorers.Modify(ctx, name, patch)
	if err != nil {
		return nil, err
	}
	s.publishUpdated(ctx, name, explorer.Name)
	return explorer, nil
}

// Delete removes the explorer called name.
func (s *ExplorerService) Delete(ctx context.Context, name string) error {
	if err := s.explorers.Delete(ctx, name); err != nil {
		return err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventExplorerDeleted, name, nil))
	return nil
}

func (s *ExplorerService) publishUpdated(ctx context.Context, oldName, newName string) {
	var payload interface{}
	if oldName != newName {
		payload = events.RenamedPayload{OldKey: oldName, NewKey: newName}
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventExplorerUpdated, newName, payload))
}
