package service

import (
	"context"
	"slices"

	"github.com/spec-kit/cryptid/internal/auth"
	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/events"
	"github.com/spec-kit/cryptid/internal/repository"
)

// DefaultRoles are granted to users created or replaced without explicit roles.
var DefaultRoles = []string{domain.RoleUser}

// SignUpInput describes a new account.
type SignUpInput struct {
	Name     string
	Password string
	Roles    []string
}

// UserService coordinates account workflows.
type UserService struct {
	users      repository.UserRepository
	hasher     *auth.PasswordHasher
	dispatcher events.Dispatcher
}

// NewUserService constructs the service.
func NewUserService(users repository.UserRepository, hasher *auth.PasswordHasher, dispatcher events.Dispatcher) *UserService {
	return &UserService{users: users, hasher: hasher, dispatcher: dispatcher}
}

// Create hashes the password and stores the account.
func (s *UserService) Create(ctx context.Context, input SignUpInput) (*domain.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Name:         input.Name,
		Roles:        rolesOrDefault(input.Roles),
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventUserCreated, user.ID, nil))
	return user, nil
}

// List returns live users, or archived ones when deleted is set.
func (s *UserService) List(ctx context.Context, deleted bool) ([]domain.User, error) {
	if deleted {
		return s.users.ListDeleted(ctx)
	}
	return s.users.List(ctx)
}

// Get returns one live user, or an archived one when deleted is set.
func (s *UserService) Get(ctx context.Context, id string, deleted bool) (*domain.User, error) {
	if deleted {
		return s.users.GetDeletedByID(ctx, id)
	}
	return s.users.GetByID(ctx, id)
}

// Replace overwrites the name and roles of a user. The password is kept.
func (s *UserService) Replace(ctx context.Context, id, name string, roles []string) (*domain.User, error) {
	user := &domain.User{Name: name, Roles: rolesOrDefault(roles)}
	if err := s.users.Replace(ctx, id, user); err != nil {
		return nil, err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventUserUpdated, id, nil))
	return user, nil
}

// Modify applies the set fields of patch.
func (s *UserService) Modify(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	user, err := s.users.Modify(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventUserUpdated, id, nil))
	return user, nil
}

// Delete archives the user.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	events.Publish(ctx, s.dispatcher, events.New(ctx, events.EventUserDeleted, id, nil))
	return nil
}

func rolesOrDefault(roles []string) []string {
	if roles == nil {
		return slices.Clone(DefaultRoles)
	}
	return slices.Clone(roles)
}
