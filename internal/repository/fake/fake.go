// Package fake provides in-memory repositories for tests and local runs
// without Postgres or Redis.
package fake

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/cryptid/internal/domain"
	"github.com/spec-kit/cryptid/internal/repository"
)

// CreatureRepository keeps creatures in a map keyed by name.
type CreatureRepository struct {
	mu        sync.Mutex
	creatures map[string]domain.Creature
}

var _ repository.CreatureRepository = (*CreatureRepository)(nil)

// NewCreatureRepository returns a repository seeded with creatures.
func NewCreatureRepository(seed ...domain.Creature) *CreatureRepository {
	r := &CreatureRepository{creatures: map[string]domain.Creature{}}
	for _, c := range seed {
		r.creatures[c.Name] = c
	}
	return r
}

func (r *CreatureRepository) Create(_ context.Context, creature *domain.Creature) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creatures[creature.Name]; ok {
		return domain.NewAlreadyExists("creature", creature.Name)
	}
	r.creatures[creature.Name] = *creature
	return nil
}

func (r *CreatureRepository) List(_ context.Context) ([]domain.Creature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Creature, 0, len(r.creatures))
	for _, c := range r.creatures {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *CreatureRepository) GetByName(_ context.Context, name string) (*domain.Creature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.creatures[name]
	if !ok {
		return nil, domain.NewNotFound("creature", name)
	}
	return &c, nil
}

func (r *CreatureRepository) Replace(_ context.Context, name string, creature *domain.Creature) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replace(name, *creature)
}

func (r *CreatureRepository) replace(name string, creature domain.Creature) error {
	if _, ok := r.creatures[name]; !ok {
		return domain.NewNotFound("creature", name)
	}
	if _, taken := r.creatures[creature.Name]; taken && creature.Name != name {
		return domain.NewAlreadyExists("creature", creature.Name)
	}
	delete(r.creatures, name)
	r.creatures[creature.Name] = creature
	return nil
}

func (r *CreatureRepository) Modify(_ context.Context, name string, patch domain.CreaturePatch) (*domain.Creature, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.creatures[name]
	if !ok {
		return nil, domain.NewNotFound("creature", name)
	}
	updated := patch.Apply(current)
	if err := r.replace(name, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *CreatureRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.creatures[name]; !ok {
		return domain.NewNotFound("creature", name)
	}
	delete(r.creatures, name)
	return nil
}

// ExplorerRepository keeps explorers in a map keyed by name.
type ExplorerRepository struct {
	mu        sync.Mutex
	explorers map[string]domain.Explorer
}

var _ repository.ExplorerRepository = (*ExplorerRepository)(nil)

// NewExplorerRepository returns a repository seeded with explorers.
func NewExplorerRepository(seed ...domain.Explorer) *ExplorerRepository {
	r := &ExplorerRepository{explorers: map[string]domain.Explorer{}}
	for _, e := range seed {
		r.explorers[e.Name] = e
	}
	return r
}

func (r *ExplorerRepository) Create(_ context.Context, explorer *domain.Explorer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.explorers[explorer.Name]; ok {
		return domain.NewAlreadyExists("explorer", explorer.Name)
	}
	r.explorers[explorer.Name] = *explorer
	return nil
}

func (r *ExplorerRepository) List(_ context.Context) ([]domain.Explorer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Explorer, 0, len(r.explorers))
	for _, e := range r.explorers {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (r *ExplorerRepository) GetByName(_ context.Context, name string) (*domain.Explorer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.explorers[name]
	if !ok {
		return nil, domain.NewNotFound("explorer", name)
	}
	return &e, nil
}

func (r *ExplorerRepository) Replace(_ context.Context, name string, explorer *domain.Explorer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.replace(name, *explorer)
}

func (r *ExplorerRepository) replace(name string, explorer domain.Explorer) error {
	if _, ok := r.explorers[name]; !ok {
		return domain.NewNotFound("explorer", name)
	}
	if _, taken := r.explorers[explorer.Name]; taken && explorer.Name != name {
		return domain.NewAlreadyExists("explorer", explorer.Name)
	}
	delete(r.explorers, name)
	r.explorers[explorer.Name] = explorer
	return nil
}

func (r *ExplorerRepository) Modify(_ context.Context, name string, patch domain.ExplorerPatch) (*domain.Explorer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.explorers[name]
	if !ok {
		return nil, domain.NewNotFound("explorer", name)
	}
	updated := patch.Apply(current)
	if err := r.replace(name, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *ExplorerRepository) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.explorers[name]; !ok {
		return domain.NewNotFound("explorer", name)
	}
	delete(r.explorers, name)
	return nil
}

// UserRepository keeps live and archived users in memory.
type UserRepository struct {
	mu      sync.Mutex
	users   map[string]domain.User
	deleted map[string]domain.User
	now     func() time.Time
}

var _ repository.UserRepository = (*UserRepository)(nil)

// NewUserRepository returns an empty user repository.
func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   map[string]domain.User{},
		deleted: map[string]domain.User{},
		now:     time.Now,
	}
}

func (r *UserRepository) nameTaken(name, exceptID string) bool {
	for id, u := range r.users {
		if u.Name == name && id != exceptID {
			return true
		}
	}
	return false
}

func (r *UserRepository) Create(_ context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.nameTaken(user.Name, "") {
		return domain.NewAlreadyExists("user", user.Name)
	}
	now := r.now().UTC()
	user.ID = uuid.NewString()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Roles = slices.Clone(user.Roles)
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedUsers(r.users), nil
}

func (r *UserRepository) ListDeleted(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return sortedUsers(r.deleted), nil
}

func sortedUsers(m map[string]domain.User) []domain.User {
	out := make([]domain.User, 0, len(m))
	for _, u := range m {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	return &u, nil
}

func (r *UserRepository) GetDeletedByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.deleted[id]
	if !ok {
		return nil, domain.NewNotFound("deleted user", id)
	}
	return &u, nil
}

func (r *UserRepository) Replace(_ context.Context, id string, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	updated, err := r.replace(id, *user)
	if err != nil {
		return err
	}
	*user = updated
	return nil
}

func (r *UserRepository) replace(id string, user domain.User) (domain.User, error) {
	current, ok := r.users[id]
	if !ok {
		return domain.User{}, domain.NewNotFound("user", id)
	}
	if r.nameTaken(user.Name, id) {
		return domain.User{}, domain.NewAlreadyExists("user", user.Name)
	}
	current.Name = user.Name
	current.Roles = slices.Clone(user.Roles)
	current.UpdatedAt = r.now().UTC()
	r.users[id] = current
	return current, nil
}

func (r *UserRepository) Modify(_ context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, ok := r.users[id]
	if !ok {
		return nil, domain.NewNotFound("user", id)
	}
	updated, err := r.replace(id, patch.Apply(current))
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return domain.NewNotFound("user", id)
	}
	deletedAt := r.now().UTC()
	u.DeletedAt = &deletedAt
	delete(r.users, id)
	r.deleted[id] = u
	return nil
}

func (r *UserRepository) FindCredential(ctx context.Context, subjectID string) (*domain.Credential, error) {
	u, err := r.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return &domain.Credential{SubjectID: u.ID, PasswordHash: u.PasswordHash, Roles: u.Roles}, nil
}

// RefreshTokenRepository keeps refresh tokens in memory with an injectable clock.
type RefreshTokenRepository struct {
	mu     sync.Mutex
	tokens map[string]repository.RefreshToken
	Now    func() time.Time
}

var _ repository.RefreshTokenRepository = (*RefreshTokenRepository)(nil)

// NewRefreshTokenRepository returns an empty refresh token store.
func NewRefreshTokenRepository() *RefreshTokenRepository {
	return &RefreshTokenRepository{tokens: map[string]repository.RefreshToken{}, Now: time.Now}
}

func (r *RefreshTokenRepository) Create(_ context.Context, subjectID string, ttl time.Duration) (*repository.RefreshToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token := repository.RefreshToken{
		Token:     uuid.NewString(),
		SubjectID: subjectID,
		ExpiresAt: r.Now().Add(ttl),
	}
	r.tokens[token.Token] = token
	return &token, nil
}

func (r *RefreshTokenRepository) Consume(_ context.Context, token string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.tokens[token]
	delete(r.tokens, token)
	if !ok || !r.Now().Before(stored.ExpiresAt) {
		return "", domain.NewNotFound("refresh token", "<redacted>")
	}
	return stored.SubjectID, nil
}

// AuditRepository keeps audit entries in insertion order.
type AuditRepository struct {
	mu      sync.Mutex
	entries []domain.AuditEntry
}

var _ repository.AuditRepository = (*AuditRepository)(nil)

// NewAuditRepository returns an empty audit log.
func NewAuditRepository() *AuditRepository {
	return &AuditRepository{}
}

func (r *AuditRepository) Create(_ context.Context, entry *domain.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *AuditRepository) List(_ context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	limit := filter.Limit
	if limit <= 0 || limit > repository.DefaultAuditLimit {
		limit = repository.DefaultAuditLimit
	}
	out := []domain.AuditEntry{}
	for i := len(r.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if filter.Key == "" || r.entries[i].Key == filter.Key {
			out = append(out, r.entries[i])
		}
	}
	return out, nil
}
