package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cryptid/internal/domain"
)

const (
	userEntity        = "user"
	deletedUserEntity = "deleted user"
)

// UserRepository defines persistence access for user accounts and their archive.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	List(ctx context.Context) ([]domain.User, error)
	ListDeleted(ctx context.Context) ([]domain.User, error)
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetDeletedByID(ctx context.Context, id string) (*domain.User, error)
	Replace(ctx context.Context, id string, user *domain.User) error
	Modify(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	FindCredential(ctx context.Context, subjectID string) (*domain.Credential, error)
}

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository returns a Postgres-backed implementation.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

const (
	selectUser        = `SELECT id, name, password_hash, roles, created_at, updated_at FROM users`
	selectDeletedUser = `SELECT id, name, password_hash, roles, created_at, updated_at, deleted_at FROM deleted_users`
)

func scanUser(row pgx.Row) (*domain.User, error) {
	var (
		u  domain.User
		id uuid.UUID
	)
	if err := row.Scan(&id, &u.Name, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	return &u, nil
}

func scanDeletedUser(row pgx.Row) (*domain.User, error) {
	var (
		u         domain.User
		id        uuid.UUID
		deletedAt time.Time
	)
	if err := row.Scan(&id, &u.Name, &u.PasswordHash, &u.Roles, &u.CreatedAt, &u.UpdatedAt, &deletedAt); err != nil {
		return nil, err
	}
	u.ID = id.String()
	u.DeletedAt = &deletedAt
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, password_hash, roles)
        VALUES ($1, $2, $3, $4)
        RETURNING created_at, updated_at`

	id := uuid.New()
	err := r.pool.QueryRow(ctx, query,
		id,
		user.Name,
		user.PasswordHash,
		user.Roles,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAlreadyExists(userEntity, user.Name)
		}
		return err
	}
	user.ID = id.String()
	return nil
}

func (r *userRepository) List(ctx context.Context) ([]domain.User, error) {
	return listUsers(ctx, r.pool, selectUser+` ORDER BY created_at, name`, scanUser)
}

func (r *userRepository) ListDeleted(ctx context.Context) ([]domain.User, error) {
	return listUsers(ctx, r.pool, selectDeletedUser+` ORDER BY deleted_at, name`, scanDeletedUser)
}

func listUsers(ctx context.Context, q querier, query string, scan func(pgx.Row) (*domain.User, error)) ([]domain.User, error) {
	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := []domain.User{}
	for rows.Next() {
		u, err := scan(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return getUser(ctx, r.pool, id, false)
}

func getUser(ctx context.Context, q querier, id string, forUpdate bool) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFound(userEntity, id)
	}
	query := selectUser + ` WHERE id=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	u, err := scanUser(q.QueryRow(ctx, query, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound(userEntity, id)
	}
	return u, err
}

func (r *userRepository) GetDeletedByID(ctx context.Context, id string) (*domain.User, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.NewNotFound(deletedUserEntity, id)
	}
	u, err := scanDeletedUser(r.pool.QueryRow(ctx, selectDeletedUser+` WHERE id=$1`, uid))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound(deletedUserEntity, id)
	}
	return u, err
}

// Replace overwrites name and roles; the password hash is left untouched.
func (r *userRepository) Replace(ctx context.Context, id string, user *domain.User) error {
	return replaceUser(ctx, r.pool, id, user)
}

func replaceUser(ctx context.Context, q querier, id string, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, roles=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING id, name, password_hash, roles, created_at, updated_at`

	uid, err := uuid.Parse(id)
	if err != nil {
		return domain.NewNotFound(userEntity, id)
	}
	updated, err := scanUser(q.QueryRow(ctx, query, user.Name, user.Roles, uid))
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.NewNotFound(userEntity, id)
		case isUniqueViolation(err):
			return domain.NewAlreadyExists(userEntity, user.Name)
		}
		return err
	}
	*user = *updated
	return nil
}

func (r *userRepository) Modify(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	var updated domain.User
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := getUser(ctx, tx, id, true)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		return replaceUser(ctx, tx, id, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete moves the user into deleted_users within one transaction.
func (r *userRepository) Delete(ctx context.Context, id string) error {
	const archive = `
        INSERT INTO deleted_users (id, name, password_hash, roles, created_at, updated_at, deleted_at)
        VALUES ($1, $2, $3, $4, $5, $6, NOW())
        ON CONFLICT (id) DO UPDATE SET
            name=EXCLUDED.name, password_hash=EXCLUDED.password_hash, roles=EXCLUDED.roles,
            created_at=EXCLUDED.created_at, updated_at=EXCLUDED.updated_at, deleted_at=EXCLUDED.deleted_at`

	return withTx(ctx, r.pool, func(tx pgx.Tx) error {
		user, err := getUser(ctx, tx, id, true)
		if err != nil {
			return err
		}
		uid := uuid.MustParse(user.ID)
		if _, err := tx.Exec(ctx, `DELETE FROM users WHERE id=$1`, uid); err != nil {
			return err
		}
		_, err = tx.Exec(ctx, archive, uid, user.Name, user.PasswordHash, user.Roles, user.CreatedAt, user.UpdatedAt)
		return err
	})
}

// FindCredential resolves a subject id to its password hash and roles.
func (r *userRepository) FindCredential(ctx context.Context, subjectID string) (*domain.Credential, error) {
	user, err := r.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	return &domain.Credential{SubjectID: user.ID, PasswordHash: user.PasswordHash, Roles: user.Roles}, nil
}
