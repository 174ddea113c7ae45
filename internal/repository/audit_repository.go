package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cryptid/internal/domain"
)

// DefaultAuditLimit caps audit listings that do not set a limit.
const DefaultAuditLimit = 100

// AuditRepository stores audit entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *domain.AuditEntry) error
	List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error)
}

type auditRepository struct {
	pool *pgxpool.Pool
}

// NewAuditRepository builds repository.
func NewAuditRepository(pool *pgxpool.Pool) AuditRepository {
	return &auditRepository{pool: pool}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	const query = `
        INSERT INTO audit_events (id, event_type, key, actor_id, payload, created_at)
        VALUES ($1,$2,$3,$4,$5,$6)`
	id, err := uuid.Parse(entry.ID)
	if err != nil {
		return err
	}
	var payload []byte
	if len(entry.Payload) > 0 {
		payload = entry.Payload
	}
	_, err = r.pool.Exec(ctx, query,
		id,
		entry.EventType,
		entry.Key,
		entry.ActorID,
		payload,
		entry.CreatedAt,
	)
	return err
}

// List returns the newest entries first.
func (r *auditRepository) List(ctx context.Context, filter domain.AuditFilter) ([]domain.AuditEntry, error) {
	const query = `
        SELECT id, event_type, key, actor_id, payload, created_at
        FROM audit_events
        WHERE ($1 = '' OR key = $1)
        ORDER BY created_at DESC
        LIMIT $2`
	rows, err := r.pool.Query(ctx, query, filter.Key, auditLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.AuditEntry{}
	for rows.Next() {
		var (
			entry   domain.AuditEntry
			id      uuid.UUID
			payload []byte
		)
		if err := rows.Scan(
			&id,
			&entry.EventType,
			&entry.Key,
			&entry.ActorID,
			&payload,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entry.ID = id.String()
		entry.Payload = payload
		result = append(result, entry)
	}
	return result, rows.Err()
}

func auditLimit(limit int) int {
	if limit <= 0 || limit > DefaultAuditLimit {
		return DefaultAuditLimit
	}
	return limit
}
