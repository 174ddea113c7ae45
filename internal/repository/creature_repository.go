package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cryptid/internal/domain"
)

const creatureEntity = "creature"

// CreatureRepository defines persistence access for creatures.
type CreatureRepository interface {
	Create(ctx context.Context, creature *domain.Creature) error
	List(ctx context.Context) ([]domain.Creature, error)
	GetByName(ctx context.Context, name string) (*domain.Creature, error)
	Replace(ctx context.Context, name string, creature *domain.Creature) error
	Modify(ctx context.Context, name string, patch domain.CreaturePatch) (*domain.Creature, error)
	Delete(ctx context.Context, name string) error
}

type creatureRepository struct {
	pool *pgxpool.Pool
}

// NewCreatureRepository returns a Postgres-backed implementation.
func NewCreatureRepository(pool *pgxpool.Pool) CreatureRepository {
	return &creatureRepository{pool: pool}
}

const selectCreature = `SELECT name, country, area, description, aka FROM creatures`

func scanCreature(row pgx.Row) (*domain.Creature, error) {
	var c domain.Creature
	if err := row.Scan(&c.Name, &c.Country, &c.Area, &c.Description, &c.AKA); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *creatureRepository) Create(ctx context.Context, creature *domain.Creature) error {
	const query = `
        INSERT INTO creatures (name, country, area, description, aka)
        VALUES ($1, $2, $3, $4, $5)`

	_, err := r.pool.Exec(ctx, query,
		creature.Name,
		creature.Country,
		creature.Area,
		creature.Description,
		creature.AKA,
	)
	if isUniqueViolation(err) {
		return domain.NewAlreadyExists(creatureEntity, creature.Name)
	}
	return err
}

func (r *creatureRepository) List(ctx context.Context) ([]domain.Creature, error) {
	rows, err := r.pool.Query(ctx, selectCreature+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	creatures := []domain.Creature{}
	for rows.Next() {
		c, err := scanCreature(rows)
		if err != nil {
			return nil, err
		}
		creatures = append(creatures, *c)
	}
	return creatures, rows.Err()
}

func (r *creatureRepository) GetByName(ctx context.Context, name string) (*domain.Creature, error) {
	return getCreature(ctx, r.pool, name, false)
}

func getCreature(ctx context.Context, q querier, name string, forUpdate bool) (*domain.Creature, error) {
	query := selectCreature + ` WHERE name=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	c, err := scanCreature(q.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound(creatureEntity, name)
	}
	return c, err
}

func (r *creatureRepository) Replace(ctx context.Context, name string, creature *domain.Creature) error {
	return replaceCreature(ctx, r.pool, name, creature)
}

func replaceCreature(ctx context.Context, q querier, name string, creature *domain.Creature) error {
	const query = `
        UPDATE creatures SET name=$1, country=$2, area=$3, description=$4, aka=$5
        WHERE name=$6`

	cmd, err := q.Exec(ctx, query,
		creature.Name,
		creature.Country,
		creature.Area,
		creature.Description,
		creature.AKA,
		name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAlreadyExists(creatureEntity, creature.Name)
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound(creatureEntity, name)
	}
	return nil
}

func (r *creatureRepository) Modify(ctx context.Context, name string, patch domain.CreaturePatch) (*domain.Creature, error) {
	var updated domain.Creature
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := getCreature(ctx, tx, name, true)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		return replaceCreature(ctx, tx, name, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *creatureRepository) Delete(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM creatures WHERE name=$1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound(creatureEntity, name)
	}
	return nil
}
