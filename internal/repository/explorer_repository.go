package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/cryptid/internal/domain"
)

const explorerEntity = "explorer"

// ExplorerRepository defines persistence access for explorers.
type ExplorerRepository interface {
	Create(ctx context.Context, explorer *domain.Explorer) error
	List(ctx context.Context) ([]domain.Explorer, error)
	GetByName(ctx context.Context, name string) (*domain.Explorer, error)
	Replace(ctx context.Context, name string, explorer *domain.Explorer) error
	Modify(ctx context.Context, name string, patch domain.ExplorerPatch) (*domain.Explorer, error)
	Delete(ctx context.Context, name string) error
}

type explorerRepository struct {
	pool *pgxpool.Pool
}

// NewExplorerRepository returns a Postgres-backed implementation.
func NewExplorerRepository(pool *pgxpool.Pool) ExplorerRepository {
	return &explorerRepository{pool: pool}
}

const selectExplorer = `SELECT name, country, description FROM explorers`

func scanExplorer(row pgx.Row) (*domain.Explorer, error) {
	var e domain.Explorer
	if err := row.Scan(&e.Name, &e.Country, &e.Description); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *explorerRepository) Create(ctx context.Context, explorer *domain.Explorer) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO explorers (name, country, description) VALUES ($1, $2, $3)`,
		explorer.Name, explorer.Country, explorer.Description,
	)
	if isUniqueViolation(err) {
		return domain.NewAlreadyExists(explorerEntity, explorer.Name)
	}
	return err
}

func (r *explorerRepository) List(ctx context.Context) ([]domain.Explorer, error) {
	rows, err := r.pool.Query(ctx, selectExplorer+` ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	explorers := []domain.Explorer{}
	for rows.Next() {
		e, err := scanExplorer(rows)
		if err != nil {
			return nil, err
		}
		explorers = append(explorers, *e)
	}
	return explorers, rows.Err()
}

func (r *explorerRepository) GetByName(ctx context.Context, name string) (*domain.Explorer, error) {
	return getExplorer(ctx, r.pool, name, false)
}

func getExplorer(ctx context.Context, q querier, name string, forUpdate bool) (*domain.Explorer, error) {
	query := selectExplorer + ` WHERE name=$1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	e, err := scanExplorer(q.QueryRow(ctx, query, name))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.NewNotFound(explorerEntity, name)
	}
	return e, err
}

func (r *explorerRepository) Replace(ctx context.Context, name string, explorer *domain.Explorer) error {
	return replaceExplorer(ctx, r.pool, name, explorer)
}

func replaceExplorer(ctx context.Context, q querier, name string, explorer *domain.Explorer) error {
	cmd, err := q.Exec(ctx,
		`UPDATE explorers SET name=$1, country=$2, description=$3 WHERE name=$4`,
		explorer.Name, explorer.Country, explorer.Description, name,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.NewAlreadyExists(explorerEntity, explorer.Name)
		}
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound(explorerEntity, name)
	}
	return nil
}

func (r *explorerRepository) Modify(ctx context.Context, name string, patch domain.ExplorerPatch) (*domain.Explorer, error) {
	var updated domain.Explorer
	err := withTx(ctx, r.pool, func(tx pgx.Tx) error {
		current, err := getExplorer(ctx, tx, name, true)
		if err != nil {
			return err
		}
		updated = patch.Apply(*current)
		return replaceExplorer(ctx, tx, name, &updated)
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *explorerRepository) Delete(ctx context.Context, name string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM explorers WHERE name=$1`, name)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound(explorerEntity, name)
	}
	return nil
}
