package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the subset of *pgxpool.Pool the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

type Store struct {
	db DB
}

func New(db DB) *Store {
	return &Store{db: db}
}

func (s *Store) ListMappings(ctx context.Context, tenant string) (map[string]string, error) {
	rows, err := s.db.Query(ctx, `SELECT amount, label FROM concept_mappings WHERE tenant = $1`, tenant)
	if err != nil {
		return nil, fmt.Errorf("listing mappings: %w", err)
	}
	defer rows.Close()

	mappings := make(map[string]string)

	for rows.Next() {
		var amount, label string
		if err := rows.Scan(&amount, &label); err != nil {
			return nil, fmt.Errorf("scanning mapping: %w", err)
		}

		mappings[amount] = label
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating mappings: %w", err)
	}

	return mappings, nil
}

func (s *Store) UpsertMapping(ctx context.Context, tenant, amount, label string) error {
	query := `
		INSERT INTO concept_mappings (tenant, amount, label, created_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (tenant, amount) DO UPDATE SET label = EXCLUDED.label
	`

	if _, err := s.db.Exec(ctx, query, tenant, amount, label); err != nil {
		return fmt.Errorf("saving mapping: %w", err)
	}

	return nil
}

func (s *Store) DeleteMapping(ctx context.Context, tenant, amount string) error {
	if _, err := s.db.Exec(ctx, `DELETE FROM concept_mappings WHERE tenant = $1 AND amount = $2`, tenant, amount); err != nil {
		return fmt.Errorf("deleting mapping: %w", err)
	}

	return nil
}
