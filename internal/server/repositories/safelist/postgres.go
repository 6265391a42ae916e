// Package safelist provides the PostgreSQL-backed safe-list repository.
package safelist

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gastrolog/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Get returns the user's items in their saved order.
func (r *PostgresRepository) Get(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT item FROM safe_list WHERE user_id = $1 ORDER BY position`, userID)
	if err != nil {
		return nil, fmt.Errorf("select safe list: %w", err)
	}
	defer rows.Close()

	items := []string{}
	for rows.Next() {
		var item string
		if err := rows.Scan(&item); err != nil {
			return nil, fmt.Errorf("scan safe list: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate safe list: %w", err)
	}
	return items, nil
}

func (r *PostgresRepository) Replace(ctx context.Context, userID string, items []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM safe_list WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("clear safe list: %w", err)
	}
	for i, item := range items {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO safe_list (user_id, item, position) VALUES ($1, $2, $3)`, userID, item, i); err != nil {
			return fmt.Errorf("insert safe list item %q: %w", item, err)
		}
	}
	return nil
}
