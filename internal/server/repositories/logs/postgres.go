// Package logs provides the PostgreSQL-backed food log repository.
package logs

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// List returns the user's records, newest first.
func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.LogRecord, error) {
	query := `
		SELECT id, date, image, image_key, memo, ingredients, life, created_at, updated_at
		FROM food_logs
		WHERE user_id = $1
		ORDER BY created_at DESC, id
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("select logs: %w", err)
	}
	defer rows.Close()

	result := []models.LogRecord{}
	for rows.Next() {
		var (
			rec         models.LogRecord
			ingredients []byte
			life        []byte
			updatedAt   sql.NullTime
		)
		if err := rows.Scan(
			&rec.ID, &rec.Date, &rec.Image, &rec.ImageKey, &rec.Memo,
			&ingredients, &life, &rec.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		if err := json.Unmarshal(ingredients, &rec.Ingredients); err != nil {
			return nil, fmt.Errorf("decode ingredients of %s: %w", rec.ID, err)
		}
		if len(life) > 0 {
			rec.Life = json.RawMessage(life)
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			rec.UpdatedAt = &t
		}
		rec.UserID = userID
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate logs: %w", err)
	}
	return result, nil
}

// Upsert inserts rec or replaces the stored row with the same id. A row
// owned by another user is never overwritten (ErrForeignRecord). An
// incoming record without image keeps the stored one, since clients drop
// images from their local copies.
func (r *PostgresRepository) Upsert(ctx context.Context, rec *models.LogRecord) error {
	query := `
		INSERT INTO food_logs (id, user_id, date, image, image_key, memo, ingredients, life, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id)
		DO UPDATE SET
			date = EXCLUDED.date,
			image = CASE WHEN EXCLUDED.image = '' AND EXCLUDED.image_key = '' THEN food_logs.image ELSE EXCLUDED.image END,
			image_key = CASE WHEN EXCLUDED.image = '' AND EXCLUDED.image_key = '' THEN food_logs.image_key ELSE EXCLUDED.image_key END,
			memo = EXCLUDED.memo,
			ingredients = EXCLUDED.ingredients,
			life = EXCLUDED.life,
			created_at = EXCLUDED.created_at,
			updated_at = EXCLUDED.updated_at
			WHERE food_logs.user_id = EXCLUDED.user_id;
	`
	ingredients, err := json.Marshal(rec.Ingredients)
	if err != nil {
		return fmt.Errorf("encode ingredients: %w", err)
	}
	var life any
	if len(rec.Life) > 0 {
		life = string(rec.Life)
	}
	var updatedAt any
	if rec.UpdatedAt != nil {
		updatedAt = *rec.UpdatedAt
	}

	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Date, rec.Image, rec.ImageKey, rec.Memo,
		string(ingredients), life, rec.CreatedAt, updatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return ErrForeignRecord
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}

// ImageKey returns the object key stored for the user's record, or "" when
// the record does not exist or keeps its image inline.
func (r *PostgresRepository) ImageKey(ctx context.Context, userID, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx,
		`SELECT image_key FROM food_logs WHERE id = $1 AND user_id = $2`, id, userID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("select image key: %w", err)
	}
	return key, nil
}

// Delete removes the user's record and returns its image key so the caller
// can drop the stored object.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) (string, error) {
	var key string
	err := r.db.QueryRowContext(ctx,
		`DELETE FROM food_logs WHERE id = $1 AND user_id = $2 RETURNING image_key`, id, userID).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("delete log: %w", err)
	}
	return key, nil
}
