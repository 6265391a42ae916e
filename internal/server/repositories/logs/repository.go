package logs

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gastrolog/internal/server/models"
)

var (
	ErrNotFound = errors.New("log record not found")
	// ErrForeignRecord is returned when an upsert targets an id that belongs
	// to another user; the stored row is left untouched.
	ErrForeignRecord = errors.New("log record belongs to another user")
)

type Repository interface {
	List(ctx context.Context, userID string) ([]models.LogRecord, error)
	Upsert(ctx context.Context, rec *models.LogRecord) error
	ImageKey(ctx context.Context, userID, id string) (string, error)
	Delete(ctx context.Context, userID, id string) (imageKey string, err error)
}
