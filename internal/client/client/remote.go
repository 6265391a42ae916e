package client

import (
	"context"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
)

// RemoteStore is the server-of-record for logs and the safe-list.
type RemoteStore interface {
	GetLogs(ctx context.Context, token string) ([]models.LogRecord, error)
	// SaveLogs upserts records by id.
	SaveLogs(ctx context.Context, token string, records []models.LogRecord) error
	DeleteLog(ctx context.Context, token string, id string) error
	GetSafeList(ctx context.Context, token string) ([]string, error)
	// SaveSafeList replaces the whole remote list.
	SaveSafeList(ctx context.Context, token string, items []string) error
	Analyze(ctx context.Context, token string, req AnalyzeRequest) ([]string, error)
}

type AnalyzeRequest struct {
	Image string `json:"image,omitempty"`
	Memo  string `json:"memo"`
	Model string `json:"model,omitempty"`
}
