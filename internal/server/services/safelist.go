package services

import (
	"context"
	"database/sql"
	"strings"

	"github.com/dmitrijs2005/gastrolog/internal/common"
	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/repomanager"
)

type SafeListService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewSafeListService(db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) *SafeListService {
	return &SafeListService{db: db, repomanager: rm, logger: logger}
}

func (s *SafeListService) Get(ctx context.Context, userID string) ([]string, error) {
	items, err := s.repomanager.SafeList(s.db).Get(ctx, userID)
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, err)
	}
	return items, nil
}

// Save replaces the user's safe-list. Items are trimmed; blanks and exact
// duplicates are dropped, first occurrence wins.
func (s *SafeListService) Save(ctx context.Context, userID string, items []string) ([]string, error) {
	clean := NormalizeItems(items)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return s.repomanager.SafeList(tx).Replace(ctx, userID, clean)
	})
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, err)
	}
	s.logger.Info(ctx, "safe-list saved", "user", userID, "items", len(clean))
	return clean, nil
}

func NormalizeItems(items []string) []string {
	out := make([]string, 0, len(items))
	seen := make(map[string]struct{}, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it == "" {
			continue
		}
		if _, ok := seen[it]; ok {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	return out
}
