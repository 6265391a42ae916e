// Package services implements the server's use cases on top of the
// repositories, the image store and the classifier.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gastrolog/internal/common"
	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
	"github.com/dmitrijs2005/gastrolog/internal/server/images"
	"github.com/dmitrijs2005/gastrolog/internal/server/models"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/repomanager"
)

type LogService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	images      images.Store
	logger      logging.Logger
	now         func() time.Time
}

func NewLogService(db *sql.DB, rm repomanager.RepositoryManager, store images.Store, logger logging.Logger) *LogService {
	return &LogService{
		db:          db,
		repomanager: rm,
		images:      store,
		logger:      logger,
		now:         time.Now,
	}
}

// List returns the user's records newest first, with offloaded photos
// inlined again. A photo that cannot be loaded is dropped from its record.
func (s *LogService) List(ctx context.Context, userID string) ([]models.LogRecord, error) {
	recs, err := s.repomanager.Logs(s.db).List(ctx, userID)
	if err != nil {
		return nil, common.Wrap(common.ErrorInternal, err)
	}
	for i := range recs {
		if recs[i].ImageKey == "" {
			continue
		}
		img, err := s.images.Load(ctx, recs[i].ImageKey)
		if err != nil {
			s.logger.Warn(ctx, "image load failed", "id", recs[i].ID, "key", recs[i].ImageKey, "err", err)
			continue
		}
		recs[i].Image = img
	}
	return recs, nil
}

// Save upserts recs for userID in one transaction and returns how many
// were written. The batch is validated up front and a failing row rolls
// the whole batch back. Records whose id belongs to another user are
// skipped.
func (s *LogService) Save(ctx context.Context, userID string, recs []models.LogRecord) (int, error) {
	if len(recs) == 0 {
		return 0, common.Wrap(common.ErrorValidation, ErrNoLogs)
	}
	for _, r := range recs {
		if err := r.Validate(); err != nil {
			return 0, common.Wrap(common.ErrorValidation, fmt.Errorf("%w: %w", ErrInvalidRecord, err))
		}
	}

	now := s.now().UTC()
	var (
		count    int
		uploaded []string
		replaced []string
	)

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Logs(tx)
		for i := range recs {
			rec := recs[i]
			rec.Normalize(now)
			rec.UserID = userID
			rec.ImageKey = ""

			prevKey, err := repo.ImageKey(ctx, userID, rec.ID)
			if err != nil {
				return err
			}

			if rec.Image != "" {
				key, err := s.images.Offload(ctx, userID, rec.Image)
				if err != nil {
					return err
				}
				if key != "" {
					uploaded = append(uploaded, key)
					rec.ImageKey = key
					rec.Image = ""
				}
			}

			err = repo.Upsert(ctx, &rec)
			if errors.Is(err, logs.ErrForeignRecord) {
				s.logger.Warn(ctx, "skipping foreign record", "id", rec.ID, "user", userID)
				if rec.ImageKey != "" {
					replaced = append(replaced, rec.ImageKey)
				}
				continue
			}
			if err != nil {
				return err
			}
			count++

			// an incoming photo replaces the stored one
			if prevKey != "" && (rec.Image != "" || rec.ImageKey != "") && prevKey != rec.ImageKey {
				replaced = append(replaced, prevKey)
			}
		}
		return nil
	})
	if err != nil {
		for _, key := range uploaded {
			s.removeImage(ctx, key)
		}
		return 0, common.Wrap(common.ErrorInternal, err)
	}

	for _, key := range replaced {
		s.removeImage(ctx, key)
	}
	s.logger.Info(ctx, "logs saved", "user", userID, "count", count, "received", len(recs))
	return count, nil
}

// Delete removes the user's record and its stored photo.
func (s *LogService) Delete(ctx context.Context, userID, id string) error {
	if id == "" {
		return common.Wrap(common.ErrorValidation, ErrMissingLogID)
	}
	key, err := s.repomanager.Logs(s.db).Delete(ctx, userID, id)
	if errors.Is(err, logs.ErrNotFound) {
		return common.Wrap(common.ErrorNotFound, ErrLogNotFound)
	}
	if err != nil {
		return common.Wrap(common.ErrorInternal, err)
	}
	s.removeImage(ctx, key)
	return nil
}

func (s *LogService) removeImage(ctx context.Context, key string) {
	if key == "" {
		return
	}
	if err := s.images.Remove(ctx, key); err != nil {
		s.logger.Warn(ctx, "image remove failed", "key", key, "err", err)
	}
}
