// Package localstore persists the log collection and the safe-list as two
// JSON blobs in the client key/value table.
//
// Loads never fail: a missing or malformed blob reads as an empty
// collection and is reported through the logger. Log images are never
// written; they live only in memory and on the server.
package localstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

const (
	KeyLogs     = "food_history"
	KeySafeList = "safe_list"
)

type Store struct {
	repo kv.Repository
	log  logging.Logger
}

func New(repo kv.Repository, log logging.Logger) *Store {
	return &Store{repo: repo, log: logging.Component(log, "localstore")}
}

// LoadLogs returns the persisted collection. Records written by older
// versions may still carry images; those are stripped and the blob is
// rewritten once.
func (s *Store) LoadLogs(ctx context.Context) []models.LogRecord {
	var records []models.LogRecord
	if !s.load(ctx, KeyLogs, &records) {
		return []models.LogRecord{}
	}
	if records == nil {
		return []models.LogRecord{}
	}

	legacy := false
	for i := range records {
		if records[i].Image != "" {
			records[i].Image = ""
			legacy = true
		}
	}
	if legacy {
		s.log.Info(ctx, "stripping legacy images from local logs", "count", len(records))
		if err := s.SaveLogs(ctx, records); err != nil {
			s.log.Warn(ctx, "legacy image migration failed", "error", err)
		}
	}
	return records
}

// SaveLogs replaces the persisted collection with records minus images.
func (s *Store) SaveLogs(ctx context.Context, records []models.LogRecord) error {
	stripped := make([]models.LogRecord, len(records))
	for i, r := range records {
		stripped[i] = r.StripImage()
	}
	return s.save(ctx, KeyLogs, stripped)
}

func (s *Store) LoadSafeList(ctx context.Context) models.SafeList {
	var items models.SafeList
	if !s.load(ctx, KeySafeList, &items) || items == nil {
		return models.SafeList{}
	}
	return items
}

func (s *Store) SaveSafeList(ctx context.Context, items models.SafeList) error {
	if items == nil {
		items = models.SafeList{}
	}
	return s.save(ctx, KeySafeList, items)
}

func (s *Store) load(ctx context.Context, key string, dst any) bool {
	raw, err := s.repo.Get(ctx, key)
	if err != nil {
		s.log.Warn(ctx, "local read failed", "key", key, "error", err)
		return false
	}
	if len(raw) == 0 {
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn(ctx, "malformed local data ignored", "key", key, "error", err)
		return false
	}
	return true
}

func (s *Store) save(ctx context.Context, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.repo.Set(ctx, key, raw); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}
