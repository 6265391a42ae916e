package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gastrolog/internal/dbx"
	"github.com/dmitrijs2005/gastrolog/internal/server/classifier"
	"github.com/dmitrijs2005/gastrolog/internal/server/images"
	"github.com/dmitrijs2005/gastrolog/internal/server/models"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/logs"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gastrolog/internal/server/repositories/safelist"
)

// -------- test fakes --------

type fakeLogsRepo struct {
	logs.Repository

	rows    map[string]models.LogRecord
	listErr error
	upErr   error
	delErr  error
}

func newFakeLogsRepo() *fakeLogsRepo {
	return &fakeLogsRepo{rows: map[string]models.LogRecord{}}
}

func (f *fakeLogsRepo) List(ctx context.Context, userID string) ([]models.LogRecord, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []models.LogRecord{}
	for _, r := range f.rows {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeLogsRepo) Upsert(ctx context.Context, rec *models.LogRecord) error {
	if f.upErr != nil {
		return f.upErr
	}
	prev, ok := f.rows[rec.ID]
	if ok && prev.UserID != rec.UserID {
		return logs.ErrForeignRecord
	}
	next := *rec
	if ok && next.Image == "" && next.ImageKey == "" {
		next.Image, next.ImageKey = prev.Image, prev.ImageKey
	}
	f.rows[rec.ID] = next
	return nil
}

func (f *fakeLogsRepo) ImageKey(ctx context.Context, userID, id string) (string, error) {
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return "", nil
	}
	return r.ImageKey, nil
}

func (f *fakeLogsRepo) Delete(ctx context.Context, userID, id string) (string, error) {
	if f.delErr != nil {
		return "", f.delErr
	}
	r, ok := f.rows[id]
	if !ok || r.UserID != userID {
		return "", logs.ErrNotFound
	}
	delete(f.rows, id)
	return r.ImageKey, nil
}

type fakeSafeListRepo struct {
	safelist.Repository

	items   map[string][]string
	getErr  error
	replErr error
}

func (f *fakeSafeListRepo) Get(ctx context.Context, userID string) ([]string, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if it, ok := f.items[userID]; ok {
		return it, nil
	}
	return []string{}, nil
}

func (f *fakeSafeListRepo) Replace(ctx context.Context, userID string, items []string) error {
	if f.replErr != nil {
		return f.replErr
	}
	if f.items == nil {
		f.items = map[string][]string{}
	}
	f.items[userID] = items
	return nil
}

type fakeManager struct {
	repomanager.RepositoryManager
	logs     *fakeLogsRepo
	safeList *fakeSafeListRepo
}

func (m *fakeManager) Logs(dbx.DBTX) logs.Repository { return m.logs }
func (m *fakeManager) SafeList(dbx.DBTX) safelist.Repository { return m.safeList }
func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

// fakeStore offloads data URLs under sequential keys.
type fakeStore struct {
	objects    map[string]string
	next       int
	offloadErr error
	loadErr    error
	removed    []string
}

func newFakeStore() *fakeStore { return &fakeStore{objects: map[string]string{}} }

func (s *fakeStore) Offload(ctx context.Context, userID, image string) (string, error) {
	if s.offloadErr != nil {
		return "", s.offloadErr
	}
	if !strings.HasPrefix(image, "data:") {
		return "", nil
	}
	s.next++
	key := fmt.Sprintf("users/%s/k%d", userID, s.next)
	s.objects[key] = image
	return key, nil
}

func (s *fakeStore) Load(ctx context.Context, key string) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	img, ok := s.objects[key]
	if !ok {
		return "", images.ErrNotFound
	}
	return img, nil
}

func (s *fakeStore) Remove(ctx context.Context, key string) error {
	s.removed = append(s.removed, key)
	delete(s.objects, key)
	return nil
}

type fakeClassifier struct {
	got    classifier.Request
	answer []string
	err    error
}

func (f *fakeClassifier) Classify(ctx context.Context, req classifier.Request) ([]string, error) {
	f.got = req
	return f.answer, f.err
}

var errBoom = errors.New("boom")
