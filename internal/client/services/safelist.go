package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gastrolog/internal/client/client"
	"github.com/dmitrijs2005/gastrolog/internal/client/models"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

// SafeListStore is the durable copy of the safe-list.
type SafeListStore interface {
	LoadSafeList(ctx context.Context) models.SafeList
	SaveSafeList(ctx context.Context, items models.SafeList) error
}

type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// SafeListService holds the user's safe-list. Local changes are persisted
// at once and pushed to the server best-effort when signed in. On the
// first sign-in of each identity per session the local and remote lists
// are merged.
type SafeListService struct {
	mu       sync.Mutex
	store    SafeListStore
	remote   client.RemoteStore
	tokens   TokenSource
	log      logging.Logger
	items    models.SafeList
	identity string
	merged   map[string]bool
}

func NewSafeListService(ctx context.Context, store SafeListStore, remote client.RemoteStore, tokens TokenSource, log logging.Logger) *SafeListService {
	return &SafeListService{
		store:  store,
		remote: remote,
		tokens: tokens,
		log:    logging.Component(log, "safelist"),
		items:  store.LoadSafeList(ctx),
		merged: map[string]bool{},
	}
}

func (s *SafeListService) Items() models.SafeList {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append(models.SafeList{}, s.items...)
}

func (s *SafeListService) Contains(item string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Contains(item)
}

func (s *SafeListService) Filter(ingredients []string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items.Filter(ingredients)
}

// Add appends item (trimmed). Empty input and exact duplicates are ignored
// and reported as false.
func (s *SafeListService) Add(ctx context.Context, item string) bool {
	s.mu.Lock()
	next, added := s.items.With(item)
	if !added {
		s.mu.Unlock()
		return false
	}
	s.items = next
	snapshot, identity := s.commitLocked(ctx)
	s.mu.Unlock()

	s.push(ctx, identity, snapshot)
	return true
}

func (s *SafeListService) Remove(ctx context.Context, item string) bool {
	s.mu.Lock()
	next, removed := s.items.Without(item)
	if !removed {
		s.mu.Unlock()
		return false
	}
	s.items = next
	snapshot, identity := s.commitLocked(ctx)
	s.mu.Unlock()

	s.push(ctx, identity, snapshot)
	return true
}

// SetIdentity switches the signed-in user and, the first time this session
// sees that user, merges the local list with the server's.
func (s *SafeListService) SetIdentity(ctx context.Context, identity string) {
	s.mu.Lock()
	s.identity = identity
	done := identity == "" || s.merged[identity]
	s.mu.Unlock()
	if done {
		return
	}

	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		s.log.Info(ctx, "safe-list merge skipped: no usable token", "error", err)
		return
	}
	remote, err := s.remote.GetSafeList(ctx, token)
	if err != nil {
		s.log.Error(ctx, "safe-list fetch failed", "error", err)
		return
	}

	s.mu.Lock()
	if s.identity != identity {
		s.mu.Unlock()
		return
	}
	union := models.Union(s.items, remote)
	s.items = union
	s.merged[identity] = true
	if err := s.store.SaveSafeList(ctx, union); err != nil {
		s.log.Error(ctx, "safe-list persist failed", "error", err)
	}
	snapshot := append(models.SafeList{}, union...)
	s.mu.Unlock()

	if len(snapshot) != len(remote) {
		if err := s.remote.SaveSafeList(ctx, token, snapshot); err != nil {
			s.log.Error(ctx, "safe-list push failed", "error", err)
		}
	}
}

func (s *SafeListService) commitLocked(ctx context.Context) (models.SafeList, string) {
	if err := s.store.SaveSafeList(ctx, s.items); err != nil {
		s.log.Error(ctx, "safe-list persist failed", "error", err)
	}
	return append(models.SafeList{}, s.items...), s.identity
}

func (s *SafeListService) push(ctx context.Context, identity string, items models.SafeList) {
	if identity == "" {
		return
	}
	token, err := s.tokens.Token(ctx)
	if err != nil || token == "" {
		s.log.Info(ctx, "safe-list push skipped: no usable token", "error", err)
		return
	}
	if err := s.remote.SaveSafeList(ctx, token, items); err != nil {
		s.log.Error(ctx, "safe-list push failed", "error", err)
	}
}
