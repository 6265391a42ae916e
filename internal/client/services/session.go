package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

type TokenProvider interface {
	Login(ctx context.Context, accessToken, refreshToken string) (string, error)
	Logout(ctx context.Context) error
	Identity(ctx context.Context) string
}

type SyncEngine interface {
	SetIdentity(identity string) bool
	Reconcile(ctx context.Context)
}

type IdentityAware interface {
	SetIdentity(ctx context.Context, identity string)
}

// SessionService moves the client between signed-in users. Every identity
// change resets the sync engine and triggers its reconciliation, then lets
// the safe-list merge.
type SessionService struct {
	provider TokenProvider
	engine   SyncEngine
	safeList IdentityAware
	log      logging.Logger
}

func NewSessionService(provider TokenProvider, engine SyncEngine, safeList IdentityAware, log logging.Logger) *SessionService {
	return &SessionService{provider: provider, engine: engine, safeList: safeList, log: logging.Component(log, "session")}
}

// Restore picks up the identity stored by a previous run; "" if none.
func (s *SessionService) Restore(ctx context.Context) string {
	identity := s.provider.Identity(ctx)
	s.switchTo(ctx, identity)
	return identity
}

func (s *SessionService) Login(ctx context.Context, accessToken, refreshToken string) (string, error) {
	identity, err := s.provider.Login(ctx, accessToken, refreshToken)
	if err != nil {
		return "", fmt.Errorf("sign in: %w", err)
	}
	s.switchTo(ctx, identity)
	return identity, nil
}

func (s *SessionService) Logout(ctx context.Context) error {
	if err := s.provider.Logout(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	s.switchTo(ctx, "")
	return nil
}

func (s *SessionService) Identity(ctx context.Context) string {
	return s.provider.Identity(ctx)
}

func (s *SessionService) switchTo(ctx context.Context, identity string) {
	if s.engine.SetIdentity(identity) {
		s.log.Debug(ctx, "session identity set", "identity", identity)
	}
	s.engine.Reconcile(ctx)
	if s.safeList != nil {
		s.safeList.SetIdentity(ctx, identity)
	}
}
