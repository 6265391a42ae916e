// Package auth keeps the identity provider's token pair on the client.
//
// Sessions are issued elsewhere; the provider only stores the pair it is
// given, refreshes the access token through the provider's OAuth2 token
// endpoint when it expires, and reads the signed-in user id from the
// token's sub claim. Signature checks are the server's job.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/dmitrijs2005/gastrolog/internal/client/repositories/kv"
	"github.com/dmitrijs2005/gastrolog/internal/logging"
)

const keyToken = "auth_token"

type Options struct {
	// TokenURL is the identity provider's token endpoint. Empty disables
	// refresh: an expired token then means signing in again.
	TokenURL string
	ClientID string
}

type Provider struct {
	mu   sync.Mutex
	repo kv.Repository
	conf *oauth2.Config
	log  logging.Logger
}

func NewProvider(repo kv.Repository, opts Options, log logging.Logger) *Provider {
	p := &Provider{repo: repo, log: logging.Component(log, "auth")}
	if opts.TokenURL != "" {
		p.conf = &oauth2.Config{
			ClientID: opts.ClientID,
			Endpoint: oauth2.Endpoint{
				TokenURL:  opts.TokenURL,
				AuthStyle: oauth2.AuthStyleInParams,
			},
		}
	}
	return p
}

// Login stores a token pair and returns the user id it belongs to.
func (p *Provider) Login(ctx context.Context, accessToken, refreshToken string) (string, error) {
	claims, err := parseClaims(accessToken)
	if err != nil {
		return "", err
	}
	sub, _ := claims.GetSubject()

	tok := &oauth2.Token{
		AccessToken:  accessToken,
		TokenType:    "Bearer",
		RefreshToken: refreshToken,
	}
	if exp, _ := claims.GetExpirationTime(); exp != nil {
		tok.Expiry = exp.Time
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.store(ctx, tok); err != nil {
		return "", err
	}
	p.log.Info(ctx, "signed in", "user_id", sub)
	return sub, nil
}

func (p *Provider) Logout(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.repo.Delete(ctx, keyToken); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	return nil
}

// Identity returns the user id of the stored token, or "" when signed out.
// An expired token still names its user; Token decides whether it is usable.
func (p *Provider) Identity(ctx context.Context) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	tok, err := p.load(ctx)
	if err != nil || tok == nil {
		return ""
	}
	claims, err := parseClaims(tok.AccessToken)
	if err != nil {
		p.log.Warn(ctx, "stored token unreadable", "error", err)
		return ""
	}
	sub, _ := claims.GetSubject()
	return sub
}

// Token returns a usable access token, refreshing it first if it has
// expired.
func (p *Provider) Token(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	tok, err := p.load(ctx)
	if err != nil {
		return "", err
	}
	if tok == nil {
		return "", ErrNotSignedIn
	}
	if tok.Valid() {
		return tok.AccessToken, nil
	}
	if p.conf == nil || tok.RefreshToken == "" {
		return "", ErrTokenExpired
	}

	fresh, err := p.conf.TokenSource(ctx, tok).Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRefreshFailed, err)
	}
	if err := p.store(ctx, fresh); err != nil {
		return "", err
	}
	p.log.Debug(ctx, "access token refreshed")
	return fresh.AccessToken, nil
}

func (p *Provider) load(ctx context.Context) (*oauth2.Token, error) {
	raw, err := p.repo.Get(ctx, keyToken)
	if err != nil {
		return nil, fmt.Errorf("read token: %w", err)
	}
	if len(raw) == 0 {
		return nil, nil
	}
	var tok oauth2.Token
	if err := json.Unmarshal(raw, &tok); err != nil || tok.AccessToken == "" {
		p.log.Warn(ctx, "discarding malformed stored token")
		return nil, nil
	}
	return &tok, nil
}

func (p *Provider) store(ctx context.Context, tok *oauth2.Token) error {
	raw, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode token: %w", err)
	}
	if err := p.repo.Set(ctx, keyToken, raw); err != nil {
		return fmt.Errorf("persist token: %w", err)
	}
	return nil
}

func parseClaims(accessToken string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(accessToken, claims); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if sub, _ := claims.GetSubject(); sub == "" {
		return nil, fmt.Errorf("%w: no sub claim", ErrMalformedToken)
	}
	return claims, nil
}
