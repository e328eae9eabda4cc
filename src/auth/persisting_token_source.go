package auth

import (
	"context"
	"fmt"
	"sync"

	log "github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

// PersistingTokenSource refreshes through the OAuth config and writes every
// new token back to the store, so the next run starts from the latest refresh token.
type PersistingTokenSource struct {
	mu    sync.Mutex
	ctx   context.Context
	base  oauth2.TokenSource
	store TokenStore
	last  *oauth2.Token
}

func (s *PersistingTokenSource) Token() (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.base.Token()
	if err != nil {
		return nil, fmt.Errorf("PersistingTokenSource.Token: failed to refresh token: %w", err)
	}

	if tokenChanged(s.last, token) {
		if err := s.store.Put(s.ctx, token); err != nil {
			log.Errorf("PersistingTokenSource.Token: failed to persist refreshed token: %v", err)
		} else {
			log.Debug("persisted refreshed token")
		}

		s.last = token
	}

	return token, nil
}

func tokenChanged(previous, next *oauth2.Token) bool {
	if previous == nil {
		return true
	}

	return previous.AccessToken != next.AccessToken || previous.RefreshToken != next.RefreshToken
}

func newPersistingTokenSource(ctx context.Context, base oauth2.TokenSource, store TokenStore, initial *oauth2.Token) *PersistingTokenSource {
	return &PersistingTokenSource{
		ctx:   ctx,
		base:  base,
		store: store,
		last:  initial,
	}
}

// NewPersistingTokenSource loads the stored token and wraps the config's refreshing token source.
func NewPersistingTokenSource(ctx context.Context, cfg *oauth2.Config, store TokenStore) (*PersistingTokenSource, error) {
	token, err := store.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("NewPersistingTokenSource: %w", err)
	}

	return newPersistingTokenSource(ctx, cfg.TokenSource(ctx, token), store, token), nil
}
