package google

import (
	"context"
	"log/slog"
	"net/http"
	"sync"

	"golang.org/x/oauth2"

	"github.com/johnie/gmcp-sub000/internal/logging"
)

// Session owns the authorized transport for one account. It holds the
// current in-memory token and is the single writer of the token file:
// every refresh the oauth2 transport performs is observed here, merged
// into the last-known token, and persisted before the triggering API
// call returns.
//
// Sessions are safe for concurrent use. Multiple sessions can coexist
// (tests rely on this); nothing here is process-global.
type Session struct {
	cfg    *oauth2.Config
	store  *TokenStore
	logger *slog.Logger

	// onRefresh, when set, is notified after each observed refresh
	// with the persistence outcome. Set it before first use.
	onRefresh func(err error)

	mu      sync.Mutex
	current *Token
	source  oauth2.TokenSource
}

// NewSession loads the persisted token and builds the authorized
// token source around it. Returns *TokenMissingError when no token
// has been provisioned yet.
func NewSession(ctx context.Context, cfg *oauth2.Config, store *TokenStore) (*Session, error) {
	tok, err := store.Load()
	if err != nil {
		return nil, err
	}

	s := &Session{
		cfg:     cfg,
		store:   store,
		logger:  slog.Default(),
		current: tok,
	}
	s.source = &persistingSource{
		session: s,
		base:    cfg.TokenSource(ctx, tok.OAuth2()),
	}
	return s, nil
}

// CurrentToken returns a copy of the last-known token.
func (s *Session) CurrentToken() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.current
}

// TokenSource returns the refresh-observing token source.
func (s *Session) TokenSource() oauth2.TokenSource { return s.source }

// SetRefreshObserver registers a callback invoked after each token
// refresh, with the store error if persisting failed. Call before the
// session is used; the callback is not synchronized.
func (s *Session) SetRefreshObserver(fn func(err error)) {
	s.onRefresh = fn
}

// HTTPClient returns an HTTP client that attaches and transparently
// refreshes the session token. HTTP/1.1 is forced; the Gmail endpoints
// intermittently break long-lived HTTP/2 connections.
func (s *Session) HTTPClient(ctx context.Context) *http.Client {
	client := oauth2.NewClient(ctx, s.source)
	if tr, ok := client.Transport.(*oauth2.Transport); ok {
		tr.Base = &http.Transport{ForceAttemptHTTP2: false}
	}
	return client
}

// observeRefresh merges a token returned by the transport into the
// last-known token and persists the result. A refresh response that
// omits the refresh token is normal (refresh tokens are issued once);
// the previous value is retained. The in-memory update is applied
// before the save, and is not rolled back when the save fails.
func (s *Session) observeRefresh(t *oauth2.Token) error {
	s.mu.Lock()
	if t.AccessToken == s.current.AccessToken {
		s.mu.Unlock()
		return nil
	}

	merged := tokenFromOAuth2(t)
	if merged.RefreshToken == "" {
		merged.RefreshToken = s.current.RefreshToken
	}
	if merged.TokenType == "" {
		merged.TokenType = s.current.TokenType
	}
	if merged.Scope == "" {
		merged.Scope = s.current.Scope
	}
	s.current = merged
	s.mu.Unlock()

	s.logger.Debug("token refreshed",
		logging.Operation("token_refresh"),
		slog.String("access_token", logging.SanitizeToken(merged.AccessToken)))

	err := s.store.Save(merged)
	if s.onRefresh != nil {
		s.onRefresh(err)
	}
	return err
}

// persistingSource wraps the config token source so each refresh is
// written through to the store synchronously, before the token is
// handed to the transport.
type persistingSource struct {
	session *Session
	base    oauth2.TokenSource
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	t, err := p.base.Token()
	if err != nil {
		return nil, err
	}
	if err := p.session.observeRefresh(t); err != nil {
		// An unsaved refresh must not fail an otherwise-successful
		// API call; the user re-authenticates after restart instead.
		p.session.logger.Warn("refreshed token not persisted",
			logging.Operation("token_refresh"), logging.Err(err))
	}
	return t, nil
}

// AuthURL returns the URL a user visits to authorize the client.
// Offline access is requested so a refresh token is issued.
func AuthURL(cfg *oauth2.Config) string {
	return cfg.AuthCodeURL("state", oauth2.AccessTypeOffline)
}

// Authorize exchanges an authorization code for tokens and persists
// them, completing the interactive flow.
func Authorize(ctx context.Context, cfg *oauth2.Config, store *TokenStore, code string) error {
	t, err := cfg.Exchange(ctx, code)
	if err != nil {
		return err
	}
	return store.Save(tokenFromOAuth2(t))
}

func tokenFromOAuth2(t *oauth2.Token) *Token {
	tok := &Token{
		AccessToken:  t.AccessToken,
		RefreshToken: t.RefreshToken,
		TokenType:    t.TokenType,
	}
	if !t.Expiry.IsZero() {
		tok.ExpiryDate = t.Expiry.UnixMilli()
	}
	if scope, ok := t.Extra("scope").(string); ok {
		tok.Scope = scope
	}
	return tok
}
