package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklist/internal/config"
	"github.com/phrazzld/tasklist/internal/domain"
	"github.com/phrazzld/tasklist/internal/platform/logger"
)

// SessionManager binds requests to users through a signed cookie value
// that names a server-side session record.
//
// Sessions move from anonymous to authenticated on Create and back on
// Destroy or expiry. A token is honored only while its signature is valid,
// its record is present, and the record has not expired.
type SessionManager struct {
	signer   *TokenSigner
	store    SessionStore
	lifetime time.Duration
	timeFunc func() time.Time
	logger   *slog.Logger
}

// NewSessionManager creates a SessionManager from the auth configuration.
func NewSessionManager(cfg config.AuthConfig, store SessionStore, logger *slog.Logger) (*SessionManager, error) {
	if store == nil {
		return nil, errors.New("session store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	signer, err := NewTokenSigner(cfg.SessionSecret)
	if err != nil {
		return nil, err
	}

	lifetime := cfg.SessionLifetime()
	if lifetime <= 0 {
		return nil, fmt.Errorf("session lifetime must be positive, got %s", lifetime)
	}

	return &SessionManager{
		signer:   signer,
		store:    store,
		lifetime: lifetime,
		timeFunc: time.Now,
		logger:   logger.With(slog.String("component", "session_manager")),
	}, nil
}

// Lifetime returns how long new sessions stay valid.
func (m *SessionManager) Lifetime() time.Duration {
	return m.lifetime
}

// Create starts a session for the user and returns the cookie value and
// its expiry.
func (m *SessionManager) Create(ctx context.Context, userID int64, username string) (string, time.Time, error) {
	log := logger.FromContextOrDefault(ctx, m.logger)

	now := m.timeFunc()
	if purged := m.store.DeleteExpired(ctx, now); purged > 0 {
		log.Debug("purged expired sessions", slog.Int("count", purged))
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate session id: %w", err)
	}

	session := &Session{
		ID:        id,
		UserID:    userID,
		Username:  username,
		ExpiresAt: now.Add(m.lifetime),
	}

	token, err := m.signer.Sign(TokenClaims{
		SessionID: id,
		UserID:    userID,
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	if err := m.store.Save(ctx, session); err != nil {
		return "", time.Time{}, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info("session created", slog.Int64("user_id", userID))
	return token, session.ExpiresAt, nil
}

// Resolve returns the identity bound to token, or false if the token is
// missing, forged, expired, or no longer backed by a session record.
func (m *SessionManager) Resolve(ctx context.Context, token string) (domain.Identity, bool) {
	session, err := m.lookup(ctx, token)
	if err != nil {
		logger.FromContextOrDefault(ctx, m.logger).Debug("session not resolved",
			slog.String("reason", err.Error()))
		return domain.Identity{}, false
	}
	return domain.Identity{UserID: session.UserID, Username: session.Username}, true
}

// Destroy invalidates the session named by token. Unknown, expired, or
// malformed tokens are ignored.
func (m *SessionManager) Destroy(ctx context.Context, token string) {
	claims, err := m.signer.VerifySignature(ctx, token)
	if err != nil {
		return
	}
	_ = m.store.Delete(ctx, claims.SessionID)
	logger.FromContextOrDefault(ctx, m.logger).Info("session destroyed",
		slog.Int64("user_id", claims.UserID))
}

// AddFlash queues a message for the next page rendered in this session.
func (m *SessionManager) AddFlash(ctx context.Context, token string, flash Flash) error {
	session, err := m.lookup(ctx, token)
	if err != nil {
		return err
	}
	return m.store.AddFlash(ctx, session.ID, flash)
}

// PopFlashes returns and clears the queued messages for this session.
func (m *SessionManager) PopFlashes(ctx context.Context, token string) []Flash {
	session, err := m.lookup(ctx, token)
	if err != nil {
		return nil
	}
	flashes, err := m.store.PopFlashes(ctx, session.ID)
	if err != nil {
		return nil
	}
	return flashes
}

func (m *SessionManager) lookup(ctx context.Context, token string) (*Session, error) {
	claims, err := m.signer.Verify(ctx, token)
	if errors.Is(err, ErrExpiredToken) {
		if stale, sigErr := m.signer.VerifySignature(ctx, token); sigErr == nil {
			_ = m.store.Delete(ctx, stale.SessionID)
		}
		return nil, err
	}
	if err != nil {
		return nil, err
	}

	session, err := m.store.Get(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	if session.UserID != claims.UserID {
		return nil, ErrInvalidToken
	}

	if session.Expired(m.timeFunc()) {
		_ = m.store.Delete(ctx, session.ID)
		return nil, ErrExpiredToken
	}

	return session, nil
}
