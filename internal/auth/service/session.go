package service

import (
	"context"
	"errors"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/cryptox"
	"github.com/bullionboard/bullionboard/pkg/idx"
)

// DefaultSessionTTL matches the bearer TTL; the session exists to cut
// access short, not to extend it.
const DefaultSessionTTL = 7 * 24 * time.Hour

// SessionService owns the session lifecycle. A session moves
// created → active → revoked (explicit) or expired (lazy, detected at
// validation time; the housekeeping sweep merely deletes the corpses).
type SessionService struct {
	Store store.Store
	TTL   time.Duration
}

func (s *SessionService) ttl() time.Duration {
	if s.TTL <= 0 {
		return DefaultSessionTTL
	}
	return s.TTL
}

// Create inserts a new active session and returns the opaque token. The
// token is independent entropy, never derived from any bearer token, and
// only its fingerprint is stored. Concurrent sessions per user are fine.
func (s *SessionService) Create(ctx context.Context, userID, ip, userAgent string) (string, error) {
	token, err := cryptox.GenerateToken(cryptox.SessionTokenSize)
	if err != nil {
		return "", err
	}

	session := domain.Session{
		ID:        idx.New().String(),
		UserID:    userID,
		TokenHash: cryptox.FingerprintToken(token),
		IPAddress: ip,
		UserAgent: userAgent,
		ExpiresAt: time.Now().UTC().Add(s.ttl()),
	}
	if err := s.Store.Sessions().CreateSession(ctx, session); err != nil {
		return "", err
	}
	return token, nil
}

// Validate resolves an opaque token to its live session record. Both the
// active flag and the expiry timestamp must hold; either one failing
// means ErrInvalidSession, as does an unknown token.
func (s *SessionService) Validate(ctx context.Context, token string) (domain.Session, error) {
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(token))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Session{}, ErrInvalidSession
		}
		return domain.Session{}, err
	}

	if !session.Valid(time.Now().UTC()) {
		return domain.Session{}, ErrInvalidSession
	}
	return session, nil
}

// Revoke marks the session inactive. Idempotent: a token that resolves
// to nothing is a no-op, not an error.
func (s *SessionService) Revoke(ctx context.Context, token string) error {
	return s.Store.Sessions().RevokeSession(ctx, cryptox.FingerprintToken(token))
}

// RevokeAllForUser bulk-revokes every session for the user regardless of
// current state. Used on password change.
func (s *SessionService) RevokeAllForUser(ctx context.Context, userID string) error {
	return s.Store.Sessions().RevokeAllUserSessions(ctx, userID)
}

// SweepExpired deletes rows that are expired or already revoked and
// returns the count. Safe alongside live traffic: the predicate is
// point-in-time.
func (s *SessionService) SweepExpired(ctx context.Context) (int64, error) {
	return s.Store.Sessions().DeleteDefunctSessions(ctx, time.Now().UTC())
}
