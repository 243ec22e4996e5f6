package sqlite

import (
	"context"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

type sessionsRepo struct {
	db dbtx
}

const sessionColumns = `id, user_id, token_hash, ip_address, user_agent,
	is_active, expires_at, created_at, updated_at`

func scanSession(row interface{ Scan(...any) error }) (domain.Session, error) {
	var s domain.Session
	err := row.Scan(
		&s.ID, &s.UserID, &s.TokenHash, &s.IPAddress, &s.UserAgent,
		&s.IsActive, &s.ExpiresAt, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Session{}, err
	}
	return s, nil
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.Session) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, token_hash, ip_address, user_agent,
			is_active, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		s.ID, s.UserID, s.TokenHash, s.IPAddress, s.UserAgent,
		s.ExpiresAt.UTC(), now, now)
	return err
}

func (r *sessionsRepo) GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM sessions WHERE token_hash = ?`, hash)
	s, err := scanSession(row)
	if err != nil {
		return domain.Session{}, mapNotFound(err)
	}
	return s, nil
}

func (r *sessionsRepo) RevokeSession(ctx context.Context, hash string) error {
	// Matching zero rows is fine; revocation is idempotent.
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET is_active = 0, updated_at = ? WHERE token_hash = ?`,
		time.Now().UTC(), hash)
	return err
}

func (r *sessionsRepo) RevokeAllUserSessions(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET is_active = 0, updated_at = ? WHERE user_id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *sessionsRepo) DeleteDefunctSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE is_active = 0 OR expires_at <= ?`, now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
