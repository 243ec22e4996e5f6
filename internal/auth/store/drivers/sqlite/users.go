package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, email, username, first_name, last_name, password_hash,
	role_id, preferences, is_active, email_verified, last_login_at, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var (
		u         domain.User
		prefs     string
		lastLogin sql.NullTime
	)
	err := row.Scan(
		&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.RoleID, &prefs, &u.IsActive, &u.EmailVerified, &lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.Preferences = decodeMap(prefs)
	u.LastLoginAt = mapNullTimePtr(lastLogin)
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ? AND is_active = 1`, id)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByEmailOrUsername(ctx context.Context, identifier string) (domain.User, error) {
	// Emails are stored lowercased, so the email side folds the
	// identifier; usernames stay case-sensitive.
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users
		 WHERE (email = lower(?) OR username = ?) AND is_active = 1`,
		identifier, identifier)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	// Pre-check keeps the caller's error clean instead of surfacing a
	// driver constraint failure. The UNIQUE indexes still back this up.
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE email = ? OR username = ?`,
		u.Email, u.Username).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return store.ErrAlreadyExists
	}

	prefs, err := encodeMap(u.Preferences)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO users (id, email, username, first_name, last_name, password_hash,
			role_id, preferences, is_active, email_verified, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, 1, ?, ?, ?)`,
		u.ID, u.Email, u.Username, u.FirstName, u.LastName, u.PasswordHash,
		u.RoleID, prefs, u.EmailVerified, now, now)
	return err
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = ?, updated_at = ? WHERE id = ?`,
		at.UTC(), time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	encoded, err := encodeMap(prefs)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`UPDATE users SET preferences = ?, updated_at = ? WHERE id = ?`,
		encoded, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) UpdateRole(ctx context.Context, userID string, roleID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET role_id = ?, updated_at = ? WHERE id = ?`,
		roleID, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) Deactivate(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = 0, updated_at = ? WHERE id = ?`,
		time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *usersRepo) CountByRole(ctx context.Context, roleID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE role_id = ?`, roleID).Scan(&count)
	return count, err
}
