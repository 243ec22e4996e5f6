package store

import (
	"context"
	"errors"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for
// now) implement this. It exposes sub-repositories to keep concerns tidy
// and testable, and is the only cross-request coordination point in the
// auth core.
type Store interface {
	Users() Users
	Roles() Roles
	Sessions() Sessions
	Activity() Activity

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// Use it for multi-step operations that must be atomic.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx directly; it cannot leak an open transaction.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns an active user by id.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmailOrUsername resolves the login identifier. Only active
	// users are returned.
	GetUserByEmailOrUsername(ctx context.Context, identifier string) (domain.User, error)

	// CreateUser inserts a new user (id is provided by app via ULID).
	// Returns ErrAlreadyExists when the email or username is taken; the
	// uniqueness check runs before the insert so callers get a clean
	// error rather than a driver constraint failure.
	CreateUser(ctx context.Context, u domain.User) error

	// UpdatePasswordHash sets the password_hash (bcrypt) and bumps updated_at.
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error

	// UpdateLastLogin stamps last_login_at.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error

	// UpdatePreferences replaces the stored preference map.
	UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error

	// UpdateRole reassigns the user's role.
	UpdateRole(ctx context.Context, userID string, roleID string) error

	// Deactivate flips is_active off. Users are never hard-deleted here.
	Deactivate(ctx context.Context, userID string) error

	// ListUsers returns all users including deactivated ones, newest first.
	ListUsers(ctx context.Context) ([]domain.User, error)

	// CountByRole returns how many users reference a role, active or not.
	CountByRole(ctx context.Context, roleID string) (int, error)
}

type Roles interface {
	// GetRoleByID fetches a role by its ID.
	GetRoleByID(ctx context.Context, id string) (domain.Role, error)

	// GetRoleByName fetches a role by its unique name.
	GetRoleByName(ctx context.Context, name string) (domain.Role, error)

	// ListAll returns all roles in the system.
	ListAll(ctx context.Context) ([]domain.Role, error)

	// CreateRole inserts a new role (id is ULID).
	CreateRole(ctx context.Context, r domain.Role) error

	// UpdateRole modifies the description and permission set for a role.
	UpdateRole(ctx context.Context, roleID string, description string, perms []domain.Permission) error

	// SetRoleActive flips a role's active flag. An inactive role grants
	// nothing but keeps its assignments.
	SetRoleActive(ctx context.Context, roleID string, active bool) error

	// DeleteRole removes a role. Callers must check it is unreferenced.
	DeleteRole(ctx context.Context, roleID string) error
}

type Sessions interface {
	// CreateSession stores a new session record.
	CreateSession(ctx context.Context, s domain.Session) error

	// GetSessionByTokenHash returns the session by its token fingerprint,
	// regardless of its active flag or expiry. Validity is a service-level
	// decision.
	GetSessionByTokenHash(ctx context.Context, hash string) (domain.Session, error)

	// RevokeSession flips is_active=0, sets updated_at. Revoking a hash
	// that resolves to nothing is not an error.
	RevokeSession(ctx context.Context, hash string) error

	// RevokeAllUserSessions bulk-revokes every session for a user in one
	// statement, regardless of current state (password change).
	RevokeAllUserSessions(ctx context.Context, userID string) error

	// DeleteDefunctSessions removes rows that are expired or already
	// inactive and returns how many went. Housekeeping only.
	DeleteDefunctSessions(ctx context.Context, now time.Time) (int64, error)
}

type Activity interface {
	// CreateActivity appends an audit record.
	CreateActivity(ctx context.Context, rec domain.ActivityRecord) error

	// ListActivityByUser returns a user's audit trail, newest first.
	ListActivityByUser(ctx context.Context, userID string, limit int) ([]domain.ActivityRecord, error)

	// ListActivity returns the most recent audit records across all users.
	ListActivity(ctx context.Context, limit int) ([]domain.ActivityRecord, error)

	// DeleteActivityBefore prunes records older than the cutoff.
	DeleteActivityBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
