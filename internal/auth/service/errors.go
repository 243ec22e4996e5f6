package service

import (
	"errors"
	"strings"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
)

var (
	// ErrInvalidCredentials covers both unknown identifier and wrong
	// password. The message is deliberately identical for both so the
	// endpoint can't be used for account enumeration.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrDuplicateIdentity means the email or username is already taken.
	ErrDuplicateIdentity = errors.New("email or username already in use")

	// ErrInvalidSession covers not-found, revoked, and expired sessions.
	ErrInvalidSession = errors.New("invalid or expired session")

	// ErrRoleInUse blocks deleting a role while any user references it.
	ErrRoleInUse = errors.New("role is referenced by existing users")

	ErrRoleExists   = errors.New("role name already exists")
	ErrRoleNotFound = errors.New("role not found")
	ErrUserNotFound = errors.New("user not found")
)

// UnknownPermissionError rejects permission identifiers outside the
// catalog, naming exactly the offenders.
type UnknownPermissionError struct {
	Unknown []domain.Permission
}

func (e *UnknownPermissionError) Error() string {
	return "unknown permissions: " + strings.Join(domain.PermissionStrings(e.Unknown), ", ")
}
