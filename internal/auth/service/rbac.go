package service

import (
	"context"
	"errors"
	"strings"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/idx"
)

// RBACService resolves users to their current permission set and manages
// the role catalog. Permission checks always re-fetch the user's role
// from storage: nothing is cached here, so a role edit takes effect on
// the very next check. Bearer tokens issued earlier keep their captured
// claims until they expire; that staleness window is deliberate.
type RBACService struct {
	Store store.Store
}

// permissionsFor loads the user's current role and returns its
// permission set. An inactive role grants nothing.
func (s *RBACService) permissionsFor(ctx context.Context, userID string) ([]domain.Permission, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return nil, err
	}
	if !role.IsActive {
		return nil, nil
	}
	return role.Permissions, nil
}

// HasPermission reports whether the user's current role holds p.
func (s *RBACService) HasPermission(ctx context.Context, userID string, p domain.Permission) (bool, error) {
	held, err := s.permissionsFor(ctx, userID)
	if err != nil {
		return false, err
	}
	return containsPermission(held, p), nil
}

// HasAnyPermission is a logical OR over perms.
func (s *RBACService) HasAnyPermission(ctx context.Context, userID string, perms []domain.Permission) (bool, error) {
	held, err := s.permissionsFor(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if containsPermission(held, p) {
			return true, nil
		}
	}
	return false, nil
}

// HasAllPermissions is a logical AND over perms.
func (s *RBACService) HasAllPermissions(ctx context.Context, userID string, perms []domain.Permission) (bool, error) {
	held, err := s.permissionsFor(ctx, userID)
	if err != nil {
		return false, err
	}
	for _, p := range perms {
		if !containsPermission(held, p) {
			return false, nil
		}
	}
	return true, nil
}

func containsPermission(held []domain.Permission, p domain.Permission) bool {
	for _, h := range held {
		if h == p {
			return true
		}
	}
	return false
}

// CreateRole adds a role after validating every supplied permission
// against the catalog.
func (s *RBACService) CreateRole(ctx context.Context, name, description string, perms []domain.Permission) (domain.Role, error) {
	name = strings.TrimSpace(name)
	if unknown := domain.ValidatePermissions(perms); len(unknown) > 0 {
		return domain.Role{}, &UnknownPermissionError{Unknown: unknown}
	}

	if _, err := s.Store.Roles().GetRoleByName(ctx, name); err == nil {
		return domain.Role{}, ErrRoleExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Role{}, err
	}

	role := domain.Role{
		ID:          idx.New().String(),
		Name:        name,
		Description: description,
		Permissions: perms,
		IsActive:    true,
	}
	if err := s.Store.Roles().CreateRole(ctx, role); err != nil {
		return domain.Role{}, err
	}
	return role, nil
}

// UpdateRole replaces a role's description and permission set, with the
// same catalog validation as CreateRole.
func (s *RBACService) UpdateRole(ctx context.Context, roleID, description string, perms []domain.Permission) (domain.Role, error) {
	if unknown := domain.ValidatePermissions(perms); len(unknown) > 0 {
		return domain.Role{}, &UnknownPermissionError{Unknown: unknown}
	}

	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, ErrRoleNotFound
		}
		return domain.Role{}, err
	}

	if err := s.Store.Roles().UpdateRole(ctx, roleID, description, perms); err != nil {
		return domain.Role{}, err
	}
	return s.Store.Roles().GetRoleByID(ctx, roleID)
}

// DeleteRole removes a role, refusing while any user references it.
func (s *RBACService) DeleteRole(ctx context.Context, roleID string) error {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	count, err := s.Store.Users().CountByRole(ctx, roleID)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}

	return s.Store.Roles().DeleteRole(ctx, roleID)
}

// AssignRole points a user at a different role. Existing bearer tokens
// keep their old claims; the change is live for permission checks.
func (s *RBACService) AssignRole(ctx context.Context, userID, roleID string) error {
	if _, err := s.Store.Roles().GetRoleByID(ctx, roleID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrRoleNotFound
		}
		return err
	}

	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	return s.Store.Users().UpdateRole(ctx, userID, roleID)
}

// ListRoles returns every role in the system.
func (s *RBACService) ListRoles(ctx context.Context) ([]domain.Role, error) {
	return s.Store.Roles().ListAll(ctx)
}

// GetRoleByID fetches a role by its ID.
func (s *RBACService) GetRoleByID(ctx context.Context, roleID string) (domain.Role, error) {
	role, err := s.Store.Roles().GetRoleByID(ctx, roleID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Role{}, ErrRoleNotFound
		}
		return domain.Role{}, err
	}
	return role, nil
}
