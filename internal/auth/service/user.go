package service

import (
	"context"
	"errors"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
)

type UserService struct {
	Store store.Store
}

// GetUserByID fetches an active user by id.
func (s *UserService) GetUserByID(ctx context.Context, userID string) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrUserNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}

// ListUsers returns all users, deactivated ones included.
func (s *UserService) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.Store.Users().ListUsers(ctx)
}

// Deactivate flips the user's active flag and revokes their sessions in
// one transaction. This core never hard-deletes users.
func (s *UserService) Deactivate(ctx context.Context, userID string) error {
	if _, err := s.GetUserByID(ctx, userID); err != nil {
		return err
	}

	return s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().Deactivate(ctx, userID); err != nil {
			return err
		}
		return tx.Sessions().RevokeAllUserSessions(ctx, userID)
	})
}
