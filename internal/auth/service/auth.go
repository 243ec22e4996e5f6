package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bullionboard/bullionboard/internal/auth/domain"
	"github.com/bullionboard/bullionboard/internal/auth/store"
	"github.com/bullionboard/bullionboard/pkg/cryptox"
	"github.com/bullionboard/bullionboard/pkg/idx"
	"github.com/bullionboard/bullionboard/pkg/jwtx"
	"github.com/bullionboard/bullionboard/pkg/slogx"
)

// DefaultRoleName is assigned at registration.
const DefaultRoleName = "user"

// AuthService implements credential verification and the login /
// logout / password-change flows, issuing the bearer token and the
// opaque session token together.
type AuthService struct {
	Store     store.Store
	Tokens    *jwtx.Codec
	Sessions  *SessionService
	Activity  *ActivityService
	HashCost  int
	BearerTTL time.Duration
}

func (s *AuthService) bearerTTL() time.Duration {
	if s.BearerTTL <= 0 {
		return jwtx.DefaultBearerTTL
	}
	return s.BearerTTL
}

type RegisterParams struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a new user with the default role.
func (s *AuthService) Register(ctx context.Context, p RegisterParams, ip, userAgent string) (domain.User, error) {
	role, err := s.Store.Roles().GetRoleByName(ctx, DefaultRoleName)
	if err != nil {
		return domain.User{}, err
	}

	hash, err := cryptox.HashPassword(p.Password, s.HashCost)
	if err != nil {
		return domain.User{}, err
	}

	user := domain.User{
		ID:           idx.New().String(),
		Email:        strings.ToLower(strings.TrimSpace(p.Email)),
		Username:     strings.TrimSpace(p.Username),
		FirstName:    strings.TrimSpace(p.FirstName),
		LastName:     strings.TrimSpace(p.LastName),
		PasswordHash: hash,
		RoleID:       role.ID,
		Preferences:  map[string]string{},
		IsActive:     true,
	}

	if err := s.Store.Users().CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.User{}, ErrDuplicateIdentity
		}
		return domain.User{}, err
	}

	s.Activity.Record(ctx, user.ID, domain.ActivityRegister, "account created", ip, userAgent, nil)
	return user, nil
}

// LoginResult carries everything the login endpoint returns: the user,
// the role resolved at issuance, the signed bearer token, and the opaque
// session token.
type LoginResult struct {
	User         domain.User
	Role         domain.Role
	BearerToken  string
	SessionToken string
}

// Login verifies the credential pair and issues tokens. Unknown
// identifier and wrong password both come back as ErrInvalidCredentials;
// password verification still runs against a throwaway digest in the
// unknown case so the two paths cost the same.
func (s *AuthService) Login(ctx context.Context, identifier, password, ip, userAgent string) (LoginResult, error) {
	log := slogx.FromContext(ctx)

	user, err := s.Store.Users().GetUserByEmailOrUsername(ctx, strings.TrimSpace(identifier))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, throwawayDigest)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if cryptox.VerifyPassword(password, user.PasswordHash) != nil {
		log.Info("login rejected", "user_id", user.ID)
		return LoginResult{}, ErrInvalidCredentials
	}

	role, err := s.Store.Roles().GetRoleByID(ctx, user.RoleID)
	if err != nil {
		return LoginResult{}, err
	}

	now := time.Now().UTC()
	claims := jwtx.NewBearerClaims(
		user.ID, user.Email, user.Username, role.Name,
		domain.PermissionStrings(role.Permissions),
		s.bearerTTL(), s.Tokens.Issuer(), now,
	)
	bearer, err := s.Tokens.Sign(claims)
	if err != nil {
		return LoginResult{}, err
	}

	sessionToken, err := s.Sessions.Create(ctx, user.ID, ip, userAgent)
	if err != nil {
		return LoginResult{}, err
	}

	if err := s.Store.Users().UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Not worth failing the login over.
		log.Warn("failed to stamp last login", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now

	s.Activity.Record(ctx, user.ID, domain.ActivityLogin, "successful login", ip, userAgent, nil)

	return LoginResult{
		User:         user,
		Role:         role,
		BearerToken:  bearer,
		SessionToken: sessionToken,
	}, nil
}

// Logout revokes the session token. Idempotent: an unknown or already
// revoked token succeeds silently.
func (s *AuthService) Logout(ctx context.Context, sessionToken, ip, userAgent string) error {
	// Resolve first purely so the audit entry can name the user.
	session, err := s.Store.Sessions().GetSessionByTokenHash(ctx, cryptox.FingerprintToken(sessionToken))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := s.Sessions.Revoke(ctx, sessionToken); err != nil {
		return err
	}

	s.Activity.Record(ctx, session.UserID, domain.ActivityLogout, "session revoked", ip, userAgent, nil)
	return nil
}

// ChangePassword verifies the current password, stores the new hash, and
// revokes every session for the user. The hash update and the bulk
// revocation run in one transaction: a credential rotation must never
// leave stale sessions alive.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, newPassword, ip, userAgent string) error {
	user, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}

	if cryptox.VerifyPassword(current, user.PasswordHash) != nil {
		return ErrInvalidCredentials
	}

	hash, err := cryptox.HashPassword(newPassword, s.HashCost)
	if err != nil {
		return err
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().UpdatePasswordHash(ctx, userID, hash); err != nil {
			return err
		}
		return tx.Sessions().RevokeAllUserSessions(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.Activity.Record(ctx, userID, domain.ActivityPasswordChange, "password changed, all sessions revoked", ip, userAgent, nil)
	return nil
}

// UpdatePreferences replaces the user's preference map.
func (s *AuthService) UpdatePreferences(ctx context.Context, userID string, prefs map[string]string) error {
	if _, err := s.Store.Users().GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrUserNotFound
		}
		return err
	}
	return s.Store.Users().UpdatePreferences(ctx, userID, prefs)
}

// throwawayDigest is a bcrypt hash of nothing anyone knows; it only
// exists so failed lookups still burn a verification.
const throwawayDigest = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
