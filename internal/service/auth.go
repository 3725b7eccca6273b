// Package service contains application services for authentication and notes.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gofrs/uuid/v5"

	pkgcrypto "github.com/avolkhin/noteboard/internal/crypto"
	"github.com/avolkhin/noteboard/internal/errs"
	"github.com/avolkhin/noteboard/internal/limiter"
	"github.com/avolkhin/noteboard/internal/model"
	"github.com/avolkhin/noteboard/internal/repository"
	"github.com/avolkhin/noteboard/internal/token"
)

// AuthService defines authentication and bootstrap operations.
type AuthService interface {
	// Register creates a new member account with secure password hashing.
	Register(ctx context.Context, name, email, password string) (*model.User, error)
	// Login applies rate limiting and authenticates the user, issuing a token.
	Login(ctx context.Context, email, password, ip string) (model.Token, model.User, error)
	// Resolve re-reads the user behind a verified token claim. Downstream
	// privilege checks read live fields, never claims baked into the token.
	Resolve(ctx context.Context, userID uuid.UUID) (*model.User, error)
	// EnsureAdmin idempotently provisions the single admin account.
	// Reports created=false when the admin email is already taken.
	EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, bool, error)
}

type AuthServiceImpl struct {
	users  repository.UserRepository
	tokens *token.Codec
	lim    limiter.Limiter
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.UserRepository, tokens *token.Codec, lim limiter.Limiter) *AuthServiceImpl {
	return &AuthServiceImpl{users: users, tokens: tokens, lim: lim}
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new member account. The admin role is never
// assignable here; EnsureAdmin is the only admin-creation path.
func (s *AuthServiceImpl) Register(ctx context.Context, name, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)
	if name == "" {
		return nil, fmt.Errorf("%w: name required", errs.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: valid email required", errs.ErrValidation)
	}
	if password == "" {
		return nil, fmt.Errorf("%w: password required", errs.ErrValidation)
	}
	return s.createUser(ctx, name, email, password, model.RoleMember)
}

// Login authenticates with rate limiting by (email, ip).
func (s *AuthServiceImpl) Login(ctx context.Context, email, password, ip string) (model.Token, model.User, error) {
	email = NormalizeEmail(email)
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, email, ipHash)
	if err != nil {
		return model.Token{}, model.User{}, err
	}
	if !allowed {
		return model.Token{}, model.User{}, errs.ErrRateLimited
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil || !pkgcrypto.VerifyPassword([]byte(password), u.SaltAuth, u.PwdHash) {
		if blocked, _, ferr := s.lim.Failure(ctx, email, ipHash); ferr == nil && blocked {
			return model.Token{}, model.User{}, errs.ErrRateLimited
		}
		// unknown email and wrong password are indistinguishable
		return model.Token{}, model.User{}, errs.ErrUnauthorized
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, email, ipHash)

	access, exp, err := s.tokens.Issue(u.ID)
	if err != nil {
		return model.Token{}, model.User{}, err
	}
	return model.Token{AccessToken: access, ExpiresAt: exp}, *u, nil
}

// Resolve loads the live user record for a verified token subject.
// A deleted account holding a still-valid token fails here.
func (s *AuthServiceImpl) Resolve(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return nil, errs.ErrUnauthorized
		}
		return nil, err
	}
	return u, nil
}

// EnsureAdmin provisions the admin account once. Safe to invoke on every
// deployment: an existing row with the admin email reports created=false.
func (s *AuthServiceImpl) EnsureAdmin(ctx context.Context, email, password, name string) (*model.User, bool, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" || name == "" {
		return nil, false, fmt.Errorf("%w: admin email/password/name required", errs.ErrValidation)
	}

	existing, err := s.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return existing, false, nil
	case !errors.Is(err, errs.ErrNotFound):
		return nil, false, err
	}

	u, err := s.createUser(ctx, name, email, password, model.RoleAdmin)
	if errors.Is(err, errs.ErrAlreadyExists) {
		// lost a provisioning race; the winner's row is the admin
		existing, gerr := s.users.GetByEmail(ctx, email)
		if gerr != nil {
			return nil, false, gerr
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return u, true, nil
}

func (s *AuthServiceImpl) createUser(ctx context.Context, name, email, password string, role model.Role) (*model.User, error) {
	uid, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	salt, err := pkgcrypto.RandBytes(pkgcrypto.SaltLen)
	if err != nil {
		return nil, err
	}
	u := &model.User{
		ID:       uid,
		Name:     name,
		Email:    email,
		Role:     role,
		PwdHash:  pkgcrypto.HashPassword([]byte(password), salt),
		SaltAuth: salt,
	}
	if err := s.users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
