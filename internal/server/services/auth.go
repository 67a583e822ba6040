package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/auth"
	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/password"
	"github.com/tenauth/tenauth/internal/server/repositories/repomanager"
)

// AuthService verifies credentials within a tenant scope and mints access
// tokens. It consults the lockout tracker before every comparison and
// records each outcome.
type AuthService struct {
	db      *sql.DB
	repos   repomanager.RepositoryManager
	hasher  password.Hasher
	issuer  *auth.Issuer
	lockout *LockoutService
}

func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, h password.Hasher, lockout *LockoutService, cfg *config.Config) *AuthService {
	return &AuthService{
		db:      db,
		repos:   m,
		hasher:  h,
		issuer:  auth.NewIssuer([]byte(cfg.SecretKey), cfg.AccessTokenValidityDuration),
		lockout: lockout,
	}
}

// Issuer exposes the token issuer for transports that verify bearer tokens.
func (s *AuthService) Issuer() *auth.Issuer {
	return s.issuer
}

// Profile loads the user behind a verified token subject.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repos.Users(s.db).GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, common.ErrorInternal
	}
	return user, nil
}

// RegisterInput are the profile fields accepted at registration.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

// Register creates a new user inside the resolved tenant scope.
func (s *AuthService) Register(ctx context.Context, tenant models.TenantRef, input RegisterInput) (*models.User, error) {
	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		TenantID:     tenant.ID,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
	}

	repo := s.repos.Users(s.db)
	created, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			return nil, common.ErrUserExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	return created, nil
}

// Login verifies the supplied credentials and returns a signed access token
// with the verified user.
//
// The lockout tracker is consulted before the stored hash is touched, so a
// locked account leaks nothing about whether the password was otherwise
// correct. When the user does not exist, a dummy comparison burns the same
// time a real one would, keeping absent users and wrong passwords
// indistinguishable to a timing observer.
func (s *AuthService) Login(ctx context.Context, tenant models.TenantRef, username, pass string) (string, *models.User, error) {
	repo := s.repos.Users(s.db)
	user, err := repo.GetByLogin(ctx, tenant.ID, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.DummyCompare(pass)
			return "", nil, common.ErrUserNotFound
		}
		return "", nil, common.ErrorInternal
	}

	allowed, remaining, err := s.lockout.CheckAllowed(ctx, tenant.Key(), user.ID)
	if err != nil {
		return "", nil, common.ErrorInternal
	}
	if !allowed {
		return "", nil, &common.ErrAccountLocked{Remaining: remaining}
	}

	if !s.hasher.Compare(user.PasswordHash, pass) {
		if err := s.lockout.RecordFailure(ctx, tenant.Key(), user.ID); err != nil {
			return "", nil, common.ErrorInternal
		}
		return "", nil, common.ErrInvalidCredentials
	}

	if err := s.lockout.RecordSuccess(ctx, tenant.Key(), user.ID); err != nil {
		return "", nil, common.ErrorInternal
	}

	token, err := s.issuer.Issue(user.ID, tenant.Key())
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}
