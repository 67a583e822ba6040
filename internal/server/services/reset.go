package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/dbx"
	"github.com/tenauth/tenauth/internal/logging"
	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/notification"
	"github.com/tenauth/tenauth/internal/server/password"
	"github.com/tenauth/tenauth/internal/server/repositories/repomanager"
)

// resetTokenBytes is the entropy of a reset token value; the encoded string
// is twice this length.
const resetTokenBytes = 32

// ResetService issues single-use, time-bounded password-reset tokens and
// validates them on redemption.
type ResetService struct {
	db       *sql.DB
	repos    repomanager.RepositoryManager
	hasher   password.Hasher
	notifier notification.Notifier
	logger   logging.Logger
	validity time.Duration
	now      func() time.Time
}

func NewResetService(db *sql.DB, m repomanager.RepositoryManager, h password.Hasher, n notification.Notifier, l logging.Logger, cfg *config.Config) *ResetService {
	return &ResetService{
		db:       db,
		repos:    m,
		hasher:   h,
		notifier: n,
		logger:   l.With("module", "reset_service"),
		validity: cfg.ResetTokenValidityDuration,
		now:      time.Now,
	}
}

// Request issues a reset token for the named user and hands it to the
// notifier. Issuing a new token consumes every earlier unconsumed token for
// the same user, so a leaked old link stops working the moment a fresh one
// exists.
//
// An unknown user succeeds silently: the response must not disclose which
// accounts exist.
func (s *ResetService) Request(ctx context.Context, tenant models.TenantRef, username, callbackURL string) error {
	user, err := s.repos.Users(s.db).GetByLogin(ctx, tenant.ID, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.logger.Debug(ctx, "reset requested for unknown user", "tenant", tenant.Key())
			return nil
		}
		return common.ErrorInternal
	}

	value, err := common.MakeRandHexString(resetTokenBytes)
	if err != nil {
		return common.ErrorInternal
	}

	token := &models.ResetToken{
		TenantKey: tenant.Key(),
		UserID:    user.ID,
		Token:     value,
		ExpiresAt: s.now().Add(s.validity),
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.ResetTokens(tx)
		if err := repo.InvalidateForUser(ctx, tenant.Key(), user.ID); err != nil {
			return fmt.Errorf("error invalidating prior tokens: %w", err)
		}
		return repo.Create(ctx, token)
	})
	if err != nil {
		return common.ErrorInternal
	}

	// Fire-and-forget: a delivery failure must not roll back issuance.
	if err := s.notifier.SendPasswordReset(ctx, notification.ResetNotification{
		Email:       user.Email,
		Token:       value,
		CallbackURL: callbackURL,
		ExpiresAt:   token.ExpiresAt,
	}); err != nil {
		s.logger.Warn(ctx, "reset notification failed", "error", err.Error())
	}

	return nil
}

// Redeem consumes a reset token and installs the new credential. In one
// transaction the token is marked consumed, the password hash replaced, and
// the user's lockout state cleared, so a successful reset unlocks the account.
func (s *ResetService) Redeem(ctx context.Context, tokenValue, newPassword string) error {
	token, err := s.repos.ResetTokens(s.db).Find(ctx, tokenValue)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrResetTokenNotFound
		}
		return common.ErrorInternal
	}

	if s.now().After(token.ExpiresAt) {
		return common.ErrTokenExpired
	}
	if token.Consumed {
		return common.ErrTokenAlreadyUsed
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return common.ErrorInternal
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repos.ResetTokens(tx).MarkConsumed(ctx, token.ID); err != nil {
			return err
		}
		if err := s.repos.Users(tx).UpdatePasswordHash(ctx, token.UserID, hash); err != nil {
			return err
		}
		return s.repos.LoginAttempts(tx).Delete(ctx, token.TenantKey, token.UserID)
	})
	if err != nil {
		if errors.Is(err, common.ErrTokenAlreadyUsed) {
			return common.ErrTokenAlreadyUsed
		}
		return common.ErrorInternal
	}

	return nil
}
