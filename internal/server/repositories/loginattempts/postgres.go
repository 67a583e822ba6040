package loginattempts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/dbx"
	"github.com/tenauth/tenauth/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, tenantKey, userID string) (*models.LoginAttempt, error) {
	query := `
		SELECT tenant_key, user_id, failure_count, locked_until, updated_at
		FROM login_attempts
		WHERE tenant_key = $1 AND user_id = $2
	`
	attempt := &models.LoginAttempt{}
	err := r.db.QueryRowContext(ctx, query, tenantKey, userID).Scan(
		&attempt.TenantKey, &attempt.UserID, &attempt.FailureCount, &attempt.LockedUntil, &attempt.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return attempt, nil
}

func (r *PostgresRepository) Upsert(ctx context.Context, attempt *models.LoginAttempt) error {
	query := `
		INSERT INTO login_attempts (tenant_key, user_id, failure_count, locked_until, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (tenant_key, user_id)
		DO UPDATE SET failure_count = $3, locked_until = $4, updated_at = now()
	`
	if _, err := r.db.ExecContext(ctx, query,
		attempt.TenantKey, attempt.UserID, attempt.FailureCount, attempt.LockedUntil,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, tenantKey, userID string) error {
	query := `
		DELETE FROM login_attempts
		WHERE tenant_key = $1 AND user_id = $2
	`
	if _, err := r.db.ExecContext(ctx, query, tenantKey, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
