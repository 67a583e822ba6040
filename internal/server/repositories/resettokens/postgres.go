package resettokens

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

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

func (r *PostgresRepository) Create(ctx context.Context, token *models.ResetToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}

	query := `
		INSERT INTO reset_tokens (id, tenant_key, user_id, token, expires_at, consumed)
		VALUES ($1, $2, $3, $4, $5, false)
	`
	if _, err := r.db.ExecContext(ctx, query,
		token.ID, token.TenantKey, token.UserID, token.Token, token.ExpiresAt,
	); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Find(ctx context.Context, token string) (*models.ResetToken, error) {
	query := `
		SELECT id, tenant_key, user_id, token, expires_at, consumed, created_at
		FROM reset_tokens
		WHERE token = $1
	`
	rt := &models.ResetToken{}
	err := r.db.QueryRowContext(ctx, query, token).Scan(
		&rt.ID, &rt.TenantKey, &rt.UserID, &rt.Token, &rt.ExpiresAt, &rt.Consumed, &rt.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rt, nil
}

func (r *PostgresRepository) MarkConsumed(ctx context.Context, id string) error {
	// The consumed guard in the WHERE clause makes the flip atomic: a
	// second redeemer matches zero rows.
	query := `
		UPDATE reset_tokens SET consumed = true
		WHERE id = $1 AND NOT consumed
	`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return common.ErrTokenAlreadyUsed
	}
	return nil
}

func (r *PostgresRepository) InvalidateForUser(ctx context.Context, tenantKey, userID string) error {
	query := `
		UPDATE reset_tokens SET consumed = true
		WHERE tenant_key = $1 AND user_id = $2 AND NOT consumed
	`
	if _, err := r.db.ExecContext(ctx, query, tenantKey, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
