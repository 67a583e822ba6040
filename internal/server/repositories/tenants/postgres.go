package tenants

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

func (r *PostgresRepository) Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error) {
	if tenant.ID == "" {
		tenant.ID = uuid.NewString()
	}

	query := `
		INSERT INTO tenants (id, name)
		VALUES ($1, $2)
		RETURNING created_at
	`
	if err := r.db.QueryRowContext(ctx, query, tenant.ID, tenant.Name).Scan(&tenant.CreatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tenant, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tenant, error) {
	// Reject non-uuid input before it reaches the uuid column; a malformed
	// tenant id is a lookup miss, not a database error.
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query := `
		SELECT id, name, created_at
		FROM tenants
		WHERE id = $1
	`
	tenant := &models.Tenant{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&tenant.ID, &tenant.Name, &tenant.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return tenant, nil
}
