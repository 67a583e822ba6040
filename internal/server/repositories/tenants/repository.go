// Package tenants declares the repository contract for tenant records.
package tenants

import (
	"context"

	"github.com/tenauth/tenauth/internal/server/models"
)

type Repository interface {
	// Create inserts a new tenant.
	Create(ctx context.Context, tenant *models.Tenant) (*models.Tenant, error)

	// GetByID returns the tenant with the given id, or common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*models.Tenant, error)
}
