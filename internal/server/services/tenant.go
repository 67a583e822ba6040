// Package services contains the server-side business logic: tenant
// resolution, credential verification with lockout, token issuance, and the
// password-reset flow.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/repositories/repomanager"
)

// TenantService resolves tenant identifiers from request metadata and
// manages tenant records.
type TenantService struct {
	db    *sql.DB
	repos repomanager.RepositoryManager
}

func NewTenantService(db *sql.DB, m repomanager.RepositoryManager) *TenantService {
	return &TenantService{db: db, repos: m}
}

// Resolve validates a tenant identifier taken from request metadata.
//
// When required is true, an absent identifier fails with ErrTenantRequired.
// When required is false, absence resolves to the implicit host scope, but
// a present identifier that matches no tenant still fails with
// ErrTenantNotFound: absence is tolerated, a bad identifier is not.
// Resolve has no side effects beyond the lookup.
func (s *TenantService) Resolve(ctx context.Context, identifier string, required bool) (models.TenantRef, error) {
	if identifier == "" {
		if required {
			return models.TenantRef{}, common.ErrTenantRequired
		}
		return models.HostTenant(), nil
	}

	repo := s.repos.Tenants(s.db)
	tenant, err := repo.GetByID(ctx, identifier)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.TenantRef{}, common.ErrTenantNotFound
		}
		return models.TenantRef{}, common.ErrorInternal
	}

	return models.TenantRef{ID: tenant.ID}, nil
}

// Create registers a new tenant.
func (s *TenantService) Create(ctx context.Context, name string) (*models.Tenant, error) {
	repo := s.repos.Tenants(s.db)
	tenant, err := repo.Create(ctx, &models.Tenant{Name: name})
	if err != nil {
		return nil, fmt.Errorf("error creating tenant: %w", err)
	}
	return tenant, nil
}
