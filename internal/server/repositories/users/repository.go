// Package users declares the repository contract for user accounts.
package users

import (
	"context"

	"github.com/tenauth/tenauth/internal/server/models"
)

type Repository interface {
	// Create inserts a new user. A duplicate username within the same
	// tenant scope returns common.ErrUserExists.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// GetByLogin looks a user up by username within a tenant scope;
	// tenantID is empty for the host scope. Absent users return
	// common.ErrorNotFound.
	GetByLogin(ctx context.Context, tenantID, username string) (*models.User, error)

	// GetByID looks a user up by primary key.
	GetByID(ctx context.Context, id string) (*models.User, error)

	// UpdatePasswordHash replaces the stored credential hash.
	UpdatePasswordHash(ctx context.Context, id, hash string) error
}
