// Package loginattempts declares the repository contract for per-user
// failed-login state.
package loginattempts

import (
	"context"

	"github.com/tenauth/tenauth/internal/server/models"
)

type Repository interface {
	// Get returns the attempt state for (tenantKey, userID), or
	// common.ErrorNotFound when no failures have been recorded.
	Get(ctx context.Context, tenantKey, userID string) (*models.LoginAttempt, error)

	// Upsert writes the attempt state, creating the row when absent.
	Upsert(ctx context.Context, attempt *models.LoginAttempt) error

	// Delete clears the attempt state. Deleting absent state is not an
	// error.
	Delete(ctx context.Context, tenantKey, userID string) error
}
