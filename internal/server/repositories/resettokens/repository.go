// Package resettokens declares the repository contract for password-reset
// tokens.
package resettokens

import (
	"context"

	"github.com/tenauth/tenauth/internal/server/models"
)

type Repository interface {
	// Create stores a new reset token.
	Create(ctx context.Context, token *models.ResetToken) error

	// Find looks a token up by its opaque value, consumed or not; absent
	// tokens return common.ErrorNotFound.
	Find(ctx context.Context, token string) (*models.ResetToken, error)

	// MarkConsumed flips the consumed flag for the token with the given
	// id. It returns common.ErrTokenAlreadyUsed when the flag was already
	// set, so exactly one caller wins a concurrent redemption.
	MarkConsumed(ctx context.Context, id string) error

	// InvalidateForUser consumes every outstanding token for the user so
	// earlier links stop working when a new one is issued.
	InvalidateForUser(ctx context.Context, tenantKey, userID string) error
}
