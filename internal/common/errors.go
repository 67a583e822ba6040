// Package common defines shared constants and sentinel errors used across
// the service layers. Callers should use errors.Is to match these values.
package common

import (
	"errors"
	"fmt"
	"time"
)

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Service-level errors (generic/internal flow control).
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")

	// Tenant resolution errors.
	ErrTenantRequired = errors.New("tenant required")
	ErrTenantNotFound = errors.New("tenant not found")

	// Credential verification errors. ErrUserNotFound and
	// ErrInvalidCredentials must never be distinguishable in a response
	// body; transports collapse both into a generic unauthorized reply.
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Access token errors.
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Reset token lifecycle errors.
	ErrResetTokenNotFound = errors.New("reset token not found")
	ErrTokenAlreadyUsed   = errors.New("token already used")
)

// ErrAccountLocked is returned when a lockout window is active for the
// account under verification. Remaining is the time left in the window.
type ErrAccountLocked struct {
	Remaining time.Duration
}

func (e *ErrAccountLocked) Error() string {
	return fmt.Sprintf("account locked, retry in %s", e.Remaining.Round(time.Second))
}

// IsAccountLocked reports whether err is an account-locked error and, if so,
// returns the remaining lock duration.
func IsAccountLocked(err error) (time.Duration, bool) {
	var locked *ErrAccountLocked
	if errors.As(err, &locked) {
		return locked.Remaining, true
	}
	return 0, false
}
