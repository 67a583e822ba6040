package models

import "time"

// LoginAttempt tracks consecutive failed verifications for one user within
// one tenant scope. Invariant: when FailureCount reaches the configured
// threshold, LockedUntil is set to a future time; once that passes the state
// resets to zero failures on the next evaluation.
type LoginAttempt struct {
	TenantKey    string
	UserID       string
	FailureCount int
	LockedUntil  *time.Time
	UpdatedAt    time.Time
}
