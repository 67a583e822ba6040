package models

import "time"

// ResetToken is a single-use, time-bounded credential authorizing one
// password change. Consumed transitions false -> true exactly once.
type ResetToken struct {
	ID        string
	TenantKey string
	UserID    string
	Token     string
	ExpiresAt time.Time
	Consumed  bool
	CreatedAt time.Time
}
