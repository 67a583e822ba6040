package models

import "time"

// Role values assignable to a user.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an account scoped to exactly one tenant. TenantID is empty for
// host-scoped users.
type User struct {
	ID           string
	TenantID     string
	Username     string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}
