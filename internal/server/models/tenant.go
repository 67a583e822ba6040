package models

import "time"

// HostTenantKey is the reserved scope key for users that belong to no
// tenant. It is never a valid tenant id.
const HostTenantKey = "host"

// Tenant is an isolation boundary partitioning users.
type Tenant struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

// TenantRef is a resolved tenant scope: either a concrete tenant or the
// implicit host scope.
type TenantRef struct {
	ID   string
	Host bool
}

// HostTenant returns the implicit host scope.
func HostTenant() TenantRef {
	return TenantRef{Host: true}
}

// Key returns the scope key used to partition per-tenant state (lockout
// counters, reset tokens, token claims).
func (t TenantRef) Key() string {
	if t.Host {
		return HostTenantKey
	}
	return t.ID
}
