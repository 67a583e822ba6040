package common

// DefaultTenantHeaderName is the request header that names the tenant scope.
// Its absence is legal only on endpoints marked tenant-optional; those
// resolve to the host scope.
const DefaultTenantHeaderName = "X-Tenant-Id"

// AuthorizationHeaderName carries the bearer access token on authenticated
// requests.
const AuthorizationHeaderName = "Authorization"
