// Package httpapi exposes the authentication service over HTTP with gin.
// Tenant scope travels in a request header, identity in a bearer token.
package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tenauth/tenauth/internal/logging"
	"github.com/tenauth/tenauth/internal/server/config"
	"github.com/tenauth/tenauth/internal/server/services"
)

// NewRouter constructs the gin engine with all routes wired.
func NewRouter(cfg *config.Config, logger logging.Logger, tenants *services.TenantService, auth *services.AuthService, reset *services.ResetService) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestLogger(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	h := NewHandlers(auth, reset)

	tenantRequired := TenantMiddleware(tenants, cfg.TenantHeaderName, true)
	tenantOptional := TenantMiddleware(tenants, cfg.TenantHeaderName, false)

	api := r.Group("/api/v1")
	{
		api.POST("/auth/register", tenantRequired, h.register)
		api.POST("/auth/login", tenantOptional, h.login)
		api.POST("/auth/send_password_reset_token", tenantRequired, h.sendResetToken)
		api.POST("/auth/reset_password", h.resetPassword)

		api.POST("/user", BearerAuth(auth.Issuer()), h.currentUser)
	}

	return r
}
