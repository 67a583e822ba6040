package httpapi

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/logging"
	"github.com/tenauth/tenauth/internal/server/auth"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/services"
)

const (
	ctxTenantKey = "tenant"
	ctxClaimsKey = "claims"
)

// RequestLogger logs one line per request after the handler chain ran.
func RequestLogger(logger logging.Logger) gin.HandlerFunc {
	log := logger.With("module", "http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info(c.Request.Context(), "request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start).String(),
		)
	}
}

// TenantMiddleware resolves the tenant header into a scope and stores it on
// the request context. With required=false an absent header resolves to the
// host scope; a present but unknown identifier always fails.
func TenantMiddleware(tenants *services.TenantService, header string, required bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		ref, err := tenants.Resolve(c.Request.Context(), c.GetHeader(header), required)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrTenantRequired):
				respondError(c, http.StatusBadRequest, "TENANT_REQUIRED", "tenant header is required")
			case errors.Is(err, common.ErrTenantNotFound):
				respondError(c, http.StatusNotFound, "TENANT_NOT_FOUND", "unknown tenant")
			default:
				respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "tenant resolution failed")
			}
			c.Abort()
			return
		}
		c.Set(ctxTenantKey, ref)
		c.Next()
	}
}

// BearerAuth verifies the Authorization bearer token and stores its claims
// on the request context.
func BearerAuth(issuer *auth.Issuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader(common.AuthorizationHeaderName)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			c.Abort()
			return
		}

		claims, err := issuer.Verify(token)
		if err != nil {
			if errors.Is(err, common.ErrTokenExpired) {
				respondError(c, http.StatusUnauthorized, "TOKEN_EXPIRED", "token expired")
			} else {
				respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "invalid token")
			}
			c.Abort()
			return
		}

		c.Set(ctxClaimsKey, claims)
		c.Next()
	}
}

func tenantFrom(c *gin.Context) models.TenantRef {
	ref, _ := c.MustGet(ctxTenantKey).(models.TenantRef)
	return ref
}

func claimsFrom(c *gin.Context) *auth.Claims {
	claims, _ := c.MustGet(ctxClaimsKey).(*auth.Claims)
	return claims
}
