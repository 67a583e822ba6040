package httpapi

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tenauth/tenauth/internal/common"
	"github.com/tenauth/tenauth/internal/server/models"
	"github.com/tenauth/tenauth/internal/server/services"
)

// Handlers binds the route handlers to the underlying services.
type Handlers struct {
	auth  *services.AuthService
	reset *services.ResetService
}

func NewHandlers(auth *services.AuthService, reset *services.ResetService) *Handlers {
	return &Handlers{auth: auth, reset: reset}
}

func userJSON(u *models.User) gin.H {
	out := gin.H{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"role":       u.Role,
		"created_at": u.CreatedAt,
	}
	if u.TenantID != "" {
		out["tenant_id"] = u.TenantID
	}
	return out
}

func (h *Handlers) register(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if strings.TrimSpace(req.Username) == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username and password are required")
		return
	}

	user, err := h.auth.Register(c.Request.Context(), tenantFrom(c), services.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, common.ErrUserExists) {
			respondError(c, http.StatusConflict, "USER_EXISTS", "username already taken")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "registration failed")
		return
	}

	c.JSON(http.StatusCreated, userJSON(user))
}

// login responds with one generic 401 for both an unknown user and a wrong
// password, so the body never discloses which accounts exist. A locked
// account is the one deliberate exception, reported as 423 with Retry-After.
func (h *Handlers) login(c *gin.Context) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}

	token, user, err := h.auth.Login(c.Request.Context(), tenantFrom(c), req.Username, req.Password)
	if err != nil {
		if remaining, locked := common.IsAccountLocked(err); locked {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(remaining.Seconds()))))
			respondError(c, http.StatusLocked, "ACCOUNT_LOCKED", "account temporarily locked")
			return
		}
		if errors.Is(err, common.ErrUserNotFound) || errors.Is(err, common.ErrInvalidCredentials) {
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid username or password")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "login failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"user":         userJSON(user),
	})
}

// sendResetToken always answers 204 for a well-formed request; a request
// for an unknown user is indistinguishable from a successful one.
func (h *Handlers) sendResetToken(c *gin.Context) {
	var req struct {
		Username    string `json:"username"`
		CallbackURL string `json:"callback_url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if strings.TrimSpace(req.Username) == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "username is required")
		return
	}

	if err := h.reset.Request(c.Request.Context(), tenantFrom(c), req.Username, req.CallbackURL); err != nil {
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "reset request failed")
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handlers) resetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "invalid json")
		return
	}
	if req.Token == "" || req.Password == "" {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "token and password are required")
		return
	}

	err := h.reset.Redeem(c.Request.Context(), req.Token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrResetTokenNotFound):
			respondError(c, http.StatusBadRequest, "RESET_TOKEN_NOT_FOUND", "unknown reset token")
		case errors.Is(err, common.ErrTokenExpired):
			respondError(c, http.StatusBadRequest, "RESET_TOKEN_EXPIRED", "reset token expired")
		case errors.Is(err, common.ErrTokenAlreadyUsed):
			respondError(c, http.StatusBadRequest, "RESET_TOKEN_USED", "reset token already used")
		default:
			respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "reset failed")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handlers) currentUser(c *gin.Context) {
	claims := claimsFrom(c)

	user, err := h.auth.Profile(c.Request.Context(), claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrUserNotFound) {
			respondError(c, http.StatusUnauthorized, "UNAUTHORIZED", "user no longer exists")
			return
		}
		respondError(c, http.StatusInternalServerError, "INTERNAL_SERVER_ERROR", "profile lookup failed")
		return
	}

	c.JSON(http.StatusOK, userJSON(user))
}
