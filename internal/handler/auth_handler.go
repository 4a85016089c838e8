package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maisoncms/backend/internal/service"
)

const (
	contextAdminID    = "admin_id"
	contextAdminEmail = "admin_email"
	contextAdminRole  = "admin_role"
)

type loginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshPayload struct {
	RefreshToken string `json:"refresh_token"`
}

type changePasswordPayload struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// Login checks credentials and returns a token pair with the account.
func (a *API) Login(c *gin.Context) {
	var payload loginPayload
	if !bindJSON(c, &payload, "invalid login request") {
		return
	}

	admin, pair, err := a.auth.Login(payload.Email, payload.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "invalid email or password")
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(c, http.StatusForbidden, "account is disabled")
		default:
			a.log.Error("login failed", "error", err)
			respondError(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"admin":  gin.H{"id": admin.ID, "email": admin.Email, "name": admin.Name, "role": admin.Role},
		"tokens": pair,
	})
}

// Refresh exchanges a refresh token for a new token pair.
func (a *API) Refresh(c *gin.Context) {
	var payload refreshPayload
	if !bindJSON(c, &payload, "invalid refresh request") {
		return
	}

	pair, err := a.auth.Refresh(payload.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidToken):
			respondError(c, http.StatusUnauthorized, "invalid or expired refresh token")
		case errors.Is(err, service.ErrAccountDisabled):
			respondError(c, http.StatusForbidden, "account is disabled")
		default:
			a.log.Error("token refresh failed", "error", err)
			respondError(c, http.StatusInternalServerError, "token refresh failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": pair})
}

// Me returns the authenticated admin's identity from the token claims.
func (a *API) Me(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"id":    c.GetString(contextAdminID),
		"email": c.GetString(contextAdminEmail),
		"role":  c.GetString(contextAdminRole),
	})
}

// ChangePassword rotates the authenticated admin's password.
func (a *API) ChangePassword(c *gin.Context) {
	var payload changePasswordPayload
	if !bindJSON(c, &payload, "invalid password change request") {
		return
	}

	err := a.auth.ChangePassword(c.GetString(contextAdminID), payload.CurrentPassword, payload.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrPasswordTooShort):
			respondError(c, http.StatusBadRequest, "password must be at least 8 characters")
		case errors.Is(err, service.ErrInvalidCredentials):
			respondError(c, http.StatusUnauthorized, "current password is incorrect")
		case errors.Is(err, service.ErrAdminNotFound):
			respondError(c, http.StatusNotFound, "account not found")
		default:
			a.log.Error("password change failed", "error", err)
			respondError(c, http.StatusInternalServerError, "password change failed")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password updated"})
}

// AuthRequired validates the Bearer token and stores the admin identity on
// the request context.
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			respondError(c, http.StatusUnauthorized, "missing bearer token")
			c.Abort()
			return
		}

		claims, err := a.auth.Verify(strings.TrimSpace(token))
		if err != nil {
			respondError(c, http.StatusUnauthorized, "invalid or expired token")
			c.Abort()
			return
		}

		c.Set(contextAdminID, claims.AdminID)
		c.Set(contextAdminEmail, claims.Email)
		c.Set(contextAdminRole, claims.Role)
		c.Next()
	}
}

// RequireRole guards a route group behind a specific admin role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextAdminRole) != role {
			respondError(c, http.StatusForbidden, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
