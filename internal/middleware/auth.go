package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/jwt"
	"hotelpms/internal/pkg/response"
)

const (
	ctxUserID      = "user_id"
	ctxRole        = "role"
	ctxPermissions = "permissions"
)

// StaffLookup loads the current state of a staff account.
type StaffLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// JWTAuth authenticates the Bearer token. Websocket upgrades may pass the
// token as ?token= since browsers cannot set headers on them.
//
// When users is set, every request reloads the account: disabled or deleted
// staff are refused and role and permissions come from the stored flags, not
// the token. A nil users trusts the claims as issued.
func JWTAuth(svc *jwt.Service, users StaffLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr, ok := bearerToken(c)
		if !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Missing Authorization header")
			c.Abort()
			return
		}

		claims, err := svc.ValidateToken(tokenStr)
		if err != nil {
			response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Invalid or expired token")
			c.Abort()
			return
		}

		role, perms := claims.Role, claims.Permissions
		if users != nil {
			u, err := users.GetByID(c.Request.Context(), claims.UserID)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				response.Error(c, http.StatusUnauthorized, "INVALID_TOKEN", "Account no longer exists")
				c.Abort()
				return
			case err != nil:
				response.FromError(c, err)
				c.Abort()
				return
			case !u.IsActive:
				response.Error(c, http.StatusForbidden, "ACCOUNT_DISABLED", "Account disabled")
				c.Abort()
				return
			}
			role = string(u.Role)
			perms = make([]string, 0, len(u.Permissions()))
			for _, p := range u.Permissions() {
				perms = append(perms, string(p))
			}
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, role)
		c.Set(ctxPermissions, perms)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	h := c.GetHeader("Authorization")
	if h == "" {
		if strings.EqualFold(c.GetHeader("Upgrade"), "websocket") {
			if q := strings.TrimSpace(c.Query("token")); q != "" {
				return q, true
			}
		}
		return "", false
	}
	if !strings.HasPrefix(h, "Bearer ") {
		return "", false
	}
	tokenStr := strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	return tokenStr, tokenStr != ""
}

// UserID is the authenticated staff id, 0 outside JWTAuth.
func UserID(c *gin.Context) int64 {
	return c.GetInt64(ctxUserID)
}

func Permissions(c *gin.Context) []string {
	return c.GetStringSlice(ctxPermissions)
}
