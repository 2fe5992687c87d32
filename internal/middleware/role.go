package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hotelpms/internal/domain"
	"hotelpms/internal/pkg/response"
)

// RequirePermission rejects staff whose token lacks perm. Admin tokens carry
// every permission.
func RequirePermission(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := c.Get(ctxUserID); !ok {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
			c.Abort()
			return
		}

		for _, p := range Permissions(c) {
			if p == string(perm) {
				c.Next()
				return
			}
		}
		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: missing permission "+string(perm))
		c.Abort()
	}
}

// AdminOnly requires the admin role regardless of permission flags.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ctxRole) != string(domain.RoleAdmin) {
			response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: admin only")
			c.Abort()
			return
		}
		c.Next()
	}
}
