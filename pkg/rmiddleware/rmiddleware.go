package rmiddleware

import (
	"net/http"
	"strings"

	"github.com/fmpickleball/federation-api/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RoleMiddleware rejects requests whose authenticated user holds none of the
// required roles. Roles come from the validated token claims set by
// middleware.AuthMiddleware.
func RoleMiddleware(requiredRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := middleware.GetUserIDFromContext(c); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: " + err.Error()})
			return
		}

		userRoles := middleware.GetRolesFromContext(c)
		for _, have := range userRoles {
			for _, want := range requiredRoles {
				if strings.EqualFold(have, want) {
					c.Next()
					return
				}
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":    "Forbidden",
			"message":  "You don't have permission to access this resource",
			"required": requiredRoles,
		})
	}
}

// AdminMiddleware is a convenience middleware for admin-only access.
func AdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("admin")
}

// PlayerMiddleware is a convenience middleware for player-only access.
func PlayerMiddleware() gin.HandlerFunc {
	return RoleMiddleware("player")
}

// StateOrAdminMiddleware covers state-delegate dashboards plus admins.
func StateOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("state", "admin")
}

// ClubOrAdminMiddleware covers club-manager dashboards plus admins.
func ClubOrAdminMiddleware() gin.HandlerFunc {
	return RoleMiddleware("club", "admin")
}
