package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/fmpickleball/federation-api/pkg/token"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	AuthUserIDKey = "auth_user_id"
	AuthRolesKey  = "auth_roles"
)

// AuthMiddleware validates the bearer token and loads the user id and roles
// into the request context. The user must still exist and not be soft-deleted.
func AuthMiddleware(jwtSecret string, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header is required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid Authorization header format. Expected: Bearer <token>"})
			return
		}

		claims, err := token.ValidateJWT(parts[1], jwtSecret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token: " + err.Error()})
			return
		}

		var exists bool
		if err := db.Table("users").Select("count(*) > 0").Where("id = ? AND deleted_at IS NULL", claims.UserID).Find(&exists).Error; err != nil || !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or inactive"})
			return
		}

		c.Set(AuthUserIDKey, claims.UserID)
		c.Set(AuthRolesKey, claims.Roles)
		c.Next()
	}
}

// GetUserIDFromContext extracts the authenticated user's id from the context.
func GetUserIDFromContext(c *gin.Context) (uint, error) {
	v, exists := c.Get(AuthUserIDKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	uid, ok := v.(uint)
	if !ok {
		return 0, fmt.Errorf("user ID has unexpected type: %T", v)
	}
	return uid, nil
}

// GetRolesFromContext extracts the authenticated user's roles from the context.
func GetRolesFromContext(c *gin.Context) []string {
	v, exists := c.Get(AuthRolesKey)
	if !exists {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}
