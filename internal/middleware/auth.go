package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Miguel-EMC/clinic-api/internal/utils"
)

// Context keys set for downstream handlers.
const (
	CtxUserID   = "userID"
	CtxUserRole = "userRole"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ValidateJWT(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(CtxUserID, claims.UserID)
		c.Set(CtxUserRole, claims.Role)

		c.Next()
	}
}

// OptionalAuth populates the user context when a valid bearer token is
// present but lets anonymous requests through. Used on public blog reads so
// authors can see their own drafts.
func OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := utils.ValidateJWT(tokenString); err == nil {
				c.Set(CtxUserID, claims.UserID)
				c.Set(CtxUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole gates a route group to the listed roles. Must run after
// AuthMiddleware.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(CtxUserRole)
		for _, r := range roles {
			if role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
	}
}
