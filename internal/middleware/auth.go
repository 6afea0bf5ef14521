package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mirado/clinic-console-api/internal/utils"
)

// AuthMiddleware gates the admin routes. The validated email claim becomes
// the owner identity every scoped query filters on.
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

		// Set admin identity in the context for handlers to use
		c.Set("adminEmail", claims.Email)
		c.Set("adminUsername", claims.Username)

		c.Next()
	}
}

// AdminEmailFromContext fetches the owner identity set by AuthMiddleware.
func AdminEmailFromContext(c *gin.Context) string {
	email, _ := c.Get("adminEmail")
	if s, ok := email.(string); ok {
		return s
	}
	return ""
}
