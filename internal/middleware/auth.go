package middleware

import (
	"strings"

	"github.com/freightfloo/freightfloo-backend/internal/models"
	"github.com/freightfloo/freightfloo-backend/pkg/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		var tokenString string

		// First try to get token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// If not found in header, try query parameter (for WebSocket)
		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			c.JSON(401, gin.H{"error": "Authorization header or token query parameter required"})
			c.Abort()
			return
		}

		token, err := utils.ValidateToken(tokenString)
		if err != nil || !token.Valid {
			c.JSON(401, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(401, gin.H{"error": "Invalid token claims"})
			c.Abort()
			return
		}

		c.Set("userId", uint(claims["id"].(float64)))
		c.Set("role", claims["role"].(string))
		c.Next()
	}
}

// RequireShipper dispatches the shipper capability check once at the
// boundary instead of inline per handler.
func RequireShipper() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.CanShip() }, "Shipper account required")
}

// RequireCarrier dispatches the carrier capability check once at the boundary.
func RequireCarrier() gin.HandlerFunc {
	return requireCapability(func(u *models.User) bool { return u.CanCarry() }, "Carrier account required")
}

func requireCapability(allowed func(*models.User) bool, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := &models.User{Role: models.UserRole(c.GetString("role"))}
		if !allowed(user) {
			c.JSON(403, gin.H{"error": message})
			c.Abort()
			return
		}
		c.Next()
	}
}
