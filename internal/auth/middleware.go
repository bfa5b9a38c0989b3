package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mindpay/internal/api"
	"mindpay/internal/logger"
)

const (
	userIDKey    = "user_id"
	userEmailKey = "user_email"
	userRoleKey  = "user_role"
)

func unauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, api.ErrorResponse{Error: msg})
}

// AuthMiddleware accepts a bearer access token and stores the caller's id,
// email and role on the context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			unauthorized(c, "Authorization header required")
			return
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || strings.TrimSpace(scheme) != "Bearer" {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		token = strings.TrimSpace(token)
		if token == "" {
			unauthorized(c, "Token is empty")
			return
		}

		claims, err := ValidateToken(token, secret)
		if err != nil {
			switch {
			case errors.Is(err, ErrTokenExpired):
				unauthorized(c, "Token expired")
			case errors.Is(err, ErrInvalidTokenType):
				unauthorized(c, "Invalid token type")
			default:
				unauthorized(c, "Invalid or malformed token")
			}
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set(userEmailKey, claims.Email)
		c.Set(userRoleKey, claims.Role)

		c.Next()
	}
}

// RequireRole must run after AuthMiddleware.
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exists := c.Get(userRoleKey)
		if !exists {
			unauthorized(c, "User role not found")
			return
		}

		role, ok := value.(string)
		if !ok {
			unauthorized(c, "Invalid role type")
			return
		}

		if role != requiredRole {
			userID, _ := GetUserID(c)
			logger.Warn("access denied", "user_id", userID, "role", role, "required_role", requiredRole, "path", c.FullPath())
			c.AbortWithStatusJSON(http.StatusForbidden, api.ErrorResponse{Error: "Insufficient permissions"})
			return
		}

		c.Next()
	}
}

// GetUserID returns the authenticated caller. Finance writes record it as
// processed_by / created_by.
func GetUserID(c *gin.Context) (int64, bool) {
	value, exists := c.Get(userIDKey)
	if !exists {
		return 0, false
	}

	id, ok := value.(int64)
	return id, ok
}
