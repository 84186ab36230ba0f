package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"telehealth-app-server/internal/config"
	"telehealth-app-server/internal/models"
	"telehealth-app-server/internal/utils"
)

const (
	userIDKey   = "userID"
	userRoleKey = "userRole"
)

// AuthMiddleware creates a middleware for JWT authentication.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		authenticate(c, cfg, parts[1])
	}
}

// QueryTokenAuthMiddleware authenticates with the access token in the
// ?token= query parameter. Browsers cannot set headers on websocket
// handshakes, so the realtime endpoint uses this instead of AuthMiddleware.
func QueryTokenAuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			if h := c.GetHeader("Authorization"); len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
				token = strings.TrimSpace(h[7:])
			}
		}
		if token == "" {
			utils.Unauthorized(c, "Access token required")
			c.Abort()
			return
		}
		authenticate(c, cfg, token)
	}
}

func authenticate(c *gin.Context, cfg *config.Config, tokenString string) {
	claims, err := utils.ValidateToken(tokenString, cfg.JWTSecret)
	if err != nil {
		zerolog.Ctx(c.Request.Context()).Debug().Err(err).Msg("rejected access token")
		utils.Unauthorized(c, "Invalid or expired token")
		c.Abort()
		return
	}

	// Set user information in context for downstream handlers
	c.Set(userIDKey, claims.UserID)
	c.Set(userRoleKey, claims.Role)

	logger := zerolog.Ctx(c.Request.Context()).With().Str("user_id", claims.UserID).Logger()
	c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context()))

	c.Next()
}

// RoleAuthMiddleware creates a middleware for role-based authorization.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowedRoles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetUserRoleFromContext(c)
		if !ok {
			utils.Unauthorized(c, "User not authenticated")
			c.Abort()
			return
		}

		for _, allowedRole := range allowedRoles {
			if role == allowedRole {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// GetUserIDFromContext returns the authenticated user's id.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get(userIDKey)
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok && idStr != ""
}

// GetUserRoleFromContext returns the authenticated user's role.
func GetUserRoleFromContext(c *gin.Context) (models.Role, bool) {
	userRole, exists := c.Get(userRoleKey)
	if !exists {
		return "", false
	}
	role, ok := userRole.(models.Role)
	return role, ok
}
