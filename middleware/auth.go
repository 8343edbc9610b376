package middleware

import (
	"strings"

	"homeserve/models"
	"homeserve/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Context keys set by JWTAuthMiddleware.
const (
	PrincipalKey = "principal"
	UserIDKey    = "userID"
	RoleKey      = "role"
)

// JWTAuthMiddleware requires a valid bearer token and stores the caller in the context.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, utils.NewAuthenticationError("Access token required"))
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.RespondError(c, utils.NewAuthenticationError("Access token required"))
			return
		}

		p, err := utils.ParsePrincipal(tokenString)
		if err != nil {
			if l, ok := c.Get("logger"); ok {
				if logger, ok := l.(*zap.Logger); ok {
					logger.Debug("token rejected", zap.Error(err))
				}
			}
			utils.RespondError(c, utils.NewAuthenticationError("Invalid or expired token"))
			return
		}

		c.Set(PrincipalKey, p)
		c.Set(UserIDKey, p.ID)
		c.Set(RoleKey, p.Role)
		c.Next()
	}
}

// RequireAdmin lets only admins through. It must run after JWTAuthMiddleware.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := GetPrincipal(c)
		if !ok {
			utils.RespondError(c, utils.NewAuthenticationError("Access token required"))
			return
		}
		if !p.IsAdmin() {
			utils.RespondError(c, utils.NewAuthorizationError("Admin access required"))
			return
		}
		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, if any.
func GetPrincipal(c *gin.Context) (models.Principal, bool) {
	v, ok := c.Get(PrincipalKey)
	if !ok {
		return models.Principal{}, false
	}
	p, ok := v.(models.Principal)
	return p, ok
}
