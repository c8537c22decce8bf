package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dmorozov/showcase-backend/internal/service"
)

// Context ключи для gin.Context.
const (
	ContextAdminIDKey = "adminID"
	ContextRoleKey    = "role"
)

// AuthMiddleware проверяет JWT access токен администратора.
func AuthMiddleware(tokens *service.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "требуется авторизация"})
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		adminID, role, err := tokens.ParseAccess(raw)
		if err != nil || adminID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "токен невалиден"})
			return
		}

		c.Set(ContextAdminIDKey, adminID)
		c.Set(ContextRoleKey, role)
		c.Next()
	}
}
