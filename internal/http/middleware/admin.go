package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// AdminOnly пропускает только пользователей с ролью admin.
// Должен стоять после AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRoleKey)
		if !ok || role != "admin" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "недостаточно прав"})
			return
		}
		c.Next()
	}
}
