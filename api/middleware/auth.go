package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// IdentityMiddleware - доверенная идентификация запроса.
// Аутентификацию делает внешний сервис, сюда приходит уже проверенный
// идентификатор в заголовке X-User-ID; ядро ему верит.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDHeader := c.GetHeader("X-User-ID")
		if userIDHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required: provide X-User-ID header"})
			c.Abort()
			return
		}

		userID, err := strconv.ParseInt(userIDHeader, 10, 64)
		if err != nil || userID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid X-User-ID format"})
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		c.Next()
	}
}

// OptionalIdentityMiddleware - как IdentityMiddleware, но анонимные
// запросы пропускаются (лента доступна и без идентификатора)
func OptionalIdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		userIDHeader := c.GetHeader("X-User-ID")
		if userIDHeader != "" {
			if userID, err := strconv.ParseInt(userIDHeader, 10, 64); err == nil && userID > 0 {
				c.Set("user_id", userID)
			}
		}
		c.Next()
	}
}
