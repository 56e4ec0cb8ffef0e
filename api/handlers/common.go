package handlers

import (
	"errors"
	"net/http"
	"platebook/models"

	"github.com/gin-gonic/gin"
)

// statusFromError переводит ошибку ядра в HTTP статус
func statusFromError(err error) int {
	switch {
	case errors.Is(err, models.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, models.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func abortWithError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Детали стора наружу не отдаем
		msg = "Temporary storage error, please retry"
	}
	c.JSON(status, gin.H{"error": msg})
}

// identityFromContext достает доверенный идентификатор, установленный middleware
func identityFromContext(c *gin.Context) (int64, bool) {
	userID, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}
