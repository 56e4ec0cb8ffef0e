package handlers

import (
	"net/http"
	"platebook/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPostCounters возвращает best-effort счетчики вовлеченности поста
// из Redis (админский эндпоинт)
func GetPostCounters(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	counters, err := services.GetCounterService().GetCounters(c.Request.Context(), postID)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Counters not available"})
		return
	}

	c.JSON(http.StatusOK, counters)
}

// RebuildCounters перестраивает счетчики вовлеченности из БД (админский эндпоинт)
func RebuildCounters(c *gin.Context) {
	err := services.GetCounterService().RebuildCounters(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to rebuild counters"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Counters rebuilt successfully"})
}
