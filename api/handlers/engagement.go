package handlers

import (
	"net/http"
	"platebook/api/middleware"
	"platebook/services"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var engagementService = services.NewEngagementService()

// ToggleLike переключает лайк текущего пользователя на посте
func ToggleLike(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	userID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	start := time.Now()
	result, err := engagementService.ToggleLike(c.Request.Context(), postID, userID)
	middleware.RecordEngagementOp("toggle_like", "platebook", time.Since(start), err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// AddComment добавляет комментарий и возвращает полный список комментариев поста
func AddComment(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	var req struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	userID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	start := time.Now()
	comments, err := engagementService.AddComment(c.Request.Context(), postID, userID, req.Text)
	middleware.RecordEngagementOp("add_comment", "platebook", time.Since(start), err)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"comments": comments})
}
