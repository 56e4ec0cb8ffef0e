package handlers

import (
	"net/http"
	"platebook/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

var postService = services.NewPostService()

// CreatePost создает новый пост текущего пользователя
func CreatePost(c *gin.Context) {
	var req struct {
		Content string `json:"content" binding:"required"`
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

	post, err := postService.CreatePost(c.Request.Context(), userID, req.Content)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, post)
}

// GetMyPosts возвращает посты текущего пользователя, новые сверху
func GetMyPosts(c *gin.Context) {
	userID, ok := identityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	posts, err := postService.GetUserPosts(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetUserPosts возвращает посты произвольного владельца
func GetUserPosts(c *gin.Context) {
	ownerID, err := strconv.ParseInt(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	posts, err := postService.GetUserPosts(c.Request.Context(), ownerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPost возвращает снапшот одного поста (кеш документа + liked зрителя)
func GetPost(c *gin.Context) {
	postID, err := strconv.ParseInt(c.Param("post_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid post ID"})
		return
	}

	viewerID, _ := identityFromContext(c)

	post, err := postService.GetPost(c.Request.Context(), postID, viewerID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, post)
}
