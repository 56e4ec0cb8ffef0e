package handlers

import (
	"net/http"
	"platebook/services"
	"strconv"

	"github.com/gin-gonic/gin"
)

var userService = services.NewUserService()

// Register создает профиль пользователя (сессии и токены - забота
// внешнего сервиса идентификации)
func Register(c *gin.Context) {
	var req struct {
		Nickname string `json:"nickname" binding:"required"`
		Name     string `json:"name"`
		Avatar   string `json:"avatar"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	user, err := userService.Register(c.Request.Context(), req.Nickname, req.Name, req.Avatar, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, user)
}

// UserGet возвращает профиль по id
func UserGet(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	user, err := userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
