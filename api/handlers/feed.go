package handlers

import (
	"net/http"
	"platebook/api/middleware"
	"platebook/services"
	"time"

	"github.com/gin-gonic/gin"
)

var feedService = services.NewFeedService()

// SampleFeed возвращает случайный батч постов вне присланного множества
// исключений. POST, а не GET: множество исключений растет со скроллом
// и в query-строку не помещается.
func SampleFeed(c *gin.Context) {
	var req struct {
		ExcludeIDs []int64 `json:"exclude_ids"`
		Limit      int     `json:"limit"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	viewerID, _ := identityFromContext(c)

	start := time.Now()
	feed, err := feedService.Sample(c.Request.Context(), viewerID, req.ExcludeIDs, req.Limit)
	if err != nil {
		middleware.RecordFeedSample("platebook", 0, false, time.Since(start), err)
		abortWithError(c, err)
		return
	}
	middleware.RecordFeedSample("platebook", len(feed.Posts), feed.Exhausted, time.Since(start), nil)

	c.JSON(http.StatusOK, feed)
}
