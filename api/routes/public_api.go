package routes

import (
	"platebook/api/handlers"
	"platebook/api/middleware"

	"github.com/gin-gonic/gin"
)

func PublicApi(router *gin.Engine) *gin.RouterGroup {
	publicEndpoints := router.Group("/api/v1/")
	{
		publicEndpoints.POST("auth/register", handlers.Register)
		publicEndpoints.GET("user/get/:id", handlers.UserGet)

		// Посты и вовлеченность: нужен доверенный идентификатор
		authed := publicEndpoints.Group("", middleware.IdentityMiddleware())
		{
			authed.POST("posts/create", handlers.CreatePost)
			authed.GET("posts/my", handlers.GetMyPosts)
			authed.POST("posts/:post_id/like", handlers.ToggleLike)
			authed.POST("posts/:post_id/comments", handlers.AddComment)
		}

		// Чтение доступно и анонимно
		public := publicEndpoints.Group("", middleware.OptionalIdentityMiddleware())
		{
			public.GET("posts/:post_id", handlers.GetPost)
			public.GET("users/:user_id/posts", handlers.GetUserPosts)
			public.POST("feed/sample", handlers.SampleFeed)
		}

		// Админские эндпоинты счетчиков
		publicEndpoints.GET("admin/posts/:post_id/counters", handlers.GetPostCounters)
		publicEndpoints.POST("admin/counters/rebuild", handlers.RebuildCounters)
	}
	return publicEndpoints
}
