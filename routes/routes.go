package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"linkup/handlers"
	"linkup/middleware"
	"linkup/websocket"
)

func SetupRouter(wsManager *websocket.Manager) *gin.Engine {
	router := gin.Default()

	router.GET("/api/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":    "ok",
			"time":      time.Now().Unix(),
			"wsClients": wsManager.ConnectedUsers(),
		})
	})

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:8080", "http://127.0.0.1:8080", "http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Public routes, rate limited tighter than the rest.
	public := router.Group("/api")
	public.Use(middleware.RateLimitMiddleware(10, time.Minute))
	public.POST("/signup", handlers.Signup)
	public.POST("/login", handlers.Login)

	router.GET("/api/vapid-public-key", handlers.GetVapidPublicKey)

	protected := router.Group("/api")
	protected.Use(middleware.RateLimitMiddleware(120, time.Minute))
	protected.Use(middleware.JWTAuthMiddleware())

	// Profile
	protected.GET("/me", handlers.GetMyProfile)
	protected.PUT("/me", handlers.UpdateMyProfile)
	protected.GET("/user/:id", handlers.GetUser)
	protected.POST("/upload-photo", handlers.UploadPhoto)

	// Posts
	protected.POST("/post", handlers.CreatePost)
	protected.GET("/feed", handlers.GetFeed)
	protected.GET("/user/:id/posts", handlers.GetUserPosts)
	protected.GET("/my/posts", handlers.GetMyPosts)
	protected.DELETE("/post/:id", handlers.DeletePost)
	protected.POST("/post/:id/share", handlers.SharePost)

	// Likes
	protected.POST("/post/:id/like", handlers.ToggleLike)

	// Comments
	protected.POST("/post/:id/comments", handlers.CreateComment)
	protected.GET("/post/:id/comments", handlers.GetComments)
	protected.DELETE("/comments/:id", handlers.DeleteComment)

	// Friend requests
	protected.POST("/friends/request", handlers.SendFriendRequest)
	protected.POST("/friends/respond", handlers.RespondFriendRequest)
	protected.GET("/friends/requests", handlers.GetFriendRequests)
	protected.GET("/friends", handlers.GetFriends)

	// Notifications
	protected.GET("/notifications", handlers.GetNotifications)
	protected.GET("/notifications/unread-count", handlers.GetUnreadCount)
	protected.POST("/notifications/:id/read", handlers.MarkNotificationRead)
	protected.POST("/notifications/read-all", handlers.MarkAllNotificationsRead)

	// Push subscriptions
	protected.POST("/subscribe", handlers.SubscribePush)

	// Realtime notification stream. JWT middleware accepts the token query
	// parameter here since browsers cannot set websocket headers.
	router.GET("/ws", middleware.JWTAuthMiddleware(), func(c *gin.Context) {
		websocket.Serve(wsManager, c.Writer, c.Request, c.GetString("userId"))
	})

	router.NoRoute(func(c *gin.Context) {
		if len(c.Request.URL.Path) >= 4 && c.Request.URL.Path[:4] == "/api" {
			c.JSON(404, gin.H{
				"error": "Endpoint not found",
				"path":  c.Request.URL.Path,
			})
			return
		}
		c.Next()
	})

	return router
}
