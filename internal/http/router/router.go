package router

import (
	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/forum-backend/internal/config"
	"github.com/ignatzorin/forum-backend/internal/http/handlers"
	"github.com/ignatzorin/forum-backend/internal/http/middleware"
	"github.com/ignatzorin/forum-backend/internal/service"
)

// SetupRouter собирает все маршруты форума.
func SetupRouter(
	cfg *config.Config,
	authHandler *handlers.AuthHandler,
	profileHandler *handlers.ProfileHandler,
	categoryHandler *handlers.CategoryHandler,
	postHandler *handlers.PostHandler,
	commentHandler *handlers.CommentHandler,
	notificationHandler *handlers.NotificationHandler,
	reportHandler *handlers.ReportHandler,
	adminHandler *handlers.AdminHandler,
	mediaHandler *handlers.MediaHandler,
	wsHandler *handlers.WSHandler,
	healthHandler *handlers.HealthHandler,
	tokenManager *service.TokenManager,
) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimitMiddleware(5, cfg.RateLimitPeriod))
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
		authGroup.POST("/refresh", authHandler.Refresh)
		authGroup.POST("/logout", authHandler.Logout)
	}

	protectedAuth := api.Group("/auth")
	protectedAuth.Use(middleware.AuthMiddleware(tokenManager))
	{
		protectedAuth.GET("/sessions", authHandler.ListSessions)
		protectedAuth.DELETE("/sessions/:id", middleware.UUIDValidator("id"), authHandler.DeleteSession)
	}

	// Публичные маршруты
	api.GET("/ws", wsHandler.Handle)
	api.GET("/categories", categoryHandler.ListCategories)
	api.GET("/categories/:slug", categoryHandler.GetCategory)
	api.GET("/tags", categoryHandler.ListTags)
	api.GET("/posts", postHandler.List)
	api.GET("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.ListByPost)
	api.GET("/users/:username", profileHandler.GetPublic)
	api.GET("/media/:id", middleware.UUIDValidator("id"), mediaHandler.GetFile)

	// Просмотр поста: авторизация опциональна, но учитывается —
	// скрытый пост виден автору и модераторам.
	api.GET("/posts/slug/:slug", optionalAuth(tokenManager), postHandler.GetBySlug)

	// Защищённые маршруты
	protected := api.Group("/")
	protected.Use(middleware.AuthMiddleware(tokenManager))
	{
		protected.GET("/profile", profileHandler.GetOwn)
		protected.PUT("/profile", profileHandler.UpdateOwn)

		protected.POST("/posts", postHandler.Create)
		protected.PUT("/posts/:id", middleware.UUIDValidator("id"), postHandler.Update)
		protected.DELETE("/posts/:id", middleware.UUIDValidator("id"), postHandler.Delete)
		protected.POST("/posts/:id/archive", middleware.UUIDValidator("id"), postHandler.SetArchived)
		protected.POST("/posts/:id/vote", middleware.UUIDValidator("id"), postHandler.Vote)
		protected.POST("/posts/:id/comments", middleware.UUIDValidator("id"), commentHandler.Create)

		protected.PUT("/comments/:id", middleware.UUIDValidator("id"), commentHandler.Update)
		protected.DELETE("/comments/:id", middleware.UUIDValidator("id"), commentHandler.Delete)
		protected.POST("/comments/:id/vote", middleware.UUIDValidator("id"), commentHandler.Vote)

		protected.GET("/notifications", notificationHandler.List)
		protected.GET("/notifications/unread_count", notificationHandler.CountUnread)
		protected.POST("/notifications/read_all", notificationHandler.MarkAllAsRead)
		protected.POST("/notifications/:id/read", middleware.UUIDValidator("id"), notificationHandler.MarkAsRead)
		protected.DELETE("/notifications/:id", middleware.UUIDValidator("id"), notificationHandler.Delete)

		// Подачу жалоб тоже ограничиваем по частоте: спам жалобами —
		// такой же вектор, как перебор паролей.
		protected.POST("/reports", middleware.RateLimitMiddleware(10, cfg.RateLimitPeriod), reportHandler.Submit)

		protected.POST("/media/avatar", mediaHandler.UploadAvatar)
		protected.DELETE("/media/:id", middleware.UUIDValidator("id"), mediaHandler.Delete)
	}

	// Модерация: доступ по роли
	staff := api.Group("/admin")
	staff.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireStaff())
	{
		staff.GET("/reports", adminHandler.ListReports)
		staff.POST("/reports/:id/resolve", middleware.UUIDValidator("id"), adminHandler.ResolveReport)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(tokenManager), middleware.RequireAdmin())
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.POST("/users/:id/role", middleware.UUIDValidator("id"), adminHandler.SetRole)
		admin.POST("/users/:id/ban", middleware.UUIDValidator("id"), adminHandler.SetBanned)
		admin.POST("/categories", categoryHandler.CreateCategory)
		admin.DELETE("/categories/:id", middleware.UUIDValidator("id"), categoryHandler.DeleteCategory)
		admin.POST("/tags", categoryHandler.CreateTag)
		admin.DELETE("/tags/:id", middleware.UUIDValidator("id"), categoryHandler.DeleteTag)
	}

	return r
}

// optionalAuth пытается извлечь идентичность из заголовка Authorization,
// но пропускает запрос и без токена.
func optionalAuth(tokens *service.TokenManager) gin.HandlerFunc {
	authRequired := middleware.AuthMiddleware(tokens)
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			c.Next()
			return
		}
		authRequired(c)
	}
}
