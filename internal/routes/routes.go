package routes

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/RanchesW/KazRPG/internal/auth"
	"github.com/RanchesW/KazRPG/internal/config"
	"github.com/RanchesW/KazRPG/internal/handlers"
	"github.com/RanchesW/KazRPG/internal/middleware"
	"github.com/RanchesW/KazRPG/internal/models"
	"github.com/RanchesW/KazRPG/internal/ratelimit"
)

// RegisterRoutes регистрирует все HTTP маршруты.
func RegisterRoutes(
	ginRouter *gin.Engine,
	appHandlers *handlers.AppHandlers,
	tokenMaker *auth.TokenMaker,
	limiter *ratelimit.Limiter,
	cfg *config.Config,
) {
	ginRouter.GET("/health", appHandlers.HealthHandler.Health)

	api := ginRouter.Group("/api/v1")

	authRequired := middleware.AuthMiddleware(tokenMaker)
	rateLimited := middleware.RateLimitMiddleware(
		limiter,
		cfg.RateLimit.Limit,
		time.Duration(cfg.RateLimit.WindowMs)*time.Millisecond,
	)

	// Auth
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", appHandlers.AuthHandler.Register)
		authGroup.POST("/login", appHandlers.AuthHandler.Login)
		authGroup.GET("/me", authRequired, appHandlers.AuthHandler.Me)
	}

	// Публичный каталог - единственная поверхность с лимитом запросов
	games := api.Group("/games", rateLimited)
	{
		games.GET("", appHandlers.GameHandler.ListGames)
		games.GET("/suggestions", appHandlers.GameHandler.Suggest)
		games.GET("/mine", authRequired, appHandlers.GameHandler.MyGames)
		games.GET("/:id", appHandlers.GameHandler.GetGame)
		games.POST("", authRequired, appHandlers.GameHandler.CreateGame)
		games.PUT("/:id", authRequired, appHandlers.GameHandler.UpdateGame)
		games.DELETE("/:id", authRequired, appHandlers.GameHandler.DeleteGame)
		games.GET("/:id/bookings", authRequired, appHandlers.BookingHandler.GameBookings)
	}

	// Бронирования
	bookings := api.Group("/bookings", authRequired)
	{
		bookings.POST("", appHandlers.BookingHandler.CreateBooking)
		bookings.GET("", appHandlers.BookingHandler.MyBookings)
		bookings.POST("/:id/confirm", appHandlers.BookingHandler.ConfirmBooking)
		bookings.POST("/:id/cancel", appHandlers.BookingHandler.CancelBooking)
	}

	// Отзывы и статистика мастеров
	api.POST("/reviews", authRequired, appHandlers.ReviewHandler.CreateReview)
	api.DELETE("/reviews/:id", authRequired, appHandlers.ReviewHandler.DeleteReview)
	api.GET("/gms/:id/reviews", appHandlers.ReviewHandler.GMReviews)
	api.GET("/gms/:id/stats", appHandlers.ReviewHandler.GMStats)

	// Администрирование
	admin := api.Group("/admin", authRequired, middleware.RequireRoles(models.UserRoleAdmin))
	{
		admin.GET("/games", appHandlers.GameHandler.ListGamesAdmin)
		admin.POST("/search/reindex", appHandlers.GameHandler.Reindex)
	}
}
