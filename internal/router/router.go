package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"aviauth/backend/internal/auth"
	"aviauth/backend/internal/database"
	"aviauth/backend/internal/handlers"
	avimiddleware "aviauth/backend/internal/middleware"
	"aviauth/backend/internal/notifications"
	"aviauth/backend/pkg/config"
	avilog "aviauth/backend/pkg/log"
)

// SetupRouter configures and returns the Gin engine.
func SetupRouter(cfg *config.Config, notifier notifications.EmailNotifier, log *zap.Logger) *gin.Engine {
	router := gin.New()

	router.Use(avimiddleware.CORS())
	router.Use(avimiddleware.Metrics())
	router.Use(avimiddleware.GinZap(log, time.RFC3339, true))
	router.Use(avimiddleware.GinRecovery(log, time.RFC3339, true, true))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthCheckHandler)

	// Legacy mobile API: one endpoint dispatched by ?action= and method.
	router.Any("/api/user", handlers.UserActionsHandler(cfg, notifier))

	setupAuthRoutes(router, cfg, notifier)
	setupV1Routes(router)

	return router
}

func healthCheckHandler(c *gin.Context) {
	sqlDB, err := database.GetDB().DB()
	if err != nil {
		avilog.L.Error("Failed to get DB instance for health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database instance error"})
		return
	}
	if err := sqlDB.Ping(); err != nil {
		avilog.L.Error("Database ping failed during health check", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "database ping failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
}

func setupAuthRoutes(r *gin.Engine, cfg *config.Config, notifier notifications.EmailNotifier) {
	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/register", handlers.RegisterHandler())
		authRoutes.POST("/login", handlers.LoginHandler())
		authRoutes.POST("/forgot-password", handlers.ForgotPasswordHandler(cfg, notifier))
		authRoutes.POST("/reset-password", handlers.ResetPasswordHandler())
	}
}

func setupV1Routes(r *gin.Engine) {
	apiV1 := r.Group("/api/v1")
	apiV1.Use(auth.AuthMiddleware())
	{
		apiV1.GET("/profile", handlers.GetProfileHandler())
		apiV1.PUT("/profile", handlers.UpdateProfileHandler())
	}
}
