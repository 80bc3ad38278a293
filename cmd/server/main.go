package main

import (
	"context"

	"go.uber.org/zap"

	"aviauth/backend/internal/auth"
	"aviauth/backend/internal/database"
	"aviauth/backend/internal/notifications"
	"aviauth/backend/internal/router"
	"aviauth/backend/pkg/config"
	avilog "aviauth/backend/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		avilog.L.Fatal("Failed to load configuration", zap.Error(err))
	}

	avilog.Init(cfg.LogLevel, cfg.Environment)
	defer avilog.Sync()

	if err := auth.InitializeJWT(cfg); err != nil {
		avilog.L.Fatal("Failed to initialize JWT", zap.Error(err))
	}

	if err := database.ConnectDB(cfg.DSN()); err != nil {
		avilog.L.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := database.MigrateDB(); err != nil {
		avilog.L.Fatal("Failed to run database migrations", zap.Error(err))
	}

	notifier, err := notifications.NewEmailNotifier(context.Background(), cfg)
	if err != nil {
		avilog.L.Fatal("Failed to initialize email notifier", zap.Error(err))
	}

	r := router.SetupRouter(cfg, notifier, avilog.L)

	avilog.L.Info("Starting server", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
	if err := r.Run(":" + cfg.Port); err != nil {
		avilog.L.Fatal("Failed to start server", zap.Error(err))
	}
}
