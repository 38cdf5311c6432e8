package main

import (
	"context"
	"log"

	"go.uber.org/zap"

	"github.com/sngm3741/review-wall/api/internal/config"
	"github.com/sngm3741/review-wall/api/internal/logging"
	"github.com/sngm3741/review-wall/api/internal/server"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		log.Fatalf("ロガーの初期化に失敗: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.Fatal("設定が不正です", zap.Error(err))
	}
	logger.Info("loaded config",
		zap.String("addr", cfg.Addr),
		zap.String("backend", cfg.Backend),
		zap.Strings("allowedOrigins", cfg.AllowedOrigins),
		zap.Bool("notifications", cfg.NotificationsEnabled()),
	)

	app, err := server.New(context.Background(), cfg, logger)
	if err != nil {
		logger.Fatal("サーバーの初期化に失敗", zap.Error(err))
	}
	if err := app.Run(); err != nil {
		logger.Fatal("サーバー起動に失敗", zap.Error(err))
	}
}
