package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cube_market/internal/pkg/config"
	"cube_market/internal/pkg/mailer"
	"cube_market/internal/pkg/middleware"
	"cube_market/internal/pkg/registry"
	"cube_market/internal/pkg/uploader"
	"cube_market/pkg/database"
	"cube_market/pkg/logger"
	"cube_market/pkg/metrics"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	// 模块通过 init 自注册
	_ "cube_market/internal/domain/ad"
	_ "cube_market/internal/domain/appconfig"
	_ "cube_market/internal/domain/chat"
	_ "cube_market/internal/domain/common"
	_ "cube_market/internal/domain/corporate"
	_ "cube_market/internal/domain/cube"
	_ "cube_market/internal/domain/grab"
	_ "cube_market/internal/domain/maintenance"
	_ "cube_market/internal/domain/notification"
	_ "cube_market/internal/domain/user"
	_ "cube_market/internal/domain/view"
)

func main() {
	config.LoadConfig()

	logger.Init(config.GlobalConfig.App.Debug)
	defer logger.Sync()

	db := database.InitDatabase()
	rdb := database.InitRedis()

	up, err := uploader.NewUploader()
	if err != nil {
		logger.Log.Fatal("uploader init failed", zap.Error(err))
	}

	if config.GlobalConfig.Server.Mode != "" {
		gin.SetMode(config.GlobalConfig.Server.Mode)
	}

	collector := metrics.NewCollector()

	r := gin.New()
	r.Use(
		gin.Recovery(),
		middleware.TraceMiddleware(),
		middleware.LoggerMiddleware(),
		middleware.RateLimitMiddleware(),
		collector.Middleware(),
		cors.New(cors.Config{
			AllowOrigins:     []string{"*"},
			AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Session-ID"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}),
	)

	ctx := &registry.ModuleContext{
		DB:       db,
		Redis:    rdb,
		Router:   r,
		Mailer:   mailer.NewMailer(),
		Uploader: up,
		Metrics:  collector,
	}
	if err := registry.InitModules(ctx); err != nil {
		logger.Log.Fatal("module init failed", zap.Error(err))
	}

	port := config.GlobalConfig.Server.Port
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Log.Info("server listening", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Error("forced shutdown", zap.Error(err))
	}
}
