package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/fittrack/fittrack-back/internal/cache"
	"github.com/fittrack/fittrack-back/internal/config"
	"github.com/fittrack/fittrack-back/internal/database"
	"github.com/fittrack/fittrack-back/internal/logger"
	"github.com/fittrack/fittrack-back/internal/middleware"
	"github.com/fittrack/fittrack-back/internal/routes"
	chatws "github.com/fittrack/fittrack-back/internal/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func main() {
	// 1. Load Config
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	appLog, err := logger.New(cfg.AppEnv, cfg.LogLevel)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() {
		_ = appLog.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 2. Connect to databases
	if cfg.DBUrl == "" {
		appLog.Fatal("DB_URL is required")
	}
	pool, err := database.ConnectPostgres(ctx, cfg.DBUrl)
	if err != nil {
		appLog.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer pool.Close()

	deps := routes.Deps{Config: cfg, DB: pool, Log: appLog}

	if cfg.MongoEnabled() {
		mongo, err := database.ConnectMongo(ctx, cfg.MongoURL, cfg.MongoDatabase)
		if err != nil {
			appLog.Fatal("Failed to connect to mongodb", zap.Error(err))
		}
		defer func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := mongo.Close(closeCtx); err != nil {
				appLog.Warn("mongodb disconnect failed", zap.Error(err))
			}
		}()
		deps.Mongo = mongo
	}

	if cfg.RedisURL != "" {
		redisCache, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			appLog.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer func() {
			_ = redisCache.Close()
		}()
		deps.Cache = redisCache
	}

	hub := chatws.NewHub(appLog)
	go hub.Run(ctx)
	deps.Hub = hub

	// 3. Setup Fiber
	app := fiber.New()

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{AllowOrigins: cfg.AllowedOrigins()}))
	app.Use(middleware.RequestLogger(appLog))

	if err := routes.RegisterRoutes(app, deps); err != nil {
		appLog.Fatal("Failed to register routes", zap.Error(err))
	}

	// 4. Start Server
	go func() {
		<-ctx.Done()
		appLog.Info("shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			appLog.Error("shutdown failed", zap.Error(err))
		}
	}()

	appLog.Info("server starting", zap.String("port", cfg.Port), zap.String("env", cfg.AppEnv))
	if err := app.Listen(":" + cfg.Port); err != nil {
		appLog.Fatal("Server failed to start", zap.Error(err))
	}
}
