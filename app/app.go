package app

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"sentinel-api/config"
	"sentinel-api/db"
	"sentinel-api/handler"
	"sentinel-api/logger"
	"sentinel-api/repository"
	"sentinel-api/router"
	"sentinel-api/service"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
)

func Run() {
	config.LoadConfig(".")
	logger.Init()
	logger.Log.Info("Logger initialized")
	logger.Log.Info("Configuration loaded successfully")

	database, err := db.Connect()
	if err != nil {
		logger.Log.Fatalf("Error connecting to the database: %v", err)
	}
	defer database.Close()

	if err := db.Migrate(database, "file://db/migrations"); err != nil {
		logger.Log.Fatalf("Error running migrations: %v", err)
	}

	// Two separate Redis connections: the revocation blocklist must not
	// share a logical database with the best-effort cache.
	blocklistClient, err := db.ConnectRedis(config.AppConfig.Redis.BlocklistDB)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the blocklist store: %v", err)
	}
	defer blocklistClient.Close()

	cacheClient, err := db.ConnectRedis(config.AppConfig.Redis.CacheDB)
	if err != nil {
		logger.Log.Fatalf("Error connecting to the cache store: %v", err)
	}
	defer cacheClient.Close()

	r := buildRouter(database, blocklistClient, cacheClient)

	port := config.AppConfig.Server.Port
	srv := &http.Server{
		Addr:    ":" + port,
		Handler: r,
	}

	go func() {
		logger.Log.Infof("Server starting on port :%s", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Warn("Shutdown signal received. Starting graceful shutdown...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Log.Info("Server exited properly")
}

// buildRouter wires repositories, services and handlers together. All
// store handles are injected explicitly; no package holds its own.
func buildRouter(database *sql.DB, blocklistClient, cacheClient *redis.Client) http.Handler {
	cfg := config.AppConfig.JWT

	userRepo := repository.NewUserRepository(database)
	blocklistRepo := repository.NewBlocklistRepository(blocklistClient)

	tokenService := service.NewTokenService(blocklistRepo, cfg.SecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := service.NewUserService(userRepo, cacheClient)
	authService := service.NewAuthService(userRepo, tokenService)

	authHandler := handler.NewAuthHandler(authService, tokenService, userService)
	userHandler := handler.NewUserHandler(userService, tokenService)
	healthHandler := handler.NewHealthHandler(database, blocklistRepo)

	return router.NewRouter(authHandler, userHandler, healthHandler, tokenService)
}

// TestApp exposes the wired router and its backing handles for
// integration-style tests.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(database *sql.DB, blocklistClient, cacheClient *redis.Client) *TestApp {
	return &TestApp{
		DB:     database,
		Router: buildRouter(database, blocklistClient, cacheClient),
	}
}
