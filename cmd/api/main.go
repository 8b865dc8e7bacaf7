// cmd/api/main.go
// Main entry point for the discovery ranking service
// Bootstraps all components and starts the HTTP server

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shashanksGitHub/charlie-sub013/internal/auth"
	"github.com/shashanksGitHub/charlie-sub013/internal/common/database"
	"github.com/shashanksGitHub/charlie-sub013/internal/common/logger"
	"github.com/shashanksGitHub/charlie-sub013/internal/common/utils"
	"github.com/shashanksGitHub/charlie-sub013/internal/config"
	"github.com/shashanksGitHub/charlie-sub013/internal/matching"
)

func main() {
	// 1. Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (%v), using environment variables", err)
	}

	// 2. Load and validate configuration
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration validation failed: ", err)
	}

	appLogger := logger.New(cfg.LogLevel, cfg.LogFormat)
	appLogger.Info("starting discovery ranking service", map[string]interface{}{
		"environment": cfg.Environment,
		"port":        cfg.Port,
	})

	// 3. Connect to PostgreSQL
	db, err := database.NewPostgresDBFromURL(cfg.DatabaseURL)
	if err != nil {
		appLogger.Error("failed to connect to PostgreSQL", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
	defer db.Close()
	appLogger.Info("connected to PostgreSQL", nil)

	// 4. Connect to Redis (optional; the service degrades to uncached
	// operation without it)
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.NewRedisClientFromURL(cfg.RedisURL)
		if err != nil {
			appLogger.Warn("Redis unavailable, continuing without discovery cache", map[string]interface{}{
				"error": err.Error(),
			})
			redisClient = nil
		} else {
			defer redisClient.Close()
			appLogger.Info("connected to Redis", nil)
		}
	}

	// 5. Wire the ranking engine; the service resolves per-mode weight
	// tables from the ranking config itself
	matchingRepo := matching.NewPostgresRepository(db)
	cache := matching.NewDiscoveryCache(redisClient, cfg.Ranking.CacheTTL, appLogger)
	matchingService := matching.NewService(matchingRepo, cache, cfg.Ranking, appLogger)
	matchingHandler := matching.NewHandler(matchingService)

	authMiddleware := auth.NewMiddleware(cfg.JWTSecret)

	// 6. Routes
	router := mux.NewRouter()
	matching.RegisterRoutes(router, matchingHandler, authMiddleware)
	router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			utils.RespondWithError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		utils.RespondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods("GET")

	// 7. Start server with graceful shutdown
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		appLogger.Info("HTTP server listening", map[string]interface{}{"addr": server.Addr})
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Error("server failed", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLogger.Info("shutting down", nil)
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		appLogger.Error("graceful shutdown failed", map[string]interface{}{"error": err.Error()})
	}
}
