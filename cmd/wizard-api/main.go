package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/blank122/alumni-link-wizard/internal/catalog"
	"github.com/blank122/alumni-link-wizard/internal/config"
	"github.com/blank122/alumni-link-wizard/internal/registration"
	"github.com/blank122/alumni-link-wizard/internal/session"
)

func main() {
	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", zap.Error(err))
	}

	// Load configuration
	cfg, err := config.LoadConfig("config.json")
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	// Wizard session plumbing
	sessions := session.NewStore(cfg.Session.TTL, logger)
	tokens := session.NewTokenIssuer(cfg.Session.JWTSecret, cfg.Session.TTL)

	// Upstream clients
	catalogClient := catalog.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.RequestTimeout)
	catalogService := catalog.NewService(catalogClient, cfg.Catalog.CacheTTL, logger)
	if err := catalogService.Start(cfg.Catalog.RefreshSpec); err != nil {
		logger.Fatal("Failed to start catalog refresher", zap.Error(err))
	}
	defer catalogService.Stop()

	registrationClient := registration.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.SubmitTimeout, logger)
	registrationService := registration.NewService(sessions, tokens, registrationClient, logger)
	registrationHandler := registration.NewHandler(registrationService, tokens)
	catalogHandler := catalog.NewHandler(catalogService)

	// Setup Router
	gin.SetMode(gin.DebugMode)
	router := gin.Default()

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, PATCH, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Register Routes
	api := router.Group("/api/v1")
	{
		registrationHandler.RegisterRoutes(api)
		catalogHandler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":          "healthy",
			"timestamp":       time.Now(),
			"active_sessions": sessions.Len(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:    cfg.Server.GetServerAddr(),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen error", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.Int("port", cfg.Server.Port))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}
