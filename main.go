package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/vfmayliv/skidqi-admin-auth/src/config"
	"github.com/vfmayliv/skidqi-admin-auth/src/database"
	"github.com/vfmayliv/skidqi-admin-auth/src/handlers"
	"github.com/vfmayliv/skidqi-admin-auth/src/logging"
	"github.com/vfmayliv/skidqi-admin-auth/src/middleware"
	"github.com/vfmayliv/skidqi-admin-auth/src/repositories"
	"github.com/vfmayliv/skidqi-admin-auth/src/services"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize structured logging
	logging.Setup(logging.Config{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
	})

	log.Info().
		Int("port", cfg.Port).
		Str("log_level", cfg.LogLevel).
		Msg("starting admin auth service")

	// Initialize database
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.New(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.Close()

	log.Info().Msg("database connected")

	// Initialize repositories
	adminRepo := repositories.NewPostgresAdminRepository(db.GetPool())
	sessionRepo := repositories.NewPostgresSessionRepository(db.GetPool())
	activityRepo := repositories.NewPostgresActivityRepository(db.GetPool())

	// Initialize services
	tokenIssuer, err := services.NewTokenIssuer(cfg.TokenSecret, cfg.SessionTTL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize token issuer")
	}

	rateLimiter := services.NewLoginRateLimiter(cfg.RateLimitThreshold, cfg.RateLimitWindow)
	defer rateLimiter.Stop()

	activityService := services.NewActivityService(activityRepo)
	authService := services.NewAuthService(
		adminRepo,
		sessionRepo,
		activityService,
		rateLimiter,
		tokenIssuer,
		services.AuthConfig{
			LockoutThreshold: cfg.LockoutThreshold,
			LockoutDuration:  cfg.LockoutDuration,
		},
	)
	cleanupService := services.NewCleanupService(sessionRepo, cfg.EnableSessionCleanup, cfg.SessionCleanupInterval)

	log.Info().
		Dur("session_ttl", cfg.SessionTTL).
		Int("lockout_threshold", cfg.LockoutThreshold).
		Dur("lockout_duration", cfg.LockoutDuration).
		Int("rate_limit_attempts", cfg.RateLimitThreshold).
		Dur("rate_limit_window", cfg.RateLimitWindow).
		Msg("auth service initialized")

	// Auto-seed admin account on first run (if ADMIN_USERNAME and ADMIN_PASSWORD are set)
	if cfg.AdminUsername != "" && cfg.AdminPassword != "" {
		hasAdmins, err := authService.HasAdmins(context.Background())
		if err != nil {
			log.Error().Err(err).Msg("failed to check for existing admin accounts")
		} else if !hasAdmins {
			if _, err := authService.CreateAdmin(context.Background(), cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
				log.Error().Err(err).Msg("failed to create initial admin account")
			} else {
				log.Info().Str("username", cfg.AdminUsername).Msg("initial admin account created")
			}
		}
	}

	// Start background session reaper
	cleanupService.Start(context.Background())

	// Create Gin router
	router := gin.New()

	// Add middleware
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggingMiddleware())
	router.Use(gin.Recovery())

	// The admin SPA may be served from any marketplace domain; the endpoint
	// carries no cookies, so a permissive origin is acceptable.
	corsConfig := cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID"},
		ExposeHeaders:   []string{"Content-Length", "X-Request-ID"},
		MaxAge:          12 * time.Hour,
	}
	router.Use(cors.New(corsConfig))

	setupRoutes(router, db, authService)

	// Create HTTP server with timeouts (protect from Slowloris attack)
	srv := &http.Server{
		Addr:              ":" + formatPort(cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().Int("port", cfg.Port).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigChan

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")

	cleanupService.Stop()

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server shut down successfully")
}

func setupRoutes(router *gin.Engine, db *database.Database, authService *services.AuthService) {
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService)

	// Health check endpoints
	router.GET("/health", healthHandler.HandleHealth)
	router.GET("/ready", healthHandler.HandleReady)
	router.GET("/info", healthHandler.HandleInfo)

	// Admin authentication endpoint. The per-IP throttle guards the
	// transport; credential-attempt limiting happens inside the service.
	router.POST("/admin/auth",
		middleware.NewIPRateLimitingMiddleware(middleware.RateLimitConfig{
			RequestsPerMinute: 30,
			Burst:             10,
		}),
		authHandler.HandleAuth)

	// Session check for the admin panel
	router.GET("/admin/status", middleware.AdminAuthMiddleware(authService), authHandler.HandleStatus)
}

func formatPort(port int) string {
	return fmt.Sprintf("%d", port)
}
