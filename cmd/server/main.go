package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/curations/storefront/config"
	_ "github.com/curations/storefront/docs"
	"github.com/curations/storefront/internal/app"
	"github.com/curations/storefront/internal/handlers"
	"github.com/curations/storefront/internal/metrics"
	"github.com/curations/storefront/internal/middleware"
	"github.com/curations/storefront/internal/telemetry"
)

// @title Curations Storefront API
// @version 1.0
// @description Catalog API of the curated accessories and gifts storefront.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name X-Internal-API-Key
func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := app.NewLogger(cfg.Logging, os.Stdout)

	logger.Info().Str("source", cfg.Source.Kind).Msg("Starting storefront")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, cfg.Telemetry)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize telemetry")
	}

	a, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize catalog")
	}

	// one fetch per category for the lifetime of the process
	a.Store.Start(ctx)

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	limiter := middleware.NewIPRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		BurstSize:         cfg.Server.Burst,
	})
	go limiter.Run(ctx)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(logger, metrics.NewRecorder()))
	router.Use(middleware.RateLimit(limiter))

	h := handlers.New(a.Store, a.Renderer, a.Source.Name(), logger)
	h.RegisterPublic(router, middleware.CORS(cfg.Server.CORSOrigins))

	internal := router.Group("/internal")
	internal.Use(middleware.InternalAuth(cfg.Internal.APIKey))
	internal.Use(middleware.ServiceRateLimit(50, 100))
	h.RegisterInternal(internal)

	addr := cfg.Server.Address()
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	go func() {
		select {
		case <-a.Store.Ready():
			logger.Info().Msg("Catalog loaded")
		case <-ctx.Done():
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}
	if err := shutdownTelemetry(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Failed to flush telemetry")
	}

	logger.Info().Msg("Server exited")
}
