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

	"github.com/isdelr/ender-auth-be/internal/api"
	"github.com/isdelr/ender-auth-be/internal/api/apidocs"
	"github.com/isdelr/ender-auth-be/internal/auth"
	"github.com/isdelr/ender-auth-be/internal/config"
	"github.com/isdelr/ender-auth-be/internal/database"
	"github.com/isdelr/ender-auth-be/internal/logger"
	"github.com/isdelr/ender-auth-be/internal/metrics"
	"github.com/isdelr/ender-auth-be/internal/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, !cfg.IsProduction())

	// Set up the user store
	ctx := context.Background()
	userStore, closeStore, err := database.Open(ctx, cfg.DatabaseURL, cfg.MongoDatabase, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize user store")
	}
	defer func() {
		if err := closeStore(context.Background()); err != nil {
			log.Error().Err(err).Msg("Failed to close user store")
		}
	}()

	hasher, err := auth.NewPasswordHasher(cfg.PasswordHash)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize password hasher")
	}
	tokens, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiration)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize token issuer")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	// Set up services
	userService := services.NewUserService(userStore, log)
	authService := services.NewAuthService(userService, hasher, tokens, collector, log)

	spec, err := apidocs.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load API documentation")
	}
	docs, err := apidocs.New(spec, "/api/docs/openapi.json")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to render API documentation")
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		AuthService: authService,
		Principals:  userService,
		Tokens:      tokens,
		Metrics:     collector,
		Gatherer:    registry,
		Docs:        docs,
		CORSOrigin:  cfg.CORSOrigin,
		Log:         log,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Str("hash", hasher.Algorithm()).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
