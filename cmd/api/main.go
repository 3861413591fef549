package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"

	"mycloud-go/internal/config"
	"mycloud-go/internal/database"
	"mycloud-go/internal/database/migrate"
	"mycloud-go/internal/logger"
	"mycloud-go/internal/server"
)

func main() {
	// Initialize logger first
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "development"
	}
	logger.Init(env)

	log.Info().
		Str("environment", env).
		Msg("starting mycloud")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}
	cfg.Log()

	db, err := database.NewFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database connection")
		}
	}()

	if health := db.Health(ctx); health["status"] != "up" {
		log.Fatal().
			Str("error", health["error"]).
			Msg("database health check failed")
	}

	if err := migrate.RunMigrations(db.DB); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	srv, err := server.NewServer(cfg, db)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("error closing server resources")
		}
	}()

	httpServer, err := srv.Start()
	if err != nil {
		log.Fatal().Err(err).Msg("error starting server")
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-shutdown
		log.Info().Msg("shutdown signal received")

		shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
		defer shutdownCancel()

		httpServer.SetKeepAlivesEnabled(false)
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("HTTP server shutdown error")
		}

		cancel()
	}()

	log.Info().
		Str("url", cfg.BaseURL).
		Msg("server is ready to handle requests")

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Error().Err(err).Msg("HTTP server error")
	}

	<-ctx.Done()
	log.Info().Msg("server shutdown completed")
}
