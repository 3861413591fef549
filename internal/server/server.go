package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"mycloud-go/internal/auth"
	"mycloud-go/internal/config"
	"mycloud-go/internal/database"
	"mycloud-go/internal/files"
	"mycloud-go/internal/storage"
	"mycloud-go/internal/user"
)

// Server wires the HTTP layer to the core services.
type Server struct {
	config      *config.Config
	db          *database.DB
	store       storage.Provider
	authService *auth.Service
	userHandler *user.Handler
	fileHandler *files.Handler
}

// NewServer creates a new server instance
func NewServer(cfg *config.Config, db *database.DB) (*Server, error) {
	store, err := storage.NewProvider(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("initializing storage: %w", err)
	}

	userRepo := user.NewPostgresRepository(db)
	fileRepo := files.NewPostgresRepository(db)

	authService := auth.NewService(cfg.Secret)
	userService := user.NewService(userRepo)
	fileService := files.NewService(fileRepo, store, cfg)

	return &Server{
		config:      cfg,
		db:          db,
		store:       store,
		authService: authService,
		userHandler: user.NewHandler(userService, authService),
		fileHandler: files.NewHandler(fileService),
	}, nil
}

// Start builds the configured HTTP server
func (s *Server) Start() (*http.Server, error) {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info().
		Int("port", s.config.Port).
		Str("env", s.config.Env).
		Msg("starting server")

	return srv, nil
}

// Close releases resources held by the server's collaborators
func (s *Server) Close() error {
	return s.store.Close()
}
