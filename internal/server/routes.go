package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/jwtauth/v5"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	tokenAuth := s.authService.GetAuth()
	r.Use(jwtauth.Verifier(tokenAuth))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(s.handleNotFound)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Post("/register", s.userHandler.HandleRegister)
		r.Post("/login", s.userHandler.HandleLogin)

		r.Get("/health", s.healthHandler)

		// Special-link downloads: the token is the credential
		r.Get("/f/{link}", s.fileHandler.HandleServeByLink)
	})

	// Protected routes
	r.Group(func(r chi.Router) {
		r.Use(jwtauth.Authenticator(tokenAuth))

		r.Route("/files", func(r chi.Router) {
			r.Post("/", s.fileHandler.HandleUpload)
			r.Get("/", s.fileHandler.HandleList)
			r.Get("/stats", s.fileHandler.HandleStats)

			r.Route("/{fileID}", func(r chi.Router) {
				r.Get("/download", s.fileHandler.HandleDownload)
				r.Patch("/name", s.fileHandler.HandleRename)
				r.Patch("/comment", s.fileHandler.HandleComment)
				r.Delete("/", s.fileHandler.HandleDelete)
			})
		})
	})

	return r
}
