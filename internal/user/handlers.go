package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"mycloud-go/internal/auth"
	"mycloud-go/internal/validation"
)

type Handler struct {
	service     Service
	authService *auth.Service
}

func NewHandler(service Service, authService *auth.Service) *Handler {
	return &Handler{
		service:     service,
		authService: authService,
	}
}

type loginResponse struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// HandleRegister creates a new account.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := validation.Validate(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"errors": validation.FormatError(err),
		})
		return
	}

	created, err := h.service.Register(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrUsernameExists), errors.Is(err, ErrEmailExists):
			http.Error(w, err.Error(), http.StatusConflict)
		default:
			http.Error(w, "registration failed", http.StatusInternalServerError)
		}
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// HandleLogin validates credentials and returns a JWT.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}

	account, err := h.service.ValidateCredentials(r.Context(), req.Username, req.Password)
	if err != nil {
		http.Error(w, "invalid credentials", http.StatusUnauthorized)
		return
	}

	token, err := h.authService.GenerateToken(account)
	if err != nil {
		log.Error().Err(err).Msg("failed to generate token")
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:    token,
		Username: account.Username,
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}
