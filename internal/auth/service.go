package auth

import (
	"time"

	"github.com/go-chi/jwtauth/v5"

	"mycloud-go/internal/models"
)

const TokenExpiry = 24 * time.Hour

// Service issues and verifies the JWTs used as request credentials.
type Service struct {
	tokenAuth *jwtauth.JWTAuth
}

// NewService creates a new auth service
func NewService(secretKey string) *Service {
	return &Service{
		tokenAuth: jwtauth.New("HS256", []byte(secretKey), nil),
	}
}

// GetAuth returns the JWTAuth instance for middleware
func (s *Service) GetAuth() *jwtauth.JWTAuth {
	return s.tokenAuth
}

// GenerateToken creates a new JWT token for a user
func (s *Service) GenerateToken(user *models.User) (string, error) {
	claims := map[string]interface{}{
		"user_id":      user.ID.String(),
		"username":     user.Username,
		"is_superuser": user.IsSuperuser,
		"exp":          time.Now().Add(TokenExpiry).Unix(),
	}

	_, tokenString, err := s.tokenAuth.Encode(claims)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}
