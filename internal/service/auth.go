package service

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"alumniconnect/internal/config"
)

// AuthService issues access tokens for signed-in members. There are no
// passwords; a token is the HTTP equivalent of the stored session pointer.
type AuthService struct {
	config *config.Config
	now    func() time.Time
}

func NewAuthService(cfg *config.Config) *AuthService {
	return &AuthService{config: cfg, now: time.Now}
}

// TokenResponse is returned by login and register.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *AuthService) GenerateAccessToken(userID string) (*TokenResponse, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(time.Duration(s.config.AccessTokenMaxAge) * time.Second).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}
	return &TokenResponse{AccessToken: signed, ExpiresIn: s.config.AccessTokenMaxAge}, nil
}
