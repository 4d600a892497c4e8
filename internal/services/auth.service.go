package services

import (
	"context"
	"crypto/subtle"
	"fmt"

	"github.com/allinone-seolbi/site/pkg/logger"
	"github.com/allinone-seolbi/site/pkg/prom"
	"golang.org/x/crypto/bcrypt"
)

type AuthConfig struct {
	// Password is compared as is. PasswordHash, a bcrypt hash, wins when both are set.
	Password     string
	PasswordHash string
}

// AuthService is the admin gate: one shared secret, allow or deny.
type AuthService struct {
	cfg    AuthConfig
	tokens *TokenIssuer
}

func NewAuthService(cfg AuthConfig, tokens *TokenIssuer) *AuthService {
	if cfg.Password == "" && cfg.PasswordHash == "" {
		logger.Warn("admin secret is not configured, every admin login will be denied")
	}
	return &AuthService{cfg: cfg, tokens: tokens}
}

// Authenticate checks secret against the configured one and issues an admin
// token on a match.
func (s *AuthService) Authenticate(ctx context.Context, secret string) (*AdminToken, error) {
	if !s.matches(secret) {
		prom.AddAdminLoginDenied()
		logger.Warn("admin login denied")
		return nil, ErrAuthDenied
	}
	token, err := s.tokens.Issue()
	if err != nil {
		return nil, fmt.Errorf("issue admin token: %w", err)
	}
	logger.Info("admin login accepted", "expires_at", token.ExpiresAt)
	return token, nil
}

// ValidateToken reports whether token is a live admin token.
func (s *AuthService) ValidateToken(token string) error {
	if err := s.tokens.Validate(token); err != nil {
		return fmt.Errorf("%w: %w", ErrAuthDenied, err)
	}
	return nil
}

func (s *AuthService) matches(secret string) bool {
	if secret == "" {
		return false
	}
	if s.cfg.PasswordHash != "" {
		return bcrypt.CompareHashAndPassword([]byte(s.cfg.PasswordHash), []byte(secret)) == nil
	}
	if s.cfg.Password == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(secret), []byte(s.cfg.Password)) == 1
}

// HashPassword produces a value suitable for ADMIN_PASSWORD_HASH.
func HashPassword(secret string) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("%w: empty password", ErrValidation)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
