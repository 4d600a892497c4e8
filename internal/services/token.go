package services

import (
	"crypto/rand"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	adminSubject = "admin"
	tokenIssuer  = "allinone-site"
)

var ErrTokenInvalid = errors.New("invalid admin token")

// AdminToken is the proof of a successful admin login.
type AdminToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// TokenIssuer signs and checks short-lived admin tokens. It keeps no state
// beyond the signing key, so any instance holding the same key accepts the
// same tokens.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer uses secret as the HS256 key. An empty secret gets a random
// key, which means tokens stop working when the process restarts.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if ttl <= 0 {
		return nil, fmt.Errorf("token ttl must be positive, got %s", ttl)
	}
	key := []byte(secret)
	if len(key) == 0 {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generate signing key: %w", err)
		}
	}
	return &TokenIssuer{secret: key, ttl: ttl, now: time.Now}, nil
}

func (t *TokenIssuer) Issue() (*AdminToken, error) {
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   adminSubject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return nil, fmt.Errorf("sign admin token: %w", err)
	}
	return &AdminToken{Token: signed, ExpiresAt: expiresAt.Truncate(time.Second)}, nil
}

func (t *TokenIssuer) Validate(token string) error {
	if token == "" {
		return ErrTokenInvalid
	}
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithSubject(adminSubject),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return ErrTokenInvalid
	}
	return nil
}
