// Package auth issues and validates the session tokens handed to web and websocket clients.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

const (
	RoleSession = "session"

	defaultTokenTTL = 24 * time.Hour
	minSecretLength = 16
)

// Config holds the signing secret and token lifetime
type Config struct {
	Secret string        `env:"JWT_SECRET"`
	TTL    time.Duration `env:"JWT_TTL"`
}

// ValidateConfig checks the signing secret is usable
func ValidateConfig(config Config) error {
	if len(config.Secret) < minSecretLength {
		return fmt.Errorf("jwt secret must be at least %d bytes", minSecretLength)
	}
	if config.TTL < 0 {
		return fmt.Errorf("jwt ttl must not be negative, got %s", config.TTL)
	}
	return nil
}

// JWTClaims represents the claims in our JWT token
type JWTClaims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Channel   string `json:"channel,omitempty"`
	Role      string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and verifies HS256 session tokens
type Manager struct {
	secret []byte
	ttl    time.Duration
}

func NewManager(config Config, logger *zap.Logger) (*Manager, error) {
	if err := ValidateConfig(config); err != nil {
		return nil, err
	}
	ttl := config.TTL
	if ttl == 0 {
		ttl = defaultTokenTTL
		logger.Info("Using default token TTL", zap.Duration("ttl", ttl))
	}
	return &Manager{secret: []byte(config.Secret), ttl: ttl}, nil
}

// GenerateSessionToken returns a token bound to one user and session, and its expiry
func (m *Manager) GenerateSessionToken(userID, sessionID, channel string) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(m.ttl)
	claims := &JWTClaims{
		UserID:    userID,
		SessionID: sessionID,
		Channel:   channel,
		Role:      RoleSession,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken validates a JWT token and returns the claims
func (m *Manager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	if claims.Role != RoleSession || claims.UserID == "" || claims.SessionID == "" {
		return nil, errors.New("token is not a session token")
	}
	return claims, nil
}
