package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceContract issues and verifies admin tokens.
type AuthServiceContract interface {
	Login(ctx context.Context, username, password string) (token string, expiresAt time.Time, err error)
	Verify(token string) (subject string, err error)
}

// AuthServiceImpl authenticates the single configured admin account and
// signs HS256 tokens.
type AuthServiceImpl struct {
	secret       []byte
	username     string
	passwordHash []byte
	ttl          time.Duration
	logger       zerolog.Logger
	now          func() time.Time
}

// NewAuthService creates an AuthServiceImpl. passwordHash is a bcrypt hash.
func NewAuthService(secret, username, passwordHash string, ttl time.Duration, logger zerolog.Logger) *AuthServiceImpl {
	return &AuthServiceImpl{
		secret:       []byte(secret),
		username:     username,
		passwordHash: []byte(passwordHash),
		ttl:          ttl,
		logger:       logger.With().Str("component", "auth").Logger(),
		now:          time.Now,
	}
}

func (s *AuthServiceImpl) Login(ctx context.Context, username, password string) (string, time.Time, error) {
	if username != s.username {
		return "", time.Time{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(s.passwordHash, []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			s.logger.Warn().Str("username", username).Msg("failed login")
			return "", time.Time{}, ErrInvalidCredentials
		}
		return "", time.Time{}, fmt.Errorf("checking password: %w", err)
	}

	now := s.now()
	expiresAt := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing token: %w", err)
	}
	s.logger.Info().Str("username", username).Msg("token issued")
	return token, expiresAt, nil
}

func (s *AuthServiceImpl) Verify(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil || !parsed.Valid {
		return "", ErrUnauthorized
	}
	return claims.Subject, nil
}
