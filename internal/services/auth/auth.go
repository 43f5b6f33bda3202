// Package auth checks the administrator credentials and issues session tokens.
package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/coleta-calendar/internal/lib/jwt"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/password"
	"github.com/magabrotheeeer/coleta-calendar/internal/lib/sl"
)

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrDisabled is returned when no admin password hash is configured.
	ErrDisabled = errors.New("admin authentication disabled")
)

// Service authenticates the single configured administrator.
type Service struct {
	username     string
	passwordHash string
	jwtMaker     jwt.Maker
	log          *slog.Logger
}

func New(username, passwordHash string, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		username:     username,
		passwordHash: passwordHash,
		jwtMaker:     jwtMaker,
		log:          log,
	}
}

// Login verifies the credentials and returns a signed admin token.
func (s *Service) Login(_ context.Context, username, rawPassword string) (string, error) {
	const op = "services.auth.Login"

	if s.passwordHash == "" {
		return "", fmt.Errorf("%s: %w", op, ErrDisabled)
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	// The hash is always compared so both failure paths cost the same.
	pwErr := password.CompareHash(s.passwordHash, rawPassword)
	if pwErr != nil && !errors.Is(pwErr, password.ErrMismatch) {
		s.log.Error("stored admin hash is unusable", slog.String("op", op), sl.Err(pwErr))
		return "", fmt.Errorf("%s: %w", op, pwErr)
	}
	if !userOK || pwErr != nil {
		return "", fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	token, err := s.jwtMaker.GenerateToken(s.username, jwt.RoleAdmin)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return token, nil
}

// ParseToken returns the claims of a token issued by Login.
func (s *Service) ParseToken(token string) (*jwt.Claims, error) {
	return s.jwtMaker.ParseToken(token)
}
