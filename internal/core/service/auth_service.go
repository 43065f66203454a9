package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
)

// AuthService implements registration and login over the credential store.
type AuthService struct {
	repo ports.CredentialRepository
	log  zerolog.Logger
}

func NewAuthService(repo ports.CredentialRepository, log zerolog.Logger) *AuthService {
	return &AuthService{repo: repo, log: log}
}

func (s *AuthService) Register(ctx context.Context, username, password string) (int64, error) {
	if username == "" || password == "" {
		return 0, domain.ErrCredentialsRequired
	}

	id, err := s.repo.Register(ctx, username, password)
	if err != nil {
		return 0, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", id).Str("username", username).Msg("user registered")
	return id, nil
}

// Login checks the supplied password against the stored one. Passwords are
// kept and compared in plain text.
func (s *AuthService) Login(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return domain.ErrInvalidCredentials
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrInvalidCredentials
		}
		return fmt.Errorf("login: %w", err)
	}

	if user.Password != password {
		return domain.ErrInvalidCredentials
	}
	return nil
}
