package ports

import (
	"context"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// CredentialRepository persists user identities.
type CredentialRepository interface {
	// Register stores a new user and returns its id. A taken username yields
	// domain.ErrUserExists.
	Register(ctx context.Context, username, password string) (int64, error)
	// FindByUsername returns domain.ErrUserNotFound when no user matches.
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
}
