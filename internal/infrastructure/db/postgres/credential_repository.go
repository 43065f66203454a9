package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
)

// CredentialRepository implements ports.CredentialRepository on the users table.
type CredentialRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewCredentialRepository creates a CredentialRepository. Every statement runs
// under timeout.
func NewCredentialRepository(db *pgxpool.Pool, timeout time.Duration) ports.CredentialRepository {
	return &CredentialRepository{db: db, timeout: withDefault(timeout)}
}

func (r *CredentialRepository) Register(ctx context.Context, username, password string) (int64, error) {
	const query = `INSERT INTO users (username, password) VALUES ($1, $2) RETURNING id`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var id int64
	if err := r.db.QueryRow(ctx, query, username, password).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, domain.ErrUserExists
		}
		return 0, storageError("insert user", err)
	}
	return id, nil
}

func (r *CredentialRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	const query = `SELECT id, username, password FROM users WHERE username = $1 LIMIT 1`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var u domain.User
	err := r.db.QueryRow(ctx, query, username).Scan(&u.ID, &u.Username, &u.Password)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, storageError("find user", err)
	}
	return &u, nil
}

func storageError(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", domain.ErrStorageFailure, op, err)
}

func withDefault(timeout time.Duration) time.Duration {
	if timeout <= 0 {
		return defaultTimeout
	}
	return timeout
}
