package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
)

// ReviewRepository implements ports.ReviewRepository on the reviews table.
type ReviewRepository struct {
	db      *pgxpool.Pool
	timeout time.Duration
}

// NewReviewRepository creates a ReviewRepository. Every statement runs under
// timeout.
func NewReviewRepository(db *pgxpool.Pool, timeout time.Duration) ports.ReviewRepository {
	return &ReviewRepository{db: db, timeout: withDefault(timeout)}
}

func (r *ReviewRepository) Insert(ctx context.Context, bookTitle, reviewText string, userID int64) (int64, error) {
	const query = `
	INSERT INTO reviews (book_title, review_text, user_id)
	VALUES ($1, $2, $3)
	RETURNING id
	`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var id int64
	if err := r.db.QueryRow(ctx, query, bookTitle, reviewText, userID).Scan(&id); err != nil {
		return 0, storageError("insert review", err)
	}
	return id, nil
}

func (r *ReviewRepository) UpdateTextByID(ctx context.Context, id int64, reviewText string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `UPDATE reviews SET review_text = $1 WHERE id = $2`, reviewText, id)
	if err != nil {
		return 0, storageError("update review", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReviewRepository) DeleteByID(ctx context.Context, id int64) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	tag, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return 0, storageError("delete review", err)
	}
	return tag.RowsAffected(), nil
}

func (r *ReviewRepository) FindByID(ctx context.Context, id int64) (*domain.Review, error) {
	const query = `SELECT id, book_title, review_text, user_id FROM reviews WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var rv domain.Review
	err := r.db.QueryRow(ctx, query, id).Scan(&rv.ID, &rv.BookTitle, &rv.ReviewText, &rv.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReviewNotFound
		}
		return nil, storageError("find review", err)
	}
	return &rv, nil
}

func (r *ReviewRepository) ListByBookTitle(ctx context.Context, bookTitle string) ([]domain.Review, error) {
	const query = `
	SELECT id, book_title, review_text, user_id
	FROM reviews
	WHERE book_title = $1
	ORDER BY id
	`
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	rows, err := r.db.Query(ctx, query, bookTitle)
	if err != nil {
		return nil, storageError("list reviews", err)
	}
	reviews, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Review, error) {
		var rv domain.Review
		err := row.Scan(&rv.ID, &rv.BookTitle, &rv.ReviewText, &rv.UserID)
		return rv, err
	})
	if err != nil {
		return nil, storageError("list reviews", err)
	}
	if reviews == nil {
		reviews = []domain.Review{}
	}
	return reviews, nil
}
