package ports

import (
	"context"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// AddReviewInput is the DTO passed from the transport layer to ReviewService.
type AddReviewInput struct {
	BookTitle      string
	ReviewText     string
	Username       string
	IdempotencyKey string // optional
}

// ReviewService defines use-case operations for reviews.
type ReviewService interface {
	AddReview(ctx context.Context, input AddReviewInput) (int64, error)
	UpdateReview(ctx context.Context, id int64, reviewText string) error
	DeleteReview(ctx context.Context, id int64) error
	GetReview(ctx context.Context, id int64) (*domain.Review, error)
	ListReviews(ctx context.Context, bookTitle string) ([]domain.Review, error)
}
