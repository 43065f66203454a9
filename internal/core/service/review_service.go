package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
	"github.com/bookshelf/review-service/internal/metrics"
)

// IdempotencyStore tracks Idempotency-Key headers of review creations (Redis).
// Keys are scoped by the owning user id.
type IdempotencyStore interface {
	// Claim reserves key for userID before the insert. claimed is true when
	// the caller now owns the key. Otherwise reviewID is the review an earlier
	// request created, or the error is domain.ErrIdempotencyInProgress while
	// that request is still running.
	Claim(ctx context.Context, userID int64, key string) (reviewID int64, claimed bool, err error)
	// Complete records the review id for a claimed key.
	Complete(ctx context.Context, userID int64, key string, reviewID int64) error
	// Release drops a claimed key after a failed insert.
	Release(ctx context.Context, userID int64, key string) error
}

// AuditPublisher hands review events to the asynchronous audit trail.
type AuditPublisher interface {
	Publish(event domain.ReviewEvent)
}

type reviewService struct {
	users   ports.CredentialRepository
	reviews ports.ReviewRepository
	idem    IdempotencyStore
	audit   AuditPublisher
	log     zerolog.Logger
}

// NewReviewService returns a ReviewService implementation. idem and audit may
// be nil, which disables idempotent replays and the audit trail respectively.
func NewReviewService(
	users ports.CredentialRepository,
	reviews ports.ReviewRepository,
	idem IdempotencyStore,
	audit AuditPublisher,
	log zerolog.Logger,
) ports.ReviewService {
	return &reviewService{
		users:   users,
		reviews: reviews,
		idem:    idem,
		audit:   audit,
		log:     log,
	}
}

// AddReview resolves the owner and inserts the review. The owner lookup must
// succeed before anything is written or replayed.
func (s *reviewService) AddReview(ctx context.Context, in ports.AddReviewInput) (int64, error) {
	// 1. Resolve the owner.
	user, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewCreated), "user_not_found").Inc()
		} else {
			metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewCreated), "error").Inc()
		}
		return 0, fmt.Errorf("add review: %w", err)
	}

	// 2. Claim the key, or replay the creation that already holds it.
	claimed := false
	if in.IdempotencyKey != "" && s.idem != nil {
		id, ok, err := s.idem.Claim(ctx, user.ID, in.IdempotencyKey)
		switch {
		case errors.Is(err, domain.ErrIdempotencyInProgress):
			metrics.IdempotencyChecksTotal.WithLabelValues("in_progress").Inc()
			return 0, fmt.Errorf("add review: %w", err)
		case err != nil:
			metrics.IdempotencyChecksTotal.WithLabelValues("error").Inc()
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("idempotency claim failed, creating anyway")
		case ok:
			metrics.IdempotencyChecksTotal.WithLabelValues("claimed").Inc()
			claimed = true
		default:
			metrics.IdempotencyChecksTotal.WithLabelValues("replayed").Inc()
			s.log.Info().Str("idempotency_key", in.IdempotencyKey).Int64("review_id", id).Msg("idempotent replay")
			return id, nil
		}
	}

	// 3. Insert with the resolved id.
	id, err := s.reviews.Insert(ctx, in.BookTitle, in.ReviewText, user.ID)
	if err != nil {
		metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewCreated), "error").Inc()
		s.log.Error().Err(err).Str("username", in.Username).Msg("failed to insert review")
		if claimed {
			if rerr := s.idem.Release(ctx, user.ID, in.IdempotencyKey); rerr != nil {
				s.log.Warn().Err(rerr).Str("idempotency_key", in.IdempotencyKey).Msg("failed to release idempotency key")
			}
		}
		return 0, fmt.Errorf("add review: %w", err)
	}
	metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewCreated), "ok").Inc()

	// 4. Record the review id on the claimed key (non-fatal).
	if claimed {
		if err := s.idem.Complete(ctx, user.ID, in.IdempotencyKey, id); err != nil {
			s.log.Warn().Err(err).Str("idempotency_key", in.IdempotencyKey).Msg("failed to store idempotency key")
		}
	}

	s.publish(domain.ReviewEvent{
		ReviewID:   id,
		Action:     domain.ReviewCreated,
		Username:   user.Username,
		BookTitle:  in.BookTitle,
		ReviewText: in.ReviewText,
	})

	s.log.Info().Int64("review_id", id).Int64("user_id", user.ID).Str("book_title", in.BookTitle).Msg("review added")
	return id, nil
}

// UpdateReview replaces the review text. Zero affected rows is ErrReviewNotFound.
func (s *reviewService) UpdateReview(ctx context.Context, id int64, reviewText string) error {
	n, err := s.reviews.UpdateTextByID(ctx, id, reviewText)
	if err != nil {
		metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewUpdated), "error").Inc()
		return fmt.Errorf("update review %d: %w", id, err)
	}
	if n == 0 {
		metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewUpdated), "not_found").Inc()
		return fmt.Errorf("update review %d: %w", id, domain.ErrReviewNotFound)
	}
	metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewUpdated), "ok").Inc()

	s.publish(domain.ReviewEvent{ReviewID: id, Action: domain.ReviewUpdated, ReviewText: reviewText})
	s.log.Info().Int64("review_id", id).Msg("review updated")
	return nil
}

// DeleteReview removes the review. Zero affected rows is ErrReviewNotFound.
func (s *reviewService) DeleteReview(ctx context.Context, id int64) error {
	n, err := s.reviews.DeleteByID(ctx, id)
	if err != nil {
		metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewDeleted), "error").Inc()
		return fmt.Errorf("delete review %d: %w", id, err)
	}
	if n == 0 {
		metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewDeleted), "not_found").Inc()
		return fmt.Errorf("delete review %d: %w", id, domain.ErrReviewNotFound)
	}
	metrics.ReviewMutationsTotal.WithLabelValues(string(domain.ReviewDeleted), "ok").Inc()

	s.publish(domain.ReviewEvent{ReviewID: id, Action: domain.ReviewDeleted})
	s.log.Info().Int64("review_id", id).Msg("review deleted")
	return nil
}

func (s *reviewService) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review %d: %w", id, err)
	}
	return r, nil
}

func (s *reviewService) ListReviews(ctx context.Context, bookTitle string) ([]domain.Review, error) {
	reviews, err := s.reviews.ListByBookTitle(ctx, bookTitle)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return reviews, nil
}

func (s *reviewService) publish(event domain.ReviewEvent) {
	if s.audit == nil {
		return
	}
	event.OccurredAt = time.Now().UTC()
	s.audit.Publish(event)
}
