package ports

import (
	"context"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// ReviewRepository persists reviews. It does not check that userID exists;
// callers do that before Insert.
type ReviewRepository interface {
	Insert(ctx context.Context, bookTitle, reviewText string, userID int64) (int64, error)
	// UpdateTextByID and DeleteByID return the number of rows changed; zero
	// means no review had that id.
	UpdateTextByID(ctx context.Context, id int64, reviewText string) (int64, error)
	DeleteByID(ctx context.Context, id int64) (int64, error)
	FindByID(ctx context.Context, id int64) (*domain.Review, error)
	ListByBookTitle(ctx context.Context, bookTitle string) ([]domain.Review, error)
}

// ReviewAuditRepository stores the audit trail of review mutations.
type ReviewAuditRepository interface {
	InsertEvent(ctx context.Context, event *domain.ReviewEvent) error
}
