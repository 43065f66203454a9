package ports

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// CatalogClient fetches raw JSON from the upstream book catalog.
//
// Transport failures are reported as domain.ErrUpstreamUnavailable and
// non-2xx answers as *domain.UpstreamStatusError. endpoint is a short label
// used for metrics and logs.
type CatalogClient interface {
	Get(ctx context.Context, endpoint, path string, query url.Values) ([]byte, error)
}

// CatalogService exposes normalized views over the upstream catalog.
type CatalogService interface {
	Popular(ctx context.Context) ([]domain.BookSummary, error)
	Search(ctx context.Context, query string) ([]domain.BookSummary, error)
	ByISBN(ctx context.Context, isbn string) (json.RawMessage, error)
	ByAuthor(ctx context.Context, author string) ([]domain.BookSummary, error)
	ByTitle(ctx context.Context, title string) ([]domain.BookSummary, error)
	ReviewData(ctx context.Context, isbn string) (*domain.BookDetail, error)
}
