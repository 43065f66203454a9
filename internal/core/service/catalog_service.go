package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/normalize"
	"github.com/bookshelf/review-service/internal/core/ports"
)

const popularLimit = "10"

// CatalogService fetches upstream catalog responses and normalizes them.
type CatalogService struct {
	client  ports.CatalogClient
	listing normalize.Shape[domain.BookSummary]
	logger  zerolog.Logger
}

// NewCatalogService builds a CatalogService. coverTemplate is the fmt pattern
// used for cover image URLs; empty selects normalize.DefaultCoverTemplate.
func NewCatalogService(client ports.CatalogClient, coverTemplate string, logger zerolog.Logger) *CatalogService {
	return &CatalogService{
		client:  client,
		listing: normalize.ListingSummary(coverTemplate),
		logger:  logger,
	}
}

// Popular returns the popular subject listing.
func (s *CatalogService) Popular(ctx context.Context) ([]domain.BookSummary, error) {
	body, err := s.client.Get(ctx, "popular", "/subjects/popular.json", url.Values{"limit": {popularLimit}})
	if err != nil {
		return nil, fmt.Errorf("popular books: %w", err)
	}
	return normalize.List(s.listing, body, "works")
}

// Search runs a free-text search.
func (s *CatalogService) Search(ctx context.Context, query string) ([]domain.BookSummary, error) {
	return s.search(ctx, "search", "q", query)
}

// ByAuthor searches by author name.
func (s *CatalogService) ByAuthor(ctx context.Context, author string) ([]domain.BookSummary, error) {
	return s.search(ctx, "author", "author", author)
}

// ByTitle searches by title.
func (s *CatalogService) ByTitle(ctx context.Context, title string) ([]domain.BookSummary, error) {
	return s.search(ctx, "title", "title", title)
}

func (s *CatalogService) search(ctx context.Context, endpoint, param, value string) ([]domain.BookSummary, error) {
	body, err := s.client.Get(ctx, endpoint, "/search.json", url.Values{param: {value}})
	if err != nil {
		return nil, fmt.Errorf("%s search: %w", endpoint, err)
	}
	return normalize.List(normalize.SearchSummary, body, "docs")
}

// ByISBN returns the upstream edition record verbatim.
func (s *CatalogService) ByISBN(ctx context.Context, isbn string) (json.RawMessage, error) {
	body, err := s.client.Get(ctx, "isbn", "/isbn/"+url.PathEscape(isbn)+".json", nil)
	if err != nil {
		var se *domain.UpstreamStatusError
		if errors.As(err, &se) && se.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("isbn %s: %w", isbn, domain.ErrBookNotFound)
		}
		return nil, fmt.Errorf("isbn %s: %w", isbn, err)
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, fmt.Errorf("isbn %s: %w", isbn, domain.ErrBookNotFound)
	}
	if !json.Valid(trimmed) {
		s.logger.Warn().Str("isbn", isbn).Msg("catalog returned invalid json")
		return nil, fmt.Errorf("isbn %s: %w: invalid json", isbn, domain.ErrUpstreamUnavailable)
	}
	return json.RawMessage(trimmed), nil
}

// ReviewData returns the aggregate-data detail of one ISBN.
func (s *CatalogService) ReviewData(ctx context.Context, isbn string) (*domain.BookDetail, error) {
	key := "ISBN:" + isbn
	body, err := s.client.Get(ctx, "review_data", "/api/books", url.Values{
		"bibkeys": {key},
		"format":  {"json"},
		"jscmd":   {"data"},
	})
	if err != nil {
		return nil, fmt.Errorf("review data %s: %w", isbn, err)
	}

	detail, err := normalize.Keyed(normalize.ReviewDetail, body, key)
	if err != nil {
		return nil, err
	}
	return &detail, nil
}
