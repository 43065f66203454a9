package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, username, password string) (int64, error)
	loginFn    func(ctx context.Context, username, password string) error
}

func (s *stubAuthService) Register(ctx context.Context, username, password string) (int64, error) {
	return s.registerFn(ctx, username, password)
}

func (s *stubAuthService) Login(ctx context.Context, username, password string) error {
	return s.loginFn(ctx, username, password)
}

type stubCatalogService struct {
	books  []domain.BookSummary
	raw    json.RawMessage
	detail *domain.BookDetail
	err    error
	lastQ  string
}

func (s *stubCatalogService) Popular(context.Context) ([]domain.BookSummary, error) {
	return s.books, s.err
}

func (s *stubCatalogService) Search(_ context.Context, q string) ([]domain.BookSummary, error) {
	s.lastQ = q
	return s.books, s.err
}

func (s *stubCatalogService) ByISBN(_ context.Context, isbn string) (json.RawMessage, error) {
	s.lastQ = isbn
	return s.raw, s.err
}

func (s *stubCatalogService) ByAuthor(_ context.Context, a string) ([]domain.BookSummary, error) {
	s.lastQ = a
	return s.books, s.err
}

func (s *stubCatalogService) ByTitle(_ context.Context, t string) ([]domain.BookSummary, error) {
	s.lastQ = t
	return s.books, s.err
}

func (s *stubCatalogService) ReviewData(_ context.Context, isbn string) (*domain.BookDetail, error) {
	s.lastQ = isbn
	return s.detail, s.err
}

type stubReviewService struct {
	addFn    func(ctx context.Context, in ports.AddReviewInput) (int64, error)
	updateFn func(ctx context.Context, id int64, text string) error
	deleteFn func(ctx context.Context, id int64) error
	getFn    func(ctx context.Context, id int64) (*domain.Review, error)
	listFn   func(ctx context.Context, title string) ([]domain.Review, error)
}

func (s *stubReviewService) AddReview(ctx context.Context, in ports.AddReviewInput) (int64, error) {
	return s.addFn(ctx, in)
}

func (s *stubReviewService) UpdateReview(ctx context.Context, id int64, text string) error {
	return s.updateFn(ctx, id, text)
}

func (s *stubReviewService) DeleteReview(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func (s *stubReviewService) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	return s.getFn(ctx, id)
}

func (s *stubReviewService) ListReviews(ctx context.Context, title string) ([]domain.Review, error) {
	return s.listFn(ctx, title)
}

// newContext builds an echo context with the validator installed. params are
// name/value pairs for path parameters.
func newContext(method, target string, body io.Reader, params ...string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var names, values []string
	for i := 0; i+1 < len(params); i += 2 {
		names = append(names, params[i])
		values = append(values, params[i+1])
	}
	c.SetParamNames(names...)
	c.SetParamValues(values...)
	return c, rec
}

func jsonBody(s string) io.Reader { return strings.NewReader(s) }

// httpCode returns the status of an *echo.HTTPError, or 0.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
