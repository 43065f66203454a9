package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/bookshelf/review-service/internal/core/domain"
)

type catalogCall struct {
	endpoint string
	path     string
	query    url.Values
}

type stubCatalogClient struct {
	body  []byte
	err   error
	calls []catalogCall
}

func (c *stubCatalogClient) Get(_ context.Context, endpoint, path string, query url.Values) ([]byte, error) {
	c.calls = append(c.calls, catalogCall{endpoint: endpoint, path: path, query: query})
	return c.body, c.err
}

func TestCatalogService_Popular(t *testing.T) {
	client := &stubCatalogClient{body: []byte(`{"works":[{"title":"Dune","authors":[{"name":"Frank Herbert"}],"cover_id":42,"first_publish_year":1965}]}`)}
	svc := NewCatalogService(client, "", zerolog.Nop())

	books, err := svc.Popular(context.Background())
	if err != nil {
		t.Fatalf("Popular returned error: %v", err)
	}
	if len(books) != 1 {
		t.Fatalf("expected 1 book, got %d", len(books))
	}
	b := books[0]
	if b.Title != "Dune" || b.Author != "Frank Herbert" {
		t.Fatalf("unexpected book: %+v", b)
	}
	if b.CoverURL != "https://covers.openlibrary.org/b/id/42-L.jpg" {
		t.Fatalf("unexpected cover url: %q", b.CoverURL)
	}

	call := client.calls[0]
	if call.path != "/subjects/popular.json" || call.query.Get("limit") != "10" {
		t.Fatalf("unexpected upstream call: %+v", call)
	}
}

func TestCatalogService_SearchVariants(t *testing.T) {
	cases := []struct {
		name  string
		run   func(*CatalogService) ([]domain.BookSummary, error)
		param string
	}{
		{"search", func(s *CatalogService) ([]domain.BookSummary, error) { return s.Search(context.Background(), "dune") }, "q"},
		{"author", func(s *CatalogService) ([]domain.BookSummary, error) { return s.ByAuthor(context.Background(), "dune") }, "author"},
		{"title", func(s *CatalogService) ([]domain.BookSummary, error) { return s.ByTitle(context.Background(), "dune") }, "title"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &stubCatalogClient{body: []byte(`{"docs":[{"title":"Dune","author_name":["Frank Herbert"],"isbn":["9780441013593","0441013597"]}]}`)}
			svc := NewCatalogService(client, "", zerolog.Nop())

			books, err := tc.run(svc)
			if err != nil {
				t.Fatalf("returned error: %v", err)
			}
			if len(books) != 1 || books[0].ISBN != "9780441013593" {
				t.Fatalf("unexpected books: %+v", books)
			}
			if books[0].FirstPublishYear != domain.YearNotSpecified {
				t.Fatalf("expected year sentinel, got %v", books[0].FirstPublishYear)
			}

			call := client.calls[0]
			if call.path != "/search.json" || call.query.Get(tc.param) != "dune" {
				t.Fatalf("unexpected upstream call: %+v", call)
			}
		})
	}
}

func TestCatalogService_Search_EmptyResult(t *testing.T) {
	client := &stubCatalogClient{body: []byte(`{"numFound":0}`)}
	svc := NewCatalogService(client, "", zerolog.Nop())

	if _, err := svc.Search(context.Background(), "zzz"); !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}

func TestCatalogService_UpstreamFailure(t *testing.T) {
	client := &stubCatalogClient{err: &domain.UpstreamStatusError{Endpoint: "popular", StatusCode: 503}}
	svc := NewCatalogService(client, "", zerolog.Nop())

	if _, err := svc.Popular(context.Background()); !errors.Is(err, domain.ErrUpstreamUnavailable) {
		t.Fatalf("expected ErrUpstreamUnavailable, got %v", err)
	}
}

func TestCatalogService_ByISBN(t *testing.T) {
	raw := `{"title":"Dune","publishers":["Ace"],"number_of_pages":896}`
	client := &stubCatalogClient{body: []byte("  " + raw + "\n")}
	svc := NewCatalogService(client, "", zerolog.Nop())

	got, err := svc.ByISBN(context.Background(), "0441013597")
	if err != nil {
		t.Fatalf("ByISBN returned error: %v", err)
	}
	if string(got) != raw {
		t.Fatalf("expected verbatim body, got %s", got)
	}
	if client.calls[0].path != "/isbn/0441013597.json" {
		t.Fatalf("unexpected path: %s", client.calls[0].path)
	}
}

func TestCatalogService_ByISBN_NotFound(t *testing.T) {
	svc := NewCatalogService(&stubCatalogClient{err: &domain.UpstreamStatusError{Endpoint: "isbn", StatusCode: 404}}, "", zerolog.Nop())
	if _, err := svc.ByISBN(context.Background(), "0000"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound for 404, got %v", err)
	}

	svc = NewCatalogService(&stubCatalogClient{body: []byte("null")}, "", zerolog.Nop())
	if _, err := svc.ByISBN(context.Background(), "0000"); !errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrBookNotFound for null body, got %v", err)
	}
}

func TestCatalogService_ByISBN_ServerError(t *testing.T) {
	svc := NewCatalogService(&stubCatalogClient{err: &domain.UpstreamStatusError{Endpoint: "isbn", StatusCode: 500}}, "", zerolog.Nop())

	_, err := svc.ByISBN(context.Background(), "0000")
	if !errors.Is(err, domain.ErrUpstreamUnavailable) || errors.Is(err, domain.ErrBookNotFound) {
		t.Fatalf("expected ErrUpstreamUnavailable only, got %v", err)
	}
}

func TestCatalogService_ReviewData(t *testing.T) {
	client := &stubCatalogClient{body: []byte(`{"ISBN:0441013597":{"title":"Dune","authors":[{"name":"Frank Herbert"}],"description":{"value":"Desert planet."}}}`)}
	svc := NewCatalogService(client, "", zerolog.Nop())

	detail, err := svc.ReviewData(context.Background(), "0441013597")
	if err != nil {
		t.Fatalf("ReviewData returned error: %v", err)
	}
	if detail.Title != "Dune" || detail.Authors != "Frank Herbert" || detail.Description != "Desert planet." {
		t.Fatalf("unexpected detail: %+v", detail)
	}
	if detail.AverageRating != domain.RatingUnavailable {
		t.Fatalf("expected rating sentinel, got %v", detail.AverageRating)
	}
	if detail.RatingsCount != json.Number("0") {
		t.Fatalf("expected numeric zero ratings count, got %q", detail.RatingsCount)
	}
	if detail.Reviews != domain.ReviewsUnavailable {
		t.Fatalf("expected reviews sentinel, got %q", detail.Reviews)
	}

	q := client.calls[0].query
	if q.Get("bibkeys") != "ISBN:0441013597" || q.Get("jscmd") != "data" || q.Get("format") != "json" {
		t.Fatalf("unexpected query: %v", q)
	}
}

func TestCatalogService_ReviewData_UnknownISBN(t *testing.T) {
	svc := NewCatalogService(&stubCatalogClient{body: []byte(`{}`)}, "", zerolog.Nop())

	if _, err := svc.ReviewData(context.Background(), "0000"); !errors.Is(err, domain.ErrEmptyResult) {
		t.Fatalf("expected ErrEmptyResult, got %v", err)
	}
}
