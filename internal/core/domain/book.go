package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrBookNotFound        = errors.New("book not found")
	ErrUpstreamUnavailable = errors.New("catalog request failed")
	ErrEmptyResult         = errors.New("books not found")
)

// UpstreamStatusError reports a non-2xx answer from the catalog. It matches
// ErrUpstreamUnavailable with errors.Is.
type UpstreamStatusError struct {
	Endpoint   string
	StatusCode int
}

func (e *UpstreamStatusError) Error() string {
	return fmt.Sprintf("catalog %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *UpstreamStatusError) Unwrap() error { return ErrUpstreamUnavailable }

// Sentinels substituted for upstream fields that are missing.
const (
	TitleNotSpecified      = "Title not specified"
	AuthorNotSpecified     = "Author not specified"
	CoverNotAvailable      = "Cover not available"
	ISBNNotSpecified       = "ISBN not specified"
	YearNotSpecified       = "Year not specified"
	DescriptionUnavailable = "Description not available"
	RatingUnavailable      = "Rating not available"
	ReviewsUnavailable     = "Reviews not available"
)

// BookSummary is the normalized listing/search item. Exactly one of
// CoverURL and ISBN is populated depending on the upstream listing.
// FirstPublishYear holds either the upstream number or YearNotSpecified.
type BookSummary struct {
	Title            string `json:"title"`
	Author           string `json:"author"`
	CoverURL         string `json:"cover_url,omitempty"`
	ISBN             string `json:"isbn,omitempty"`
	FirstPublishYear any    `json:"first_publish_year"`
}

// BookDetail is the normalized aggregate-data view used for review lookups.
// AverageRating is a number or RatingUnavailable; RatingsCount is always numeric.
type BookDetail struct {
	Title         string      `json:"title"`
	Authors       string      `json:"authors"`
	Description   string      `json:"description"`
	AverageRating any         `json:"averageRating"`
	RatingsCount  json.Number `json:"ratingsCount"`
	Reviews       string      `json:"reviews"`
}
