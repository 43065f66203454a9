package normalize

import (
	"encoding/json"

	"github.com/bookshelf/review-service/internal/core/domain"
)

// DefaultCoverTemplate builds large cover image URLs from a cover id.
const DefaultCoverTemplate = "https://covers.openlibrary.org/b/id/%s-L.jpg"

var authorSources = []Source{
	{Field: "authors", Strategy: JoinNames},
	{Field: "author_name", Strategy: JoinStrings},
}

// ListingSummary describes popular-list works: summaries carrying a cover
// image URL built from coverTemplate.
func ListingSummary(coverTemplate string) Shape[domain.BookSummary] {
	if coverTemplate == "" {
		coverTemplate = DefaultCoverTemplate
	}
	return Shape[domain.BookSummary]{
		Name: "listing summary",
		Fields: []FieldMapping[domain.BookSummary]{
			summaryTitle,
			summaryAuthor,
			{
				Name:     "cover_url",
				Sources:  []Source{{Field: "cover_id", Strategy: CoverImage, Template: coverTemplate}},
				Sentinel: domain.CoverNotAvailable,
				Set:      func(b *domain.BookSummary, v any) { b.CoverURL = asString(v) },
			},
			summaryYear,
		},
	}
}

// SearchSummary describes search documents (free text, author and title
// searches): summaries carrying the first ISBN instead of a cover.
var SearchSummary = Shape[domain.BookSummary]{
	Name: "search summary",
	Fields: []FieldMapping[domain.BookSummary]{
		summaryTitle,
		summaryAuthor,
		{
			Name:     "isbn",
			Sources:  []Source{{Field: "isbn", Strategy: FirstElement}},
			Sentinel: domain.ISBNNotSpecified,
			Set:      func(b *domain.BookSummary, v any) { b.ISBN = asString(v) },
		},
		summaryYear,
	},
}

// ReviewDetail describes an aggregate-data record.
var ReviewDetail = Shape[domain.BookDetail]{
	Name: "review detail",
	Fields: []FieldMapping[domain.BookDetail]{
		{
			Name:     "title",
			Sources:  []Source{{Field: "title", Strategy: Scalar}},
			Sentinel: domain.TitleNotSpecified,
			Set:      func(d *domain.BookDetail, v any) { d.Title = asString(v) },
		},
		{
			Name:     "authors",
			Sources:  []Source{{Field: "authors", Strategy: JoinNames}},
			Sentinel: domain.AuthorNotSpecified,
			Set:      func(d *domain.BookDetail, v any) { d.Authors = asString(v) },
		},
		{
			Name:     "description",
			Sources:  []Source{{Field: "description", Strategy: NestedValue}},
			Sentinel: domain.DescriptionUnavailable,
			Set:      func(d *domain.BookDetail, v any) { d.Description = asString(v) },
		},
		{
			Name:     "averageRating",
			Sources:  []Source{{Field: "ratings_average", Strategy: Number}},
			Sentinel: domain.RatingUnavailable,
			Set:      func(d *domain.BookDetail, v any) { d.AverageRating = v },
		},
		{
			// numeric default, unlike every other field
			Name:     "ratingsCount",
			Sources:  []Source{{Field: "ratings_count", Strategy: Number}},
			Sentinel: json.Number("0"),
			Set:      func(d *domain.BookDetail, v any) { d.RatingsCount, _ = v.(json.Number) },
		},
		{
			Name:     "reviews",
			Sentinel: domain.ReviewsUnavailable,
			Set:      func(d *domain.BookDetail, v any) { d.Reviews = asString(v) },
		},
	},
}

var (
	summaryTitle = FieldMapping[domain.BookSummary]{
		Name:     "title",
		Sources:  []Source{{Field: "title", Strategy: Scalar}},
		Sentinel: "",
		Set:      func(b *domain.BookSummary, v any) { b.Title = asString(v) },
	}
	summaryAuthor = FieldMapping[domain.BookSummary]{
		Name:     "author",
		Sources:  authorSources,
		Sentinel: domain.AuthorNotSpecified,
		Set:      func(b *domain.BookSummary, v any) { b.Author = asString(v) },
	}
	summaryYear = FieldMapping[domain.BookSummary]{
		Name:     "first_publish_year",
		Sources:  []Source{{Field: "first_publish_year", Strategy: Number}},
		Sentinel: domain.YearNotSpecified,
		Set:      func(b *domain.BookSummary, v any) { b.FirstPublishYear = v },
	}
)

func asString(v any) string {
	s, _ := v.(string)
	return s
}
