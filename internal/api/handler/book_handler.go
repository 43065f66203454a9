package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/review-service/internal/core/ports"
)

// BookHandler serves the read-only catalog endpoints.
type BookHandler struct {
	catalog ports.CatalogService
}

func NewBookHandler(catalog ports.CatalogService) *BookHandler {
	return &BookHandler{catalog: catalog}
}

// Popular handles GET /api/books.
//
// @Summary      Popular books
// @Tags         books
// @Produce      json
// @Success      200  {array}   domain.BookSummary
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/books [get]
func (h *BookHandler) Popular(c echo.Context) error {
	books, err := h.catalog.Popular(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// Search handles GET /api/books/search?query=.
//
// @Summary      Free-text book search
// @Tags         books
// @Produce      json
// @Param        query  query     string  true  "Search terms"
// @Success      200    {array}   domain.BookSummary
// @Failure      400    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/books/search [get]
func (h *BookHandler) Search(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, `query parameter "query" is required`)
	}

	books, err := h.catalog.Search(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// ByISBN handles GET /api/books/:isbn and returns the catalog record unmodified.
//
// @Summary      Book by ISBN
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN-10 or ISBN-13"
// @Success      200   {object}  map[string]any
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/books/{isbn} [get]
func (h *BookHandler) ByISBN(c echo.Context) error {
	raw, err := h.catalog.ByISBN(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return err
	}
	return c.JSONBlob(http.StatusOK, raw)
}

// ByAuthor handles GET /api/books/author/:authorName.
//
// @Summary      Books by author
// @Tags         books
// @Produce      json
// @Param        authorName  path      string  true  "Author name"
// @Success      200         {array}   domain.BookSummary
// @Failure      404         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /api/books/author/{authorName} [get]
func (h *BookHandler) ByAuthor(c echo.Context) error {
	books, err := h.catalog.ByAuthor(c.Request().Context(), c.Param("authorName"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// ByTitle handles GET /api/books/title/:title.
//
// @Summary      Books by title
// @Tags         books
// @Produce      json
// @Param        title  path      string  true  "Title"
// @Success      200    {array}   domain.BookSummary
// @Failure      404    {object}  errorResponse
// @Failure      500    {object}  errorResponse
// @Router       /api/books/title/{title} [get]
func (h *BookHandler) ByTitle(c echo.Context) error {
	books, err := h.catalog.ByTitle(c.Request().Context(), c.Param("title"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, books)
}

// ReviewData handles GET /api/books/review/:isbn.
//
// @Summary      Aggregate book data for reviewers
// @Tags         books
// @Produce      json
// @Param        isbn  path      string  true  "ISBN"
// @Success      200   {object}  domain.BookDetail
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/books/review/{isbn} [get]
func (h *BookHandler) ReviewData(c echo.Context) error {
	detail, err := h.catalog.ReviewData(c.Request().Context(), c.Param("isbn"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, detail)
}
