package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/bookshelf/review-service/internal/core/ports"
)

// ReviewHandler serves review writes and reads.
type ReviewHandler struct {
	service ports.ReviewService
}

func NewReviewHandler(service ports.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Add handles POST /api/books/review/add.
//
// @Summary      Add a review
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string            false  "Replays return the review created by the first request"
// @Param        body             body      addReviewRequest  true   "Review"
// @Success      201              {object}  addReviewResponse
// @Failure      400              {object}  errorResponse
// @Failure      404              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /api/books/review/add [post]
func (h *ReviewHandler) Add(c echo.Context) error {
	var req addReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	key, err := idempotencyKey(c)
	if err != nil {
		return err
	}

	id, err := h.service.AddReview(c.Request().Context(), ports.AddReviewInput{
		BookTitle:      req.BookTitle,
		ReviewText:     req.ReviewText,
		Username:       req.Username,
		IdempotencyKey: key,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, addReviewResponse{ReviewID: id})
}

// Update handles PUT /api/books/review/update/:id.
//
// @Summary      Replace a review's text
// @Tags         reviews
// @Accept       json
// @Produce      json
// @Param        id    path      int                  true  "Review id"
// @Param        body  body      updateReviewRequest  true  "New text"
// @Success      200   {object}  messageResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /api/books/review/update/{id} [put]
func (h *ReviewHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	if err := h.service.UpdateReview(c.Request().Context(), id, req.ReviewText); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review updated successfully"})
}

// Delete handles DELETE /api/books/review/delete/:id.
//
// @Summary      Delete a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Review id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /api/books/review/delete/{id} [delete]
func (h *ReviewHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.service.DeleteReview(c.Request().Context(), id); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "Review deleted successfully"})
}

// Get handles GET /api/reviews/:id.
//
// @Summary      Get a review
// @Tags         reviews
// @Produce      json
// @Param        id   path      int  true  "Review id"
// @Success      200  {object}  domain.Review
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/reviews/{id} [get]
func (h *ReviewHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	review, err := h.service.GetReview(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, review)
}

// List handles GET /api/reviews?bookTitle=.
//
// @Summary      Reviews of a book
// @Tags         reviews
// @Produce      json
// @Param        bookTitle  query     string  true  "Exact book title"
// @Success      200        {array}   domain.Review
// @Failure      400        {object}  errorResponse
// @Router       /api/reviews [get]
func (h *ReviewHandler) List(c echo.Context) error {
	title := c.QueryParam("bookTitle")
	if title == "" {
		return echo.NewHTTPError(http.StatusBadRequest, `query parameter "bookTitle" is required`)
	}

	reviews, err := h.service.ListReviews(c.Request().Context(), title)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, reviews)
}
