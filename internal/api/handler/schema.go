package handler

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// --- Auth ---

type credentialsRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type registerResponse struct {
	UserID int64 `json:"userId"`
}

// --- Reviews ---

type addReviewRequest struct {
	BookTitle  string `json:"bookTitle"  validate:"required"`
	ReviewText string `json:"reviewText" validate:"required"`
	Username   string `json:"username"   validate:"required"`
}

type addReviewResponse struct {
	ReviewID int64 `json:"reviewId"`
}

type updateReviewRequest struct {
	ReviewText string `json:"reviewText" validate:"required"`
}
