package domain

import (
	"errors"
	"time"
)

var ErrReviewNotFound = errors.New("review not found")

// ErrIdempotencyInProgress is returned while another request holding the same
// Idempotency-Key has not finished creating its review.
var ErrIdempotencyInProgress = errors.New("a request with this idempotency key is still in progress")

// ErrStorageFailure marks store errors that are not one of the expected
// outcomes (duplicate, not found). Adapters wrap the driver cause with it.
var ErrStorageFailure = errors.New("storage failure")

// Review is a free-text review attached to a book title. BookTitle is not
// checked against the catalog.
type Review struct {
	ID         int64  `json:"id"`
	BookTitle  string `json:"bookTitle"`
	ReviewText string `json:"reviewText"`
	UserID     int64  `json:"userId"`
}

// ReviewAction names the mutation recorded in the audit trail.
type ReviewAction string

const (
	ReviewCreated ReviewAction = "created"
	ReviewUpdated ReviewAction = "updated"
	ReviewDeleted ReviewAction = "deleted"
)

// ReviewEvent is an audit record of a successful review mutation.
type ReviewEvent struct {
	ReviewID   int64
	Action     ReviewAction
	Username   string // only set on create
	BookTitle  string // only set on create
	ReviewText string // empty on delete
	OccurredAt time.Time
}
