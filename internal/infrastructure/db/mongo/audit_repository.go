package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/bookshelf/review-service/internal/core/domain"
	"github.com/bookshelf/review-service/internal/core/ports"
)

const reviewEventsCollection = "review_events"

// AuditRepository stores review mutation events in the review_events collection.
type AuditRepository struct {
	col *mongo.Collection
}

// NewAuditRepository creates an AuditRepository on db.
func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(reviewEventsCollection)}
}

var _ ports.ReviewAuditRepository = (*AuditRepository)(nil)

// InsertEvent appends one event. Events are never updated.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.ReviewEvent) error {
	_, err := r.col.InsertOne(ctx, eventDocument(event))
	if err != nil {
		return fmt.Errorf("insert review event: %w", err)
	}
	return nil
}

// EnsureIndexes creates the lookup indexes of review_events.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "review_id", Value: 1}, {Key: "occurred_at", Value: 1}}},
		{Keys: bson.D{{Key: "username", Value: 1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func eventDocument(event *domain.ReviewEvent) bson.M {
	doc := bson.M{
		"review_id":    event.ReviewID,
		"action":       string(event.Action),
		"occurred_at":  event.OccurredAt.UTC(),
		"processed_at": time.Now().UTC(),
	}
	if event.Username != "" {
		doc["username"] = event.Username
	}
	if event.BookTitle != "" {
		doc["book_title"] = event.BookTitle
	}
	if event.ReviewText != "" {
		doc["review_text"] = event.ReviewText
	}
	return doc
}
