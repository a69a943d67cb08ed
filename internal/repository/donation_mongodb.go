package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"micropantry-api/internal/model"
)

// MongoDonationRepository implements DonationRepository using MongoDB.
type MongoDonationRepository struct {
	collection *mongo.Collection
}

// Create appends a note to the log.
func (r *MongoDonationRepository) Create(ctx context.Context, note *model.DonationNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	note.CreatedAt = note.CreatedAt.UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, note); err != nil {
		return fmt.Errorf("failed to create donation note: %w", err)
	}
	return nil
}

// ListSince returns one page of a pantry's notes in the window, newest first.
func (r *MongoDonationRepository) ListSince(ctx context.Context, pantryID string, since time.Time, offset, limit int) ([]model.DonationNote, int64, error) {
	filter := bson.M{
		"pantry_id":  pantryID,
		"created_at": bson.M{"$gte": since},
	}

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})
	findOptions.SetLimit(int64(limit))
	findOptions.SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list donation notes: %w", err)
	}
	defer cursor.Close(ctx)

	notes := []model.DonationNote{}
	if err := cursor.All(ctx, &notes); err != nil {
		return nil, 0, fmt.Errorf("failed to decode donation notes: %w", err)
	}
	for i := range notes {
		notes[i].CreatedAt = notes[i].CreatedAt.UTC()
	}

	count, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count donation notes: %w", err)
	}

	return notes, count, nil
}

// DeleteOlderThan removes notes created before cutoff.
func (r *MongoDonationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete donation notes: %w", err)
	}
	return result.DeletedCount, nil
}

// Ensure MongoDonationRepository implements DonationRepository
var _ DonationRepository = (*MongoDonationRepository)(nil)
