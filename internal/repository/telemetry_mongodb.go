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

// MongoTelemetryRepository implements TelemetryRepository using MongoDB.
type MongoTelemetryRepository struct {
	collection *mongo.Collection
}

// telemetryDocument represents a reading in MongoDB.
type telemetryDocument struct {
	PantryID string    `bson:"pantry_id"`
	TS       time.Time `bson:"ts"`
	WeightKg *float64  `bson:"weight_kg,omitempty"`
	Door     string    `bson:"door,omitempty"`
}

// InsertBatch stores readings with one unordered InsertMany.
func (r *MongoTelemetryRepository) InsertBatch(ctx context.Context, records []model.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	docs := make([]interface{}, len(records))
	for i, rec := range records {
		docs[i] = telemetryDocument{
			PantryID: rec.PantryID,
			TS:       rec.TS.UTC(),
			WeightKg: rec.WeightKg,
			Door:     rec.Door,
		}
	}

	opts := options.InsertMany().SetOrdered(false)
	if _, err := r.collection.InsertMany(ctx, docs, opts); err != nil {
		return fmt.Errorf("failed to insert readings: %w", err)
	}
	return nil
}

// History returns the most recent readings of a pantry, oldest first.
func (r *MongoTelemetryRepository) History(ctx context.Context, pantryID string, limit int) ([]model.TelemetryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ts", Value: -1}}).
		SetLimit(int64(limit))

	cursor, err := r.collection.Find(ctx, bson.M{"pantry_id": pantryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load telemetry history: %w", err)
	}
	defer cursor.Close(ctx)

	var docs []telemetryDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to decode telemetry history: %w", err)
	}

	records := make([]model.TelemetryRecord, len(docs))
	for i, doc := range docs {
		records[len(docs)-1-i] = model.TelemetryRecord{
			PantryID: doc.PantryID,
			TS:       doc.TS.UTC(),
			WeightKg: doc.WeightKg,
			Door:     doc.Door,
		}
	}
	return records, nil
}

// DeleteOlderThan removes readings taken before cutoff.
func (r *MongoTelemetryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"ts": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, fmt.Errorf("failed to delete telemetry readings: %w", err)
	}
	return result.DeletedCount, nil
}

// Ensure MongoTelemetryRepository implements TelemetryRepository
var _ TelemetryRepository = (*MongoTelemetryRepository)(nil)
