package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names used by MongoStore.
const (
	wishlistCollection  = "wishlist_items"
	donationCollection  = "donation_notes"
	telemetryCollection = "telemetry_readings"
)

// MongoStore implements Store using MongoDB.
type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database

	wishlist  *MongoWishlistRepository
	donations *MongoDonationRepository
	telemetry *MongoTelemetryRepository
}

// OpenMongoDB connects to MongoDB and ensures the collection indexes.
func OpenMongoDB(uri, database string) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	clientOpts := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(50).
		SetMinPoolSize(5).
		SetMaxConnIdleTime(5 * time.Minute).
		SetRetryWrites(true)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	// Ping to verify connection
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	db := client.Database(database)
	store := &MongoStore{
		client:    client,
		db:        db,
		wishlist:  &MongoWishlistRepository{collection: db.Collection(wishlistCollection)},
		donations: &MongoDonationRepository{collection: db.Collection(donationCollection)},
		telemetry: &MongoTelemetryRepository{collection: db.Collection(telemetryCollection)},
	}
	store.ensureIndexes(ctx)

	log.Info().Str("database", database).Msg("connected to MongoDB")
	return store, nil
}

// ensureIndexes creates the lookup indexes. Failures are logged, not fatal.
func (s *MongoStore) ensureIndexes(ctx context.Context) {
	indexes := map[string][]mongo.IndexModel{
		wishlistCollection: {
			{Keys: bson.D{{Key: "pantry_id", Value: 1}, {Key: "created_at", Value: 1}}},
		},
		donationCollection: {
			{Keys: bson.D{{Key: "pantry_id", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "created_at", Value: 1}}},
		},
		telemetryCollection: {
			{Keys: bson.D{{Key: "pantry_id", Value: 1}, {Key: "ts", Value: -1}}},
			{Keys: bson.D{{Key: "ts", Value: 1}}},
		},
	}
	for name, models := range indexes {
		if _, err := s.db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			log.Warn().Err(err).Str("collection", name).Msg("failed to create indexes")
		}
	}
}

// Wishlist returns the wishlist repository.
func (s *MongoStore) Wishlist() WishlistRepository { return s.wishlist }

// Donations returns the donation log repository.
func (s *MongoStore) Donations() DonationRepository { return s.donations }

// Telemetry returns the sensor reading repository.
func (s *MongoStore) Telemetry() TelemetryRepository { return s.telemetry }

// Ping checks the MongoDB connection.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

// GetStats returns document counts and the data size of each collection.
func (s *MongoStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"backend": "mongodb"}

	var sizeBytes int64
	for _, name := range []string{wishlistCollection, donationCollection, telemetryCollection} {
		count, err := s.db.Collection(name).CountDocuments(ctx, bson.M{})
		if err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", name, err)
		}
		stats[name] = count

		var collStats bson.M
		if err := s.db.RunCommand(ctx, bson.D{{Key: "collStats", Value: name}}).Decode(&collStats); err == nil {
			switch size := collStats["size"].(type) {
			case int64:
				sizeBytes += size
			case int32:
				sizeBytes += int64(size)
			}
		}
	}
	stats["db_size_bytes"] = sizeBytes

	opts := options.FindOne().SetSort(bson.D{{Key: "ts", Value: -1}})
	var last telemetryDocument
	if err := s.db.Collection(telemetryCollection).FindOne(ctx, bson.M{}, opts).Decode(&last); err == nil {
		stats["last_reading"] = last.TS.UTC()
	}

	return stats, nil
}

// Close closes the MongoDB connection.
func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// Ensure MongoStore implements Store
var _ Store = (*MongoStore)(nil)
