package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"micropantry-api/internal/model"
)

// MongoWishlistRepository implements WishlistRepository using MongoDB.
type MongoWishlistRepository struct {
	collection *mongo.Collection
}

// List returns a pantry's wishlist, oldest first.
func (r *MongoWishlistRepository) List(ctx context.Context, pantryID string) ([]model.WishlistItem, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})

	cursor, err := r.collection.Find(ctx, bson.M{"pantry_id": pantryID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	defer cursor.Close(ctx)

	items := []model.WishlistItem{}
	if err := cursor.All(ctx, &items); err != nil {
		return nil, fmt.Errorf("failed to decode wishlist: %w", err)
	}
	for i := range items {
		items[i].CreatedAt = items[i].CreatedAt.UTC()
	}
	return items, nil
}

// Get returns one item or ErrNotFound.
func (r *MongoWishlistRepository) Get(ctx context.Context, pantryID, id string) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.collection.FindOne(ctx, bson.M{"_id": id, "pantry_id": pantryID}).Decode(&item)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}
	item.CreatedAt = item.CreatedAt.UTC()
	return &item, nil
}

// Create stores a new item. A zero CreatedAt is set to now.
func (r *MongoWishlistRepository) Create(ctx context.Context, item *model.WishlistItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.CreatedAt = item.CreatedAt.UTC().Truncate(time.Millisecond)

	if _, err := r.collection.InsertOne(ctx, item); err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return nil
}

// Update replaces name and quantity of an existing item.
func (r *MongoWishlistRepository) Update(ctx context.Context, item *model.WishlistItem) error {
	filter := bson.M{"_id": item.ID, "pantry_id": item.PantryID}
	update := bson.M{"$set": bson.M{"name": item.Name, "quantity": item.Quantity}}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an item or returns ErrNotFound.
func (r *MongoWishlistRepository) Delete(ctx context.Context, pantryID, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "pantry_id": pantryID})
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure MongoWishlistRepository implements WishlistRepository
var _ WishlistRepository = (*MongoWishlistRepository)(nil)
