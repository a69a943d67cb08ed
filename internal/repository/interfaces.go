package repository

import (
	"context"
	"errors"
	"time"

	"micropantry-api/internal/model"
)

// ErrNotFound is returned when a keyed record does not exist.
var ErrNotFound = errors.New("record not found")

// WishlistRepository defines wishlist data access methods.
type WishlistRepository interface {
	// List returns a pantry's wishlist, oldest first.
	List(ctx context.Context, pantryID string) ([]model.WishlistItem, error)

	// Get returns one item or ErrNotFound.
	Get(ctx context.Context, pantryID, id string) (*model.WishlistItem, error)

	// Create stores a new item. A zero CreatedAt is set to now.
	Create(ctx context.Context, item *model.WishlistItem) error

	// Update replaces name and quantity of an existing item.
	Update(ctx context.Context, item *model.WishlistItem) error

	// Delete removes an item or returns ErrNotFound.
	Delete(ctx context.Context, pantryID, id string) error
}

// DonationRepository defines donation log data access methods.
type DonationRepository interface {
	// Create appends a note to the log.
	Create(ctx context.Context, note *model.DonationNote) error

	// ListSince returns one page of a pantry's notes created at or after
	// since, newest first, together with the total in that window.
	ListSince(ctx context.Context, pantryID string, since time.Time, offset, limit int) ([]model.DonationNote, int64, error)

	// DeleteOlderThan removes notes created before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// TelemetryRepository defines sensor reading data access methods.
type TelemetryRepository interface {
	// InsertBatch stores readings in one round trip.
	InsertBatch(ctx context.Context, records []model.TelemetryRecord) error

	// History returns the most recent readings of a pantry, oldest first.
	History(ctx context.Context, pantryID string, limit int) ([]model.TelemetryRecord, error)

	// DeleteOlderThan removes readings taken before cutoff.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store bundles the repositories backed by one database.
type Store interface {
	Wishlist() WishlistRepository
	Donations() DonationRepository
	Telemetry() TelemetryRepository

	// Ping checks the database connection.
	Ping(ctx context.Context) error

	// GetStats returns statistics about the database.
	GetStats(ctx context.Context) (map[string]interface{}, error)

	// Close closes the database connection.
	Close() error
}
