package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"micropantry-api/internal/model"
)

// SQLWishlistRepository implements WishlistRepository using sqlx.
type SQLWishlistRepository struct {
	db *sqlx.DB
}

type wishlistRow struct {
	ID        string `db:"id"`
	PantryID  string `db:"pantry_id"`
	Name      string `db:"name"`
	Quantity  int    `db:"quantity"`
	CreatedAt int64  `db:"created_at"`
}

func (r wishlistRow) item() model.WishlistItem {
	return model.WishlistItem{
		ID:        r.ID,
		PantryID:  r.PantryID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		CreatedAt: fromMillis(r.CreatedAt),
	}
}

// List returns a pantry's wishlist, oldest first.
func (r *SQLWishlistRepository) List(ctx context.Context, pantryID string) ([]model.WishlistItem, error) {
	query := r.db.Rebind(`
		SELECT id, pantry_id, name, quantity, created_at
		FROM wishlist_items
		WHERE pantry_id = ?
		ORDER BY created_at ASC, id ASC`)

	var rows []wishlistRow
	if err := r.db.SelectContext(ctx, &rows, query, pantryID); err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}

	items := make([]model.WishlistItem, len(rows))
	for i, row := range rows {
		items[i] = row.item()
	}
	return items, nil
}

// Get returns one item or ErrNotFound.
func (r *SQLWishlistRepository) Get(ctx context.Context, pantryID, id string) (*model.WishlistItem, error) {
	query := r.db.Rebind(`
		SELECT id, pantry_id, name, quantity, created_at
		FROM wishlist_items
		WHERE pantry_id = ? AND id = ?`)

	var row wishlistRow
	if err := r.db.GetContext(ctx, &row, query, pantryID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get wishlist item: %w", err)
	}
	item := row.item()
	return &item, nil
}

// Create stores a new item. A zero CreatedAt is set to now.
func (r *SQLWishlistRepository) Create(ctx context.Context, item *model.WishlistItem) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.CreatedAt = fromMillis(toMillis(item.CreatedAt))

	query := r.db.Rebind(`
		INSERT INTO wishlist_items (id, pantry_id, name, quantity, created_at)
		VALUES (?, ?, ?, ?, ?)`)

	_, err := r.db.ExecContext(ctx, query, item.ID, item.PantryID, item.Name, item.Quantity, toMillis(item.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return nil
}

// Update replaces name and quantity of an existing item.
func (r *SQLWishlistRepository) Update(ctx context.Context, item *model.WishlistItem) error {
	query := r.db.Rebind(`
		UPDATE wishlist_items SET name = ?, quantity = ?
		WHERE pantry_id = ? AND id = ?`)

	result, err := r.db.ExecContext(ctx, query, item.Name, item.Quantity, item.PantryID, item.ID)
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}
	return expectAffected(result)
}

// Delete removes an item or returns ErrNotFound.
func (r *SQLWishlistRepository) Delete(ctx context.Context, pantryID, id string) error {
	query := r.db.Rebind(`DELETE FROM wishlist_items WHERE pantry_id = ? AND id = ?`)

	result, err := r.db.ExecContext(ctx, query, pantryID, id)
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item: %w", err)
	}
	return expectAffected(result)
}

// expectAffected maps a statement that touched no row to ErrNotFound.
func expectAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Ensure SQLWishlistRepository implements WishlistRepository
var _ WishlistRepository = (*SQLWishlistRepository)(nil)
