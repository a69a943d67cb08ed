package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"micropantry-api/internal/model"
)

// SQLDonationRepository implements DonationRepository using sqlx.
// List columns are stored as JSON text.
type SQLDonationRepository struct {
	db *sqlx.DB
}

type donationRow struct {
	ID            string `db:"id"`
	PantryID      string `db:"pantry_id"`
	Note          string `db:"note"`
	DonationSize  string `db:"donation_size"`
	DonationItems string `db:"donation_items"`
	PhotoURLs     string `db:"photo_urls"`
	CreatedAt     int64  `db:"created_at"`
}

func (r donationRow) note() model.DonationNote {
	n := model.DonationNote{
		ID:           r.ID,
		PantryID:     r.PantryID,
		Note:         r.Note,
		DonationSize: r.DonationSize,
		CreatedAt:    fromMillis(r.CreatedAt),
	}
	// A corrupt list column degrades to an empty list.
	_ = json.Unmarshal([]byte(r.DonationItems), &n.DonationItems)
	_ = json.Unmarshal([]byte(r.PhotoURLs), &n.PhotoURLs)
	return n
}

// Create appends a note to the log.
func (r *SQLDonationRepository) Create(ctx context.Context, note *model.DonationNote) error {
	if note.CreatedAt.IsZero() {
		note.CreatedAt = time.Now()
	}
	note.CreatedAt = fromMillis(toMillis(note.CreatedAt))

	items, err := encodeList(note.DonationItems)
	if err != nil {
		return err
	}
	photos, err := encodeList(note.PhotoURLs)
	if err != nil {
		return err
	}

	query := r.db.Rebind(`
		INSERT INTO donation_notes (id, pantry_id, note, donation_size, donation_items, photo_urls, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)

	_, err = r.db.ExecContext(ctx, query,
		note.ID, note.PantryID, note.Note, note.DonationSize, items, photos, toMillis(note.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to create donation note: %w", err)
	}
	return nil
}

// ListSince returns one page of a pantry's notes in the window, newest first.
func (r *SQLDonationRepository) ListSince(ctx context.Context, pantryID string, since time.Time, offset, limit int) ([]model.DonationNote, int64, error) {
	var total int64
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM donation_notes WHERE pantry_id = ? AND created_at >= ?`)
	if err := r.db.GetContext(ctx, &total, countQuery, pantryID, toMillis(since)); err != nil {
		return nil, 0, fmt.Errorf("failed to count donation notes: %w", err)
	}

	query := r.db.Rebind(`
		SELECT id, pantry_id, note, donation_size, donation_items, photo_urls, created_at
		FROM donation_notes
		WHERE pantry_id = ? AND created_at >= ?
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?`)

	var rows []donationRow
	if err := r.db.SelectContext(ctx, &rows, query, pantryID, toMillis(since), limit, offset); err != nil {
		return nil, 0, fmt.Errorf("failed to list donation notes: %w", err)
	}

	notes := make([]model.DonationNote, len(rows))
	for i, row := range rows {
		notes[i] = row.note()
	}
	return notes, total, nil
}

// DeleteOlderThan removes notes created before cutoff.
func (r *SQLDonationRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM donation_notes WHERE created_at < ?`)
	result, err := r.db.ExecContext(ctx, query, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete donation notes: %w", err)
	}
	return result.RowsAffected()
}

func encodeList(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode list: %w", err)
	}
	return string(b), nil
}

// Ensure SQLDonationRepository implements DonationRepository
var _ DonationRepository = (*SQLDonationRepository)(nil)
