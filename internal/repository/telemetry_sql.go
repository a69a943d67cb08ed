package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"micropantry-api/internal/model"
)

// DefaultHistoryLimit bounds History when the caller passes no limit.
const DefaultHistoryLimit = 500

// SQLTelemetryRepository implements TelemetryRepository using sqlx.
type SQLTelemetryRepository struct {
	db *sqlx.DB
}

type telemetryRow struct {
	PantryID string          `db:"pantry_id"`
	TS       int64           `db:"ts"`
	WeightKg sql.NullFloat64 `db:"weight_kg"`
	Door     string          `db:"door"`
}

// InsertBatch stores readings in a single transaction.
func (r *SQLTelemetryRepository) InsertBatch(ctx context.Context, records []model.TelemetryRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, tx.Rebind(`
		INSERT INTO telemetry_readings (pantry_id, ts, weight_kg, door)
		VALUES (?, ?, ?, ?)`))
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		weight := sql.NullFloat64{}
		if rec.WeightKg != nil {
			weight = sql.NullFloat64{Float64: *rec.WeightKg, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx, rec.PantryID, toMillis(rec.TS), weight, rec.Door); err != nil {
			return fmt.Errorf("failed to insert reading for %s: %w", rec.PantryID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// History returns the most recent readings of a pantry, oldest first.
func (r *SQLTelemetryRepository) History(ctx context.Context, pantryID string, limit int) ([]model.TelemetryRecord, error) {
	if limit <= 0 {
		limit = DefaultHistoryLimit
	}

	query := r.db.Rebind(`
		SELECT pantry_id, ts, weight_kg, door
		FROM telemetry_readings
		WHERE pantry_id = ?
		ORDER BY ts DESC, id DESC
		LIMIT ?`)

	var rows []telemetryRow
	if err := r.db.SelectContext(ctx, &rows, query, pantryID, limit); err != nil {
		return nil, fmt.Errorf("failed to load telemetry history: %w", err)
	}

	records := make([]model.TelemetryRecord, len(rows))
	for i, row := range rows {
		rec := model.TelemetryRecord{
			PantryID: row.PantryID,
			TS:       fromMillis(row.TS),
			Door:     row.Door,
		}
		if row.WeightKg.Valid {
			w := row.WeightKg.Float64
			rec.WeightKg = &w
		}
		records[len(rows)-1-i] = rec
	}
	return records, nil
}

// DeleteOlderThan removes readings taken before cutoff.
func (r *SQLTelemetryRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	query := r.db.Rebind(`DELETE FROM telemetry_readings WHERE ts < ?`)
	result, err := r.db.ExecContext(ctx, query, toMillis(cutoff))
	if err != nil {
		return 0, fmt.Errorf("failed to delete telemetry readings: %w", err)
	}
	return result.RowsAffected()
}

// Ensure SQLTelemetryRepository implements TelemetryRepository
var _ TelemetryRepository = (*SQLTelemetryRepository)(nil)
