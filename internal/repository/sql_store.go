package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// Supported SQL dialects, named after their database/sql drivers.
const (
	DialectSQLite   = "sqlite"
	DialectMySQL    = "mysql"
	DialectPostgres = "postgres"
)

// SQLStore implements Store on top of sqlx. Queries are written with ?
// placeholders and rebound for the active dialect.
type SQLStore struct {
	db      *sqlx.DB
	dialect string

	wishlist  *SQLWishlistRepository
	donations *SQLDonationRepository
	telemetry *SQLTelemetryRepository
}

// OpenSQLite opens (or creates) a SQLite database file in WAL mode.
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create data directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=busy_timeout(5000)", path)
	db, err := sqlx.Open(DialectSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	store, err := NewSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("dialect", DialectSQLite).Str("path", path).Msg("store initialized")
	return store, nil
}

// OpenSQL connects to a MySQL or PostgreSQL server.
func OpenSQL(dialect, dsn string, maxOpenConns int) (*SQLStore, error) {
	if dialect != DialectMySQL && dialect != DialectPostgres {
		return nil, fmt.Errorf("unsupported SQL dialect %q", dialect)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", dialect, err)
	}

	if maxOpenConns <= 0 {
		maxOpenConns = 10
	}
	db.SetMaxOpenConns(maxOpenConns)
	db.SetMaxIdleConns(maxOpenConns / 2)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(1 * time.Minute)

	store, err := NewSQLStore(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	log.Info().Str("dialect", dialect).Int("max_open_conns", maxOpenConns).Msg("store initialized")
	return store, nil
}

// NewSQLStore wraps an open connection and creates missing tables.
func NewSQLStore(db *sqlx.DB) (*SQLStore, error) {
	dialect := db.DriverName()
	for _, stmt := range schema(dialect) {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("failed to create tables: %w", err)
		}
	}

	return &SQLStore{
		db:        db,
		dialect:   dialect,
		wishlist:  &SQLWishlistRepository{db: db},
		donations: &SQLDonationRepository{db: db},
		telemetry: &SQLTelemetryRepository{db: db},
	}, nil
}

// schema returns the DDL for a dialect. MySQL has no CREATE INDEX IF NOT
// EXISTS, so its indexes are declared inline.
func schema(dialect string) []string {
	switch dialect {
	case DialectMySQL:
		return []string{
			`CREATE TABLE IF NOT EXISTS wishlist_items (
				id VARCHAR(64) PRIMARY KEY,
				pantry_id VARCHAR(64) NOT NULL,
				name VARCHAR(255) NOT NULL,
				quantity INT NOT NULL DEFAULT 1,
				created_at BIGINT NOT NULL,
				INDEX idx_wishlist_pantry (pantry_id, created_at)
			)`,
			`CREATE TABLE IF NOT EXISTS donation_notes (
				id VARCHAR(64) PRIMARY KEY,
				pantry_id VARCHAR(64) NOT NULL,
				note TEXT NOT NULL,
				donation_size VARCHAR(64) NOT NULL,
				donation_items TEXT NOT NULL,
				photo_urls TEXT NOT NULL,
				created_at BIGINT NOT NULL,
				INDEX idx_donation_pantry (pantry_id, created_at),
				INDEX idx_donation_created (created_at)
			)`,
			`CREATE TABLE IF NOT EXISTS telemetry_readings (
				id BIGINT AUTO_INCREMENT PRIMARY KEY,
				pantry_id VARCHAR(64) NOT NULL,
				ts BIGINT NOT NULL,
				weight_kg DOUBLE NULL,
				door VARCHAR(32) NOT NULL DEFAULT '',
				INDEX idx_telemetry_pantry (pantry_id, ts),
				INDEX idx_telemetry_ts (ts)
			)`,
		}
	default:
		serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
		if dialect == DialectPostgres {
			serial = "BIGSERIAL PRIMARY KEY"
		}
		return []string{
			`CREATE TABLE IF NOT EXISTS wishlist_items (
				id VARCHAR(64) PRIMARY KEY,
				pantry_id VARCHAR(64) NOT NULL,
				name TEXT NOT NULL,
				quantity INTEGER NOT NULL DEFAULT 1,
				created_at BIGINT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_wishlist_pantry ON wishlist_items(pantry_id, created_at)`,
			`CREATE TABLE IF NOT EXISTS donation_notes (
				id VARCHAR(64) PRIMARY KEY,
				pantry_id VARCHAR(64) NOT NULL,
				note TEXT NOT NULL,
				donation_size VARCHAR(64) NOT NULL,
				donation_items TEXT NOT NULL,
				photo_urls TEXT NOT NULL,
				created_at BIGINT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_donation_pantry ON donation_notes(pantry_id, created_at)`,
			`CREATE INDEX IF NOT EXISTS idx_donation_created ON donation_notes(created_at)`,
			`CREATE TABLE IF NOT EXISTS telemetry_readings (
				id ` + serial + `,
				pantry_id VARCHAR(64) NOT NULL,
				ts BIGINT NOT NULL,
				weight_kg DOUBLE PRECISION NULL,
				door VARCHAR(32) NOT NULL DEFAULT ''
			)`,
			`CREATE INDEX IF NOT EXISTS idx_telemetry_pantry ON telemetry_readings(pantry_id, ts)`,
			`CREATE INDEX IF NOT EXISTS idx_telemetry_ts ON telemetry_readings(ts)`,
		}
	}
}

// Wishlist returns the wishlist repository.
func (s *SQLStore) Wishlist() WishlistRepository { return s.wishlist }

// Donations returns the donation log repository.
func (s *SQLStore) Donations() DonationRepository { return s.donations }

// Telemetry returns the sensor reading repository.
func (s *SQLStore) Telemetry() TelemetryRepository { return s.telemetry }

// Dialect returns the driver name of the connection.
func (s *SQLStore) Dialect() string { return s.dialect }

// Ping checks the database connection.
func (s *SQLStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// GetStats returns row counts and, for SQLite, the database size.
func (s *SQLStore) GetStats(ctx context.Context) (map[string]interface{}, error) {
	stats := map[string]interface{}{"backend": s.dialect}

	for _, table := range []string{"wishlist_items", "donation_notes", "telemetry_readings"} {
		var count int64
		if err := s.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM "+table); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		stats[table] = count
	}

	var lastReading *int64
	if err := s.db.GetContext(ctx, &lastReading, "SELECT MAX(ts) FROM telemetry_readings"); err == nil && lastReading != nil {
		stats["last_reading"] = time.UnixMilli(*lastReading).UTC()
	}

	if s.dialect == DialectSQLite {
		var pageCount, pageSize int64
		if err := s.db.GetContext(ctx, &pageCount, "PRAGMA page_count"); err == nil {
			if err := s.db.GetContext(ctx, &pageSize, "PRAGMA page_size"); err == nil {
				stats["db_size_bytes"] = pageCount * pageSize
			}
		}
	}

	return stats, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func toMillis(t time.Time) int64 {
	return t.UnixMilli()
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}

// Ensure SQLStore implements Store
var _ Store = (*SQLStore)(nil)
