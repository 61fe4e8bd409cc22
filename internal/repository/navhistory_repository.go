package repository

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/rmfwatch/rmf-dashboard/internal/model"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// OpenNavDB opens the NAV history SQLite database and applies any pending
// migrations. The file is owned by the fetchdata tool; the server only reads.
func OpenNavDB(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open nav history database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping nav history database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect("sqlite3"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set migration dialect: %w", err)
	}
	if err := goose.Up(db, "migrations"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate nav history database: %w", err)
	}

	return db, nil
}

// HealthCheck performs a simple health check on the NAV history database.
func HealthCheck(db *sql.DB) error {
	return db.Ping()
}

// NavHistoryRepository provides data access to the per-fund NAV time series.
type NavHistoryRepository struct {
	db *sql.DB
}

// NewNavHistoryRepository creates a new NavHistoryRepository with the
// provided database connection.
func NewNavHistoryRepository(db *sql.DB) *NavHistoryRepository {
	return &NavHistoryRepository{db: db}
}

// GetRecent returns the trailing `days` NAV observations for a symbol in
// chronological order. Returns an empty slice when the symbol has no series.
func (r *NavHistoryRepository) GetRecent(ctx context.Context, symbol string, days int) ([]model.NavEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT nav_date, nav
		FROM nav_history
		WHERE symbol = ?
		ORDER BY nav_date DESC
		LIMIT ?`, symbol, days)
	if err != nil {
		return nil, fmt.Errorf("failed to query nav history for %s: %w", symbol, err)
	}
	defer rows.Close()

	var entries []model.NavEntry
	for rows.Next() {
		var dateStr string
		var nav float64
		if err := rows.Scan(&dateStr, &nav); err != nil {
			return nil, fmt.Errorf("failed to scan nav history row: %w", err)
		}
		date, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			continue
		}
		entries = append(entries, model.NavEntry{Date: date, NAV: nav})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read nav history rows: %w", err)
	}

	// Query order is newest-first for the LIMIT; callers expect oldest-first.
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	return entries, nil
}

// UpsertEntry inserts or replaces one NAV observation. Used by the fetchdata
// tool when building the history database.
func (r *NavHistoryRepository) UpsertEntry(ctx context.Context, symbol string, date time.Time, nav float64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO nav_history (symbol, nav_date, nav)
		VALUES (?, ?, ?)
		ON CONFLICT (symbol, nav_date) DO UPDATE SET nav = excluded.nav`,
		symbol, date.Format("2006-01-02"), nav)
	if err != nil {
		return fmt.Errorf("failed to upsert nav history for %s: %w", symbol, err)
	}
	return nil
}
