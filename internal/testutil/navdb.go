package testutil

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite" // Test Package
)

// SetupNavDB creates an in-memory NAV history database for testing.
// The schema mirrors the repository migrations; the connection is cleaned up
// when the test completes.
func SetupNavDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}

	schema := `
		CREATE TABLE IF NOT EXISTS nav_history (
			symbol   TEXT NOT NULL,
			nav_date TEXT NOT NULL,
			nav      REAL NOT NULL,
			PRIMARY KEY (symbol, nav_date)
		);
		CREATE INDEX IF NOT EXISTS idx_nav_history_symbol ON nav_history (symbol);
	`
	if _, err := db.Exec(schema); err != nil {
		t.Fatalf("Failed to create test schema: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// SeedNavHistory inserts one NAV observation per consecutive day starting at
// start, one per element of navs.
func SeedNavHistory(t *testing.T, db *sql.DB, symbol string, start time.Time, navs []float64) {
	t.Helper()

	for i, nav := range navs {
		date := start.AddDate(0, 0, i).Format("2006-01-02")
		_, err := db.ExecContext(context.Background(),
			"INSERT INTO nav_history (symbol, nav_date, nav) VALUES (?, ?, ?)",
			symbol, date, nav)
		if err != nil {
			t.Fatalf("Failed to seed nav history: %v", err)
		}
	}
}
