package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/testutil"
)

func TestNavHistoryRepository_GetRecent(t *testing.T) {
	start := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	t.Run("returns the trailing window oldest first", func(t *testing.T) {
		db := testutil.SetupNavDB(t)
		testutil.SeedNavHistory(t, db, "AAARMF", start, []float64{10, 11, 12, 13, 14})
		repo := repository.NewNavHistoryRepository(db)

		entries, err := repo.GetRecent(context.Background(), "AAARMF", 3)
		if err != nil {
			t.Fatalf("GetRecent failed: %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("Expected 3 entries, got %d", len(entries))
		}
		if entries[0].NAV != 12 || entries[2].NAV != 14 {
			t.Errorf("Expected NAVs 12..14 in order, got %f..%f", entries[0].NAV, entries[2].NAV)
		}
		if !entries[0].Date.Before(entries[1].Date) {
			t.Error("Entries not in chronological order")
		}
	})

	t.Run("unknown symbol yields an empty series", func(t *testing.T) {
		db := testutil.SetupNavDB(t)
		repo := repository.NewNavHistoryRepository(db)

		entries, err := repo.GetRecent(context.Background(), "NOPE", 7)
		if err != nil {
			t.Fatalf("GetRecent failed: %v", err)
		}
		if len(entries) != 0 {
			t.Errorf("Expected no entries, got %d", len(entries))
		}
	})
}

func TestNavHistoryRepository_UpsertEntry(t *testing.T) {
	db := testutil.SetupNavDB(t)
	repo := repository.NewNavHistoryRepository(db)
	date := time.Date(2024, 6, 28, 0, 0, 0, 0, time.UTC)

	if err := repo.UpsertEntry(context.Background(), "AAARMF", date, 10.5); err != nil {
		t.Fatalf("UpsertEntry failed: %v", err)
	}
	// Same key again corrects the value instead of duplicating the row.
	if err := repo.UpsertEntry(context.Background(), "AAARMF", date, 10.75); err != nil {
		t.Fatalf("UpsertEntry failed on conflict: %v", err)
	}

	entries, err := repo.GetRecent(context.Background(), "AAARMF", 7)
	if err != nil {
		t.Fatalf("GetRecent failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry after upsert, got %d", len(entries))
	}
	if entries[0].NAV != 10.75 {
		t.Errorf("Expected the corrected NAV 10.75, got %f", entries[0].NAV)
	}
}
