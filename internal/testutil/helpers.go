package testutil

import (
	"database/sql"
	"testing"

	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// NewTestFundService creates a FundService over the given snapshot file and
// performs the initial load, failing the test on any load error.
func NewTestFundService(t *testing.T, snapshotPath string) *service.FundService {
	t.Helper()

	fs := service.NewFundService(repository.NewSnapshotRepository(snapshotPath))
	if _, err := fs.Load(); err != nil {
		t.Fatalf("Failed to load test snapshot: %v", err)
	}
	return fs
}

// NewTestNavService creates a NavService over the given NAV database and
// fund service.
func NewTestNavService(t *testing.T, db *sql.DB, funds *service.FundService) *service.NavService {
	t.Helper()
	return service.NewNavService(repository.NewNavHistoryRepository(db), funds)
}

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 {
	return &f
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
