package service

import (
	"database/sql"

	"github.com/rmfwatch/rmf-dashboard/internal/repository"
	"github.com/rmfwatch/rmf-dashboard/internal/version"
)

// SystemService handles system-related operations
type SystemService struct {
	navDB *sql.DB
	funds *FundService
}

// NewSystemService creates a new SystemService
func NewSystemService(navDB *sql.DB, funds *FundService) *SystemService {
	return &SystemService{
		navDB: navDB,
		funds: funds,
	}
}

// CheckHealth verifies the NAV history database connection.
func (s *SystemService) CheckHealth() error {
	return repository.HealthCheck(s.navDB)
}

// StoreStatus reports the fund store lifecycle state.
func (s *SystemService) StoreStatus() StoreStatus {
	return s.funds.Status()
}

// AppVersion returns the build version.
func (s *SystemService) AppVersion() string {
	return version.Version
}
