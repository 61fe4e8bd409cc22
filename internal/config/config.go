package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	Data    DataConfig
	SEC     SECConfig
	Market  MarketConfig
	Refresh RefreshConfig
	CORS    CORSConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DataConfig holds the paths of the externally-generated data files the
// service reads: the fund snapshot CSV and the NAV history SQLite database.
type DataConfig struct {
	SnapshotPath   string
	NavHistoryPath string
}

// SECConfig holds credentials for the Thailand SEC open API.
// The keys are only required by the fetchdata tool; the server never calls SEC.
type SECConfig struct {
	BaseURL      string
	FactsheetKey string
	DailyInfoKey string
}

// MarketConfig lists the Yahoo Finance symbols shown on the dashboard ticker.
type MarketConfig struct {
	Symbols []string
}

// RefreshConfig holds the cron schedule for the automatic snapshot reload.
type RefreshConfig struct {
	Schedule string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3001"),
			Host: getEnv("SERVER_HOST", "localhost"),
		},
		Data: DataConfig{
			SnapshotPath:   getEnv("SNAPSHOT_PATH", "./data/rmf_funds.csv"),
			NavHistoryPath: getEnv("NAV_HISTORY_PATH", "./data/nav_history.db"),
		},
		SEC: SECConfig{
			BaseURL:      getEnv("SEC_API_URL", "https://api.sec.or.th"),
			FactsheetKey: getEnv("SEC_FUND_FACTSHEET_KEY", ""),
			DailyInfoKey: getEnv("SEC_FUND_DAILY_INFO_KEY", ""),
		},
		Market: MarketConfig{
			Symbols: splitList(getEnv("MARKET_SYMBOLS", "GC=F,CL=F,THB=X")),
		},
		Refresh: RefreshConfig{
			// Daily, after Thai AMCs publish end-of-day NAVs.
			Schedule: getEnv("REFRESH_SCHEDULE", "0 20 * * *"),
		},
		CORS: CORSConfig{
			AllowedOrigins: []string{
				"http://localhost:3000",
				"http://localhost",
			},
		},
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// splitList splits a comma-separated environment value, dropping empty entries.
func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
