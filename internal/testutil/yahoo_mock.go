package testutil

import (
	"context"
	"time"

	"github.com/rmfwatch/rmf-dashboard/internal/yahoo"
)

// MockYahooClient is a mock implementation of yahoo.Client for testing.
// It returns predefined chart data instead of making actual API calls.
type MockYahooClient struct {
	// MockChart is the chart to return from FiveDayChart
	MockChart yahoo.PriceChart
	// MockError is the error to return from FiveDayChart
	MockError error
	// QueryCount tracks how many times FiveDayChart was called
	QueryCount int
}

// NewMockYahooClient creates a mock with five days of gold-future closes.
func NewMockYahooClient() *MockYahooClient {
	return &MockYahooClient{
		MockChart: MockPriceChart("GC=F", 5),
	}
}

// FiveDayChart returns the configured chart and error.
func (m *MockYahooClient) FiveDayChart(_ context.Context, _ string) (yahoo.PriceChart, error) {
	m.QueryCount++
	if m.MockError != nil {
		return yahoo.PriceChart{}, m.MockError
	}
	return m.MockChart, nil
}

// MockPriceChart builds a chart with `days` consecutive daily closes
// climbing from 2000.
func MockPriceChart(symbol string, days int) yahoo.PriceChart {
	start := time.Date(2024, 6, 24, 0, 0, 0, 0, time.UTC)
	points := make([]yahoo.PricePoint, days)
	for i := range points {
		points[i] = yahoo.PricePoint{
			Date:  start.AddDate(0, 0, i),
			Close: 2000 + float64(i)*10,
		}
	}
	return yahoo.PriceChart{
		Symbol:    symbol,
		Currency:  "USD",
		ShortName: "Gold",
		Points:    points,
	}
}
