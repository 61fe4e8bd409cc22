// Package yahoo provides a minimal client for the Yahoo Finance chart API,
// used for the dashboard's commodity and forex ticker.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client is the interface consumed by the market service, satisfied by
// FinanceClient and by test mocks.
type Client interface {
	FiveDayChart(ctx context.Context, symbol string) (PriceChart, error)
}

// FinanceClient fetches chart data from the public Yahoo Finance endpoints.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewFinanceClient creates a Yahoo Finance client with a bounded request
// timeout so a slow upstream can never stall the quote path.
func NewFinanceClient() *FinanceClient {
	return NewFinanceClientWithBaseURL("https://query1.finance.yahoo.com")
}

// NewFinanceClientWithBaseURL creates a client against a custom endpoint.
func NewFinanceClientWithBaseURL(baseURL string) *FinanceClient {
	return &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    baseURL,
	}
}

// FiveDayChart fetches the last five daily candles for a symbol and decodes
// them into a PriceChart. Five days is enough to derive the latest close and
// its day-over-day change across weekends and Thai holidays.
func (c *FinanceClient) FiveDayChart(ctx context.Context, symbol string) (PriceChart, error) {
	url := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, symbol)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PriceChart{}, fmt.Errorf("failed to build yahoo request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PriceChart{}, fmt.Errorf("yahoo request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return PriceChart{}, fmt.Errorf("yahoo returned status %d: %s", resp.StatusCode, body)
	}

	var result Response
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return PriceChart{}, fmt.Errorf("failed to decode yahoo response: %w", err)
	}

	return ParseChart(result)
}

// ParseChart converts a raw chart response into a PriceChart, skipping
// timestamps with null closes and validating array lengths.
func ParseChart(response Response) (PriceChart, error) {
	if response.Chart.Error != nil {
		return PriceChart{}, fmt.Errorf("yahoo error %s: %s",
			response.Chart.Error.Code, response.Chart.Error.Description)
	}
	if len(response.Chart.Result) == 0 {
		return PriceChart{}, fmt.Errorf("no chart result returned")
	}

	result := response.Chart.Result[0]
	if len(result.Timestamp) == 0 {
		return PriceChart{}, fmt.Errorf("no price data returned")
	}
	if len(result.Indicators.Quote) == 0 {
		return PriceChart{}, fmt.Errorf("no quote data returned")
	}

	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return PriceChart{}, fmt.Errorf("mismatched data lengths")
	}

	points := make([]PricePoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if closes[i] == nil {
			continue
		}
		points = append(points, PricePoint{
			Date:  time.Unix(ts, 0).UTC(),
			Close: *closes[i],
		})
	}
	if len(points) == 0 {
		return PriceChart{}, fmt.Errorf("no usable closes returned")
	}

	return PriceChart{
		Symbol:    result.Meta.Symbol,
		Currency:  result.Meta.Currency,
		ShortName: result.Meta.ShortName,
		LongName:  result.Meta.LongName,
		Points:    points,
	}, nil
}
