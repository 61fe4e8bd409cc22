// Package sec provides a client for the Thailand SEC open API
// (FundFactsheet and FundDailyInfo products). Only the fetchdata tool calls
// it; the dashboard server reads the files fetchdata produces.
package sec

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
)

// Client calls the SEC open API with subscription-key authentication.
type Client struct {
	baseURL      string
	factsheetKey string
	dailyInfoKey string
	httpClient   *http.Client
}

// NewClient creates a SEC API client. factsheetKey authorizes the
// FundFactsheet product, dailyInfoKey the FundDailyInfo product; either may
// be empty, and calls needing a missing key fail with ErrMissingAPIKey.
func NewClient(baseURL, factsheetKey, dailyInfoKey string) *Client {
	return &Client{
		baseURL:      baseURL,
		factsheetKey: factsheetKey,
		dailyInfoKey: dailyInfoKey,
		httpClient:   &http.Client{Timeout: 10 * time.Second},
	}
}

// AMCs lists every registered asset management company.
func (c *Client) AMCs(ctx context.Context) ([]AMC, error) {
	var amcs []AMC
	if err := c.get(ctx, "/FundFactsheet/fund/amc", c.factsheetKey, &amcs); err != nil {
		return nil, err
	}
	return amcs, nil
}

// FundsByAMC lists every fund project registered under an AMC.
func (c *Client) FundsByAMC(ctx context.Context, amcID string) ([]Fund, error) {
	var funds []Fund
	endpoint := fmt.Sprintf("/FundFactsheet/fund/amc/%s", amcID)
	if err := c.get(ctx, endpoint, c.factsheetKey, &funds); err != nil {
		return nil, err
	}
	return funds, nil
}

// FundAsset fetches a fund's asset allocation as an opaque payload.
func (c *Client) FundAsset(ctx context.Context, projID string) (FundAsset, error) {
	var asset json.RawMessage
	endpoint := fmt.Sprintf("/FundFactsheet/fund/%s/asset", projID)
	if err := c.get(ctx, endpoint, c.factsheetKey, &asset); err != nil {
		return nil, err
	}
	return FundAsset(asset), nil
}

// DailyNav fetches one day's NAV for a fund. navDate format: YYYY-MM-DD.
// Returns nil without error when no NAV was published for the date (the SEC
// API answers 204 for non-trading days).
func (c *Client) DailyNav(ctx context.Context, projID, navDate string) (*DailyNav, error) {
	var nav DailyNav
	endpoint := fmt.Sprintf("/FundDailyInfo/%s/dailynav/%s", projID, navDate)
	err := c.get(ctx, endpoint, c.dailyInfoKey, &nav)
	if err != nil {
		return nil, err
	}
	if nav.NavDate == "" {
		return nil, nil
	}
	return &nav, nil
}

func (c *Client) get(ctx context.Context, endpoint, key string, out any) error {
	if key == "" {
		return fmt.Errorf("%w: %s", apperrors.ErrMissingAPIKey, endpoint)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build SEC request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Ocp-Apim-Subscription-Key", key)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("SEC request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("SEC API returned status %d for %s: %s", resp.StatusCode, endpoint, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode SEC response for %s: %w", endpoint, err)
	}
	return nil
}
