package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"testing"
)

// SnapshotHeader is the column contract of the fund snapshot CSV, kept in
// sync with the repository's parser.
var SnapshotHeader = []string{
	"symbol", "name", "amc", "category", "management_style", "dividend_policy",
	"risk_level", "nav", "prior_nav", "nav_date", "buy_price", "sell_price",
	"ret_ytd", "ret_3m", "ret_6m", "ret_1y", "ret_3y", "ret_5y", "ret_10y",
	"ret_inception", "benchmark", "benchmark_returns", "asset_allocation",
	"fees", "parties", "holdings", "risk_factors", "suitability", "documents",
	"minimums",
}

// FundRowBuilder provides a fluent interface for creating snapshot CSV rows.
//
// Example usage:
//
//	row := testutil.NewFundRow("TESTRMF").
//	    WithAMC("SCB Asset Management").
//	    WithRiskLevel(6).
//	    WithYTD(12.5).
//	    Build()
type FundRowBuilder struct {
	Symbol          string
	Name            string
	AMC             string
	Category        string
	ManagementStyle string
	DividendPolicy  string
	RiskLevel       int
	NAV             string
	PriorNAV        string
	NAVDate         string
	BuyPrice        string
	SellPrice       string
	Returns         map[string]string // column name -> formatted value
	Benchmark       string
	Blobs           map[string]string // column name -> raw blob text
}

// NewFundRow creates a FundRowBuilder with sensible defaults.
func NewFundRow(symbol string) *FundRowBuilder {
	return &FundRowBuilder{
		Symbol:          symbol,
		Name:            symbol + " Retirement Fund",
		AMC:             "Test Asset Management",
		Category:        "EQ",
		ManagementStyle: "Active",
		DividendPolicy:  "None",
		RiskLevel:       6,
		NAV:             "10.0000",
		PriorNAV:        "9.9000",
		NAVDate:         "2024-06-28",
		Returns:         map[string]string{},
		Blobs:           map[string]string{},
	}
}

// WithName sets a custom display name.
func (b *FundRowBuilder) WithName(name string) *FundRowBuilder {
	b.Name = name
	return b
}

// WithAMC sets the managing company.
func (b *FundRowBuilder) WithAMC(amc string) *FundRowBuilder {
	b.AMC = amc
	return b
}

// WithCategory sets the classification code.
func (b *FundRowBuilder) WithCategory(code string) *FundRowBuilder {
	b.Category = code
	return b
}

// WithRiskLevel sets the risk level.
func (b *FundRowBuilder) WithRiskLevel(level int) *FundRowBuilder {
	b.RiskLevel = level
	return b
}

// WithNAV sets the current and prior NAV values.
func (b *FundRowBuilder) WithNAV(nav, prior float64) *FundRowBuilder {
	b.NAV = formatFloat(nav)
	b.PriorNAV = formatFloat(prior)
	return b
}

// WithoutPriorNAV blanks the prior NAV column, so no day change derives.
func (b *FundRowBuilder) WithoutPriorNAV() *FundRowBuilder {
	b.PriorNAV = ""
	return b
}

// WithYTD sets the year-to-date return.
func (b *FundRowBuilder) WithYTD(value float64) *FundRowBuilder {
	b.Returns["ret_ytd"] = formatFloat(value)
	return b
}

// WithReturn sets the return for one horizon column (e.g. "ret_1y").
func (b *FundRowBuilder) WithReturn(column string, value float64) *FundRowBuilder {
	b.Returns[column] = formatFloat(value)
	return b
}

// WithBlob sets one opaque factsheet column (e.g. "holdings").
func (b *FundRowBuilder) WithBlob(column, raw string) *FundRowBuilder {
	b.Blobs[column] = raw
	return b
}

// Build produces the CSV row in contract column order.
func (b *FundRowBuilder) Build() []string {
	row := make([]string, len(SnapshotHeader))
	values := map[string]string{
		"symbol":           b.Symbol,
		"name":             b.Name,
		"amc":              b.AMC,
		"category":         b.Category,
		"management_style": b.ManagementStyle,
		"dividend_policy":  b.DividendPolicy,
		"risk_level":       strconv.Itoa(b.RiskLevel),
		"nav":              b.NAV,
		"prior_nav":        b.PriorNAV,
		"nav_date":         b.NAVDate,
		"buy_price":        b.BuyPrice,
		"sell_price":       b.SellPrice,
		"benchmark":        b.Benchmark,
	}
	for col, v := range b.Returns {
		values[col] = v
	}
	for col, v := range b.Blobs {
		values[col] = v
	}
	for i, col := range SnapshotHeader {
		row[i] = values[col]
	}
	return row
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// WriteSnapshot writes a snapshot CSV with the standard header into a temp
// directory and returns its path. Raw rows are written as-is, so tests can
// inject malformed rows.
func WriteSnapshot(t *testing.T, rows ...[]string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "rmf_funds.csv")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create snapshot file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SnapshotHeader); err != nil {
		t.Fatalf("Failed to write snapshot header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("Failed to write snapshot row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("Failed to flush snapshot file: %v", err)
	}

	return path
}

// OverwriteSnapshot rewrites an existing snapshot file with new rows,
// keeping the same path. Used by refresh tests.
func OverwriteSnapshot(t *testing.T, path string, rows ...[]string) {
	t.Helper()

	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to rewrite snapshot file: %v", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(SnapshotHeader); err != nil {
		t.Fatalf("Failed to write snapshot header: %v", err)
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			t.Fatalf("Failed to write snapshot row: %v", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		t.Fatalf("Failed to flush snapshot file: %v", err)
	}
}
