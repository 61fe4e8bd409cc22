package model

import (
	"encoding/json"
	"time"
)

// Horizon identifies a fixed return-measurement period.
type Horizon string

// Return horizons reported on Thai fund factsheets.
const (
	HorizonYTD       Horizon = "ytd"
	Horizon3M        Horizon = "3m"
	Horizon6M        Horizon = "6m"
	Horizon1Y        Horizon = "1y"
	Horizon3Y        Horizon = "3y"
	Horizon5Y        Horizon = "5y"
	Horizon10Y       Horizon = "10y"
	HorizonInception Horizon = "inception"
)

// RankedHorizons lists the horizons for which the store pre-computes
// descending performance rankings at load time.
var RankedHorizons = []Horizon{HorizonYTD, Horizon1Y, Horizon3Y, Horizon5Y}

// Returns holds the historical return percentages of a fund per horizon.
// A nil field means the factsheet did not report a value for that horizon
// (e.g. a fund younger than the horizon).
type Returns struct {
	YTD       *float64 `json:"ytd"`
	M3        *float64 `json:"3m"`
	M6        *float64 `json:"6m"`
	Y1        *float64 `json:"1y"`
	Y3        *float64 `json:"3y"`
	Y5        *float64 `json:"5y"`
	Y10       *float64 `json:"10y"`
	Inception *float64 `json:"inception"`
}

// ByHorizon returns the return value for the given horizon, or nil when the
// horizon is unknown or unreported.
func (r Returns) ByHorizon(h Horizon) *float64 {
	switch h {
	case HorizonYTD:
		return r.YTD
	case Horizon3M:
		return r.M3
	case Horizon6M:
		return r.M6
	case Horizon1Y:
		return r.Y1
	case Horizon3Y:
		return r.Y3
	case Horizon5Y:
		return r.Y5
	case Horizon10Y:
		return r.Y10
	case HorizonInception:
		return r.Inception
	}
	return nil
}

// FundRecord is one RMF fund as loaded from the snapshot. Records are
// immutable once stored; a refresh replaces the whole store.
//
// The json.RawMessage fields are opaque factsheet blobs carried verbatim from
// the snapshot to API responses. The query engine never inspects them.
type FundRecord struct {
	Symbol          string `json:"symbol"`
	Name            string `json:"name"`
	AMC             string `json:"amc"`
	Category        string `json:"category"`
	ManagementStyle string `json:"managementStyle,omitempty"`
	DividendPolicy  string `json:"dividendPolicy,omitempty"`
	RiskLevel       int    `json:"riskLevel"`

	NAV              float64   `json:"nav"`
	NAVDate          time.Time `json:"navDate"`
	NAVChange        *float64  `json:"navChange"`
	NAVChangePercent *float64  `json:"navChangePercent"`
	BuyPrice         *float64  `json:"buyPrice,omitempty"`
	SellPrice        *float64  `json:"sellPrice,omitempty"`

	Returns          Returns         `json:"returns"`
	Benchmark        string          `json:"benchmark,omitempty"`
	BenchmarkReturns json.RawMessage `json:"benchmarkReturns,omitempty"`

	AssetAllocation json.RawMessage `json:"assetAllocation,omitempty"`
	Fees            json.RawMessage `json:"fees,omitempty"`
	Parties         json.RawMessage `json:"parties,omitempty"`
	Holdings        json.RawMessage `json:"holdings,omitempty"`
	RiskFactors     json.RawMessage `json:"riskFactors,omitempty"`
	Suitability     json.RawMessage `json:"suitability,omitempty"`
	Documents       json.RawMessage `json:"documents,omitempty"`
	Minimums        json.RawMessage `json:"minimums,omitempty"`
}

// LoadResult summarizes one successful snapshot load.
type LoadResult struct {
	Generation  string    `json:"generation"`
	RecordCount int       `json:"recordCount"`
	AMCs        int       `json:"amcs"`
	Categories  int       `json:"categories"`
	RiskLevels  int       `json:"riskLevels"`
	LoadedAt    time.Time `json:"loadedAt"`
}

// AMCListing is one asset management company with its fund count.
type AMCListing struct {
	Name      string `json:"name"`
	FundCount int    `json:"fundCount"`
}

// SearchResult is one page of a fund search.
type SearchResult struct {
	Funds      []*FundRecord `json:"funds"`
	TotalCount int           `json:"totalCount"`
	Page       int           `json:"page"`
	PageSize   int           `json:"pageSize"`
	TotalPages int           `json:"totalPages"`
}
