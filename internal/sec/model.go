package sec

import "encoding/json"

// AMC is one asset management company as returned by the FundFactsheet API.
type AMC struct {
	UniqueID string `json:"unique_id"`
	NameEN   string `json:"name_en"`
	NameTH   string `json:"name_th"`
}

// Fund is one fund project under an AMC.
type Fund struct {
	ProjID       string `json:"proj_id"`
	ProjAbbrName string `json:"proj_abbr_name"`
	ProjNameEN   string `json:"proj_name_en"`
	ProjNameTH   string `json:"proj_name_th"`
	FundStatus   string `json:"fund_status"`
}

// DailyNav is one day's NAV publication for a fund.
type DailyNav struct {
	NavDate     string  `json:"nav_date"`
	LastVal     float64 `json:"last_val"`
	PreviousVal float64 `json:"previous_val"`
	SellPrice   float64 `json:"sell_price"`
	BuyPrice    float64 `json:"buy_price"`
}

// FundAsset is a fund's asset allocation, kept opaque: the dashboard passes
// it through to clients without interpreting it.
type FundAsset = json.RawMessage
