package yahoo

import "time"

// Response mirrors the Yahoo Finance v8 chart API payload.
type Response struct {
	Chart Chart `json:"chart"`
}

// Chart holds the result set or the API-level error of a chart query.
type Chart struct {
	Result []Result  `json:"result"`
	Error  *ChartErr `json:"error"`
}

// ChartErr is the error object Yahoo embeds in an otherwise 200 response.
type ChartErr struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Result is one symbol's chart data.
type Result struct {
	Meta       Meta       `json:"meta"`
	Timestamp  []int64    `json:"timestamp"`
	Indicators Indicators `json:"indicators"`
}

// Meta describes the quoted instrument.
type Meta struct {
	Currency           string  `json:"currency"`
	Symbol             string  `json:"symbol"`
	ExchangeName       string  `json:"exchangeName"`
	ShortName          string  `json:"shortName"`
	LongName           string  `json:"longName"`
	RegularMarketPrice float64 `json:"regularMarketPrice"`
	ChartPreviousClose float64 `json:"chartPreviousClose"`
}

// Indicators holds the per-timestamp quote arrays.
type Indicators struct {
	Quote []QuoteBlock `json:"quote"`
}

// QuoteBlock uses pointer elements because Yahoo reports null for
// timestamps without a trade (holidays, halted sessions).
type QuoteBlock struct {
	Open   []*float64 `json:"open"`
	Close  []*float64 `json:"close"`
	High   []*float64 `json:"high"`
	Low    []*float64 `json:"low"`
	Volume []*int64   `json:"volume"`
}

// PricePoint is one decoded observation of a chart.
type PricePoint struct {
	Date  time.Time
	Close float64
}

// PriceChart is the structured result of a chart query.
type PriceChart struct {
	Symbol    string
	Currency  string
	ShortName string
	LongName  string
	Points    []PricePoint
}

// LastTwoCloses returns the previous and latest close of the chart along
// with the latest observation time. ok is false when the chart holds fewer
// than two usable closes.
func (c PriceChart) LastTwoCloses() (prev, last float64, asOf time.Time, ok bool) {
	if len(c.Points) < 2 {
		return 0, 0, time.Time{}, false
	}
	latest := c.Points[len(c.Points)-1]
	return c.Points[len(c.Points)-2].Close, latest.Close, latest.Date, true
}
