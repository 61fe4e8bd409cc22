package model

import "time"

// NavEntry is one raw observation of a fund's NAV time series as stored in
// the history database.
type NavEntry struct {
	Date time.Time
	NAV  float64
}

// NavHistoryPoint is one derived point of a NAV history window. Change and
// ChangePercent are nil on the first point of the window.
type NavHistoryPoint struct {
	Date          time.Time `json:"date"`
	NAV           float64   `json:"nav"`
	Change        *float64  `json:"change"`
	ChangePercent *float64  `json:"changePercent"`
}

// PeriodStats summarizes a NAV history window. Volatility is the population
// standard deviation of the daily percent changes and is nil when the window
// holds fewer than two return observations.
type PeriodStats struct {
	StartDate     time.Time `json:"startDate"`
	EndDate       time.Time `json:"endDate"`
	StartNAV      float64   `json:"startNav"`
	EndNAV        float64   `json:"endNav"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	Volatility    *float64  `json:"volatility"`
	MinNAV        float64   `json:"minNav"`
	MaxNAV        float64   `json:"maxNav"`
	MeanNAV       float64   `json:"meanNav"`
}

// NavHistory is the derived NAV series of one fund over a trailing window.
type NavHistory struct {
	Symbol string            `json:"symbol"`
	Days   int               `json:"days"`
	Points []NavHistoryPoint `json:"points"`
	Stats  PeriodStats       `json:"stats"`
}
