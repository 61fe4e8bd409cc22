package model

import "time"

// Quote is one commodity or forex quote shown on the dashboard ticker.
// Stale marks a quote served from the last-good cache after a live fetch
// failed.
type Quote struct {
	Symbol        string    `json:"symbol"`
	Name          string    `json:"name"`
	Currency      string    `json:"currency,omitempty"`
	Price         float64   `json:"price"`
	PrevClose     float64   `json:"prevClose"`
	Change        float64   `json:"change"`
	ChangePercent float64   `json:"changePercent"`
	AsOf          time.Time `json:"asOf"`
	Stale         bool      `json:"stale,omitempty"`
}
