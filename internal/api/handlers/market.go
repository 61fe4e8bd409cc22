package handlers

import (
	"net/http"

	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// MarketHandler handles HTTP requests for the commodity/forex ticker.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler with the provided service.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
	}
}

// Quotes handles GET requests for all configured ticker quotes. Symbols
// whose live fetch fails are served from the last good value (marked stale)
// or omitted; the endpoint itself never fails on upstream outages.
//
// Endpoint: GET /api/market/quotes
// Response: 200 OK with array of Quote
func (h *MarketHandler) Quotes(w http.ResponseWriter, r *http.Request) {
	quotes := h.marketService.GetQuotes(r.Context())
	respondJSON(w, http.StatusOK, quotes)
}
