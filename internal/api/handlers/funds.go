package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rmfwatch/rmf-dashboard/internal/api/request"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// FundHandler handles HTTP requests for fund endpoints. It is the HTTP layer
// adapter: it parses requests and delegates to the fund and NAV services.
type FundHandler struct {
	fundService *service.FundService
	navService  *service.NavService
}

// NewFundHandler creates a new FundHandler with the provided service
// dependencies.
func NewFundHandler(fundService *service.FundService, navService *service.NavService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
		navService:  navService,
	}
}

// SearchFunds handles GET requests to search and page through funds.
//
// Endpoint: GET /api/funds
// Query: q, amc, category, minRisk, maxRisk, minYtd, sortBy, page, pageSize, limit
// Response: 200 OK with SearchResult
// Error: 503 before the first snapshot load
func (h *FundHandler) SearchFunds(w http.ResponseWriter, r *http.Request) {
	filters := request.ParseSearchFilters(r)

	result, err := h.fundService.Search(filters)
	if err != nil {
		respondServiceError(w, err, "failed to search funds")
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetFund handles GET requests for a single fund by symbol.
//
// Endpoint: GET /api/funds/{symbol}
// Response: 200 OK with FundRecord
// Error: 404 when the symbol does not exist, 503 before first load
func (h *FundHandler) GetFund(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")

	fund, err := h.fundService.GetBySymbol(symbol)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve fund")
		return
	}

	respondJSON(w, http.StatusOK, fund)
}

// GetFundHistory handles GET requests for a fund's NAV history window.
//
// Endpoint: GET /api/funds/{symbol}/history?days=N (default 30)
// Response: 200 OK with NavHistory
// Error: 404 when the fund has no NAV series, 504 on history read timeout
func (h *FundHandler) GetFundHistory(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	days := request.ParseDays(r.URL.Query().Get("days"))

	history, err := h.navService.GetHistory(r.Context(), symbol, days)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve nav history")
		return
	}
	if history == nil {
		respondJSON(w, http.StatusNotFound, map[string]string{
			"error": "no nav history for symbol",
		})
		return
	}

	respondJSON(w, http.StatusOK, history)
}

// TopFunds handles GET requests for the performance ranking of a horizon.
//
// Endpoint: GET /api/funds/top?horizon=ytd|1y|3y|5y&limit=N&riskLevel=N
// Response: 200 OK with at most min(limit, 50) funds
func (h *FundHandler) TopFunds(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	horizon := request.ParseHorizon(q.Get("horizon"))
	limit := request.ParseLimit(q.Get("limit"), 10)
	riskLevel := request.IntParam(q.Get("riskLevel"))

	top, err := h.fundService.TopByHorizon(horizon, limit, riskLevel)
	if err != nil {
		respondServiceError(w, err, "failed to retrieve top funds")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"horizon": horizon,
		"funds":   top,
	})
}

// AMCs handles GET requests for the asset management company listing.
//
// Endpoint: GET /api/funds/amcs
func (h *FundHandler) AMCs(w http.ResponseWriter, r *http.Request) {
	amcs, err := h.fundService.AMCs()
	if err != nil {
		respondServiceError(w, err, "failed to retrieve AMCs")
		return
	}

	respondJSON(w, http.StatusOK, amcs)
}

// Refresh handles POST requests to rebuild the fund store from the snapshot
// file. On success the NAV history cache is invalidated and re-warmed. On
// failure the previous store generation keeps serving.
//
// Endpoint: POST /api/funds/refresh
// Response: 200 OK with LoadResult
// Error: 503 when the snapshot file is missing or unreadable
func (h *FundHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	result, err := h.fundService.Refresh()
	if err != nil {
		respondServiceError(w, err, "failed to refresh fund store")
		return
	}

	h.navService.Reset(r.Context())

	respondJSON(w, http.StatusOK, result)
}
