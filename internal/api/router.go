package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rmfwatch/rmf-dashboard/internal/api/handlers"
	custommiddleware "github.com/rmfwatch/rmf-dashboard/internal/api/middleware"
	"github.com/rmfwatch/rmf-dashboard/internal/config"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// NewRouter creates and configures the HTTP router
func NewRouter(
	systemService *service.SystemService,
	fundService *service.FundService,
	navService *service.NavService,
	marketService *service.MarketService,
	cfg *config.Config,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger)
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// System namespace
		r.Route("/system", func(r chi.Router) {
			systemHandler := handlers.NewSystemHandler(systemService)
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/funds", func(r chi.Router) {
			fundHandler := handlers.NewFundHandler(fundService, navService)
			r.Get("/", fundHandler.SearchFunds)
			r.Get("/top", fundHandler.TopFunds)
			r.Get("/amcs", fundHandler.AMCs)
			r.Post("/refresh", fundHandler.Refresh)
			r.Get("/{symbol}", fundHandler.GetFund)
			r.Get("/{symbol}/history", fundHandler.GetFundHistory)
		})

		r.Route("/market", func(r chi.Router) {
			marketHandler := handlers.NewMarketHandler(marketService)
			r.Get("/quotes", marketHandler.Quotes)
		})

		mcpHandler := handlers.NewMCPHandler(fundService, navService)
		r.Post("/mcp", mcpHandler.Dispatch)
	})

	return r
}
