// Package request parses and normalizes query parameters for the API
// handlers. Out-of-range values are clamped by the service layer rather than
// rejected here; non-numeric values are treated as absent.
package request

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
)

// ParseSearchFilters builds SearchFilters from the query string of a fund
// search request. Recognized parameters: q, amc, category, minRisk, maxRisk,
// minYtd, sortBy, page, pageSize, limit.
func ParseSearchFilters(r *http.Request) service.SearchFilters {
	q := r.URL.Query()

	return service.SearchFilters{
		Query:        q.Get("q"),
		AMC:          q.Get("amc"),
		Category:     q.Get("category"),
		MinRiskLevel: intParam(q.Get("minRisk")),
		MaxRiskLevel: intParam(q.Get("maxRisk")),
		MinYTD:       floatParam(q.Get("minYtd")),
		SortBy:       q.Get("sortBy"),
		Page:         intParam(q.Get("page")),
		PageSize:     intParam(q.Get("pageSize")),
		Limit:        intParam(q.Get("limit")),
	}
}

// ParseHorizon normalizes the horizon parameter, defaulting to YTD.
func ParseHorizon(value string) model.Horizon {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "1y":
		return model.Horizon1Y
	case "3y":
		return model.Horizon3Y
	case "5y":
		return model.Horizon5Y
	default:
		return model.HorizonYTD
	}
}

// ParseDays reads the history window parameter with a default of 30 days.
func ParseDays(value string) int {
	if n := intParam(value); n != nil {
		return *n
	}
	return 30
}

// ParseLimit reads a limit parameter with the supplied default.
func ParseLimit(value string, fallback int) int {
	if n := intParam(value); n != nil {
		return *n
	}
	return fallback
}

// IntParam exposes intParam for handlers needing optional ints directly.
func IntParam(value string) *int {
	return intParam(value)
}

func intParam(value string) *int {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	n, err := strconv.Atoi(trimmed)
	if err != nil {
		return nil
	}
	return &n
}

func floatParam(value string) *float64 {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return nil
	}
	return &f
}
