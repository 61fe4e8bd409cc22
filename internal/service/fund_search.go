package service

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rmfwatch/rmf-dashboard/internal/model"
)

// maxPageSize caps page sizes and limits to bound response payloads.
const maxPageSize = 50

// defaultPageSize applies when a page is requested without a page size.
const defaultPageSize = 20

// SearchFilters holds the optional, conjunctive predicates of a fund search.
// Nil pointer fields mean "not filtered". Out-of-range pagination values are
// clamped, never rejected.
type SearchFilters struct {
	Query        string   // case-insensitive substring on symbol and name
	AMC          string   // case-insensitive substring on AMC name
	Category     string   // exact category code
	MinRiskLevel *int     // inclusive, clamped to 0-8
	MaxRiskLevel *int     // inclusive, clamped to 0-8
	MinYTD       *float64 // excludes funds without a YTD value

	SortBy string // ytd (default), 3m, 6m, 1y, 3y, 5y, nav, name

	Page     *int
	PageSize *int
	Limit    *int
}

// Search applies the filters to the current snapshot, sorts, and paginates.
// Three pagination modes:
//   - Page set: clamped page/pageSize slice with totalPages
//   - Limit set (no page): first min(limit, 50) records, one page
//   - neither: the full filtered result as one page
//
// The underlying store is never mutated; each call re-derives from the
// current snapshot.
func (s *FundService) Search(filters SearchFilters) (*model.SearchResult, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.FundRecord, 0, len(snap.order))
	for _, rec := range snap.order {
		if matchesFilters(rec, filters) {
			filtered = append(filtered, rec)
		}
	}

	sortRecords(filtered, filters.SortBy)

	total := len(filtered)
	switch {
	case filters.Page != nil:
		page := *filters.Page
		if page < 1 {
			page = 1
		}
		pageSize := defaultPageSize
		if filters.PageSize != nil {
			pageSize = clampPageSize(*filters.PageSize)
		}
		totalPages := (total + pageSize - 1) / pageSize

		start := (page - 1) * pageSize
		end := start + pageSize
		if start > total {
			start = total
		}
		if end > total {
			end = total
		}
		return &model.SearchResult{
			Funds:      filtered[start:end],
			TotalCount: total,
			Page:       page,
			PageSize:   pageSize,
			TotalPages: totalPages,
		}, nil

	case filters.Limit != nil:
		limit := clampPageSize(*filters.Limit)
		if limit > total {
			limit = total
		}
		return &model.SearchResult{
			Funds:      filtered[:limit],
			TotalCount: total,
			Page:       1,
			PageSize:   limit,
			TotalPages: 1,
		}, nil

	default:
		return &model.SearchResult{
			Funds:      filtered,
			TotalCount: total,
			Page:       1,
			PageSize:   total,
			TotalPages: 1,
		}, nil
	}
}

func clampPageSize(n int) int {
	if n < 1 {
		return 1
	}
	if n > maxPageSize {
		return maxPageSize
	}
	return n
}

func matchesFilters(rec *model.FundRecord, filters SearchFilters) bool {
	if q := strings.ToLower(strings.TrimSpace(filters.Query)); q != "" {
		symbol := strings.ToLower(rec.Symbol)
		name := strings.ToLower(rec.Name)
		if !strings.Contains(symbol, q) && !strings.Contains(name, q) {
			return false
		}
	}

	if amc := strings.ToLower(strings.TrimSpace(filters.AMC)); amc != "" {
		if !strings.Contains(strings.ToLower(rec.AMC), amc) {
			return false
		}
	}

	if filters.Category != "" && rec.Category != filters.Category {
		return false
	}

	// An inverted range (min > max) matches nothing.
	if filters.MinRiskLevel != nil && rec.RiskLevel < clampRiskLevel(*filters.MinRiskLevel) {
		return false
	}
	if filters.MaxRiskLevel != nil && rec.RiskLevel > clampRiskLevel(*filters.MaxRiskLevel) {
		return false
	}

	if filters.MinYTD != nil {
		if rec.Returns.YTD == nil || *rec.Returns.YTD < *filters.MinYTD {
			return false
		}
	}

	return true
}

func clampRiskLevel(n int) int {
	if n < 0 {
		return 0
	}
	if n > 8 {
		return 8
	}
	return n
}

// sortRecords orders the filtered set in place. Numeric sorts are descending
// with missing values last; the name sort is locale-aware ascending (fund
// names mix Thai and English). All sorts are stable, so equal keys keep
// snapshot load order.
func sortRecords(records []*model.FundRecord, sortBy string) {
	switch strings.ToLower(sortBy) {
	case "nav":
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].NAV > records[j].NAV
		})
	case "name":
		collator := collate.New(language.Thai)
		sort.SliceStable(records, func(i, j int) bool {
			return collator.CompareString(records[i].Name, records[j].Name) < 0
		})
	case "3m":
		sortByHorizon(records, model.Horizon3M)
	case "6m":
		sortByHorizon(records, model.Horizon6M)
	case "1y":
		sortByHorizon(records, model.Horizon1Y)
	case "3y":
		sortByHorizon(records, model.Horizon3Y)
	case "5y":
		sortByHorizon(records, model.Horizon5Y)
	default:
		sortByHorizon(records, model.HorizonYTD)
	}
}

func sortByHorizon(records []*model.FundRecord, horizon model.Horizon) {
	sort.SliceStable(records, func(i, j int) bool {
		a := records[i].Returns.ByHorizon(horizon)
		b := records[j].Returns.ByHorizon(horizon)
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return *a > *b
	})
}
