package service_test

import (
	"fmt"
	"testing"

	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/service"
	"github.com/rmfwatch/rmf-dashboard/internal/testutil"
)

func searchFixture(t *testing.T) *service.FundService {
	t.Helper()
	return testutil.NewTestFundService(t, testutil.WriteSnapshot(t,
		testutil.NewFundRow("EQRMF").WithName("Thai Equity RMF").WithAMC("Alpha Asset").
			WithCategory("EQ").WithRiskLevel(6).WithYTD(12.5).Build(),
		testutil.NewFundRow("FIRMF").WithName("Thai Bond RMF").WithAMC("Alpha Asset").
			WithCategory("FI").WithRiskLevel(4).WithYTD(2.1).Build(),
		testutil.NewFundRow("MMRMF").WithName("Money Market RMF").WithAMC("Beta Capital").
			WithCategory("MM").WithRiskLevel(1).WithYTD(0.8).Build(),
		testutil.NewFundRow("GLRMF").WithName("Global Growth RMF").WithAMC("Beta Capital").
			WithCategory("EQ").WithRiskLevel(6).Build(), // no YTD reported
		testutil.NewFundRow("MXRMF").WithName("Mixed Allocation RMF").WithAMC("Gamma Fund House").
			WithCategory("MIX").WithRiskLevel(5).WithYTD(5.5).Build(),
	))
}

//nolint:gocyclo // Comprehensive search behavior test with many subtests
func TestFundService_Search(t *testing.T) {
	fs := searchFixture(t)

	t.Run("no filters returns every record once", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 5 {
			t.Errorf("Expected totalCount 5, got %d", result.TotalCount)
		}
		if len(result.Funds) != 5 {
			t.Errorf("Expected 5 funds, got %d", len(result.Funds))
		}
		if result.PageSize != 5 || result.TotalPages != 1 {
			t.Errorf("Expected one full page, got pageSize=%d totalPages=%d",
				result.PageSize, result.TotalPages)
		}
		seen := map[string]bool{}
		for _, f := range result.Funds {
			if seen[f.Symbol] {
				t.Errorf("Duplicate symbol %s", f.Symbol)
			}
			seen[f.Symbol] = true
		}
	})

	t.Run("text search matches symbol and name case-insensitively", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{Query: "thai"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 2 {
			t.Errorf("Expected 2 matches for 'thai', got %d", result.TotalCount)
		}

		result, err = fs.Search(service.SearchFilters{Query: "mxrmf"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 1 || result.Funds[0].Symbol != "MXRMF" {
			t.Errorf("Expected MXRMF by symbol match, got %+v", result.Funds)
		}
	})

	t.Run("amc filter is a substring match", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{AMC: "beta"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 2 {
			t.Errorf("Expected 2 Beta Capital funds, got %d", result.TotalCount)
		}
	})

	t.Run("risk range is inclusive", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{
			MinRiskLevel: testutil.IntPtr(3),
			MaxRiskLevel: testutil.IntPtr(5),
		})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for _, f := range result.Funds {
			if f.RiskLevel < 3 || f.RiskLevel > 5 {
				t.Errorf("Fund %s risk %d outside [3,5]", f.Symbol, f.RiskLevel)
			}
		}
		if result.TotalCount != 2 {
			t.Errorf("Expected 2 funds in [3,5], got %d", result.TotalCount)
		}
	})

	t.Run("inverted risk range matches nothing", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{
			MinRiskLevel: testutil.IntPtr(6),
			MaxRiskLevel: testutil.IntPtr(2),
		})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 0 {
			t.Errorf("Expected empty result for min>max, got %d", result.TotalCount)
		}
	})

	t.Run("min ytd excludes funds without a ytd value", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{MinYTD: testutil.FloatPtr(-100)})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for _, f := range result.Funds {
			if f.Returns.YTD == nil {
				t.Errorf("Fund %s has no YTD but passed the minYtd filter", f.Symbol)
			}
		}
		if result.TotalCount != 4 {
			t.Errorf("Expected 4 funds with a YTD value, got %d", result.TotalCount)
		}
	})

	t.Run("category filter is exact", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{Category: "EQ"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.TotalCount != 2 {
			t.Errorf("Expected 2 EQ funds, got %d", result.TotalCount)
		}
	})

	t.Run("default sort is ytd descending with nulls last", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		order := make([]string, len(result.Funds))
		for i, f := range result.Funds {
			order[i] = f.Symbol
		}
		expected := []string{"EQRMF", "MXRMF", "FIRMF", "MMRMF", "GLRMF"}
		for i := range expected {
			if order[i] != expected[i] {
				t.Fatalf("Expected order %v, got %v", expected, order)
			}
		}
	})

	t.Run("name sort is ascending", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{SortBy: "name"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.Funds[0].Symbol != "GLRMF" {
			t.Errorf("Expected Global Growth first, got %s", result.Funds[0].Symbol)
		}
	})

	t.Run("nav sort is descending", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{SortBy: "nav"})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		for i := 1; i < len(result.Funds); i++ {
			if result.Funds[i].NAV > result.Funds[i-1].NAV {
				t.Errorf("NAV sort not descending at index %d", i)
			}
		}
	})
}

func TestFundService_SearchPagination(t *testing.T) {
	fs := searchFixture(t)

	t.Run("concatenated pages reproduce the full result", func(t *testing.T) {
		full, err := fs.Search(service.SearchFilters{})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}

		var paged []*model.FundRecord
		page := 1
		for {
			result, err := fs.Search(service.SearchFilters{
				Page:     &page,
				PageSize: testutil.IntPtr(2),
			})
			if err != nil {
				t.Fatalf("Search page %d failed: %v", page, err)
			}
			paged = append(paged, result.Funds...)
			if page >= result.TotalPages {
				break
			}
			page++
		}

		if len(paged) != len(full.Funds) {
			t.Fatalf("Paged union has %d funds, expected %d", len(paged), len(full.Funds))
		}
		for i := range full.Funds {
			if paged[i].Symbol != full.Funds[i].Symbol {
				t.Errorf("Page concat diverges at %d: %s vs %s",
					i, paged[i].Symbol, full.Funds[i].Symbol)
			}
		}
	})

	t.Run("out of range pages return empty slices", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{
			Page:     testutil.IntPtr(99),
			PageSize: testutil.IntPtr(2),
		})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(result.Funds) != 0 {
			t.Errorf("Expected empty page, got %d funds", len(result.Funds))
		}
		if result.TotalCount != 5 {
			t.Errorf("Expected totalCount 5, got %d", result.TotalCount)
		}
	})

	t.Run("page and pageSize are clamped", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{
			Page:     testutil.IntPtr(-3),
			PageSize: testutil.IntPtr(500),
		})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if result.Page != 1 {
			t.Errorf("Expected page clamped to 1, got %d", result.Page)
		}
		if result.PageSize != 50 {
			t.Errorf("Expected pageSize clamped to 50, got %d", result.PageSize)
		}
		if len(result.Funds) != 5 {
			t.Errorf("Expected all 5 funds on the clamped page, got %d", len(result.Funds))
		}
	})

	t.Run("limit mode returns a single page", func(t *testing.T) {
		result, err := fs.Search(service.SearchFilters{Limit: testutil.IntPtr(3)})
		if err != nil {
			t.Fatalf("Search failed: %v", err)
		}
		if len(result.Funds) != 3 {
			t.Errorf("Expected 3 funds, got %d", len(result.Funds))
		}
		if result.TotalCount != 5 || result.TotalPages != 1 {
			t.Errorf("Expected totalCount 5 / totalPages 1, got %d / %d",
				result.TotalCount, result.TotalPages)
		}
	})
}

func TestFundService_SearchStability(t *testing.T) {
	// Equal sort keys keep snapshot load order across repeated calls.
	rows := make([][]string, 6)
	for i := range rows {
		rows[i] = testutil.NewFundRow(fmt.Sprintf("TIE%d", i)).WithYTD(7.0).Build()
	}
	fs := testutil.NewTestFundService(t, testutil.WriteSnapshot(t, rows...))

	first, err := fs.Search(service.SearchFilters{})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i, f := range first.Funds {
		if f.Symbol != fmt.Sprintf("TIE%d", i) {
			t.Fatalf("Tied records lost load order: %s at index %d", f.Symbol, i)
		}
	}
}
