package service_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/rmfwatch/rmf-dashboard/internal/service"
	"github.com/rmfwatch/rmf-dashboard/internal/testutil"
)

func TestMarketService_GetQuotes(t *testing.T) {
	t.Run("derives change from the last two closes", func(t *testing.T) {
		client := testutil.NewMockYahooClient()
		ms := service.NewMarketService(client, []string{"GC=F"})

		quotes := ms.GetQuotes(context.Background())
		if len(quotes) != 1 {
			t.Fatalf("Expected 1 quote, got %d", len(quotes))
		}

		q := quotes[0]
		if q.Symbol != "GC=F" || q.Name != "Gold" {
			t.Errorf("Unexpected identity: %s / %s", q.Symbol, q.Name)
		}
		if q.Price != 2040 || q.PrevClose != 2030 {
			t.Errorf("Expected closes 2030->2040, got %f->%f", q.PrevClose, q.Price)
		}
		if math.Abs(q.Change-10) > 0.001 {
			t.Errorf("Expected change 10, got %f", q.Change)
		}
		if math.Abs(q.ChangePercent-0.4926) > 0.001 {
			t.Errorf("Expected change percent ~0.4926, got %f", q.ChangePercent)
		}
		if q.Stale {
			t.Error("Live quote should not be stale")
		}
	})

	t.Run("failed fetch falls back to the last good quote", func(t *testing.T) {
		client := testutil.NewMockYahooClient()
		ms := service.NewMarketService(client, []string{"GC=F"})

		live := ms.GetQuotes(context.Background())
		if len(live) != 1 {
			t.Fatalf("Expected 1 live quote, got %d", len(live))
		}

		client.MockError = errors.New("upstream down")
		fallback := ms.GetQuotes(context.Background())
		if len(fallback) != 1 {
			t.Fatalf("Expected 1 stale quote, got %d", len(fallback))
		}
		if !fallback[0].Stale {
			t.Error("Expected the cached quote to be marked stale")
		}
		if fallback[0].Price != live[0].Price {
			t.Errorf("Stale quote price %f differs from last good %f",
				fallback[0].Price, live[0].Price)
		}
	})

	t.Run("failed fetch with no cache omits the symbol", func(t *testing.T) {
		client := testutil.NewMockYahooClient()
		client.MockError = errors.New("upstream down")
		ms := service.NewMarketService(client, []string{"GC=F", "CL=F"})

		quotes := ms.GetQuotes(context.Background())
		if len(quotes) != 0 {
			t.Errorf("Expected no quotes without a cache, got %d", len(quotes))
		}
	})

	t.Run("chart with a single close has no quote", func(t *testing.T) {
		client := testutil.NewMockYahooClient()
		client.MockChart = testutil.MockPriceChart("GC=F", 1)
		ms := service.NewMarketService(client, []string{"GC=F"})

		quotes := ms.GetQuotes(context.Background())
		if len(quotes) != 0 {
			t.Errorf("Expected no quote from a one-point chart, got %d", len(quotes))
		}
	})
}
