package service

import (
	"context"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/yahoo"
)

// MarketService serves the commodity/forex ticker. Live quotes come from
// Yahoo Finance; when a fetch fails, the last good quote for that symbol is
// served marked stale so upstream outages never empty the ticker.
type MarketService struct {
	client  yahoo.Client
	symbols []string

	mu       sync.RWMutex
	lastGood map[string]model.Quote
}

// NewMarketService creates a new MarketService for the configured symbols.
func NewMarketService(client yahoo.Client, symbols []string) *MarketService {
	return &MarketService{
		client:   client,
		symbols:  symbols,
		lastGood: make(map[string]model.Quote),
	}
}

// GetQuotes fetches all configured symbols concurrently. Symbols that fail
// and have no cached quote are omitted from the result.
func (s *MarketService) GetQuotes(ctx context.Context) []model.Quote {
	results := make([]*model.Quote, len(s.symbols))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, symbol := range s.symbols {
		i, symbol := i, symbol
		g.Go(func() error {
			quote, err := s.fetchQuote(ctx, symbol)
			if err != nil {
				log.Printf("quote unavailable for %s: %v", symbol, err)
				return nil
			}
			results[i] = &quote
			return nil
		})
	}
	_ = g.Wait()

	quotes := make([]model.Quote, 0, len(results))
	for _, q := range results {
		if q != nil {
			quotes = append(quotes, *q)
		}
	}
	return quotes
}

// GetQuote fetches one symbol, falling back to the last good quote.
func (s *MarketService) GetQuote(ctx context.Context, symbol string) (model.Quote, error) {
	return s.fetchQuote(ctx, symbol)
}

func (s *MarketService) fetchQuote(ctx context.Context, symbol string) (model.Quote, error) {
	chart, err := s.client.FiveDayChart(ctx, symbol)
	if err != nil {
		if cached, ok := s.cachedQuote(symbol); ok {
			cached.Stale = true
			return cached, nil
		}
		return model.Quote{}, err
	}

	prev, last, asOf, ok := chart.LastTwoCloses()
	if !ok {
		if cached, okCache := s.cachedQuote(symbol); okCache {
			cached.Stale = true
			return cached, nil
		}
		return model.Quote{}, apperrors.ErrQuoteUnavailable
	}

	name := chart.ShortName
	if name == "" {
		name = chart.LongName
	}
	quote := model.Quote{
		Symbol:    chart.Symbol,
		Name:      name,
		Currency:  chart.Currency,
		Price:     last,
		PrevClose: prev,
		Change:    last - prev,
		AsOf:      asOf,
	}
	if prev > 0 {
		quote.ChangePercent = quote.Change / prev * 100
	}

	s.mu.Lock()
	s.lastGood[symbol] = quote
	s.mu.Unlock()

	return quote, nil
}

func (s *MarketService) cachedQuote(symbol string) (model.Quote, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	quote, ok := s.lastGood[symbol]
	return quote, ok
}
