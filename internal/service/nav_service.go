package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
)

const (
	// cachedWindowDays is the only history window served from cache: the
	// dashboard's 7-day sparkline query.
	cachedWindowDays = 7

	// navCacheCapacity bounds the 7-day cache. Entries beyond capacity are
	// recomputed per request instead of cached.
	navCacheCapacity = 256

	// prewarmCount is how many top-YTD funds get their 7-day window cached
	// after a load.
	prewarmCount = 10

	// historyReadTimeout bounds each NAV history database read.
	historyReadTimeout = 5 * time.Second
)

// NavService derives NAV history windows with day-over-day deltas and period
// statistics from the raw per-fund time series.
type NavService struct {
	navRepo *repository.NavHistoryRepository
	funds   *FundService
	timeout time.Duration

	mu    sync.Mutex
	cache map[string]*model.NavHistory
}

// NewNavService creates a new NavService with the provided dependencies.
func NewNavService(navRepo *repository.NavHistoryRepository, funds *FundService) *NavService {
	return &NavService{
		navRepo: navRepo,
		funds:   funds,
		timeout: historyReadTimeout,
		cache:   make(map[string]*model.NavHistory),
	}
}

// GetHistory returns the trailing `days` window of a fund's NAV series, or
// nil (without error) when the fund has no series at all. Exactly the 7-day
// window is cached per symbol; every other window recomputes from source.
func (s *NavService) GetHistory(ctx context.Context, symbol string, days int) (*model.NavHistory, error) {
	if days < 1 {
		days = 1
	}

	if days == cachedWindowDays {
		if cached := s.getCached(symbol); cached != nil {
			return cached, nil
		}
	}

	history, err := s.loadHistory(ctx, symbol, days)
	if err != nil {
		return nil, err
	}

	if history != nil && days == cachedWindowDays {
		s.storeCached(symbol, history)
	}

	return history, nil
}

func (s *NavService) loadHistory(ctx context.Context, symbol string, days int) (*model.NavHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	entries, err := s.navRepo.GetRecent(ctx, symbol, days)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %s", apperrors.ErrNavHistoryTimeout, symbol)
		}
		return nil, err
	}
	if len(entries) == 0 {
		return nil, nil
	}

	return deriveHistory(symbol, days, entries), nil
}

// deriveHistory computes per-point deltas and the period statistics for a
// chronologically ordered window.
func deriveHistory(symbol string, days int, entries []model.NavEntry) *model.NavHistory {
	points := make([]model.NavHistoryPoint, len(entries))
	pctChanges := make([]float64, 0, len(entries)-1)

	for i, entry := range entries {
		points[i] = model.NavHistoryPoint{Date: entry.Date, NAV: entry.NAV}
		if i == 0 {
			continue
		}
		prev := entries[i-1].NAV
		change := entry.NAV - prev
		pct := 0.0
		if prev > 0 {
			pct = change / prev * 100
		}
		points[i].Change = &change
		points[i].ChangePercent = &pct
		pctChanges = append(pctChanges, pct)
	}

	first := entries[0]
	last := entries[len(entries)-1]

	stats := model.PeriodStats{
		StartDate: first.Date,
		EndDate:   last.Date,
		StartNAV:  first.NAV,
		EndNAV:    last.NAV,
		Change:    last.NAV - first.NAV,
	}
	if first.NAV > 0 {
		stats.ChangePercent = stats.Change / first.NAV * 100
	}

	minNAV, maxNAV, sum := first.NAV, first.NAV, 0.0
	for _, entry := range entries {
		if entry.NAV < minNAV {
			minNAV = entry.NAV
		}
		if entry.NAV > maxNAV {
			maxNAV = entry.NAV
		}
		sum += entry.NAV
	}
	stats.MinNAV = minNAV
	stats.MaxNAV = maxNAV
	stats.MeanNAV = sum / float64(len(entries))

	if len(pctChanges) >= 2 {
		vol := populationStdDev(pctChanges)
		stats.Volatility = &vol
	}

	return &model.NavHistory{
		Symbol: symbol,
		Days:   days,
		Points: points,
		Stats:  stats,
	}
}

// populationStdDev is the square root of the mean squared deviation.
func populationStdDev(values []float64) float64 {
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	variance := 0.0
	for _, v := range values {
		d := v - mean
		variance += d * d
	}
	variance /= float64(len(values))

	return math.Sqrt(variance)
}

func (s *NavService) getCached(symbol string) *model.NavHistory {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[symbol]
}

func (s *NavService) storeCached(symbol string, history *model.NavHistory) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.cache[symbol]; !exists && len(s.cache) >= navCacheCapacity {
		return
	}
	s.cache[symbol] = history
}

// InvalidateCache clears the 7-day cache wholesale. Called on store refresh.
func (s *NavService) InvalidateCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache = make(map[string]*model.NavHistory)
}

// PrewarmCache populates the 7-day cache for the current top YTD performers.
// Per-symbol failures are logged and skipped; a batch never aborts because
// one fund has no series.
func (s *NavService) PrewarmCache(ctx context.Context) {
	top, err := s.funds.TopByHorizon(model.HorizonYTD, prewarmCount, nil)
	if err != nil {
		return
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, rec := range top {
		symbol := rec.Symbol
		g.Go(func() error {
			if _, err := s.GetHistory(ctx, symbol, cachedWindowDays); err != nil {
				log.Printf("nav prewarm skipped %s: %v", symbol, err)
			}
			return nil
		})
	}
	_ = g.Wait()
}

// Reset invalidates the cache and re-warms it against the current store
// generation. Called after every refresh.
func (s *NavService) Reset(ctx context.Context) {
	s.InvalidateCache()
	s.PrewarmCache(ctx)
}
