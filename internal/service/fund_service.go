package service

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rmfwatch/rmf-dashboard/internal/apperrors"
	"github.com/rmfwatch/rmf-dashboard/internal/model"
	"github.com/rmfwatch/rmf-dashboard/internal/repository"
)

// fundSnapshot is one immutable generation of the fund store: records,
// secondary indexes, and performance rankings built together from a single
// snapshot read. Readers always observe a whole generation; a refresh swaps
// the pointer rather than mutating in place.
type fundSnapshot struct {
	generation string
	loadedAt   time.Time

	records map[string]*model.FundRecord
	order   []*model.FundRecord // snapshot load order

	byAMC      map[string][]string
	byRisk     map[int][]string
	byCategory map[string][]string

	rankings map[model.Horizon][]*model.FundRecord
}

// FundService owns the in-memory fund store and answers all fund queries.
// Every read method re-derives its result from the current snapshot; nothing
// in the store is ever mutated after a load.
type FundService struct {
	snapshotRepo *repository.SnapshotRepository
	snap         atomic.Pointer[fundSnapshot]
}

// NewFundService creates a new FundService with the provided repository
// dependency. The store starts uninitialized; queries before the first
// successful Load return apperrors.ErrNotInitialized.
func NewFundService(snapshotRepo *repository.SnapshotRepository) *FundService {
	return &FundService{snapshotRepo: snapshotRepo}
}

// Load reads the snapshot file and builds a new store generation. On failure
// the previous generation (if any) stays in place and servable.
func (s *FundService) Load() (*model.LoadResult, error) {
	records, err := s.snapshotRepo.ReadAll()
	if err != nil {
		return nil, err
	}

	snap := buildSnapshot(records)
	s.snap.Store(snap)

	return &model.LoadResult{
		Generation:  snap.generation,
		RecordCount: len(snap.order),
		AMCs:        len(snap.byAMC),
		Categories:  len(snap.byCategory),
		RiskLevels:  len(snap.byRisk),
		LoadedAt:    snap.loadedAt,
	}, nil
}

// Refresh rebuilds the store from the snapshot file. Identical to Load; the
// name marks the intent at call sites (cron job, refresh endpoint).
func (s *FundService) Refresh() (*model.LoadResult, error) {
	return s.Load()
}

// buildSnapshot indexes the loaded records. Duplicate symbols keep their
// first occurrence so load order stays meaningful for tie-breaking.
func buildSnapshot(records []model.FundRecord) *fundSnapshot {
	snap := &fundSnapshot{
		generation: uuid.NewString(),
		loadedAt:   time.Now().UTC(),
		records:    make(map[string]*model.FundRecord, len(records)),
		byAMC:      make(map[string][]string),
		byRisk:     make(map[int][]string),
		byCategory: make(map[string][]string),
		rankings:   make(map[model.Horizon][]*model.FundRecord, len(model.RankedHorizons)),
	}

	for i := range records {
		rec := &records[i]
		if _, exists := snap.records[rec.Symbol]; exists {
			continue
		}
		snap.records[rec.Symbol] = rec
		snap.order = append(snap.order, rec)

		if rec.AMC != "" {
			snap.byAMC[rec.AMC] = append(snap.byAMC[rec.AMC], rec.Symbol)
		}
		snap.byRisk[rec.RiskLevel] = append(snap.byRisk[rec.RiskLevel], rec.Symbol)
		if rec.Category != "" {
			snap.byCategory[rec.Category] = append(snap.byCategory[rec.Category], rec.Symbol)
		}
	}

	for _, horizon := range model.RankedHorizons {
		snap.rankings[horizon] = rankByHorizon(snap.order, horizon)
	}

	return snap
}

// rankByHorizon sorts records descending by the horizon's return. Records
// without a value for the horizon are excluded entirely. The sort is stable,
// so ties keep snapshot load order.
func rankByHorizon(records []*model.FundRecord, horizon model.Horizon) []*model.FundRecord {
	ranked := make([]*model.FundRecord, 0, len(records))
	for _, rec := range records {
		if rec.Returns.ByHorizon(horizon) != nil {
			ranked = append(ranked, rec)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return *ranked[i].Returns.ByHorizon(horizon) > *ranked[j].Returns.ByHorizon(horizon)
	})
	return ranked
}

// current returns the live snapshot, or ErrNotInitialized before first load.
func (s *FundService) current() (*fundSnapshot, error) {
	snap := s.snap.Load()
	if snap == nil {
		return nil, apperrors.ErrNotInitialized
	}
	return snap, nil
}

// GetBySymbol retrieves one fund record by its exact symbol.
func (s *FundService) GetBySymbol(symbol string) (*model.FundRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	rec, ok := snap.records[symbol]
	if !ok {
		return nil, apperrors.ErrFundNotFound
	}
	return rec, nil
}

// SymbolsByAMC returns the symbols managed by an AMC in load order.
// Unknown AMC names yield an empty slice, not an error.
func (s *FundService) SymbolsByAMC(name string) ([]string, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.byAMC[name], nil
}

// SymbolsByRiskLevel returns the symbols at a risk level in load order.
func (s *FundService) SymbolsByRiskLevel(level int) ([]string, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.byRisk[level], nil
}

// SymbolsByCategory returns the symbols of a fund category in load order.
func (s *FundService) SymbolsByCategory(code string) ([]string, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	return snap.byCategory[code], nil
}

// AMCs lists every asset management company in the snapshot with its fund
// count, sorted by name.
func (s *FundService) AMCs() ([]model.AMCListing, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}
	listings := make([]model.AMCListing, 0, len(snap.byAMC))
	for name, symbols := range snap.byAMC {
		listings = append(listings, model.AMCListing{Name: name, FundCount: len(symbols)})
	}
	sort.Slice(listings, func(i, j int) bool {
		return listings[i].Name < listings[j].Name
	})
	return listings, nil
}

// StoreStatus describes the lifecycle state of the fund store for health
// reporting.
type StoreStatus struct {
	Initialized bool      `json:"initialized"`
	Generation  string    `json:"generation,omitempty"`
	RecordCount int       `json:"recordCount"`
	LoadedAt    time.Time `json:"loadedAt,omitzero"`
}

// Status reports the current store generation. Safe to call before Load.
func (s *FundService) Status() StoreStatus {
	snap := s.snap.Load()
	if snap == nil {
		return StoreStatus{}
	}
	return StoreStatus{
		Initialized: true,
		Generation:  snap.generation,
		RecordCount: len(snap.order),
		LoadedAt:    snap.loadedAt,
	}
}
