package service

import (
	"github.com/rmfwatch/rmf-dashboard/internal/model"
)

// maxRankingSize caps TopByHorizon results to bound adapter payloads.
const maxRankingSize = 50

// TopByHorizon returns the best-performing funds for a return horizon,
// descending, at most min(limit, 50) records. Funds without a value for the
// horizon never appear. When riskLevel is set, the pre-sorted ranking is
// filtered in place of a re-sort, so ranking order is preserved.
//
// Unknown horizons fall back to YTD, matching the forgiving argument
// handling of the rest of the query surface.
func (s *FundService) TopByHorizon(horizon model.Horizon, limit int, riskLevel *int) ([]*model.FundRecord, error) {
	snap, err := s.current()
	if err != nil {
		return nil, err
	}

	ranking, ok := snap.rankings[horizon]
	if !ok {
		ranking = snap.rankings[model.HorizonYTD]
	}

	if limit < 1 {
		limit = 1
	}
	if limit > maxRankingSize {
		limit = maxRankingSize
	}

	top := make([]*model.FundRecord, 0, limit)
	for _, rec := range ranking {
		if riskLevel != nil && rec.RiskLevel != clampRiskLevel(*riskLevel) {
			continue
		}
		top = append(top, rec)
		if len(top) == limit {
			break
		}
	}
	return top, nil
}
