package workforce

import "time"

// #region types
// ClassificationOverride is one analyst correction of a workforce
// classification cell: the nationality tier assigned to a (sector,
// occupation) pair.
type ClassificationOverride struct {
	SectorCode     string    `json:"sector_code"`
	OccupationCode string    `json:"occupation_code"`
	OriginalTier   string    `json:"original_tier"`
	OverrideTier   string    `json:"override_tier"`
	OverriddenBy   string    `json:"overridden_by"`
	EngagementID   string    `json:"engagement_id,omitempty"`
	Rationale      string    `json:"rationale"`
	RecordedAt     time.Time `json:"recorded_at"`
}

// Cell identifies one (sector, occupation) pair in the classification matrix.
type Cell struct {
	SectorCode     string `json:"sector_code"`
	OccupationCode string `json:"occupation_code"`
}

// Coverage reports which classification cells have been refined by
// engagement evidence. AssumedCells is reserved: computing it needs the full
// classification matrix, which this accumulator never sees.
type Coverage struct {
	TotalCells                int               `json:"total_cells"`
	AssumedCells              int               `json:"assumed_cells"`
	EngagementCalibratedCells int               `json:"engagement_calibrated_cells"`
	EngagementCount           int               `json:"engagement_count"`
	CellsByEngagement         map[string][]Cell `json:"cells_by_engagement"`
}
// #endregion types

// #region refinement
// BridgeRefinement accumulates workforce classification overrides across
// engagements and reports refinement coverage.
type BridgeRefinement struct {
	overrides    []ClassificationOverride
	byEngagement map[string][]ClassificationOverride
	// engagementOrder keeps first-seen order so coverage output is stable.
	engagementOrder []string
}

// NewBridgeRefinement returns an empty accumulator.
func NewBridgeRefinement() *BridgeRefinement {
	return &BridgeRefinement{byEngagement: make(map[string][]ClassificationOverride)}
}

// RecordEngagementOverrides accumulates one engagement's overrides.
// Repeated calls for the same engagement extend its recorded set.
func (r *BridgeRefinement) RecordEngagementOverrides(engagementID string, overrides []ClassificationOverride) {
	r.overrides = append(r.overrides, overrides...)
	if _, ok := r.byEngagement[engagementID]; !ok {
		r.engagementOrder = append(r.engagementOrder, engagementID)
	}
	r.byEngagement[engagementID] = append(r.byEngagement[engagementID], overrides...)
}

// AllOverrides returns a copy of every accumulated override in record order.
func (r *BridgeRefinement) AllOverrides() []ClassificationOverride {
	return append([]ClassificationOverride(nil), r.overrides...)
}
// #endregion refinement

// #region coverage
// RefinementCoverage reports the unique calibrated cells overall and per
// engagement. TotalCells counts the cells actually seen in overrides, so
// every seen cell is calibrated and AssumedCells stays 0.
func (r *BridgeRefinement) RefinementCoverage() Coverage {
	allCells := make(map[Cell]bool)
	for _, o := range r.overrides {
		allCells[Cell{o.SectorCode, o.OccupationCode}] = true
	}

	cellsByEngagement := make(map[string][]Cell, len(r.byEngagement))
	for _, engID := range r.engagementOrder {
		seen := make(map[Cell]bool)
		var cells []Cell
		for _, o := range r.byEngagement[engID] {
			cell := Cell{o.SectorCode, o.OccupationCode}
			if !seen[cell] {
				seen[cell] = true
				cells = append(cells, cell)
			}
		}
		cellsByEngagement[engID] = cells
	}

	return Coverage{
		TotalCells:                len(allCells),
		AssumedCells:              0,
		EngagementCalibratedCells: len(allCells),
		EngagementCount:           len(r.byEngagement),
		CellsByEngagement:         cellsByEngagement,
	}
}
// #endregion coverage
