package pattern

import "time"

// #region scenario-pattern
// ScenarioPattern is a reusable scenario template accumulated from completed
// engagements. Patterns are mutated in place as similar engagements merge
// into them; they are never deleted and the population has no cap.
type ScenarioPattern struct {
	ID          string `json:"pattern_id"`
	Name        string `json:"name"`
	Description string `json:"description"`

	TypicalSectorShares map[string]float64    `json:"typical_sector_shares"`
	SectorShareRanges   map[string][2]float64 `json:"sector_share_ranges,omitempty"`

	TypicalPhasing       map[int]float64 `json:"typical_phasing,omitempty"` // year offset -> share
	TypicalDurationYears *int            `json:"typical_duration_years,omitempty"`

	TypicalImportShare  *float64 `json:"typical_import_share,omitempty"`
	TypicalLocalContent *float64 `json:"typical_local_content,omitempty"`

	ProjectType     string     `json:"project_type"` // "logistics_zone", "giga_project", "housing", ...
	SectorFocus     string     `json:"sector_focus,omitempty"`
	EngagementCount int        `json:"engagement_count"`
	LastUsedAt      *time.Time `json:"last_used_at,omitempty"`
	Confidence      string     `json:"confidence"` // "high", "medium", "low"

	ContributingEngagementIDs []string     `json:"contributing_engagement_ids"`
	ContributingScenarioIDs   []string     `json:"contributing_scenario_ids"`
	MergeHistory              []MergeEvent `json:"merge_history,omitempty"`
}
// #endregion scenario-pattern

// #region merge-event
// MergeEvent records one engagement being merged into a pattern.
type MergeEvent struct {
	MergedFrom      string    `json:"merged_from"`
	SimilarityScore float64   `json:"similarity_score"`
	Date            time.Time `json:"date"`
}
// #endregion merge-event

// #region observation
// Observation is the scenario evidence one completed engagement contributes
// to the library. Optional numeric fields are nil when the engagement did
// not measure them.
type Observation struct {
	EngagementID  string
	ScenarioID    string
	ProjectType   string
	SectorShares  map[string]float64
	Name          string // auto-named "<project type> pattern" when empty
	ImportShare   *float64
	LocalContent  *float64
	DurationYears *int
}
// #endregion observation
