package health

import (
	"fmt"
	"time"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
	"github.com/albarami/ImpactOS-sub000/internal/workforce"
)

// #region report
// Report is the full flywheel health rollup. Version numbers and counts are
// 0 before the first publish.
//
// The backlog fields (OverrideBacklogCount, DraftsPendingReview,
// PctEntriesAssumedVsCalibrated, PctSharedKnowledgeSanitized) are reserved:
// computing them needs draft and promotion tracking this core does not
// carry, so they stay 0 until that tracking exists.
type Report struct {
	MappingLibraryVersion int     `json:"mapping_library_version"`
	MappingEntryCount     int     `json:"mapping_entry_count"`
	AssumptionVersion     int     `json:"assumption_library_version"`
	AssumptionCount       int     `json:"assumption_default_count"`
	ScenarioPatternCount  int     `json:"scenario_pattern_count"`
	CalibrationNoteCount  int     `json:"calibration_note_count"`
	EngagementMemoryCount int     `json:"engagement_memory_count"`
	WorkforceCoveragePct  float64 `json:"workforce_coverage_pct"`

	LastPublication          *time.Time `json:"last_publication,omitempty"`
	DaysSinceLastPublication float64    `json:"avg_days_since_last_publication"`

	// Reserved backlog metrics.
	OverrideBacklogCount          int     `json:"override_backlog_count"`
	DraftsPendingReview           int     `json:"draft_count_pending_review"`
	PctEntriesAssumedVsCalibrated float64 `json:"pct_entries_assumed_vs_calibrated"`
	PctSharedKnowledgeSanitized   float64 `json:"pct_shared_knowledge_sanitized"`
}
// #endregion report

// #region tallies
// Tally counts journal entries. *journal.NoteLog and *journal.MemoryLog
// implement it.
type Tally interface {
	Len() int
}

// CoverageSource reports workforce refinement coverage.
type CoverageSource interface {
	RefinementCoverage() workforce.Coverage
}
// #endregion tallies

// #region service
// Service computes health reports from the flywheel components.
type Service struct {
	mapping    *mapping.Manager
	assumption *assumption.Manager
	patterns   *pattern.Library
	notes      Tally
	memories   Tally
	workforce  CoverageSource
}

// NewService wires a health service. notes and memories may be nil when no
// journal is attached; their counts then report 0.
func NewService(m *mapping.Manager, a *assumption.Manager, p *pattern.Library, notes, memories Tally, w CoverageSource) *Service {
	return &Service{mapping: m, assumption: a, patterns: p, notes: notes, memories: memories, workforce: w}
}

// Compute assembles the current health report.
func (s *Service) Compute() (Report, error) {
	r := Report{ScenarioPatternCount: s.patterns.Len()}

	var candidates []time.Time

	activeMapping, err := s.mapping.ActiveVersion()
	if err != nil {
		return Report{}, fmt.Errorf("get active mapping version: %w", err)
	}
	if activeMapping != nil {
		r.MappingLibraryVersion = activeMapping.Number()
		r.MappingEntryCount = activeMapping.EntryCount()
		candidates = append(candidates, activeMapping.PublishedAt())
	}

	activeAssumption, err := s.assumption.ActiveVersion()
	if err != nil {
		return Report{}, fmt.Errorf("get active assumption version: %w", err)
	}
	if activeAssumption != nil {
		r.AssumptionVersion = activeAssumption.Number()
		r.AssumptionCount = activeAssumption.DefaultCount()
		candidates = append(candidates, activeAssumption.PublishedAt())
	}

	if s.notes != nil {
		r.CalibrationNoteCount = s.notes.Len()
	}
	if s.memories != nil {
		r.EngagementMemoryCount = s.memories.Len()
	}

	coverage := s.workforce.RefinementCoverage()
	if coverage.TotalCells > 0 {
		r.WorkforceCoveragePct = float64(coverage.EngagementCalibratedCells) / float64(coverage.TotalCells) * 100
	}

	for _, t := range candidates {
		if r.LastPublication == nil || t.After(*r.LastPublication) {
			last := t
			r.LastPublication = &last
		}
	}
	if r.LastPublication != nil {
		r.DaysSinceLastPublication = time.Since(*r.LastPublication).Seconds() / 86400
	}

	return r, nil
}
// #endregion service
