package publication

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
	"github.com/albarami/ImpactOS-sub000/internal/workforce"
)

// #region types
// CoverageSource reports workforce refinement coverage for publication
// results. *workforce.BridgeRefinement is the production implementation.
type CoverageSource interface {
	RefinementCoverage() workforce.Coverage
}

// Result summarises one publication cycle: what was published, how many
// mapping patterns were added or rescored, and the workforce coverage at
// publication time. A nil version pointer means that library was not
// published this cycle.
type Result struct {
	MappingVersion    *mapping.Version
	AssumptionVersion *assumption.Version
	NewPatterns       int
	UpdatedPatterns   int
	WorkforceCoverage workforce.Coverage
	PublishedAt       time.Time
	Summary           string
}

// Health is a cheap point-in-time snapshot of the flywheel's knowledge
// state. Version numbers are 0 before the first publish.
type Health struct {
	MappingVersion    int
	AssumptionVersion int
	PatternCount      int
	WorkforceCoverage workforce.Coverage
}
// #endregion types

// #region service
// Service orchestrates publication cycles across the knowledge libraries.
type Service struct {
	mapping    *mapping.Manager
	assumption *assumption.Manager
	patterns   *pattern.Library
	workforce  CoverageSource
}

// NewService wires a publication service over the four flywheel components.
func NewService(m *mapping.Manager, a *assumption.Manager, p *pattern.Library, w CoverageSource) *Service {
	return &Service{mapping: m, assumption: a, patterns: p, workforce: w}
}
// #endregion service

// #region publish-cycle
// PublishCycle runs one full publication cycle: build both drafts, gate the
// mapping draft, publish whichever drafts differ from their active versions,
// and report the outcome.
//
// The cycle is idempotent: a draft whose content matches the active version
// is skipped, and an empty draft with no active version is never published.
// The new/updated pattern counters are computed from the draft before gating,
// so they reflect what the learning loop produced even when the gate vetoes
// the mapping draft.
func (s *Service) PublishCycle(publishedBy string, since time.Time, loop mapping.LearningLoop, stewardApproved bool, gate *QualityGate) (Result, error) {
	// Step 1: mapping draft from the active version plus learning signal.
	activeMapping, err := s.mapping.ActiveVersion()
	if err != nil {
		return Result{}, fmt.Errorf("get active mapping version: %w", err)
	}
	baseMappingID := ""
	if activeMapping != nil {
		baseMappingID = activeMapping.ID()
	}

	mappingDraft, err := s.mapping.BuildDraft(baseMappingID, since, loop)
	if err != nil {
		return Result{}, fmt.Errorf("build mapping draft: %w", err)
	}

	newPatterns := len(mappingDraft.AddedEntryIDs)
	updatedPatterns := len(mappingDraft.ChangedEntries)

	// Step 2: assumption draft from the active version.
	activeAssumption, err := s.assumption.ActiveVersion()
	if err != nil {
		return Result{}, fmt.Errorf("get active assumption version: %w", err)
	}
	baseAssumptionID := ""
	if activeAssumption != nil {
		baseAssumptionID = activeAssumption.ID()
	}

	assumptionDraft, err := s.assumption.BuildDraft(baseAssumptionID)
	if err != nil {
		return Result{}, fmt.Errorf("build assumption draft: %w", err)
	}

	// Step 3: gate the mapping draft. Failures veto the mapping draft only.
	mappingGatePassed := true
	if gate != nil {
		if failures := gate.ValidateMappingDraft(mappingDraft, stewardApproved); len(failures) > 0 {
			mappingGatePassed = false
			log.Printf("[PUB] mapping draft vetoed by quality gate: %s", failures[0])
		}
	}

	// Step 4: publish what is eligible and changed.
	var publishedMapping *mapping.Version
	if mappingGatePassed && !mappingUnchanged(mappingDraft, activeMapping) {
		publishedMapping, err = s.mapping.Publish(mappingDraft, publishedBy)
		if err != nil {
			return Result{}, fmt.Errorf("publish mapping: %w", err)
		}
	}

	var publishedAssumption *assumption.Version
	if !assumptionUnchanged(assumptionDraft, activeAssumption) {
		publishedAssumption, err = s.assumption.Publish(assumptionDraft, publishedBy)
		if err != nil {
			return Result{}, fmt.Errorf("publish assumption: %w", err)
		}
	}

	// Step 5: workforce coverage snapshot, embedded verbatim.
	coverage := s.workforce.RefinementCoverage()

	// Step 6: summary.
	var parts []string
	if publishedMapping != nil {
		parts = append(parts, fmt.Sprintf(
			"Published mapping library v%d with %d entries (%d new, %d updated).",
			publishedMapping.Number(), publishedMapping.EntryCount(), newPatterns, updatedPatterns,
		))
	}
	if publishedAssumption != nil {
		parts = append(parts, fmt.Sprintf(
			"Published assumption library v%d with %d defaults.",
			publishedAssumption.Number(), publishedAssumption.DefaultCount(),
		))
	}
	if len(parts) == 0 {
		parts = append(parts, "No changes to publish.")
	}
	summary := strings.Join(parts, " ")
	log.Printf("[PUB] cycle by %s: %s", publishedBy, summary)

	return Result{
		MappingVersion:    publishedMapping,
		AssumptionVersion: publishedAssumption,
		NewPatterns:       newPatterns,
		UpdatedPatterns:   updatedPatterns,
		WorkforceCoverage: coverage,
		PublishedAt:       time.Now().UTC(),
		Summary:           summary,
	}, nil
}
// #endregion publish-cycle

// #region health
// FlywheelHealth reports the active version numbers, pattern count and
// workforce coverage.
func (s *Service) FlywheelHealth() (Health, error) {
	h := Health{PatternCount: s.patterns.Len()}

	activeMapping, err := s.mapping.ActiveVersion()
	if err != nil {
		return Health{}, fmt.Errorf("get active mapping version: %w", err)
	}
	if activeMapping != nil {
		h.MappingVersion = activeMapping.Number()
	}

	activeAssumption, err := s.assumption.ActiveVersion()
	if err != nil {
		return Health{}, fmt.Errorf("get active assumption version: %w", err)
	}
	if activeAssumption != nil {
		h.AssumptionVersion = activeAssumption.Number()
	}

	h.WorkforceCoverage = s.workforce.RefinementCoverage()
	return h, nil
}
// #endregion health

// #region identity
// mappingUnchanged reports whether a mapping draft carries the same content
// as the active version, compared as the set of (id, pattern, sector,
// confidence) tuples. Confidence compares at full float precision: a
// rolling-average rescore that lands on a new bit pattern counts as a
// change. Without an active version only an empty draft is unchanged.
func mappingUnchanged(draft mapping.Draft, active *mapping.Version) bool {
	if active == nil {
		return len(draft.Entries) == 0
	}
	type key struct {
		id, pattern, sector string
		confidence          float64
	}
	draftKeys := make(map[key]bool, len(draft.Entries))
	for _, e := range draft.Entries {
		draftKeys[key{e.ID, e.Pattern, e.SectorCode, e.Confidence}] = true
	}
	activeEntries := active.Entries()
	if len(draftKeys) != len(activeEntries) {
		return false
	}
	for _, e := range activeEntries {
		if !draftKeys[key{e.ID, e.Pattern, e.SectorCode, e.Confidence}] {
			return false
		}
	}
	return true
}

// assumptionUnchanged reports whether an assumption draft carries the same
// defaults as the active version, compared as the set of default ids.
func assumptionUnchanged(draft assumption.Draft, active *assumption.Version) bool {
	if active == nil {
		return len(draft.Defaults) == 0
	}
	draftIDs := make(map[string]bool, len(draft.Defaults))
	for _, d := range draft.Defaults {
		draftIDs[d.ID] = true
	}
	activeDefaults := active.Defaults()
	if len(draftIDs) != len(activeDefaults) {
		return false
	}
	for _, d := range activeDefaults {
		if !draftIDs[d.ID] {
			return false
		}
	}
	return true
}
// #endregion identity
