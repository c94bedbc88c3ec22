package replay

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/learning"
	"github.com/albarami/ImpactOS-sub000/internal/library"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
	"github.com/albarami/ImpactOS-sub000/internal/publication"
	"github.com/albarami/ImpactOS-sub000/internal/workforce"
)

// #region types
// CycleResult captures the outcome of replaying one publication cycle.
// Version numbers are 0 when that library did not publish.
type CycleResult struct {
	Index             int
	MappingVersion    int
	AssumptionVersion int
	NewPatterns       int
	UpdatedPatterns   int
	Summary           string
}

// Summary provides aggregate stats from a replay run.
type Summary struct {
	TotalCycles         int
	MappingPublishes    int
	AssumptionPublishes int
	SkippedCycles       int
	Mismatches          int
}
// #endregion types

// #region run
// Run replays a fixture's publication cycles against fresh in-memory
// libraries: seed the start state, then per cycle record the override batch
// into one accumulating learning loop and run a full publication cycle.
// The run is deterministic apart from generated ids and timestamps.
func Run(f *Fixture) ([]CycleResult, error) {
	mappingMgr := mapping.NewManager(library.NewMemoryStore[mapping.Version]())
	assumptionMgr := assumption.NewManager(library.NewMemoryStore[assumption.Version]())
	svc := publication.NewService(mappingMgr, assumptionMgr, pattern.NewLibrary(), workforce.NewBridgeRefinement())

	if len(f.Start.MappingEntries) > 0 {
		_, err := mappingMgr.Publish(mapping.Draft{
			ID:      uuid.New().String(),
			Entries: f.Start.MappingEntries,
			Status:  library.StatusDraft,
		}, "fixture-seed")
		if err != nil {
			return nil, fmt.Errorf("seed mapping: %w", err)
		}
	}
	if len(f.Start.AssumptionDefaults) > 0 {
		_, err := assumptionMgr.Publish(assumption.Draft{
			ID:       uuid.New().String(),
			Defaults: f.Start.AssumptionDefaults,
			Status:   library.StatusDraft,
		}, "fixture-seed")
		if err != nil {
			return nil, fmt.Errorf("seed assumption: %w", err)
		}
	}

	var gate *publication.QualityGate
	if f.Gate != nil {
		g := f.Gate.ToQualityGate()
		gate = &g
	}

	loop := learning.NewLoop()
	results := make([]CycleResult, 0, len(f.Cycles))

	for i, cycle := range f.Cycles {
		for _, o := range cycle.Overrides {
			loop.RecordOverride(o)
		}

		res, err := svc.PublishCycle(cycle.PublishedBy, time.Time{}, loop, cycle.StewardApproved, gate)
		if err != nil {
			return nil, fmt.Errorf("cycle %d: %w", i, err)
		}

		cr := CycleResult{
			Index:           i,
			NewPatterns:     res.NewPatterns,
			UpdatedPatterns: res.UpdatedPatterns,
			Summary:         res.Summary,
		}
		if res.MappingVersion != nil {
			cr.MappingVersion = res.MappingVersion.Number()
		}
		if res.AssumptionVersion != nil {
			cr.AssumptionVersion = res.AssumptionVersion.Number()
		}
		results = append(results, cr)
	}

	return results, nil
}
// #endregion run

// #region summarize
// Summarize computes aggregate stats from replay results, checking them
// against the fixture's expected results when present.
func Summarize(f *Fixture, results []CycleResult) Summary {
	s := Summary{TotalCycles: len(results)}
	for i, r := range results {
		if r.MappingVersion > 0 {
			s.MappingPublishes++
		}
		if r.AssumptionVersion > 0 {
			s.AssumptionPublishes++
		}
		if r.MappingVersion == 0 && r.AssumptionVersion == 0 {
			s.SkippedCycles++
		}
		if i < len(f.Expected) {
			want := f.Expected[i]
			if want.MappingVersion != r.MappingVersion || want.AssumptionVersion != r.AssumptionVersion {
				s.Mismatches++
			}
		}
	}
	return s
}
// #endregion summarize
