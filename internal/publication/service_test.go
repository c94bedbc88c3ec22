package publication

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/learning"
	"github.com/albarami/ImpactOS-sub000/internal/library"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/pattern"
	"github.com/albarami/ImpactOS-sub000/internal/workforce"
)

func newTestService() (*Service, *mapping.Manager, *assumption.Manager) {
	m := mapping.NewManager(library.NewMemoryStore[mapping.Version]())
	a := assumption.NewManager(library.NewMemoryStore[assumption.Version]())
	svc := NewService(m, a, pattern.NewLibrary(), workforce.NewBridgeRefinement())
	return svc, m, a
}

func publishMappingV1(t *testing.T, m *mapping.Manager, entries ...mapping.Entry) *mapping.Version {
	t.Helper()
	v, err := m.Publish(mapping.Draft{
		ID:      uuid.New().String(),
		Entries: entries,
		Status:  library.StatusDraft,
	}, "steward")
	if err != nil {
		t.Fatalf("publish mapping v1: %v", err)
	}
	return v
}

func override(text, suggested, final string) mapping.Override {
	return mapping.Override{
		EngagementID:        "eng-1",
		LineItemID:          uuid.New().String(),
		LineItemText:        text,
		SuggestedSectorCode: suggested,
		FinalSectorCode:     final,
	}
}

func TestFirstCycleWithNoSignalPublishesNothing(t *testing.T) {
	svc, _, _ := newTestService()

	res, err := svc.PublishCycle("steward", time.Time{}, nil, true, nil)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.MappingVersion != nil || res.AssumptionVersion != nil {
		t.Fatalf("expected nothing published from empty drafts, got %+v", res)
	}
	if res.Summary != "No changes to publish." {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}
}

func TestCycleIdempotence(t *testing.T) {
	svc, m, a := newTestService()

	publishMappingV1(t, m, mapping.Entry{ID: "e1", Pattern: "concrete works", SectorCode: "F", Confidence: 0.9})
	if _, err := a.Publish(assumption.Draft{
		ID:       uuid.New().String(),
		Defaults: assumption.SeedDefaults(),
		Status:   library.StatusDraft,
	}, "steward"); err != nil {
		t.Fatalf("publish assumption v1: %v", err)
	}

	// No learning signal: both drafts match their active versions.
	res, err := svc.PublishCycle("steward", time.Time{}, nil, true, nil)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.MappingVersion != nil {
		t.Fatalf("expected mapping skipped, got v%d", res.MappingVersion.Number())
	}
	if res.AssumptionVersion != nil {
		t.Fatalf("expected assumption skipped, got v%d", res.AssumptionVersion.Number())
	}
}

func TestEndToEndLearningCycle(t *testing.T) {
	svc, m, _ := newTestService()

	publishMappingV1(t, m, mapping.Entry{ID: "e1", Pattern: "concrete works", SectorCode: "F", Confidence: 0.9})

	loop := learning.NewLoop()
	loop.RecordOverride(override("steel rebar supply", "S02", "S02"))
	loop.RecordOverride(override("steel rebar supply", "S02", "S02"))
	loop.RecordOverride(override("steel rebar supply", "F", "S02"))

	res, err := svc.PublishCycle("steward", time.Time{}, loop, true, nil)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.MappingVersion == nil {
		t.Fatal("expected mapping published")
	}
	if res.MappingVersion.Number() != 2 {
		t.Fatalf("expected version 2, got %d", res.MappingVersion.Number())
	}
	if res.MappingVersion.EntryCount() != 2 {
		t.Fatalf("expected 2 entries, got %d", res.MappingVersion.EntryCount())
	}
	if res.NewPatterns != 1 {
		t.Fatalf("expected 1 new pattern, got %d", res.NewPatterns)
	}

	var added *mapping.Entry
	for _, e := range res.MappingVersion.Entries() {
		if e.SectorCode == "S02" {
			added = &e
			break
		}
	}
	if added == nil {
		t.Fatal("expected an S02 entry in the published version")
	}
	if added.Pattern != "steel rebar supply" {
		t.Fatalf("unexpected pattern: %q", added.Pattern)
	}
	if math.Abs(added.Confidence-2.0/3.0) > 1e-9 {
		t.Fatalf("expected confidence 2/3, got %f", added.Confidence)
	}
	if !strings.Contains(res.Summary, "Published mapping library v2 with 2 entries (1 new,") {
		t.Fatalf("unexpected summary: %q", res.Summary)
	}

	// A second cycle with no new learning input publishes nothing. Passing
	// the loop again would re-blend confidences and force a republication,
	// which is the documented full-precision identity behavior.
	res2, err := svc.PublishCycle("steward", time.Time{}, nil, true, nil)
	if err != nil {
		t.Fatalf("second PublishCycle: %v", err)
	}
	if res2.MappingVersion != nil || res2.AssumptionVersion != nil {
		t.Fatalf("expected second cycle idempotent, got %+v", res2)
	}
}

func TestGateVetoSkipsMappingOnly(t *testing.T) {
	svc, m, a := newTestService()

	publishMappingV1(t, m, mapping.Entry{ID: "e1", Pattern: "concrete works", SectorCode: "F", Confidence: 0.9})

	loop := learning.NewLoop()
	loop.RecordOverride(override("steel rebar supply", "S02", "S02"))
	loop.RecordOverride(override("steel rebar supply", "S02", "S02"))

	gate := DefaultQualityGate()
	res, err := svc.PublishCycle("steward", time.Time{}, loop, false, &gate)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.MappingVersion != nil {
		t.Fatal("expected mapping vetoed by steward gate")
	}
	// Counters still reflect what the loop produced.
	if res.NewPatterns != 1 {
		t.Fatalf("expected counters computed despite veto, got %d", res.NewPatterns)
	}

	// The assumption draft is unaffected by mapping gate failures: seed a
	// changed assumption set and retry with the gate still failing.
	if _, err := a.Publish(assumption.Draft{
		ID:       uuid.New().String(),
		Defaults: assumption.SeedDefaults(),
		Status:   library.StatusDraft,
	}, "steward"); err != nil {
		t.Fatalf("publish assumption: %v", err)
	}
	active, err := a.ActiveVersion()
	if err != nil || active == nil {
		t.Fatalf("expected assumption active version, err=%v", err)
	}
	if active.Number() != 1 {
		t.Fatalf("expected assumption v1 intact, got %d", active.Number())
	}
}

func TestCoverageEmbeddedInResult(t *testing.T) {
	m := mapping.NewManager(library.NewMemoryStore[mapping.Version]())
	a := assumption.NewManager(library.NewMemoryStore[assumption.Version]())
	bridge := workforce.NewBridgeRefinement()
	bridge.RecordEngagementOverrides("eng-1", []workforce.ClassificationOverride{
		{SectorCode: "F", OccupationCode: "7", OriginalTier: "tier_2", OverrideTier: "tier_1"},
	})
	svc := NewService(m, a, pattern.NewLibrary(), bridge)

	res, err := svc.PublishCycle("steward", time.Time{}, nil, true, nil)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.WorkforceCoverage.TotalCells != 1 || res.WorkforceCoverage.EngagementCount != 1 {
		t.Fatalf("expected coverage embedded, got %+v", res.WorkforceCoverage)
	}
}

func TestFlywheelHealth(t *testing.T) {
	svc, m, _ := newTestService()

	h, err := svc.FlywheelHealth()
	if err != nil {
		t.Fatalf("FlywheelHealth: %v", err)
	}
	if h.MappingVersion != 0 || h.AssumptionVersion != 0 || h.PatternCount != 0 {
		t.Fatalf("expected zero health before publishes, got %+v", h)
	}

	publishMappingV1(t, m, mapping.Entry{ID: "e1", Pattern: "concrete works", SectorCode: "F", Confidence: 0.9})

	h, err = svc.FlywheelHealth()
	if err != nil {
		t.Fatalf("FlywheelHealth: %v", err)
	}
	if h.MappingVersion != 1 {
		t.Fatalf("expected mapping version 1, got %d", h.MappingVersion)
	}
}

func TestConfidenceRescoreForcesRepublication(t *testing.T) {
	svc, m, _ := newTestService()

	publishMappingV1(t, m, mapping.Entry{ID: "e1", Pattern: "concrete works", SectorCode: "F", Confidence: 0.9})

	// One incorrect override against F rescoring e1 to (0.9 + 0)/2 = 0.45.
	loop := learning.NewLoop()
	loop.RecordOverride(override("concrete works", "F", "S01"))

	res, err := svc.PublishCycle("steward", time.Time{}, loop, true, nil)
	if err != nil {
		t.Fatalf("PublishCycle: %v", err)
	}
	if res.MappingVersion == nil {
		t.Fatal("expected confidence change to publish a new version")
	}
	if res.UpdatedPatterns != 1 {
		t.Fatalf("expected 1 updated pattern, got %d", res.UpdatedPatterns)
	}
	got := res.MappingVersion.Entries()[0].Confidence
	if math.Abs(got-0.45) > 1e-9 {
		t.Fatalf("expected rescored confidence 0.45, got %f", got)
	}
}
