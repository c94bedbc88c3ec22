package replay

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/albarami/ImpactOS-sub000/internal/assumption"
	"github.com/albarami/ImpactOS-sub000/internal/mapping"
	"github.com/albarami/ImpactOS-sub000/internal/publication"
)

// #region fixture-types

// Fixture is the top-level JSON structure for a publication replay fixture:
// a starting library state, an optional gate configuration, and a sequence
// of override batches to publish cycle by cycle.
type Fixture struct {
	Description string            `json:"description"`
	Start       FixtureStart      `json:"start"`
	Gate        *FixtureGate      `json:"gate,omitempty"`
	Cycles      []FixtureCycle    `json:"cycles"`
	Expected    []FixtureExpected `json:"expected_results,omitempty"`
}

// FixtureStart seeds the libraries before the first cycle. Non-empty entry
// or default sets are published as version 1 of their library.
type FixtureStart struct {
	MappingEntries     []mapping.Entry      `json:"mapping_entries,omitempty"`
	AssumptionDefaults []assumption.Default `json:"assumption_defaults,omitempty"`
}

// FixtureGate mirrors publication.QualityGate with JSON tags.
type FixtureGate struct {
	RequireStewardReview bool `json:"require_steward_review"`
	DuplicateCheck       bool `json:"duplicate_check"`
	ConflictCheck        bool `json:"conflict_check"`
	MinOverrideFrequency int  `json:"min_override_frequency"`
}

// FixtureCycle is one publication cycle: the overrides recorded since the
// previous cycle and the review state the cycle runs under.
type FixtureCycle struct {
	PublishedBy     string             `json:"published_by"`
	StewardApproved bool               `json:"steward_approved"`
	Overrides       []mapping.Override `json:"overrides,omitempty"`
}

// FixtureExpected captures the expected published version numbers per cycle.
// 0 means that library was not expected to publish.
type FixtureExpected struct {
	MappingVersion    int `json:"mapping_version"`
	AssumptionVersion int `json:"assumption_version"`
}

// #endregion fixture-types

// #region fixture-loader

// LoadFixture reads and parses a JSON fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", path, err)
	}
	var f Fixture
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture %s: %w", path, err)
	}
	return &f, nil
}

// ToQualityGate converts a FixtureGate to a domain gate.
func (g *FixtureGate) ToQualityGate() publication.QualityGate {
	return publication.QualityGate{
		RequireStewardReview: g.RequireStewardReview,
		DuplicateCheck:       g.DuplicateCheck,
		ConflictCheck:        g.ConflictCheck,
		MinOverrideFrequency: g.MinOverrideFrequency,
	}
}

// #endregion fixture-loader
