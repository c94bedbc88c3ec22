package pattern

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

// mergeSimilarityThreshold is the cosine similarity a same-type pattern must
// exceed (strictly) before an observation merges into it.
const mergeSimilarityThreshold = 0.8

// #region library
// Library is the flat, unversioned scenario pattern collection. Unlike the
// mapping and assumption libraries it has no publish cycle: patterns evolve
// continuously through rolling-average merges.
type Library struct {
	patterns []*ScenarioPattern
}

// NewLibrary returns an empty library.
func NewLibrary() *Library { return &Library{} }

// NewLibraryWith returns a library seeded with existing patterns, keeping
// their order.
func NewLibraryWith(patterns []*ScenarioPattern) *Library {
	return &Library{patterns: patterns}
}

// Len returns the number of patterns in the library.
func (l *Library) Len() int { return len(l.patterns) }
// #endregion library

// #region find
// Find returns the live patterns matching the optional filters. Empty
// filters match everything.
func (l *Library) Find(projectType, sectorFocus string) []*ScenarioPattern {
	var results []*ScenarioPattern
	for _, p := range l.patterns {
		if projectType != "" && p.ProjectType != projectType {
			continue
		}
		if sectorFocus != "" && p.SectorFocus != sectorFocus {
			continue
		}
		results = append(results, p)
	}
	return results
}
// #endregion find

// #region record
// Record folds one engagement's scenario evidence into the library. When the
// closest same-type pattern is strictly more similar than the merge
// threshold, the observation merges into it; otherwise a new pattern is
// created with engagement count 1 and low confidence.
func (l *Library) Record(obs Observation) *ScenarioPattern {
	var best *ScenarioPattern
	bestSim := 0.0

	for _, p := range l.patterns {
		if p.ProjectType != obs.ProjectType {
			continue
		}
		if sim := Cosine(p.TypicalSectorShares, obs.SectorShares); sim > bestSim {
			bestSim = sim
			best = p
		}
	}

	if best != nil && bestSim > mergeSimilarityThreshold {
		return l.merge(best, obs, bestSim)
	}

	name := obs.Name
	if name == "" {
		name = obs.ProjectType + " pattern"
	}
	shares := make(map[string]float64, len(obs.SectorShares))
	for k, v := range obs.SectorShares {
		shares[k] = v
	}

	p := &ScenarioPattern{
		ID:                        uuid.New().String(),
		Name:                      name,
		Description:               fmt.Sprintf("Pattern extracted from engagement %s", obs.EngagementID),
		TypicalSectorShares:       shares,
		ProjectType:               obs.ProjectType,
		EngagementCount:           1,
		Confidence:                "low",
		TypicalImportShare:        cloneFloat(obs.ImportShare),
		TypicalLocalContent:       cloneFloat(obs.LocalContent),
		TypicalDurationYears:      cloneInt(obs.DurationYears),
		ContributingEngagementIDs: []string{obs.EngagementID},
		ContributingScenarioIDs:   []string{obs.ScenarioID},
	}
	l.patterns = append(l.patterns, p)
	return p
}
// #endregion record

// #region merge
// merge blends an observation into an existing pattern with the rolling
// average (old*count + new) / (count+1), then updates lineage, merge history
// and the confidence ladder. Confidence only ever moves up.
func (l *Library) merge(existing *ScenarioPattern, obs Observation, similarity float64) *ScenarioPattern {
	count := existing.EngagementCount

	merged := make(map[string]float64, len(existing.TypicalSectorShares)+len(obs.SectorShares))
	for k, v := range existing.TypicalSectorShares {
		merged[k] = (v*float64(count) + obs.SectorShares[k]) / float64(count+1)
	}
	for k, v := range obs.SectorShares {
		if _, ok := existing.TypicalSectorShares[k]; !ok {
			merged[k] = v / float64(count+1)
		}
	}
	existing.TypicalSectorShares = merged

	if obs.ImportShare != nil {
		if existing.TypicalImportShare != nil {
			blended := (*existing.TypicalImportShare*float64(count) + *obs.ImportShare) / float64(count+1)
			existing.TypicalImportShare = &blended
		} else {
			existing.TypicalImportShare = cloneFloat(obs.ImportShare)
		}
	}

	if obs.LocalContent != nil {
		if existing.TypicalLocalContent != nil {
			blended := (*existing.TypicalLocalContent*float64(count) + *obs.LocalContent) / float64(count+1)
			existing.TypicalLocalContent = &blended
		} else {
			existing.TypicalLocalContent = cloneFloat(obs.LocalContent)
		}
	}

	if obs.DurationYears != nil {
		if existing.TypicalDurationYears != nil {
			blended := (float64(*existing.TypicalDurationYears)*float64(count) + float64(*obs.DurationYears)) / float64(count+1)
			rounded := int(math.Round(blended))
			existing.TypicalDurationYears = &rounded
		} else {
			existing.TypicalDurationYears = cloneInt(obs.DurationYears)
		}
	}

	now := time.Now().UTC()
	existing.EngagementCount = count + 1
	existing.ContributingEngagementIDs = append(existing.ContributingEngagementIDs, obs.EngagementID)
	existing.ContributingScenarioIDs = append(existing.ContributingScenarioIDs, obs.ScenarioID)
	existing.LastUsedAt = &now

	existing.MergeHistory = append(existing.MergeHistory, MergeEvent{
		MergedFrom:      obs.EngagementID,
		SimilarityScore: similarity,
		Date:            now,
	})

	if existing.EngagementCount >= 5 {
		existing.Confidence = "high"
	} else if existing.EngagementCount >= 3 {
		existing.Confidence = "medium"
	}

	return existing
}
// #endregion merge

// #region suggest
// SuggestTemplate returns the most-engaged pattern for a project type, or
// nil when the type has no patterns yet. Ties keep the earliest pattern.
func (l *Library) SuggestTemplate(projectType string) *ScenarioPattern {
	var best *ScenarioPattern
	for _, p := range l.patterns {
		if p.ProjectType != projectType {
			continue
		}
		if best == nil || p.EngagementCount > best.EngagementCount {
			best = p
		}
	}
	return best
}
// #endregion suggest

// #region cosine
// Cosine computes the cosine similarity of two sparse share vectors.
// Missing keys contribute zero. Empty or zero-magnitude vectors yield 0.
func Cosine(a, b map[string]float64) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	var dot float64
	for k, av := range a {
		dot += av * b[k]
	}

	var magA, magB float64
	for _, v := range a {
		magA += v * v
	}
	for _, v := range b {
		magB += v * v
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
// #endregion cosine

// #region clone-helpers
func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
// #endregion clone-helpers
