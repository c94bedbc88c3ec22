package learning

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/mapping"
)

// projectTypeBoost is added to an example's relevance score when its project
// type matches the query's.
const projectTypeBoost = 0.2

// #region metrics
// AccuracyMetrics summarises suggestion quality over a set of overrides.
type AccuracyMetrics struct {
	Total     int
	Correct   int
	Incorrect int
}

// Accuracy returns the correct fraction, or 0 when no overrides exist.
func (m AccuracyMetrics) Accuracy() float64 {
	if m.Total == 0 {
		return 0
	}
	return float64(m.Correct) / float64(m.Total)
}
// #endregion metrics

// #region loop
// Loop accumulates analyst override pairs (suggested sector vs final sector)
// and turns them into training signal for the mapping library: confidence
// rescoring, new pattern proposals, and few-shot retrieval of relevant past
// corrections.
type Loop struct {
	overrides []mapping.Override
	tokens    [][]string // parallel to overrides
}

// NewLoop returns an empty learning loop.
func NewLoop() *Loop { return &Loop{} }

// RecordOverride stores one analyst correction. A missing id or timestamp is
// filled in at record time.
func (l *Loop) RecordOverride(o mapping.Override) {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	if o.RecordedAt.IsZero() {
		o.RecordedAt = time.Now().UTC()
	}
	l.overrides = append(l.overrides, o)
	l.tokens = append(l.tokens, tokenize(o.LineItemText))
}

// TotalOverrides returns the number of recorded overrides.
func (l *Loop) TotalOverrides() int { return len(l.overrides) }

// Overrides returns the overrides recorded at or after since, in record
// order. The zero time returns everything.
func (l *Loop) Overrides(since time.Time) []mapping.Override {
	if since.IsZero() {
		return append([]mapping.Override(nil), l.overrides...)
	}
	var out []mapping.Override
	for _, o := range l.overrides {
		if !o.RecordedAt.Before(since) {
			out = append(out, o)
		}
	}
	return out
}
// #endregion loop

// #region retrieval
// RelevantExamples returns the topK recorded overrides most relevant to the
// given text, scored by the fraction of an override's tokens shared with the
// query, with a fixed boost for a matching project type. An empty projectType
// disables the boost.
func (l *Loop) RelevantExamples(text string, topK int, projectType string) []mapping.Override {
	queryTokens := tokenize(text)
	if len(queryTokens) == 0 {
		return nil
	}

	type scored struct {
		override mapping.Override
		score    float64
	}
	var candidates []scored
	for i, o := range l.overrides {
		if len(l.tokens[i]) == 0 {
			continue
		}
		score := float64(sharedTokens(queryTokens, l.tokens[i])) / float64(len(l.tokens[i]))
		if projectType != "" && o.ProjectType == projectType {
			score += projectTypeBoost
		}
		if score > 0 {
			candidates = append(candidates, scored{o, score})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].score > candidates[j].score
	})

	if topK > len(candidates) {
		topK = len(candidates)
	}
	out := make([]mapping.Override, 0, topK)
	for _, c := range candidates[:topK] {
		out = append(out, c.override)
	}
	return out
}
// #endregion retrieval

// #region accuracy
// Accuracy computes overall suggestion accuracy across all overrides.
func (l *Loop) Accuracy() AccuracyMetrics {
	return groupMetrics(l.overrides)
}

// AccuracyBySector computes accuracy broken down by suggested sector.
func (l *Loop) AccuracyBySector() map[string]AccuracyMetrics {
	bySector := make(map[string][]mapping.Override)
	for _, o := range l.overrides {
		bySector[o.SuggestedSectorCode] = append(bySector[o.SuggestedSectorCode], o)
	}
	out := make(map[string]AccuracyMetrics, len(bySector))
	for sector, group := range bySector {
		out[sector] = groupMetrics(group)
	}
	return out
}

func groupMetrics(overrides []mapping.Override) AccuracyMetrics {
	m := AccuracyMetrics{Total: len(overrides)}
	for _, o := range overrides {
		if o.WasCorrect() {
			m.Correct++
		}
	}
	m.Incorrect = m.Total - m.Correct
	return m
}
// #endregion accuracy

// #region extract
// ExtractNewPatterns proposes mapping entries from recurring overrides.
// Overrides are grouped by final sector; a group recurring at least
// minFrequency times contributes one entry whose pattern is the group's most
// common line item text and whose confidence is the group's correct fraction.
// A (pattern, sector) pair already present in existing is skipped.
func (l *Loop) ExtractNewPatterns(overrides []mapping.Override, existing []mapping.Entry, minFrequency int) []mapping.Entry {
	if len(overrides) == 0 {
		return nil
	}

	existingKeys := make(map[[2]string]bool, len(existing))
	for _, e := range existing {
		existingKeys[[2]string{e.Pattern, e.SectorCode}] = true
	}

	// Group by final sector, keeping first-seen sector order so the proposed
	// entries come out deterministically.
	bySector := make(map[string][]mapping.Override)
	var sectorOrder []string
	for _, o := range overrides {
		if _, ok := bySector[o.FinalSectorCode]; !ok {
			sectorOrder = append(sectorOrder, o.FinalSectorCode)
		}
		bySector[o.FinalSectorCode] = append(bySector[o.FinalSectorCode], o)
	}

	var entries []mapping.Entry
	for _, sector := range sectorOrder {
		group := bySector[sector]
		if len(group) < minFrequency {
			continue
		}

		pattern := mostCommonText(group)
		if existingKeys[[2]string{pattern, sector}] {
			continue
		}

		correct := 0
		for _, o := range group {
			if o.WasCorrect() {
				correct++
			}
		}

		entries = append(entries, mapping.Entry{
			ID:         uuid.New().String(),
			Pattern:    pattern,
			SectorCode: sector,
			Confidence: float64(correct) / float64(len(group)),
			CreatedAt:  time.Now().UTC(),
		})
	}
	return entries
}

// mostCommonText returns the most frequent line item text in a group, ties
// broken by first occurrence.
func mostCommonText(group []mapping.Override) string {
	counts := make(map[string]int)
	best := ""
	bestCount := 0
	for _, o := range group {
		counts[o.LineItemText]++
		if counts[o.LineItemText] > bestCount {
			best = o.LineItemText
			bestCount = counts[o.LineItemText]
		}
	}
	return best
}
// #endregion extract

// #region rescore
// UpdateConfidenceScores returns a new entry slice with confidences blended
// against override accuracy: an entry whose sector was suggested at least
// once gets (old + accuracy) / 2, others are copied unchanged. The input
// slice is never modified.
func (l *Loop) UpdateConfidenceScores(overrides []mapping.Override, entries []mapping.Entry) []mapping.Entry {
	bySuggested := make(map[string][]mapping.Override)
	for _, o := range overrides {
		bySuggested[o.SuggestedSectorCode] = append(bySuggested[o.SuggestedSectorCode], o)
	}

	updated := make([]mapping.Entry, len(entries))
	for i, e := range entries {
		relevant := bySuggested[e.SectorCode]
		if len(relevant) > 0 {
			correct := 0
			for _, o := range relevant {
				if o.WasCorrect() {
					correct++
				}
			}
			accuracy := float64(correct) / float64(len(relevant))
			e.Confidence = (e.Confidence + accuracy) / 2
		}
		updated[i] = e
	}
	return updated
}
// #endregion rescore
