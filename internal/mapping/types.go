package mapping

import (
	"time"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// #region entry
// Entry is a reusable mapping pattern: procurement text to an ISIC sector code.
type Entry struct {
	ID         string    `json:"entry_id"`
	Pattern    string    `json:"pattern"`
	SectorCode string    `json:"sector_code"`
	Confidence float64   `json:"confidence"` // [0, 1]
	UsageCount int       `json:"usage_count"`
	CreatedAt  time.Time `json:"created_at"`
}
// #endregion entry

// #region override
// Override is one analyst correction: the sector the system suggested for a
// procurement line item versus the sector the analyst finally chose.
type Override struct {
	ID                  string    `json:"override_id"`
	EngagementID        string    `json:"engagement_id"`
	LineItemID          string    `json:"line_item_id"`
	LineItemText        string    `json:"line_item_text"`
	SuggestedSectorCode string    `json:"suggested_sector_code"`
	FinalSectorCode     string    `json:"final_sector_code"`
	ProjectType         string    `json:"project_type,omitempty"`
	Actor               string    `json:"actor,omitempty"`
	RecordedAt          time.Time `json:"recorded_at"`
}

// WasCorrect reports whether the suggestion was accepted unchanged.
func (o Override) WasCorrect() bool {
	return o.SuggestedSectorCode == o.FinalSectorCode
}
// #endregion override

// #region changed-entry
// ChangedEntry records one field-level change between a draft and its parent.
type ChangedEntry struct {
	EntryID  string  `json:"entry_id"`
	Field    string  `json:"field"` // currently always "confidence"
	OldValue float64 `json:"old_value"`
	NewValue float64 `json:"new_value"`
}
// #endregion changed-entry

// #region draft
// Draft is a mutable mapping library draft. It tracks what changed relative
// to its parent version for audit purposes.
type Draft struct {
	ID              string              `json:"draft_id"`
	ParentVersionID string              `json:"parent_version_id,omitempty"`
	Entries         []Entry             `json:"entries"`
	Status          library.DraftStatus `json:"status"`
	ChangeLog       []string            `json:"changes_from_parent,omitempty"`
	AddedEntryIDs   []string            `json:"added_entry_ids,omitempty"`
	RemovedEntryIDs []string            `json:"removed_entry_ids,omitempty"`
	ChangedEntries  []ChangedEntry      `json:"changed_entries,omitempty"`
}
// #endregion draft

// #region learning-loop
// LearningLoop supplies recorded analyst overrides and the refinements the
// mapping library derives from them during draft assembly.
type LearningLoop interface {
	// Overrides returns overrides recorded at or after since.
	// The zero time returns everything.
	Overrides(since time.Time) []Override
	// UpdateConfidenceScores returns a new entry slice with confidences
	// blended against override accuracy. Input entries are not modified.
	UpdateConfidenceScores(overrides []Override, entries []Entry) []Entry
	// ExtractNewPatterns proposes entries for recurring overrides that are
	// not yet in the library.
	ExtractNewPatterns(overrides []Override, existing []Entry, minFrequency int) []Entry
}
// #endregion learning-loop
