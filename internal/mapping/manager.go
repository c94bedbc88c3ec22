package mapping

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// minPatternFrequency is how often an override pattern must recur before
// draft assembly proposes it as a library entry.
const minPatternFrequency = 2

// #region manager
// Manager runs the publish workflow for the mapping library and assembles
// drafts from analyst overrides.
type Manager struct {
	*library.Manager[Draft, Version]
}

// NewManager returns a Manager over an empty numbering sequence.
func NewManager(store library.Store[Version]) *Manager {
	return &Manager{library.NewManager(store, hooks())}
}

// ResumeManager returns a Manager that continues numbering from the versions
// already in the store.
func ResumeManager(store library.Store[Version]) (*Manager, error) {
	m, err := library.ResumeManager(store, hooks())
	if err != nil {
		return nil, err
	}
	return &Manager{m}, nil
}

func hooks() library.Hooks[Draft, Version] {
	return library.Hooks[Draft, Version]{
		MakeVersion: newVersion,
		DraftStatus: func(d Draft) library.DraftStatus { return d.Status },
	}
}
// #endregion manager

// #region build-draft
// BuildDraft assembles a new draft. Entries are copied from the base version
// when it exists; with a learning loop, recorded overrides first rescore the
// copied entries and then contribute brand-new patterns. Every mutation is
// reflected in the draft's change log and diff fields.
func (m *Manager) BuildDraft(baseVersionID string, since time.Time, loop LearningLoop) (Draft, error) {
	var entries []Entry
	parentVersionID := ""

	if baseVersionID != "" {
		base, err := m.Version(baseVersionID)
		if err != nil {
			return Draft{}, fmt.Errorf("get base version: %w", err)
		}
		if base != nil {
			entries = base.Entries()
			parentVersionID = baseVersionID
		}
	}

	draft := Draft{
		ID:              uuid.New().String(),
		ParentVersionID: parentVersionID,
		Status:          library.StatusDraft,
	}

	if loop != nil {
		overrides := loop.Overrides(since)

		if len(entries) > 0 {
			updated := loop.UpdateConfidenceScores(overrides, entries)
			for i := range entries {
				if entries[i].Confidence != updated[i].Confidence {
					draft.ChangedEntries = append(draft.ChangedEntries, ChangedEntry{
						EntryID:  updated[i].ID,
						Field:    "confidence",
						OldValue: entries[i].Confidence,
						NewValue: updated[i].Confidence,
					})
					draft.ChangeLog = append(draft.ChangeLog, fmt.Sprintf(
						"Updated confidence for %s: %.3f -> %.3f",
						updated[i].Pattern, entries[i].Confidence, updated[i].Confidence,
					))
				}
			}
			entries = updated
		}

		for _, e := range loop.ExtractNewPatterns(overrides, entries, minPatternFrequency) {
			entries = append(entries, e)
			draft.AddedEntryIDs = append(draft.AddedEntryIDs, e.ID)
			draft.ChangeLog = append(draft.ChangeLog, fmt.Sprintf(
				"Added new pattern: %s -> %s", e.Pattern, e.SectorCode,
			))
		}
	}

	draft.Entries = entries
	return draft, nil
}
// #endregion build-draft
