package assumption

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/albarami/ImpactOS-sub000/internal/library"
)

// #region manager
// Manager runs the publish workflow for the assumption library and answers
// sector-scoped default lookups against the active version.
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
// BuildDraft assembles a new draft, copying defaults from the base version
// when it exists.
func (m *Manager) BuildDraft(baseVersionID string) (Draft, error) {
	var defaults []Default
	parentVersionID := ""

	if baseVersionID != "" {
		base, err := m.Version(baseVersionID)
		if err != nil {
			return Draft{}, fmt.Errorf("get base version: %w", err)
		}
		if base != nil {
			defaults = base.Defaults()
			parentVersionID = baseVersionID
		}
	}

	return Draft{
		ID:              uuid.New().String(),
		ParentVersionID: parentVersionID,
		Defaults:        defaults,
		Status:          library.StatusDraft,
	}, nil
}
// #endregion build-draft

// #region defaults-for-sector
// DefaultsForSector returns the active version's defaults applicable to a
// sector: sector-specific ones plus economy-wide ones, in stored order.
// A non-empty kind restricts the result to that assumption category.
// Without an active version the result is empty.
func (m *Manager) DefaultsForSector(sectorCode string, kind Kind) ([]Default, error) {
	active, err := m.ActiveVersion()
	if err != nil {
		return nil, fmt.Errorf("get active version: %w", err)
	}
	if active == nil {
		return nil, nil
	}

	var results []Default
	for _, d := range active.Defaults() {
		if d.SectorCode != sectorCode && d.SectorCode != "" {
			continue
		}
		if kind != "" && d.Kind != kind {
			continue
		}
		results = append(results, d)
	}
	return results, nil
}
// #endregion defaults-for-sector
